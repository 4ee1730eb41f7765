package booking

import "pawsit/models"

// Role identifies an actor's relationship to a booking.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleSitter Role = "sitter"
)

// transition is a (from, to) pair in the workflow graph.
type transition struct {
	From models.BookingStatus
	To   models.BookingStatus
}

// allowedRoles defines the valid workflow transitions and which role may
// initiate each. The payment status axis is deliberately absent: it is
// orthogonal to this graph.
var allowedRoles = map[transition][]Role{
	{models.BookingPending, models.BookingConfirmed}:   {RoleSitter},
	{models.BookingPending, models.BookingCancelled}:   {RoleOwner, RoleSitter},
	{models.BookingConfirmed, models.BookingCompleted}: {RoleSitter},
	{models.BookingConfirmed, models.BookingCancelled}: {RoleOwner, RoleSitter},
}

// IsTerminal reports whether no transition leads out of the given status.
func IsTerminal(status models.BookingStatus) bool {
	return status == models.BookingCompleted || status == models.BookingCancelled
}

// RolesFor returns the roles allowed to initiate the given transition, and
// whether the transition is defined at all.
func RolesFor(from, to models.BookingStatus) ([]Role, bool) {
	roles, ok := allowedRoles[transition{From: from, To: to}]
	return roles, ok
}

// ValidateTransition checks a requested transition against the booking's
// current status. Terminal states reject everything; any (from, to) pair
// missing from the table is invalid.
func ValidateTransition(from, to models.BookingStatus) error {
	if IsTerminal(from) {
		return NewTerminalStateError(from)
	}
	if _, ok := RolesFor(from, to); !ok {
		return NewInvalidTransitionError(from, to)
	}
	return nil
}
