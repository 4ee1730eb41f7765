package booking

import (
	"errors"
	"fmt"
	"strings"

	"pawsit/models"
)

// Stable machine-readable error codes. The HTTP layer maps these to status
// codes; the service itself never constructs transport responses.
const (
	CodeInvalidInput      = "invalidInput"
	CodeInvalidDateRange  = "invalidDateRange"
	CodePetOwnership      = "petOwnership"
	CodeNotFound          = "notFound"
	CodeNotParticipant    = "notParticipant"
	CodeWrongRole         = "wrongRole"
	CodeInvalidTransition = "invalidTransition"
	CodeTerminalState     = "terminalState"
	CodeEditNotAllowed    = "editNotAllowed"
)

// Error is a typed booking-engine failure with a stable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidInputError(msg string) error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}

func NewInvalidDateRangeError() error {
	return &Error{Code: CodeInvalidDateRange, Message: "end date must be after start date"}
}

func NewPetOwnershipError(petIDs []string) error {
	return &Error{
		Code:    CodePetOwnership,
		Message: fmt.Sprintf("pets not found or not owned by requester: %s", strings.Join(petIDs, ", ")),
	}
}

func NewNotFoundError(what, id string) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", what, id)}
}

func NewNotParticipantError() error {
	return &Error{Code: CodeNotParticipant, Message: "actor is not a participant of this booking"}
}

func NewWrongRoleError(role Role, target models.BookingStatus) error {
	return &Error{
		Code:    CodeWrongRole,
		Message: fmt.Sprintf("role %s may not request transition to %s", role, target),
	}
}

func NewInvalidTransitionError(from, to models.BookingStatus) error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to),
	}
}

func NewTerminalStateError(status models.BookingStatus) error {
	return &Error{
		Code:    CodeTerminalState,
		Message: fmt.Sprintf("booking is in terminal status %s", status),
	}
}

func NewEditNotAllowedError(msg string) error {
	return &Error{Code: CodeEditNotAllowed, Message: msg}
}

// CodeOf returns the stable code carried by err, or "" if err is not a
// booking-engine error.
func CodeOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsAuthorizationError reports whether err is a permission denial.
func IsAuthorizationError(err error) bool {
	code := CodeOf(err)
	return code == CodeNotParticipant || code == CodeWrongRole
}
