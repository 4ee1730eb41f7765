package booking

import "pawsit/models"

// ResolveRole determines the actor's relationship to a booking from the
// denormalized participant identities. It returns ("", false) for a stranger.
func ResolveRole(b *models.Booking, actorUserID string) (Role, bool) {
	switch actorUserID {
	case b.OwnerUserID:
		return RoleOwner, true
	case b.SitterUserID:
		return RoleSitter, true
	default:
		return "", false
	}
}

// EvaluateTransitionPermission decides whether the actor may request the
// given transition on the booking. It is a pure function of the booking
// snapshot, the actor identity, and the requested target.
//
// A participant requesting a transition that is not defined for the current
// status passes here; the state machine rejects it with the precise
// invalid-transition or terminal-state reason.
func EvaluateTransitionPermission(b *models.Booking, actorUserID string, target models.BookingStatus) error {
	role, ok := ResolveRole(b, actorUserID)
	if !ok {
		return NewNotParticipantError()
	}

	roles, defined := RolesFor(b.Status, target)
	if !defined {
		return nil
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return NewWrongRoleError(role, target)
}
