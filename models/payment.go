package models

// PaymentOutcome is the result reported by the payment provider.
type PaymentOutcome string

const (
	PaymentOutcomePaid   PaymentOutcome = "paid"
	PaymentOutcomeFailed PaymentOutcome = "failed"
)

// PaymentNotification is a provider webhook event reduced to what the booking
// engine needs. IdempotencyToken is the provider's checkout session id;
// replaying a notification with the same token is a no-op.
type PaymentNotification struct {
	BookingID        string         `json:"bookingId"`
	Outcome          PaymentOutcome `json:"outcome"`
	IdempotencyToken string         `json:"idempotencyToken"`
	ProviderRef      string         `json:"providerRef,omitempty"`
}
