package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the workflow state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// PaymentStatus tracks monetary settlement independently of the workflow status.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
	PaymentFailed PaymentStatus = "FAILED"
)

// Booking represents a time-bounded pet-sitting engagement between one owner
// and one sitter covering one or more pets.
type Booking struct {
	ID           string   `json:"id"`       // Unique booking identifier (UUID)
	OwnerID      string   `json:"ownerId"`  // Owner profile who requested the booking
	SitterID     string   `json:"sitterId"` // Sitter profile who fulfils it
	OwnerUserID  string   `json:"ownerUserId"`
	SitterUserID string   `json:"sitterUserId"`
	PetIDs       []string `json:"petIds"` // Pets covered, all owned by OwnerID

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Notes     string    `json:"notes,omitempty"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	// Price is fixed at creation from the sitter's hourly rate and the booked
	// span. Later date edits do not recompute it.
	Price decimal.Decimal `json:"price"`

	StripeSessionID       string `json:"stripeSessionId,omitempty"`
	StripePaymentIntentID string `json:"stripePaymentIntentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateBookingRequest is the payload for creating a new booking.
type CreateBookingRequest struct {
	SitterID  string    `json:"sitterId"`
	PetIDs    []string  `json:"petIds"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Notes     string    `json:"notes"`
}

// UpdateBookingRequest carries the owner-editable booking details. Nil fields
// are left untouched.
type UpdateBookingRequest struct {
	Notes     *string    `json:"notes"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	PetIDs    []string   `json:"petIds"`
}
