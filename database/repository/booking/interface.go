package bookingRepo

import (
	"context"
	"errors"
	"time"

	"pawsit/models"
)

// Sentinel errors surfaced by the repository. The service layer maps them to
// its own typed errors; transient driver errors pass through wrapped.
var (
	// ErrNotFound means no booking with the given id exists.
	ErrNotFound = errors.New("booking not found")
	// ErrStatusConflict means the conditional status update matched no
	// document because the stored status no longer equals the expected one.
	ErrStatusConflict = errors.New("booking status conflict")
	// ErrAlreadyApplied means a payment update carrying an idempotency token
	// that was already recorded for this booking.
	ErrAlreadyApplied = errors.New("payment already applied")
)

// DetailsUpdate carries the owner-editable fields for a conditional detail
// update. Nil fields are left untouched.
type DetailsUpdate struct {
	Notes     *string
	StartDate *time.Time
	EndDate   *time.Time
	PetIDs    []string
}

// BookingRepository defines the interface for booking data access.
//
// UpdateStatus and UpdateDetails are compare-and-swap style: they only write
// when the stored status still equals the expected one, so two concurrent
// writers cannot both succeed off a stale read.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]models.Booking, error)
	GetBySitterID(ctx context.Context, sitterID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error)
	UpdateDetails(ctx context.Context, id string, expected models.BookingStatus, upd DetailsUpdate) (*models.Booking, error)
	UpdatePayment(ctx context.Context, id string, status models.PaymentStatus, providerRef, idempotencyToken string) (*models.Booking, error)
}
