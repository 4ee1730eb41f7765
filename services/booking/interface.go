package booking

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	bookingRepo "pawsit/database/repository/booking"
	directoryRepo "pawsit/database/repository/directory"
	"pawsit/models"
)

// BookingService defines the booking lifecycle engine exposed to route
// handlers. Every operation returns either the updated booking or a typed
// *Error the caller maps to a transport status.
type BookingService interface {
	CreateBooking(ctx context.Context, ownerUserID string, req models.CreateBookingRequest) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetOwnerBookings(ctx context.Context, userID string) ([]models.Booking, error)
	GetSitterBookings(ctx context.Context, userID string) ([]models.Booking, error)
	RequestTransition(ctx context.Context, bookingID, actorUserID string, target models.BookingStatus) (*models.Booking, error)
	UpdateBookingDetails(ctx context.Context, bookingID, actorUserID string, req models.UpdateBookingRequest) (*models.Booking, error)
	CreateCheckoutSession(ctx context.Context, bookingID, actorUserID string) (string, error)
	ReconcilePayment(ctx context.Context, n models.PaymentNotification) (*models.Booking, error)
}

// DefaultBookingService implements BookingService. All booking writes funnel
// through here; no other component mutates a booking directly.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Directory directoryRepo.DirectoryRepository
	// Cache is an optional dedup fast-path for payment reconciliation.
	// Durable idempotency lives in the repository either way.
	Cache  *redis.Client
	Logger *zap.Logger
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}
