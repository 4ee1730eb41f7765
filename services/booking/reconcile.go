package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "pawsit/database/repository/booking"
	"pawsit/models"
)

// Replayed provider notifications are remembered this long on the dedup
// fast-path. The durable guard is the idempotency token stored on the
// booking document itself.
const reconcileDedupTTL = 24 * time.Hour

// ReconcilePayment applies an asynchronous payment-confirmation notification
// to a booking. It only touches the payment axis; the workflow status is
// never altered here.
//
// The operation is idempotent per notification token: a replay is a no-op
// that returns the already-reconciled booking. A notification referencing an
// unknown booking is logged and acknowledged as (nil, nil) so the provider
// stops retrying an unrecoverable mismatch; transient persistence failures
// propagate for retry.
func (s *DefaultBookingService) ReconcilePayment(ctx context.Context, n models.PaymentNotification) (*models.Booking, error) {
	if n.BookingID == "" {
		return nil, NewInvalidInputError("payment notification missing booking id")
	}
	if n.IdempotencyToken == "" {
		return nil, NewInvalidInputError("payment notification missing idempotency token")
	}

	var status models.PaymentStatus
	switch n.Outcome {
	case models.PaymentOutcomePaid:
		status = models.PaymentPaid
	case models.PaymentOutcomeFailed:
		status = models.PaymentFailed
	default:
		return nil, NewInvalidInputError("payment notification outcome must be paid or failed")
	}

	// Fast-path dedup: a token seen within the TTL short-circuits to the
	// stored booking, but only once the booking actually carries the token.
	// A token marked seen whose durable write failed (the provider is
	// retrying a 500) must fall through to the durable update, or the retry
	// would be acknowledged without the payment ever landing.
	if s.Cache != nil {
		set, err := s.Cache.SetNX(ctx, "payment:seen:"+n.IdempotencyToken, n.BookingID, reconcileDedupTTL).Result()
		if err == nil && !set {
			b, getErr := s.Repo.GetByID(ctx, n.BookingID)
			if getErr == nil && b.StripeSessionID == n.IdempotencyToken {
				return b, nil
			}
		}
	}

	updated, err := s.Repo.UpdatePayment(ctx, n.BookingID, status, n.ProviderRef, n.IdempotencyToken)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrAlreadyApplied) {
			s.logger().Info("payment notification replayed, no-op",
				zap.String("bookingID", n.BookingID),
				zap.String("token", n.IdempotencyToken),
			)
			return updated, nil
		}
		if errors.Is(err, bookingRepo.ErrNotFound) {
			s.logger().Warn("payment notification for unknown booking, acknowledging",
				zap.String("bookingID", n.BookingID),
				zap.String("token", n.IdempotencyToken),
			)
			return nil, nil
		}
		return nil, err
	}

	s.logger().Info("payment reconciled",
		zap.String("bookingID", n.BookingID),
		zap.String("paymentStatus", string(status)),
		zap.String("providerRef", n.ProviderRef),
	)
	return updated, nil
}
