package booking

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"

	"pawsit/config"
	"pawsit/models"
)

// CreateCheckoutSession opens a Stripe Checkout Session for the booking's
// fixed price. Only the booking owner may pay; the booking id travels in the
// session metadata so the webhook can reconcile the outcome later.
func (s *DefaultBookingService) CreateCheckoutSession(ctx context.Context, bookingID, actorUserID string) (string, error) {
	b, err := s.GetBookingByID(ctx, bookingID)
	if err != nil {
		return "", err
	}

	role, ok := ResolveRole(b, actorUserID)
	if !ok {
		return "", NewNotParticipantError()
	}
	if role != RoleOwner {
		return "", NewEditNotAllowedError("only the booking owner may pay for a booking")
	}
	if b.PaymentStatus == models.PaymentPaid {
		return "", NewInvalidInputError("booking is already paid")
	}
	if b.Status == models.BookingCancelled {
		return "", NewInvalidInputError("cannot pay for a cancelled booking")
	}

	amountInCents := b.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	siteURL := config.AppConfig.SiteURL

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Pet Sitting Booking"),
						Description: stripe.String(fmt.Sprintf(
							"Booking from %s to %s",
							b.StartDate.Format("2006-01-02"),
							b.EndDate.Format("2006-01-02"),
						)),
					},
					UnitAmount: stripe.Int64(amountInCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/bookings/%s?payment_status=success", siteURL, bookingID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/bookings/%s?payment_status=canceled", siteURL, bookingID)),
	}
	params.AddMetadata("bookingId", b.ID)
	params.AddMetadata("userId", actorUserID)

	checkoutSession, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger().Info("checkout session created",
		zap.String("bookingID", bookingID),
		zap.String("sessionID", checkoutSession.ID),
		zap.Int64("amountInCents", amountInCents),
	)
	return checkoutSession.ID, nil
}
