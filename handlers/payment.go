package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"pawsit/config"
	"pawsit/models"
	"pawsit/services/booking"
)

const maxWebhookBodyBytes = 65536

// PaymentHandler receives payment-provider webhooks and feeds them into the
// reconciliation engine.
type PaymentHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc booking.BookingService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Logger: logger}
}

// StripeWebhook handles POST /api/webhooks/stripe.
//
// Unrecoverable mismatches (missing metadata, unknown booking) are
// acknowledged with 200 so Stripe stops retrying; transient persistence
// failures return 500 so it retries.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		h.Logger.Warn("stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if event.Type != "checkout.session.completed" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		h.Logger.Error("failed to parse checkout session from webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	bookingID := session.Metadata["bookingId"]
	if bookingID == "" {
		h.Logger.Error("stripe webhook missing bookingId metadata", zap.String("sessionID", session.ID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	outcome := models.PaymentOutcomeFailed
	if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		outcome = models.PaymentOutcomePaid
	}
	providerRef := ""
	if session.PaymentIntent != nil {
		providerRef = session.PaymentIntent.ID
	}

	notification := models.PaymentNotification{
		BookingID:        bookingID,
		Outcome:          outcome,
		IdempotencyToken: session.ID,
		ProviderRef:      providerRef,
	}

	if _, err := h.Service.ReconcilePayment(c.Request.Context(), notification); err != nil {
		if booking.CodeOf(err) != "" {
			// Malformed or mismatched notification: acknowledge so the
			// provider does not retry forever.
			h.Logger.Warn("unrecoverable payment notification, acknowledging",
				zap.String("bookingID", bookingID), zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		h.Logger.Error("payment reconciliation failed", zap.String("bookingID", bookingID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
