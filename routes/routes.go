package routes

import (
	"github.com/gin-gonic/gin"

	"pawsit/handlers"
	"pawsit/middleware"
)

// RegisterRoutes registers all endpoints of the booking engine.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler, paymentHandler *handlers.PaymentHandler) {
	registerBookingRoutes(r, bookingHandler)

	// Provider webhooks authenticate via signature verification, not JWT.
	r.POST("/api/webhooks/stripe", paymentHandler.StripeWebhook)
}

// registerBookingRoutes registers the authenticated booking endpoints.
func registerBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	bookings := r.Group("/api/bookings")
	bookings.Use(middleware.JWTAuthMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/owner", h.GetOwnerBookings)
		bookings.GET("/sitter", h.GetSitterBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.UpdateBooking)
		bookings.POST("/:id/transition", h.RequestTransition)
		bookings.POST("/:id/checkout", h.CreateCheckoutSession)
	}
}
