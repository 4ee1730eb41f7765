package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawsit/models"
	"pawsit/services/booking"
	"pawsit/utils"
)

// BookingHandler exposes the booking lifecycle engine over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// statusForCode maps the engine's stable error codes to HTTP statuses. The
// mapping lives only here; the service layer stays transport-agnostic.
var statusForCode = map[string]int{
	booking.CodeInvalidInput:      http.StatusBadRequest,
	booking.CodeInvalidDateRange:  http.StatusBadRequest,
	booking.CodePetOwnership:      http.StatusForbidden,
	booking.CodeNotFound:          http.StatusNotFound,
	booking.CodeNotParticipant:    http.StatusForbidden,
	booking.CodeWrongRole:         http.StatusForbidden,
	booking.CodeInvalidTransition: http.StatusConflict,
	booking.CodeTerminalState:     http.StatusConflict,
	booking.CodeEditNotAllowed:    http.StatusForbidden,
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	if code := booking.CodeOf(err); code != "" {
		c.JSON(statusForCode[code], utils.ErrorResponse{Message: err.Error(), Code: code})
		return
	}
	h.Logger.Error("booking operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Message: "internal server error"})
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBooking handles GET /api/bookings/:id. Only participants may view.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if _, ok := booking.ResolveRole(b, c.GetString("userID")); !ok {
		h.respondError(c, booking.NewNotParticipantError())
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBooking handles PATCH /api/bookings/:id (owner-only detail edits).
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Service.UpdateBookingDetails(c.Request.Context(), c.Param("id"), c.GetString("userID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RequestTransition handles POST /api/bookings/:id/transition.
func (h *BookingHandler) RequestTransition(c *gin.Context) {
	var input struct {
		TargetStatus models.BookingStatus `json:"targetStatus"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.TargetStatus == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "targetStatus is required")
		return
	}

	b, err := h.Service.RequestTransition(c.Request.Context(), c.Param("id"), c.GetString("userID"), input.TargetStatus)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetOwnerBookings handles GET /api/bookings/owner.
func (h *BookingHandler) GetOwnerBookings(c *gin.Context) {
	bookings, err := h.Service.GetOwnerBookings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetSitterBookings handles GET /api/bookings/sitter.
func (h *BookingHandler) GetSitterBookings(c *gin.Context) {
	bookings, err := h.Service.GetSitterBookings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateCheckoutSession handles POST /api/bookings/:id/checkout.
func (h *BookingHandler) CreateCheckoutSession(c *gin.Context) {
	sessionID, err := h.Service.CreateCheckoutSession(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}
