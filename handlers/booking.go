package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"servebook/middleware"
	"servebook/models"
	"servebook/services/booking"
	"servebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// CheckAvailabilityHandler answers the booking-intent pre-check.
// GET /api/bookings/availability?providerId=...&startTime=...&endTime=... (RFC 3339)
func (h *BookingHandler) CheckAvailabilityHandler(c *gin.Context) {
	providerID := c.Query("providerId")
	start, err1 := time.Parse(time.RFC3339, c.Query("startTime"))
	end, err2 := time.Parse(time.RFC3339, c.Query("endTime"))
	if providerID == "" || err1 != nil || err2 != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid availability query", "providerId, startTime and endTime (RFC 3339) are required")
		return
	}

	available, err := h.Svc.CheckAvailability(c.Request.Context(), providerID, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

// CreateBookingHandler reserves a slot for the authenticated consumer.
// POST /api/bookings
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor", "")
		return
	}

	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking input", err.Error())
		return
	}
	// The caller is always the consumer of the booking it creates.
	input.ConsumerID = actor.ID

	created, err := h.Svc.CreateBooking(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBookingHandler fetches one booking.
// GET /api/bookings/:id
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Svc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListProviderDayHandler lists a provider's bookings on one calendar day.
// GET /api/bookings/provider/:providerId/day/:date
func (h *BookingHandler) ListProviderDayHandler(c *gin.Context) {
	bookings, err := h.Svc.ListProviderDay(c.Request.Context(), c.Param("providerId"), c.Param("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// TransitionBookingHandler applies a status change as the authenticated actor.
// PATCH /api/bookings/:id/status
func (h *BookingHandler) TransitionBookingHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor", "")
		return
	}

	var body struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid status input", err.Error())
		return
	}

	updated, err := h.Svc.Transition(c.Request.Context(), c.Param("id"), body.Status, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// FeedHandler streams the merged booking feed as server-sent events until
// the client disconnects.
// GET /api/bookings/feed
func (h *BookingHandler) FeedHandler(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing actor", "")
		return
	}

	feed, err := h.Svc.SubscribeBookings(c.Request.Context(), actor.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer feed.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case update, open := <-feed.Updates:
			if !open {
				return false
			}
			c.SSEvent("bookings", update)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// respondError maps the engine's error taxonomy onto HTTP statuses. A slot
// conflict is an expected outcome of concurrent demand, not a server fault,
// so it comes back as a conflict with the user-facing message.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var engineErr *booking.Error
	if !errors.As(err, &engineErr) {
		h.Logger.Error("unclassified booking error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrSlotConflict), errors.Is(err, booking.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, booking.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, booking.ErrBookingNotFound):
		status = http.StatusNotFound
	case booking.IsRetryable(err):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"error":     engineErr.Message,
		"code":      engineErr.Code,
		"retryable": booking.IsRetryable(err),
	})
}
