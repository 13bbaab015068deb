package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"event-ticketing/internal/dto/request"
	"event-ticketing/internal/usecase"
	"event-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	// Get user ID from context
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetBookingByOrderID handles GET /api/bookings/{orderID} (protected)
func (h *BookingHandler) GetBookingByOrderID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		utils.ResponseBadRequest(w, "Order ID is required", nil)
		return
	}

	booking, err := h.service.GetBookingByOrderID(r.Context(), orderID)
	if err != nil {
		h.handleServiceError(w, err, "get booking by order ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	// Get user ID from context
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := &request.PaginatedRequest{
		Page:    1,
		PerPage: 10,
	}

	// Parse query parameters
	query := r.URL.Query()
	req.Page = utils.ParseInt(query.Get("page"), 1)
	req.PerPage = utils.ParseInt(query.Get("per_page"), 10)

	bookings, err := h.service.GetUserBookings(r.Context(), userID.String(), req)
	if err != nil {
		h.handleServiceError(w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CancelBooking handles PATCH /api/bookings/{id} (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	// Get user ID from context
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.service.CancelBooking(r.Context(), userID.String(), bookingID); err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ==================== ADMIN METHODS ====================

// CancelEventBookings handles POST /api/admin/events/{id}/cancel-bookings (admin only)
func (h *BookingHandler) CancelEventBookings(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	cancelled, err := h.service.CancelEventBookings(r.Context(), eventID)
	if err != nil {
		h.handleServiceError(w, err, "cancel event bookings")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int{"cancelled": cancelled})
}

// GetEventRevenue handles GET /api/admin/events/{id}/revenue (admin only)
func (h *BookingHandler) GetEventRevenue(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	revenue, err := h.service.EventRevenue(r.Context(), eventID)
	if err != nil {
		h.handleServiceError(w, err, "get event revenue")
		return
	}

	utils.ResponseSuccess(w, "success", revenue)
}

// handleServiceError handles errors untuk booking operations
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrInsufficientStock):
		h.log.Warn(operation+" failed - insufficient stock",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, usecase.ErrInsufficientBalance):
		h.log.Warn(operation+" failed - insufficient balance",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "already used"):
		h.log.Warn(operation+" failed - coupon already used",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "unauthorized"):
		h.log.Warn(operation+" failed - unauthorized",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "cannot"):
		h.log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
