package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"event-ticketing/internal/dto/request"
	"event-ticketing/internal/gateway"
	"event-ticketing/internal/usecase"
	"event-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.BookingService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreateRazorpayOrder handles POST /api/payments/razorpay/order (protected)
func (h *PaymentHandler) CreateRazorpayOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RazorpayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	order, err := h.service.InitiateRazorpayOrder(r.Context(), userID.String(), req.BookingID)
	if err != nil {
		h.handleServiceError(w, err, "create razorpay order")
		return
	}

	utils.ResponseCreated(w, "success", order)
}

// VerifyRazorpayPayment handles POST /api/payments/razorpay/verify (protected)
func (h *PaymentHandler) VerifyRazorpayPayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RazorpayVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.VerifyPayment(r.Context(), req.BookingID, usecase.RazorpayProof{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
	})
	if err != nil {
		h.handleServiceError(w, err, "verify razorpay payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// CreateStripeCheckout handles POST /api/payments/stripe/checkout (protected)
func (h *PaymentHandler) CreateStripeCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.StripeCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	session, err := h.service.InitiateStripeCheckout(r.Context(), userID.String(), req.BookingID)
	if err != nil {
		h.handleServiceError(w, err, "create stripe checkout")
		return
	}

	utils.ResponseCreated(w, "success", session)
}

// VerifyStripePayment handles POST /api/payments/stripe/verify (protected)
func (h *PaymentHandler) VerifyStripePayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.StripeVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.VerifyPayment(r.Context(), req.BookingID, usecase.StripeProof{
		SessionID: req.SessionID,
	})
	if err != nil {
		h.handleServiceError(w, err, "verify stripe payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// PayWithWallet handles POST /api/payments/wallet/pay (protected)
func (h *PaymentHandler) PayWithWallet(w http.ResponseWriter, r *http.Request) {
	if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.WalletPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.VerifyPayment(r.Context(), req.BookingID, usecase.WalletProof{})
	if err != nil {
		h.handleServiceError(w, err, "pay with wallet")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// handleServiceError handles errors untuk payment operations
func (h *PaymentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, gateway.ErrGatewayUnavailable):
		// retryable: booking tetap pending, client boleh coba lagi
		h.log.Error(operation+" failed - gateway unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadGateway(w, errMsg)

	case errors.Is(err, gateway.ErrVerificationFailed):
		h.log.Warn(operation+" failed - verification rejected",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

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

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
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
