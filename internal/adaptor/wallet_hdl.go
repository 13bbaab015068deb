package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"event-ticketing/internal/dto/request"
	"event-ticketing/internal/usecase"
	"event-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type WalletHandler struct {
	service usecase.WalletService
	log     *zap.Logger
}

func NewWalletHandler(service usecase.WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		log:     log.With(zap.String("handler", "wallet")),
	}
}

// GetWallet handles GET /api/wallet (protected)
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	wallet, err := h.service.GetWallet(r.Context(), userID.String())
	if err != nil {
		h.handleServiceError(w, err, "get wallet")
		return
	}

	utils.ResponseSuccess(w, "success", wallet)
}

// TopUp handles POST /api/wallet/topup (protected)
func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.WalletTopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	wallet, err := h.service.TopUp(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "top up wallet")
		return
	}

	utils.ResponseSuccess(w, "success", wallet)
}

// handleServiceError handles errors untuk wallet operations
func (h *WalletHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
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

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
