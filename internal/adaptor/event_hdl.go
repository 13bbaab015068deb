package adaptor

import (
	"net/http"
	"strings"

	"event-ticketing/internal/usecase"
	"event-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventHandler struct {
	service usecase.EventService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log.With(zap.String("handler", "event")),
	}
}

// GetEvents handles GET /api/events (public)
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := utils.ParseInt(query.Get("page"), 1)
	perPage := utils.ParseInt(query.Get("per_page"), 10)

	events, err := h.service.GetPublishedEvents(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		h.handleServiceError(w, err, "get events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// GetEvent handles GET /api/events/{id} (public)
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		h.handleServiceError(w, err, "get event")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// handleServiceError handles errors untuk event operations
func (h *EventHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
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

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
