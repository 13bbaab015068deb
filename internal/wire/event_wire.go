package wire

import (
	"event-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEvent(r chi.Router, eventHandler *adaptor.EventHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/events - List published events (public)
	r.Get("/api/events", eventHandler.GetEvents)

	// GET /api/events/{id} - Event detail with ticket availability (public)
	r.Get("/api/events/{id}", eventHandler.GetEvent)
}
