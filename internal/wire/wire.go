package wire

import (
	"net/http"

	"event-ticketing/internal/adaptor"
	"event-ticketing/internal/data/repository"
	"event-ticketing/internal/events"
	"event-ticketing/internal/gateway"
	"event-ticketing/internal/usecase"
	"event-ticketing/pkg/middleware"
	"event-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Wiring menginisialisasi semua dependencies
func Wiring(
	repo *repository.Repository,
	razorpay gateway.RazorpayGateway,
	stripe gateway.StripeGateway,
	publisher events.Publisher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	// Initialize services dan handlers
	service := usecase.NewService(repo, razorpay, stripe, publisher, config, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, logger)

	return &App{
		Router: router,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireEvent(r, handler.Event, logger)
	wireBooking(r, handler.Booking, logger)
	wirePayment(r, handler.Payment, logger)
	wireWallet(r, handler.Wallet, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
