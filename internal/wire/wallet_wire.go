package wire

import (
	"event-ticketing/internal/adaptor"
	"event-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWallet(r chi.Router, walletHandler *adaptor.WalletHandler, log *zap.Logger) {
	r.Route("/api/wallet", func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// GET /api/wallet - Balance plus transaction history
		r.Get("/", walletHandler.GetWallet)

		// POST /api/wallet/topup - Credit wallet balance
		r.Post("/topup", walletHandler.TopUp)
	})
}
