package wire

import (
	"event-ticketing/internal/adaptor"
	"event-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, log *zap.Logger) {
	// Semua route payment butuh identity
	r.Route("/api/payments", func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// POST /api/payments/razorpay/order - Create gateway order for a pending booking
		r.Post("/razorpay/order", paymentHandler.CreateRazorpayOrder)

		// POST /api/payments/razorpay/verify - Settle booking with signed proof
		r.Post("/razorpay/verify", paymentHandler.VerifyRazorpayPayment)

		// POST /api/payments/stripe/checkout - Create hosted checkout session
		r.Post("/stripe/checkout", paymentHandler.CreateStripeCheckout)

		// POST /api/payments/stripe/verify - Settle booking by session ID
		r.Post("/stripe/verify", paymentHandler.VerifyStripePayment)

		// POST /api/payments/wallet/pay - Settle pending booking from wallet balance
		r.Post("/wallet/pay", paymentHandler.PayWithWallet)
	})
}
