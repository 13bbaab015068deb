package adaptor

import (
	"event-ticketing/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Event   *EventHandler
	Booking *BookingHandler
	Payment *PaymentHandler
	Wallet  *WalletHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Event:   NewEventHandler(service.Event, log),
		Booking: NewBookingHandler(service.Booking, log),
		Payment: NewPaymentHandler(service.Booking, log),
		Wallet:  NewWalletHandler(service.Wallet, log),
	}
}
