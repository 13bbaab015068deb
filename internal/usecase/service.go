package usecase

import (
	"event-ticketing/internal/data/repository"
	"event-ticketing/internal/events"
	"event-ticketing/internal/gateway"
	"event-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Event   EventService
	Booking BookingService
	Wallet  WalletService
}

func NewService(
	repo *repository.Repository,
	razorpay gateway.RazorpayGateway,
	stripe gateway.StripeGateway,
	publisher events.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Event:   NewEventService(repo, log),
		Booking: NewBookingService(repo, razorpay, stripe, publisher, config.Payment.Currency, log),
		Wallet:  NewWalletService(repo, log),
	}
}
