package repository

import (
	"event-ticketing/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Event     EventRepository
	Inventory InventoryRepository
	Booking   BookingRepository
	Payment   PaymentRepository
	Wallet    WalletRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Event:     NewEventRepository(db, log),
		Inventory: NewInventoryRepository(db, log),
		Booking:   NewBookingRepository(db, log),
		Payment:   NewPaymentRepository(db, log),
		Wallet:    NewWalletRepository(db, log),
	}
}
