package usecase

import "errors"

var (
	// ErrInsufficientStock - stok ticket type kurang dari permintaan
	ErrInsufficientStock = errors.New("insufficient ticket stock")

	// ErrInsufficientBalance - saldo wallet tidak cukup untuk debit
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)
