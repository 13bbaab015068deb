package entity

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeRefund TransactionType = "refund"
)

// Signed mengembalikan amount bertanda: credit/refund positif, debit negatif.
func (t TransactionType) Signed(amount float64) float64 {
	if t == TransactionTypeDebit {
		return -amount
	}
	return amount
}

type Wallet struct {
	Base
	UserID  uuid.UUID `db:"user_id"`
	Balance float64   `db:"balance"`
}

// WalletTransaction adalah entry append-only; balance wallet harus selalu
// sama dengan jumlah signed amount semua transaksi.
type WalletTransaction struct {
	ID          uuid.UUID       `db:"id"`
	WalletID    uuid.UUID       `db:"wallet_id"`
	UserID      uuid.UUID       `db:"user_id"`
	Type        TransactionType `db:"type"`
	Amount      float64         `db:"amount"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}
