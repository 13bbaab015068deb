package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentRecord adalah satu settlement record per booking. BookingID unique,
// semua jalur pembayaran (razorpay/stripe/wallet) konvergen lewat upsert.
type PaymentRecord struct {
	Base
	BookingID         uuid.UUID     `db:"booking_id"`
	UserID            uuid.UUID     `db:"user_id"`
	EventID           uuid.UUID     `db:"event_id"`
	Method            PaymentMethod `db:"method"`
	Amount            float64       `db:"amount"`
	Currency          string        `db:"currency"`
	ExternalOrderID   *string       `db:"external_order_id"`
	ExternalPaymentID *string       `db:"external_payment_id"`
	Status            PaymentStatus `db:"status"`
}
