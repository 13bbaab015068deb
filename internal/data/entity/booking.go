package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusFailed    BookingStatus = "failed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodStripe   PaymentMethod = "stripe"
	PaymentMethodWallet   PaymentMethod = "wallet"
)

type Booking struct {
	Base
	OrderID       string        `db:"order_id"`
	UserID        uuid.UUID     `db:"user_id"`
	EventID       uuid.UUID     `db:"event_id"`
	TotalAmount   float64       `db:"total_amount"`
	PaymentMethod PaymentMethod `db:"payment_method"`
	Status        BookingStatus `db:"status"`
	CouponCode    *string       `db:"coupon_code"`

	Items []*BookingItem `db:"-"`
}

// BookingItem adalah satu line item (ticket type + qty) dalam satu booking
type BookingItem struct {
	BaseSimple
	BookingID    uuid.UUID `db:"booking_id"`
	TicketTypeID uuid.UUID `db:"ticket_type_id"`
	Name         string    `db:"name"`
	Quantity     int       `db:"quantity"`
	UnitPrice    float64   `db:"unit_price"`
}

// CanCancel - hanya pending dan paid yang boleh dibatalkan
func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusPaid
}
