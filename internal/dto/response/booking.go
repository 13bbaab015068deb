package response

import (
	"time"

	"event-ticketing/internal/data/entity"
)

type BookingItemResponse struct {
	TicketTypeID string  `json:"ticket_type_id"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Subtotal     float64 `json:"subtotal"`
}

type BookingResponse struct {
	ID            string                 `json:"id"`
	OrderID       string                 `json:"order_id"`
	UserID        string                 `json:"user_id"`
	EventID       string                 `json:"event_id"`
	EventTitle    string                 `json:"event_title,omitempty"`
	Items         []BookingItemResponse  `json:"items,omitempty"`
	TotalAmount   float64                `json:"total_amount"`
	PaymentMethod entity.PaymentMethod   `json:"payment_method"`
	Status        entity.BookingStatus   `json:"status"`
	CouponCode    *string                `json:"coupon_code,omitempty"`
	Payment       *PaymentRecordResponse `json:"payment,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type PaymentRecordResponse struct {
	ID                string               `json:"id"`
	BookingID         string               `json:"booking_id"`
	Method            entity.PaymentMethod `json:"method"`
	Amount            float64              `json:"amount"`
	Currency          string               `json:"currency"`
	ExternalOrderID   *string              `json:"order_id,omitempty"`
	ExternalPaymentID *string              `json:"payment_id,omitempty"`
	Status            entity.PaymentStatus `json:"status"`
	CreatedAt         time.Time            `json:"created_at"`
}

// PaymentInitResponse untuk order/checkout session yang baru dibuat di gateway
type PaymentInitResponse struct {
	BookingID   string  `json:"booking_id"`
	OrderID     string  `json:"order_id,omitempty"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
	SessionID   string  `json:"session_id,omitempty"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

type RevenueResponse struct {
	EventID      string  `json:"event_id"`
	PaidBookings int64   `json:"paid_bookings"`
	Revenue      float64 `json:"revenue"`
}

// Helper converters

func BookingToResponse(booking *entity.Booking, items []*entity.BookingItem, payment *entity.PaymentRecord) BookingResponse {
	itemResponses := make([]BookingItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = BookingItemResponse{
			TicketTypeID: item.TicketTypeID.String(),
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Subtotal:     float64(item.Quantity) * item.UnitPrice,
		}
	}

	resp := BookingResponse{
		ID:            booking.ID.String(),
		OrderID:       booking.OrderID,
		UserID:        booking.UserID.String(),
		EventID:       booking.EventID.String(),
		Items:         itemResponses,
		TotalAmount:   booking.TotalAmount,
		PaymentMethod: booking.PaymentMethod,
		Status:        booking.Status,
		CouponCode:    booking.CouponCode,
		CreatedAt:     booking.CreatedAt,
	}

	if payment != nil {
		paymentResp := PaymentRecordToResponse(payment)
		resp.Payment = &paymentResp
	}

	return resp
}

func PaymentRecordToResponse(record *entity.PaymentRecord) PaymentRecordResponse {
	return PaymentRecordResponse{
		ID:                record.ID.String(),
		BookingID:         record.BookingID.String(),
		Method:            record.Method,
		Amount:            record.Amount,
		Currency:          record.Currency,
		ExternalOrderID:   record.ExternalOrderID,
		ExternalPaymentID: record.ExternalPaymentID,
		Status:            record.Status,
		CreatedAt:         record.CreatedAt,
	}
}
