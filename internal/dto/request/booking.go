package request

type BookingItemRequest struct {
	TicketTypeID string `json:"ticket_type_id" validate:"required,uuid4"`
	Quantity     int    `json:"quantity" validate:"required,min=1,max=10"`
}

type CreateBookingRequest struct {
	EventID       string               `json:"event_id" validate:"required,uuid4"`
	Items         []BookingItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string               `json:"payment_method" validate:"required,oneof=razorpay stripe wallet"`
	CouponCode    *string              `json:"coupon_code,omitempty" validate:"omitempty,min=3,max=32"`
}
