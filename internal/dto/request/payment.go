package request

type RazorpayOrderRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}

type RazorpayVerifyRequest struct {
	BookingID         string `json:"booking_id" validate:"required,uuid4"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type StripeCheckoutRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}

type StripeVerifyRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	SessionID string `json:"session_id" validate:"required"`
}

type WalletPayRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}
