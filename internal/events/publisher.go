package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	BookingCreated   = "booking.created"
	BookingPaid      = "booking.paid"
	BookingFailed    = "booking.failed"
	BookingCancelled = "booking.cancelled"
)

// BookingEvent dikirim setelah state transition ter-commit. Delivery
// at-least-once; consumer diharapkan idempotent.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  uuid.UUID `json:"booking_id"`
	OrderID    string    `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	EventID    uuid.UUID `json:"event_id"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

// noopPublisher dipakai kalau Redis tidak dikonfigurasi (dan di test)
type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, event BookingEvent) error {
	return nil
}
