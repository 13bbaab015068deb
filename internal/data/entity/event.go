package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusClosed    EventStatus = "closed"
)

type Event struct {
	Base
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Venue       string      `db:"venue"`
	StartsAt    time.Time   `db:"starts_at"`
	Status      EventStatus `db:"status"`

	TicketTypes []*TicketType `db:"-"`
}

// TicketType menyimpan sisa stok per jenis tiket. Quantity tidak boleh negatif;
// mutasi hanya lewat conditional decrement/increment di repository.
type TicketType struct {
	Base
	EventID  uuid.UUID `db:"event_id"`
	Name     string    `db:"name"`
	Price    float64   `db:"price"`
	Quantity int       `db:"quantity"`
}
