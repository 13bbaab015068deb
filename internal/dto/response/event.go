package response

import (
	"time"

	"event-ticketing/internal/data/entity"
)

type EventResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Venue       string               `json:"venue"`
	StartsAt    time.Time            `json:"starts_at"`
	Status      entity.EventStatus   `json:"status"`
	TicketTypes []TicketTypeResponse `json:"ticket_types,omitempty"`
}

type TicketTypeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available int     `json:"available"`
}

func EventToResponse(event *entity.Event, ticketTypes []*entity.TicketType) EventResponse {
	ttResponses := make([]TicketTypeResponse, len(ticketTypes))
	for i, tt := range ticketTypes {
		ttResponses[i] = TicketTypeResponse{
			ID:        tt.ID.String(),
			Name:      tt.Name,
			Price:     tt.Price,
			Available: tt.Quantity,
		}
	}

	return EventResponse{
		ID:          event.ID.String(),
		Title:       event.Title,
		Description: event.Description,
		Venue:       event.Venue,
		StartsAt:    event.StartsAt,
		Status:      event.Status,
		TicketTypes: ttResponses,
	}
}
