package usecase

import (
	"context"
	"fmt"

	"event-ticketing/internal/data/repository"
	"event-ticketing/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error)
	GetPublishedEvents(ctx context.Context, limit, offset int) ([]response.EventResponse, error)
}

type eventService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewEventService(repo *repository.Repository, log *zap.Logger) EventService {
	return &eventService{
		repo: repo,
		log:  log.With(zap.String("service", "event")),
	}
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", eventID)
	}

	ticketTypes, err := s.repo.Inventory.ListByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket types: %w", err)
	}

	resp := response.EventToResponse(event, ticketTypes)
	return &resp, nil
}

func (s *eventService) GetPublishedEvents(ctx context.Context, limit, offset int) ([]response.EventResponse, error) {
	eventsList, err := s.repo.Event.FindPublished(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get published events: %w", err)
	}

	responses := make([]response.EventResponse, len(eventsList))
	for i, event := range eventsList {
		ticketTypes, err := s.repo.Inventory.ListByEventID(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("get ticket types: %w", err)
		}
		responses[i] = response.EventToResponse(event, ticketTypes)
	}

	return responses, nil
}
