package repository

import (
	"context"
	"fmt"

	"event-ticketing/internal/data/entity"
	"event-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error)
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, title, description, venue, starts_at, status, created_at, updated_at
		FROM events
		WHERE id = $1
	`

	var event entity.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Venue,
		&event.StartsAt,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	return &event, nil
}

func (r *eventRepository) FindPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error) {
	query := `
		SELECT id, title, description, venue, starts_at, status, created_at, updated_at
		FROM events
		WHERE status = 'published'
		ORDER BY starts_at
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find published events",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find published events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var event entity.Event
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Venue,
			&event.StartsAt,
			&event.Status,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, &event)
	}

	return events, nil
}
