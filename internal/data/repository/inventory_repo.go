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

type InventoryRepository interface {
	FindTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*entity.TicketType, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error)

	// CheckAvailable cuma advisory read; kebenaran final ada di Reserve
	CheckAvailable(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) (bool, error)

	// Reserve melakukan conditional decrement dalam satu statement.
	// Return false kalau stok kurang, tanpa perubahan apapun.
	Reserve(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) (bool, error)

	// Release mengembalikan stok (kompensasi pembatalan)
	Release(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) error
}

type inventoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewInventoryRepository(db database.PgxIface, log *zap.Logger) InventoryRepository {
	return &inventoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "inventory")),
	}
}

func (r *inventoryRepository) FindTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*entity.TicketType, error) {
	query := `
		SELECT id, event_id, name, price, quantity, created_at, updated_at
		FROM ticket_types
		WHERE id = $1 AND event_id = $2
	`

	var tt entity.TicketType
	err := r.db.QueryRow(ctx, query, ticketTypeID, eventID).Scan(
		&tt.ID,
		&tt.EventID,
		&tt.Name,
		&tt.Price,
		&tt.Quantity,
		&tt.CreatedAt,
		&tt.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket type",
			zap.Error(err),
			zap.String("ticket_type_id", ticketTypeID.String()),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find ticket type %s: %w", ticketTypeID.String(), err)
	}

	return &tt, nil
}

func (r *inventoryRepository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error) {
	query := `
		SELECT id, event_id, name, price, quantity, created_at, updated_at
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY price
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to list ticket types",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("list ticket types for event %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	var ticketTypes []*entity.TicketType
	for rows.Next() {
		var tt entity.TicketType
		err := rows.Scan(
			&tt.ID,
			&tt.EventID,
			&tt.Name,
			&tt.Price,
			&tt.Quantity,
			&tt.CreatedAt,
			&tt.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan ticket type row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket type row: %w", err)
		}
		ticketTypes = append(ticketTypes, &tt)
	}

	return ticketTypes, nil
}

func (r *inventoryRepository) CheckAvailable(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) (bool, error) {
	query := `SELECT quantity >= $3 FROM ticket_types WHERE id = $1 AND event_id = $2`

	var available bool
	err := r.db.QueryRow(ctx, query, ticketTypeID, eventID, quantity).Scan(&available)
	if err == pgx.ErrNoRows {
		return false, fmt.Errorf("ticket type %s not found", ticketTypeID.String())
	}
	if err != nil {
		r.log.Error("Failed to check availability",
			zap.Error(err),
			zap.String("ticket_type_id", ticketTypeID.String()),
		)
		return false, fmt.Errorf("check availability for ticket type %s: %w", ticketTypeID.String(), err)
	}

	return available, nil
}

// Reserve pakai satu UPDATE bersyarat supaya dua request konkuren tidak bisa
// sama-sama lolos saat stok tinggal untuk satu. Jangan pernah diganti jadi
// SELECT lalu UPDATE terpisah.
func (r *inventoryRepository) Reserve(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE ticket_types
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE id = $1 AND event_id = $2 AND quantity >= $3
	`

	result, err := r.db.Exec(ctx, query, ticketTypeID, eventID, quantity)
	if err != nil {
		r.log.Error("Failed to reserve inventory",
			zap.Error(err),
			zap.String("ticket_type_id", ticketTypeID.String()),
			zap.Int("quantity", quantity),
		)
		return false, fmt.Errorf("reserve %d of ticket type %s: %w", quantity, ticketTypeID.String(), err)
	}

	// RowsAffected == 0 berarti stok kurang (atau ticket type tidak ada)
	return result.RowsAffected() > 0, nil
}

func (r *inventoryRepository) Release(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) error {
	query := `
		UPDATE ticket_types
		SET quantity = quantity + $3, updated_at = NOW()
		WHERE id = $1 AND event_id = $2
	`

	result, err := r.db.Exec(ctx, query, ticketTypeID, eventID, quantity)
	if err != nil {
		r.log.Error("Failed to release inventory",
			zap.Error(err),
			zap.String("ticket_type_id", ticketTypeID.String()),
			zap.Int("quantity", quantity),
		)
		return fmt.Errorf("release %d of ticket type %s: %w", quantity, ticketTypeID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket type %s not found", ticketTypeID.String())
	}

	return nil
}
