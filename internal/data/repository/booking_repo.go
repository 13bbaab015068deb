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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Items(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error)

	// Business queries
	FindByEventID(ctx context.Context, eventID uuid.UUID, statuses ...entity.BookingStatus) ([]*entity.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error
	ExistsByUserAndCoupon(ctx context.Context, userID uuid.UUID, couponCode string) (bool, error)
	RevenueByEvent(ctx context.Context, eventID uuid.UUID) (float64, int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

// Create menyimpan booking beserta line items dalam satu tx database
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking %s: %w", booking.OrderID, err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO bookings
			(id, order_id, user_id, event_id, total_amount, payment_method, status, coupon_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.Exec(ctx, query,
		booking.ID,
		booking.OrderID,
		booking.UserID,
		booking.EventID,
		booking.TotalAmount,
		booking.PaymentMethod,
		booking.Status,
		booking.CouponCode,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.OrderID, err)
	}

	itemQuery := `
		INSERT INTO booking_items (id, booking_id, ticket_type_id, name, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, item := range booking.Items {
		_, err := tx.Exec(ctx, itemQuery,
			item.ID,
			item.BookingID,
			item.TicketTypeID,
			item.Name,
			item.Quantity,
			item.UnitPrice,
			item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create booking item",
				zap.Error(err),
				zap.String("order_id", booking.OrderID),
				zap.String("ticket_type_id", item.TicketTypeID.String()),
			)
			return fmt.Errorf("create booking item for %s: %w", booking.OrderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking %s: %w", booking.OrderID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, order_id, user_id, event_id, total_amount, payment_method, status, coupon_code, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.UserID,
		&booking.EventID,
		&booking.TotalAmount,
		&booking.PaymentMethod,
		&booking.Status,
		&booking.CouponCode,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	query := `
		SELECT id, order_id, user_id, event_id, total_amount, payment_method, status, coupon_code, created_at, updated_at
		FROM bookings
		WHERE order_id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.UserID,
		&booking.EventID,
		&booking.TotalAmount,
		&booking.PaymentMethod,
		&booking.Status,
		&booking.CouponCode,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find booking by order ID %s: %w", orderID, err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT id, order_id, user_id, event_id, total_amount, payment_method, status, coupon_code, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return scanBookings(rows, r.log)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) Items(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error) {
	query := `
		SELECT id, booking_id, ticket_type_id, name, quantity, unit_price, created_at
		FROM booking_items
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking items",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find items for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var items []*entity.BookingItem
	for rows.Next() {
		var item entity.BookingItem
		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.TicketTypeID,
			&item.Name,
			&item.Quantity,
			&item.UnitPrice,
			&item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking item row", zap.Error(err))
			return nil, fmt.Errorf("scan booking item row: %w", err)
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *bookingRepository) FindByEventID(ctx context.Context, eventID uuid.UUID, statuses ...entity.BookingStatus) ([]*entity.Booking, error) {
	query := `
		SELECT id, order_id, user_id, event_id, total_amount, payment_method, status, coupon_code, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
	`
	args := []any{eventID}

	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		statusStrs := make([]string, len(statuses))
		for i, s := range statuses {
			statusStrs[i] = string(s)
		}
		args = append(args, statusStrs)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find bookings by event ID %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	return scanBookings(rows, r.log)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

// ExistsByUserAndCoupon - existence check saja, tanpa logika amount
func (r *bookingRepository) ExistsByUserAndCoupon(ctx context.Context, userID uuid.UUID, couponCode string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND coupon_code = $2 AND status != 'failed'
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, userID, couponCode).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check coupon usage",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("coupon_code", couponCode),
		)
		return false, fmt.Errorf("check coupon %s usage for user %s: %w", couponCode, userID.String(), err)
	}

	return exists, nil
}

// RevenueByEvent - read-side aggregate untuk reporting
func (r *bookingRepository) RevenueByEvent(ctx context.Context, eventID uuid.UUID) (float64, int64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM bookings
		WHERE event_id = $1 AND status = 'paid'
	`

	var revenue float64
	var count int64
	err := r.db.QueryRow(ctx, query, eventID).Scan(&revenue, &count)
	if err != nil {
		r.log.Error("Failed to aggregate event revenue",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return 0, 0, fmt.Errorf("aggregate revenue for event %s: %w", eventID.String(), err)
	}

	return revenue, count, nil
}

func scanBookings(rows pgx.Rows, log *zap.Logger) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.OrderID,
			&booking.UserID,
			&booking.EventID,
			&booking.TotalAmount,
			&booking.PaymentMethod,
			&booking.Status,
			&booking.CouponCode,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}
