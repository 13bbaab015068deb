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

type PaymentRepository interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentRecord, error)

	// Upsert keyed by booking_id: create kalau belum ada, merge field kalau
	// sudah ada. Satu-satunya jalur tulis untuk payment record selain
	// UpdateStatus — ini anchor idempotency untuk verifikasi ulang.
	Upsert(ctx context.Context, record *entity.PaymentRecord) (*entity.PaymentRecord, error)

	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.PaymentStatus) (*entity.PaymentRecord, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentRecord, error) {
	query := `
		SELECT id, booking_id, user_id, event_id, method, amount, currency,
		       external_order_id, external_payment_id, status, created_at, updated_at
		FROM payment_records
		WHERE booking_id = $1
	`

	var record entity.PaymentRecord
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&record.ID,
		&record.BookingID,
		&record.UserID,
		&record.EventID,
		&record.Method,
		&record.Amount,
		&record.Currency,
		&record.ExternalOrderID,
		&record.ExternalPaymentID,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment record by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payment record by booking ID %s: %w", bookingID.String(), err)
	}

	return &record, nil
}

func (r *paymentRepository) Upsert(ctx context.Context, record *entity.PaymentRecord) (*entity.PaymentRecord, error) {
	// COALESCE di external refs supaya verify ulang tanpa ref baru tidak
	// menimpa ref yang sudah tersimpan
	query := `
		INSERT INTO payment_records
			(id, booking_id, user_id, event_id, method, amount, currency,
			 external_order_id, external_payment_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (booking_id) DO UPDATE SET
			method = EXCLUDED.method,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			external_order_id = COALESCE(EXCLUDED.external_order_id, payment_records.external_order_id),
			external_payment_id = COALESCE(EXCLUDED.external_payment_id, payment_records.external_payment_id),
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING id, booking_id, user_id, event_id, method, amount, currency,
		          external_order_id, external_payment_id, status, created_at, updated_at
	`

	var saved entity.PaymentRecord
	err := r.db.QueryRow(ctx, query,
		record.ID,
		record.BookingID,
		record.UserID,
		record.EventID,
		record.Method,
		record.Amount,
		record.Currency,
		record.ExternalOrderID,
		record.ExternalPaymentID,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	).Scan(
		&saved.ID,
		&saved.BookingID,
		&saved.UserID,
		&saved.EventID,
		&saved.Method,
		&saved.Amount,
		&saved.Currency,
		&saved.ExternalOrderID,
		&saved.ExternalPaymentID,
		&saved.Status,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert payment record",
			zap.Error(err),
			zap.String("booking_id", record.BookingID.String()),
			zap.String("status", string(record.Status)),
		)
		return nil, fmt.Errorf("upsert payment record for booking %s: %w", record.BookingID.String(), err)
	}

	return &saved, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.PaymentStatus) (*entity.PaymentRecord, error) {
	query := `
		UPDATE payment_records
		SET status = $2, updated_at = NOW()
		WHERE booking_id = $1
		RETURNING id, booking_id, user_id, event_id, method, amount, currency,
		          external_order_id, external_payment_id, status, created_at, updated_at
	`

	var record entity.PaymentRecord
	err := r.db.QueryRow(ctx, query, bookingID, status).Scan(
		&record.ID,
		&record.BookingID,
		&record.UserID,
		&record.EventID,
		&record.Method,
		&record.Amount,
		&record.Currency,
		&record.ExternalOrderID,
		&record.ExternalPaymentID,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("payment record for booking %s not found", bookingID.String())
	}
	if err != nil {
		r.log.Error("Failed to update payment record status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update payment record for booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	return &record, nil
}
