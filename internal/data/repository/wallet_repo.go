package repository

import (
	"context"
	"fmt"
	"time"

	"event-ticketing/internal/data/entity"
	"event-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type WalletRepository interface {
	Create(ctx context.Context, wallet *entity.Wallet) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error)
	Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WalletTransaction, error)

	// FindDebit cari transaksi debit milik user dengan description persis.
	// Dipakai sebagai replay guard: satu order hanya boleh didebit sekali.
	FindDebit(ctx context.Context, userID uuid.UUID, description string) (*entity.WalletTransaction, error)

	// Debit menolak kalau balance < amount. Pengurangan balance dan append
	// transaction log terjadi dalam satu tx database, tidak ada state
	// setengah jadi yang bisa diobservasi.
	Debit(ctx context.Context, userID uuid.UUID, amount float64, description string) (*entity.WalletTransaction, error)

	// Credit menambah balance; txType harus credit atau refund.
	Credit(ctx context.Context, userID uuid.UUID, amount float64, txType entity.TransactionType, description string) (*entity.WalletTransaction, error)
}

type walletRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWalletRepository(db database.PgxIface, log *zap.Logger) WalletRepository {
	return &walletRepository{
		db:  db,
		log: log.With(zap.String("repository", "wallet")),
	}
}

func (r *walletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.Balance,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create wallet",
			zap.Error(err),
			zap.String("user_id", wallet.UserID.String()),
		)
		return fmt.Errorf("create wallet for user %s: %w", wallet.UserID.String(), err)
	}

	return nil
}

func (r *walletRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`

	var wallet entity.Wallet
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find wallet by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find wallet by user ID %s: %w", userID.String(), err)
	}

	return &wallet, nil
}

func (r *walletRepository) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WalletTransaction, error) {
	query := `
		SELECT id, wallet_id, user_id, type, amount, description, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list wallet transactions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list wallet transactions for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var transactions []*entity.WalletTransaction
	for rows.Next() {
		var tx entity.WalletTransaction
		err := rows.Scan(
			&tx.ID,
			&tx.WalletID,
			&tx.UserID,
			&tx.Type,
			&tx.Amount,
			&tx.Description,
			&tx.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan wallet transaction row", zap.Error(err))
			return nil, fmt.Errorf("scan wallet transaction row: %w", err)
		}
		transactions = append(transactions, &tx)
	}

	return transactions, nil
}

func (r *walletRepository) FindDebit(ctx context.Context, userID uuid.UUID, description string) (*entity.WalletTransaction, error) {
	query := `
		SELECT id, wallet_id, user_id, type, amount, description, created_at
		FROM wallet_transactions
		WHERE user_id = $1 AND type = $2 AND description = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var tx entity.WalletTransaction
	err := r.db.QueryRow(ctx, query, userID, entity.TransactionTypeDebit, description).Scan(
		&tx.ID,
		&tx.WalletID,
		&tx.UserID,
		&tx.Type,
		&tx.Amount,
		&tx.Description,
		&tx.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find debit transaction",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find debit transaction for user %s: %w", userID.String(), err)
	}

	return &tx, nil
}

func (r *walletRepository) Debit(ctx context.Context, userID uuid.UUID, amount float64, description string) (*entity.WalletTransaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin wallet debit for user %s: %w", userID.String(), err)
	}
	defer tx.Rollback(ctx)

	// Conditional decrement: balance >= amount dicek dan dikurangi dalam
	// satu statement, jadi debit konkuren tidak bisa bikin balance negatif.
	query := `
		UPDATE wallets
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
		RETURNING id
	`

	var walletID uuid.UUID
	err = tx.QueryRow(ctx, query, userID, amount).Scan(&walletID)
	if err == pgx.ErrNoRows {
		// Bedakan wallet tidak ada vs saldo kurang
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check wallet existence for user %s: %w", userID.String(), err)
		}
		if !exists {
			return nil, fmt.Errorf("wallet for user %s not found", userID.String())
		}
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to debit wallet",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Float64("amount", amount),
		)
		return nil, fmt.Errorf("debit wallet for user %s: %w", userID.String(), err)
	}

	walletTx := &entity.WalletTransaction{
		ID:          uuid.New(),
		WalletID:    walletID,
		UserID:      userID,
		Type:        entity.TransactionTypeDebit,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := r.appendTransaction(ctx, tx, walletTx); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit wallet debit for user %s: %w", userID.String(), err)
	}

	return walletTx, nil
}

func (r *walletRepository) Credit(ctx context.Context, userID uuid.UUID, amount float64, txType entity.TransactionType, description string) (*entity.WalletTransaction, error) {
	if txType == entity.TransactionTypeDebit {
		return nil, fmt.Errorf("invalid credit type %s", txType)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin wallet credit for user %s: %w", userID.String(), err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE wallets
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING id
	`

	var walletID uuid.UUID
	err = tx.QueryRow(ctx, query, userID, amount).Scan(&walletID)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("wallet for user %s not found", userID.String())
	}
	if err != nil {
		r.log.Error("Failed to credit wallet",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Float64("amount", amount),
		)
		return nil, fmt.Errorf("credit wallet for user %s: %w", userID.String(), err)
	}

	walletTx := &entity.WalletTransaction{
		ID:          uuid.New(),
		WalletID:    walletID,
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := r.appendTransaction(ctx, tx, walletTx); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit wallet credit for user %s: %w", userID.String(), err)
	}

	return walletTx, nil
}

func (r *walletRepository) appendTransaction(ctx context.Context, tx pgx.Tx, walletTx *entity.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (id, wallet_id, user_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		walletTx.ID,
		walletTx.WalletID,
		walletTx.UserID,
		walletTx.Type,
		walletTx.Amount,
		walletTx.Description,
		walletTx.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to append wallet transaction",
			zap.Error(err),
			zap.String("user_id", walletTx.UserID.String()),
			zap.String("type", string(walletTx.Type)),
		)
		return fmt.Errorf("append wallet transaction for user %s: %w", walletTx.UserID.String(), err)
	}

	return nil
}
