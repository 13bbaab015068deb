package usecase

import (
	"context"
	"fmt"
	"time"

	"event-ticketing/internal/data/entity"
	"event-ticketing/internal/data/repository"
	"event-ticketing/internal/dto/request"
	"event-ticketing/internal/dto/response"
	"event-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// riwayat transaksi terbaru yang ikut di response wallet
const transactionHistoryLimit = 50

type WalletService interface {
	GetWallet(ctx context.Context, userID string) (*response.WalletResponse, error)
	TopUp(ctx context.Context, userID string, req *request.WalletTopUpRequest) (*response.WalletResponse, error)
}

type walletService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewWalletService(repo *repository.Repository, log *zap.Logger) WalletService {
	return &walletService{
		repo: repo,
		log:  log.With(zap.String("service", "wallet")),
	}
}

// GetWallet auto-provision wallet kosong saat pertama kali diakses
func (s *walletService) GetWallet(ctx context.Context, userID string) (*response.WalletResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	wallet, err := s.ensureWallet(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.repo.Wallet.Transactions(ctx, userUUID, transactionHistoryLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("get wallet transactions: %w", err)
	}

	resp := response.WalletToResponse(wallet, transactions)
	return &resp, nil
}

func (s *walletService) TopUp(ctx context.Context, userID string, req *request.WalletTopUpRequest) (*response.WalletResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Top up validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	wallet, err := s.ensureWallet(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Wallet.Credit(ctx, userUUID, req.Amount,
		entity.TransactionTypeCredit, "Wallet top up"); err != nil {
		return nil, fmt.Errorf("top up wallet: %w", err)
	}

	s.log.Info("Wallet topped up",
		zap.String("user_id", userID),
		zap.Float64("amount", req.Amount),
	)

	wallet, err = s.repo.Wallet.FindByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	transactions, err := s.repo.Wallet.Transactions(ctx, userUUID, transactionHistoryLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("get wallet transactions: %w", err)
	}

	resp := response.WalletToResponse(wallet, transactions)
	return &resp, nil
}

func (s *walletService) ensureWallet(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error) {
	wallet, err := s.repo.Wallet.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	if wallet != nil {
		return wallet, nil
	}

	now := time.Now()
	wallet = &entity.Wallet{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  userID,
		Balance: 0,
	}
	if err := s.repo.Wallet.Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	s.log.Info("Wallet created", zap.String("user_id", userID.String()))
	return wallet, nil
}
