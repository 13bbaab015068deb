package usecase

import (
	"context"
	"testing"

	"event-ticketing/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetWallet_AutoProvisionsOnFirstAccess(t *testing.T) {
	repo, _, _, _, _, walletRepo := newFakeRepository()
	svc := NewWalletService(repo, zap.NewNop())

	userID := uuid.New()

	wallet, err := svc.GetWallet(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, 0.0, wallet.Balance)
	assert.Empty(t, wallet.Transactions)

	// Akses kedua dapat wallet yang sama, bukan yang baru
	again, err := svc.GetWallet(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, wallet.UserID, again.UserID)
	assert.Equal(t, wallet.Balance, again.Balance)

	assert.Equal(t, 0.0, walletRepo.balance(userID))
}

func TestTopUp_CreditsBalanceAndLedger(t *testing.T) {
	repo, _, _, _, _, walletRepo := newFakeRepository()
	svc := NewWalletService(repo, zap.NewNop())

	userID := uuid.New()

	wallet, err := svc.TopUp(context.Background(), userID.String(), &request.WalletTopUpRequest{Amount: 750})
	require.NoError(t, err)

	assert.Equal(t, 750.0, wallet.Balance)
	require.Len(t, wallet.Transactions, 1)
	assert.Equal(t, 750.0, wallet.Transactions[0].Amount)

	// balance == jumlah signed transactions
	assert.InDelta(t, walletRepo.ledgerSum(userID), walletRepo.balance(userID), 1e-9)
}

func TestTopUp_RejectsNonPositiveAmount(t *testing.T) {
	repo, _, _, _, _, _ := newFakeRepository()
	svc := NewWalletService(repo, zap.NewNop())

	_, err := svc.TopUp(context.Background(), uuid.New().String(), &request.WalletTopUpRequest{Amount: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestTopUp_RejectsInvalidUserID(t *testing.T) {
	repo, _, _, _, _, _ := newFakeRepository()
	svc := NewWalletService(repo, zap.NewNop())

	_, err := svc.TopUp(context.Background(), "not-a-uuid", &request.WalletTopUpRequest{Amount: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid user ID")
}
