package response

import (
	"time"

	"event-ticketing/internal/data/entity"
)

type WalletResponse struct {
	UserID       string                      `json:"user_id"`
	Balance      float64                     `json:"balance"`
	Transactions []WalletTransactionResponse `json:"transactions,omitempty"`
}

type WalletTransactionResponse struct {
	ID          string                 `json:"id"`
	Type        entity.TransactionType `json:"type"`
	Amount      float64                `json:"amount"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"created_at"`
}

func WalletToResponse(wallet *entity.Wallet, transactions []*entity.WalletTransaction) WalletResponse {
	txResponses := make([]WalletTransactionResponse, len(transactions))
	for i, tx := range transactions {
		txResponses[i] = WalletTransactionResponse{
			ID:          tx.ID.String(),
			Type:        tx.Type,
			Amount:      tx.Amount,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		}
	}

	return WalletResponse{
		UserID:       wallet.UserID.String(),
		Balance:      wallet.Balance,
		Transactions: txResponses,
	}
}
