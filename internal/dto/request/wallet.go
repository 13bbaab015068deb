package request

type WalletTopUpRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0,max=100000"`
}
