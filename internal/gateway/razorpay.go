package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

var (
	// ErrVerificationFailed - signature/session tidak cocok. Terminal.
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrGatewayUnavailable - error transport/timeout ke provider. Retryable.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// RazorpayOrder adalah order yang dibuat di sisi provider sebelum checkout
type RazorpayOrder struct {
	OrderID  string
	Amount   float64
	Currency string
}

type RazorpayGateway interface {
	// CreateOrder bikin order di provider; tidak menyentuh state lokal
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*RazorpayOrder, error)

	// VerifySignature cek ulang HMAC atas "orderID|paymentID". Pure dan
	// idempotent — aman dipanggil berulang untuk referensi yang sama.
	VerifySignature(orderID, paymentID, signature string) error
}

type razorpayGateway struct {
	client  *razorpay.Client
	secret  string
	timeout time.Duration
	log     *zap.Logger
}

func NewRazorpayGateway(keyID, secret string, timeout time.Duration, log *zap.Logger) RazorpayGateway {
	return &razorpayGateway{
		client:  razorpay.NewClient(keyID, secret),
		secret:  secret,
		timeout: timeout,
		log:     log.With(zap.String("gateway", "razorpay")),
	}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*RazorpayOrder, error) {
	// Razorpay pakai minor unit (paise)
	data := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": currency,
		"receipt":  receipt,
	}

	type orderResult struct {
		order map[string]interface{}
		err   error
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// Client SDK tidak menerima ctx, jadi timeout dijaga dari luar
	resCh := make(chan orderResult, 1)
	go func() {
		order, err := g.client.Order.Create(data, nil)
		resCh <- orderResult{order: order, err: err}
	}()

	select {
	case <-ctx.Done():
		g.log.Warn("Razorpay order creation timed out", zap.String("receipt", receipt))
		return nil, fmt.Errorf("create razorpay order for %s: %w", receipt, ErrGatewayUnavailable)
	case res := <-resCh:
		if res.err != nil {
			g.log.Error("Failed to create razorpay order",
				zap.Error(res.err),
				zap.String("receipt", receipt),
			)
			return nil, fmt.Errorf("create razorpay order for %s: %w", receipt, ErrGatewayUnavailable)
		}

		orderID, ok := res.order["id"].(string)
		if !ok || orderID == "" {
			return nil, fmt.Errorf("create razorpay order for %s: missing order id: %w", receipt, ErrGatewayUnavailable)
		}

		g.log.Info("Razorpay order created",
			zap.String("order_id", orderID),
			zap.String("receipt", receipt),
			zap.Float64("amount", amount),
		)

		return &RazorpayOrder{
			OrderID:  orderID,
			Amount:   amount,
			Currency: currency,
		}, nil
	}
}

func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal constant-time, bukan perbandingan string biasa
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		g.log.Warn("Razorpay signature mismatch",
			zap.String("order_id", orderID),
			zap.String("payment_id", paymentID),
		)
		return fmt.Errorf("verify razorpay payment %s: %w", paymentID, ErrVerificationFailed)
	}

	return nil
}
