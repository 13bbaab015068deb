package gateway

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// CheckoutItem adalah satu baris pada hosted checkout
type CheckoutItem struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// CheckoutSession hasil dari create session di provider
type CheckoutSession struct {
	SessionID   string
	CheckoutURL string
}

type StripeGateway interface {
	// CreateCheckoutSession bikin hosted checkout session; tidak menyentuh
	// state lokal
	CreateCheckoutSession(ctx context.Context, items []CheckoutItem, currency string, metadata map[string]string) (*CheckoutSession, error)

	// VerifySession mengambil ulang state session dari provider dan
	// memastikan sudah paid dengan amount yang diharapkan. Read-only di sisi
	// provider, jadi aman dipanggil berulang.
	VerifySession(ctx context.Context, sessionID string, expectedAmount float64) (paymentIntentID string, err error)
}

type stripeGateway struct {
	client     *stripe.Client
	successURL string
	cancelURL  string
	timeout    time.Duration
	log        *zap.Logger
}

func NewStripeGateway(apiKey, successURL, cancelURL string, timeout time.Duration, log *zap.Logger) StripeGateway {
	return &stripeGateway{
		client:     stripe.NewClient(apiKey),
		successURL: successURL,
		cancelURL:  cancelURL,
		timeout:    timeout,
		log:        log.With(zap.String("gateway", "stripe")),
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, items []CheckoutItem, currency string, metadata map[string]string) (*CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, len(items))
	for i, item := range items {
		lineItems[i] = &stripe.CheckoutSessionCreateLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(int64(math.Round(item.UnitPrice * 100))),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		}
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
		Metadata:   metadata,
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	session, err := g.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		g.log.Error("Failed to create checkout session", zap.Error(err))
		return nil, fmt.Errorf("create stripe checkout session: %w", ErrGatewayUnavailable)
	}

	g.log.Info("Stripe checkout session created",
		zap.String("session_id", session.ID),
	)

	return &CheckoutSession{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

func (g *stripeGateway) VerifySession(ctx context.Context, sessionID string, expectedAmount float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	session, err := g.client.V1CheckoutSessions.Retrieve(ctx, sessionID, nil)
	if err != nil {
		g.log.Error("Failed to retrieve checkout session",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return "", fmt.Errorf("retrieve stripe session %s: %w", sessionID, ErrGatewayUnavailable)
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		g.log.Warn("Checkout session not paid",
			zap.String("session_id", sessionID),
			zap.String("payment_status", string(session.PaymentStatus)),
		)
		return "", fmt.Errorf("stripe session %s not paid: %w", sessionID, ErrVerificationFailed)
	}

	expectedMinor := int64(math.Round(expectedAmount * 100))
	if session.AmountTotal != expectedMinor {
		g.log.Warn("Checkout session amount mismatch",
			zap.String("session_id", sessionID),
			zap.Int64("amount_total", session.AmountTotal),
			zap.Int64("expected", expectedMinor),
		)
		return "", fmt.Errorf("stripe session %s amount mismatch: %w", sessionID, ErrVerificationFailed)
	}

	paymentIntentID := ""
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	return paymentIntentID, nil
}
