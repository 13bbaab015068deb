package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_AcceptsValidSignature(t *testing.T) {
	secret := "test_secret_key"
	gw := NewRazorpayGateway("rzp_test_key", secret, 5*time.Second, zap.NewNop())

	orderID := "order_Nxy123"
	paymentID := "pay_Nxy456"
	signature := signPayload(secret, orderID, paymentID)

	err := gw.VerifySignature(orderID, paymentID, signature)
	require.NoError(t, err)
}

func TestVerifySignature_RejectsTamperedSignature(t *testing.T) {
	secret := "test_secret_key"
	gw := NewRazorpayGateway("rzp_test_key", secret, 5*time.Second, zap.NewNop())

	orderID := "order_Nxy123"
	paymentID := "pay_Nxy456"
	signature := signPayload(secret, orderID, paymentID)

	// Ubah satu karakter
	tampered := signature[:len(signature)-1] + "0"
	if tampered == signature {
		tampered = signature[:len(signature)-1] + "1"
	}

	err := gw.VerifySignature(orderID, paymentID, tampered)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVerificationFailed))
}

func TestVerifySignature_RejectsSignatureForDifferentPayment(t *testing.T) {
	secret := "test_secret_key"
	gw := NewRazorpayGateway("rzp_test_key", secret, 5*time.Second, zap.NewNop())

	// Signature sah untuk payment lain tidak boleh lolos
	signature := signPayload(secret, "order_Nxy123", "pay_other")

	err := gw.VerifySignature("order_Nxy123", "pay_Nxy456", signature)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVerificationFailed))
}

func TestVerifySignature_RejectsWrongSecret(t *testing.T) {
	gw := NewRazorpayGateway("rzp_test_key", "real_secret", 5*time.Second, zap.NewNop())

	signature := signPayload("attacker_secret", "order_Nxy123", "pay_Nxy456")

	err := gw.VerifySignature("order_Nxy123", "pay_Nxy456", signature)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVerificationFailed))
}

func TestVerifySignature_Idempotent(t *testing.T) {
	secret := "test_secret_key"
	gw := NewRazorpayGateway("rzp_test_key", secret, 5*time.Second, zap.NewNop())

	orderID := "order_Nxy123"
	paymentID := "pay_Nxy456"
	signature := signPayload(secret, orderID, paymentID)

	for i := 0; i < 3; i++ {
		require.NoError(t, gw.VerifySignature(orderID, paymentID, signature))
	}
}
