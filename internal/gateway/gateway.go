package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Order is a payment order created with the gateway. The requester pays
// against this order on the client side, and the gateway calls back with
// a payment ID and signature.
type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
	Receipt     string
}

// Gateway is the interface for the online payment provider.
type Gateway interface {
	// CreateOrder registers a payable order with the provider. Amounts
	// are in minor currency units (paise).
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)

	// Refund reverses a captured payment, in full when amountMinor is
	// zero.
	Refund(ctx context.Context, paymentID string, amountMinor int64) error
}

// VerifySignature checks a payment callback signature: HMAC-SHA256 over
// "orderID|paymentID" keyed with the gateway secret, hex encoded. The
// comparison is constant time.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
