package gateway

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockGateway is an in-memory Gateway for tests and local runs.
type MockGateway struct {
	orderSeq        atomic.Int64
	refundSeq       atomic.Int64
	lastRefundMinor atomic.Int64

	// CreateOrderErr and RefundErr, when set, are returned by the
	// corresponding call.
	CreateOrderErr error
	RefundErr      error
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// CreateOrder returns a synthetic order with a sequential ID.
func (g *MockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	if g.CreateOrderErr != nil {
		return nil, g.CreateOrderErr
	}

	return &Order{
		ID:          fmt.Sprintf("order_mock_%d", g.orderSeq.Add(1)),
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     receipt,
	}, nil
}

// Refund records the refund attempt.
func (g *MockGateway) Refund(ctx context.Context, paymentID string, amountMinor int64) error {
	if g.RefundErr != nil {
		return g.RefundErr
	}

	g.refundSeq.Add(1)
	g.lastRefundMinor.Store(amountMinor)
	return nil
}

// RefundCount reports how many refunds succeeded.
func (g *MockGateway) RefundCount() int64 {
	return g.refundSeq.Load()
}

// LastRefundMinor reports the amount of the most recent refund.
func (g *MockGateway) LastRefundMinor() int64 {
	return g.lastRefundMinor.Load()
}

// Ensure MockGateway implements Gateway.
var _ Gateway = (*MockGateway)(nil)
