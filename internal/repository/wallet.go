package repository

import (
	"context"

	"porter/internal/domain"
)

// WalletRepository defines the persistence operations for carrier wallets.
type WalletRepository interface {
	// Get retrieves a carrier's wallet. ErrNotFound if none exists yet.
	Get(ctx context.Context, carrierID string) (*domain.Wallet, error)

	// Credit increases the balance, creating the wallet if needed.
	Credit(ctx context.Context, carrierID string, amount float64) error

	// Debit decreases the balance as a single compare-and-decrement:
	// the balance check and the decrement happen in one statement.
	// ErrConflict if the balance does not cover the amount.
	Debit(ctx context.Context, carrierID string, amount float64) error

	// SetBankDetails upserts payout details for the carrier's wallet.
	SetBankDetails(ctx context.Context, wallet *domain.Wallet) error
}

// WithdrawalRepository defines the persistence operations for
// withdrawal requests.
type WithdrawalRepository interface {
	// Create persists a new withdrawal request.
	Create(ctx context.Context, withdrawal *domain.Withdrawal) error

	// ListByCarrier lists a carrier's withdrawal requests, most recent
	// first.
	ListByCarrier(ctx context.Context, carrierID string) ([]*domain.Withdrawal, error)
}
