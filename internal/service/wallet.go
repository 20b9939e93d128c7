package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"porter/internal/domain"
	"porter/internal/repository"
)

// WalletService handles carrier wallet operations and withdrawal
// requests.
type WalletService struct {
	walletRepo     repository.WalletRepository
	withdrawalRepo repository.WithdrawalRepository
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo repository.WalletRepository, withdrawalRepo repository.WithdrawalRepository) *WalletService {
	return &WalletService{
		walletRepo:     walletRepo,
		withdrawalRepo: withdrawalRepo,
	}
}

// Summary retrieves a carrier's wallet. A carrier that never earned has
// an empty wallet rather than an error.
func (s *WalletService) Summary(ctx context.Context, carrierID string) (*domain.Wallet, error) {
	if carrierID == "" {
		return nil, ErrInvalidCarrierID
	}

	wallet, err := s.walletRepo.Get(ctx, carrierID)
	if err != nil {
		if err == repository.ErrNotFound {
			return &domain.Wallet{CarrierID: carrierID}, nil
		}
		return nil, err
	}
	return wallet, nil
}

// Credit adds to a carrier's balance, creating the wallet if needed.
func (s *WalletService) Credit(ctx context.Context, carrierID string, amount float64) error {
	if carrierID == "" {
		return ErrInvalidCarrierID
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return s.walletRepo.Credit(ctx, carrierID, amount)
}

// SetBankDetailsRequest contains the payout details for a carrier.
type SetBankDetailsRequest struct {
	CarrierID         string
	BankName          string
	BankAccountNumber string
	AccountHolderName string
	IFSCCode          string
	IdentityLinked    bool
}

// SetBankDetails upserts the carrier's payout details.
func (s *WalletService) SetBankDetails(ctx context.Context, req SetBankDetailsRequest) error {
	if req.CarrierID == "" {
		return ErrInvalidCarrierID
	}

	return s.walletRepo.SetBankDetails(ctx, &domain.Wallet{
		CarrierID:         req.CarrierID,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		AccountHolderName: req.AccountHolderName,
		IFSCCode:          req.IFSCCode,
		IdentityLinked:    req.IdentityLinked,
	})
}

// RequestWithdrawal debits the requested amount and records a PENDING
// withdrawal. The debit is a compare-and-decrement, so two concurrent
// requests can never overdraw the balance between them.
func (s *WalletService) RequestWithdrawal(ctx context.Context, carrierID string, amount float64) (*domain.Withdrawal, error) {
	if carrierID == "" {
		return nil, ErrInvalidCarrierID
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.walletRepo.Get(ctx, carrierID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	if !wallet.PayoutConfigured() {
		return nil, ErrPayoutNotConfigured
	}

	if err := s.walletRepo.Debit(ctx, carrierID, amount); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	withdrawal := &domain.Withdrawal{
		ID:          uuid.New().String(),
		CarrierID:   carrierID,
		Amount:      amount,
		Status:      domain.WithdrawalStatusPending,
		RequestedAt: time.Now(),
	}

	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		// The debit already happened; restore the balance rather than
		// strand the funds.
		_ = s.walletRepo.Credit(ctx, carrierID, amount)
		return nil, err
	}

	return withdrawal, nil
}

// WithdrawalHistory lists the carrier's withdrawal requests, most
// recent first.
func (s *WalletService) WithdrawalHistory(ctx context.Context, carrierID string) ([]*domain.Withdrawal, error) {
	if carrierID == "" {
		return nil, ErrInvalidCarrierID
	}

	return s.withdrawalRepo.ListByCarrier(ctx, carrierID)
}
