package domain

import "time"

// Wallet holds a carrier's withdrawable balance and payout details.
// Balance never goes below zero: every debit is conditioned on
// sufficient balance at the instant of mutation.
type Wallet struct {
	CarrierID         string
	Balance           float64
	BankName          string
	BankAccountNumber string
	AccountHolderName string
	IFSCCode          string
	IdentityLinked    bool
}

// PayoutConfigured reports whether the wallet can receive withdrawals.
func (w *Wallet) PayoutConfigured() bool {
	return w.BankAccountNumber != "" && w.IdentityLinked
}

// WithdrawalStatus represents the state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
)

// Withdrawal is a carrier's request to pay out part of the wallet balance.
// It is resolved later by an administrative actor.
type Withdrawal struct {
	ID          string
	CarrierID   string
	Amount      float64
	Status      WithdrawalStatus
	RequestedAt time.Time
	ResolvedAt  time.Time
}
