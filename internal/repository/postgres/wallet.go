package postgres

import (
	"context"
	"database/sql"
	"errors"

	"porter/internal/domain"
	"porter/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Get retrieves a carrier's wallet.
func (r *WalletRepository) Get(ctx context.Context, carrierID string) (*domain.Wallet, error) {
	query := `
		SELECT carrier_id, balance, bank_name, bank_account_number,
		       account_holder_name, ifsc_code, identity_linked
		FROM wallets
		WHERE carrier_id = $1
	`

	var w domain.Wallet
	var bankName, accountNumber, holderName, ifsc sql.NullString
	err := r.q.QueryRowContext(ctx, query, carrierID).Scan(
		&w.CarrierID, &w.Balance,
		&bankName, &accountNumber, &holderName, &ifsc,
		&w.IdentityLinked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	w.BankName = bankName.String
	w.BankAccountNumber = accountNumber.String
	w.AccountHolderName = holderName.String
	w.IFSCCode = ifsc.String

	return &w, nil
}

// Credit increases the balance, creating the wallet if needed.
func (r *WalletRepository) Credit(ctx context.Context, carrierID string, amount float64) error {
	query := `
		INSERT INTO wallets (carrier_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (carrier_id) DO UPDATE SET balance = wallets.balance + $2
	`

	_, err := r.q.ExecContext(ctx, query, carrierID, amount)
	return err
}

// Debit decreases the balance. The balance check and the decrement are
// one statement, so two racing withdrawals cannot both drain the wallet.
func (r *WalletRepository) Debit(ctx context.Context, carrierID string, amount float64) error {
	query := `
		UPDATE wallets
		SET balance = balance - $2
		WHERE carrier_id = $1 AND balance >= $2
	`

	result, err := r.q.ExecContext(ctx, query, carrierID, amount)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrConflict
	}
	return nil
}

// SetBankDetails upserts payout details for the carrier's wallet.
func (r *WalletRepository) SetBankDetails(ctx context.Context, w *domain.Wallet) error {
	query := `
		INSERT INTO wallets (carrier_id, balance, bank_name, bank_account_number,
		                     account_holder_name, ifsc_code, identity_linked)
		VALUES ($1, 0, $2, $3, $4, $5, $6)
		ON CONFLICT (carrier_id) DO UPDATE SET
			bank_name = $2, bank_account_number = $3,
			account_holder_name = $4, ifsc_code = $5, identity_linked = $6
	`

	_, err := r.q.ExecContext(ctx, query,
		w.CarrierID,
		nullString(w.BankName),
		nullString(w.BankAccountNumber),
		nullString(w.AccountHolderName),
		nullString(w.IFSCCode),
		w.IdentityLinked,
	)
	return err
}

// Ensure WalletRepository implements repository.WalletRepository.
var _ repository.WalletRepository = (*WalletRepository)(nil)
