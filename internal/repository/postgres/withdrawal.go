package postgres

import (
	"context"
	"database/sql"

	"porter/internal/domain"
	"porter/internal/repository"
)

// WithdrawalRepository is a PostgreSQL implementation of
// repository.WithdrawalRepository.
type WithdrawalRepository struct {
	q Querier
}

// NewWithdrawalRepository creates a new PostgreSQL withdrawal repository.
func NewWithdrawalRepository(db *sql.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db}
}

// NewWithdrawalRepositoryWithTx creates a withdrawal repository using a
// transaction.
func NewWithdrawalRepositoryWithTx(tx *sql.Tx) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create persists a new withdrawal request.
func (r *WithdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (id, carrier_id, amount, status, requested_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		w.ID, w.CarrierID, w.Amount, w.Status, w.RequestedAt, nullTime(w.ResolvedAt),
	)
	return err
}

// ListByCarrier lists a carrier's withdrawal requests, most recent first.
func (r *WithdrawalRepository) ListByCarrier(ctx context.Context, carrierID string) ([]*domain.Withdrawal, error) {
	query := `
		SELECT id, carrier_id, amount, status, requested_at, resolved_at
		FROM withdrawals
		WHERE carrier_id = $1
		ORDER BY requested_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, carrierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []*domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		var resolvedAt sql.NullTime
		err := rows.Scan(&w.ID, &w.CarrierID, &w.Amount, &w.Status, &w.RequestedAt, &resolvedAt)
		if err != nil {
			return nil, err
		}
		if resolvedAt.Valid {
			w.ResolvedAt = resolvedAt.Time
		}
		withdrawals = append(withdrawals, &w)
	}
	return withdrawals, rows.Err()
}

// Ensure WithdrawalRepository implements repository.WithdrawalRepository.
var _ repository.WithdrawalRepository = (*WithdrawalRepository)(nil)
