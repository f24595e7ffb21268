package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liencrm_backend/platform/apperr"
)

const insufficientTokensMessage = "insufficient tokens"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tokens repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetBalance retrieves a user's token balance. Users without a balance row
// are reported as holding zero tokens.
func (r *Repo) GetBalance(ctx context.Context, userID uuid.UUID) (Balance, error) {
	query := `SELECT user_id, balance, updated_at FROM token_balances WHERE user_id = $1`

	var b Balance
	var updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, userID).Scan(&b.UserID, &b.Balance, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Balance{UserID: userID, Balance: 0}, nil
		}
		return Balance{}, fmt.Errorf("get token balance: %w", err)
	}

	b.UpdatedAt = updatedAt.Format(time.RFC3339)

	return b, nil
}

// Debit atomically removes tokens from a user's balance and records a ledger
// entry. The balance row is locked for the duration of the transaction so
// concurrent debits cannot overdraw the account.
func (r *Repo) Debit(ctx context.Context, params DebitParams) (Balance, error) {
	if params.Amount <= 0 {
		return Balance{}, apperr.Validation("debit amount must be positive")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Balance{}, fmt.Errorf("begin debit: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var current int
	err = tx.QueryRow(ctx,
		`SELECT balance FROM token_balances WHERE user_id = $1 FOR UPDATE`,
		params.UserID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = apperr.PaymentRequired(insufficientTokensMessage)
			return Balance{}, err
		}
		return Balance{}, fmt.Errorf("lock token balance: %w", err)
	}

	if current < params.Amount {
		err = apperr.PaymentRequired(insufficientTokensMessage)
		return Balance{}, err
	}

	remaining := current - params.Amount

	if _, err = tx.Exec(ctx,
		`UPDATE token_balances SET balance = $2, updated_at = now() WHERE user_id = $1`,
		params.UserID, remaining,
	); err != nil {
		return Balance{}, fmt.Errorf("update token balance: %w", err)
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO token_ledger (user_id, amount, balance_after, operation, reference_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		params.UserID, -params.Amount, remaining, params.Operation, params.ReferenceID,
	); err != nil {
		return Balance{}, fmt.Errorf("insert token ledger entry: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return Balance{}, fmt.Errorf("commit debit: %w", err)
	}

	return Balance{UserID: params.UserID, Balance: remaining, UpdatedAt: time.Now().UTC().Format(time.RFC3339)}, nil
}

// Credit atomically adds tokens to a user's balance, creating the balance row
// if it does not exist, and records a ledger entry.
func (r *Repo) Credit(ctx context.Context, params CreditParams) (Balance, error) {
	if params.Amount <= 0 {
		return Balance{}, apperr.Validation("credit amount must be positive")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Balance{}, fmt.Errorf("begin credit: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var remaining int
	err = tx.QueryRow(ctx,
		`INSERT INTO token_balances (user_id, balance)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET balance = token_balances.balance + $2, updated_at = now()
		 RETURNING balance`,
		params.UserID, params.Amount,
	).Scan(&remaining)
	if err != nil {
		return Balance{}, fmt.Errorf("upsert token balance: %w", err)
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO token_ledger (user_id, amount, balance_after, operation, reference_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		params.UserID, params.Amount, remaining, params.Operation, params.ReferenceID,
	); err != nil {
		return Balance{}, fmt.Errorf("insert token ledger entry: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return Balance{}, fmt.Errorf("commit credit: %w", err)
	}

	return Balance{UserID: params.UserID, Balance: remaining, UpdatedAt: time.Now().UTC().Format(time.RFC3339)}, nil
}

// ListLedger retrieves a user's ledger entries, newest first.
func (r *Repo) ListLedger(ctx context.Context, userID uuid.UUID, limit, offset int) ([]LedgerEntry, error) {
	query := `
		SELECT id, user_id, amount, balance_after, operation, reference_id, created_at
		FROM token_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list token ledger: %w", err)
	}
	defer rows.Close()

	var results []LedgerEntry
	for rows.Next() {
		var entry LedgerEntry
		var createdAt time.Time

		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Amount, &entry.BalanceAfter,
			&entry.Operation, &entry.ReferenceID, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan token ledger entry: %w", err)
		}

		entry.CreatedAt = createdAt.Format(time.RFC3339)
		results = append(results, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token ledger: %w", err)
	}

	return results, nil
}
