package repository

import (
	"context"

	"github.com/google/uuid"
)

// Balance represents a user's current token balance.
type Balance struct {
	UserID    uuid.UUID `db:"user_id"`
	Balance   int       `db:"balance"`
	UpdatedAt string    `db:"updated_at"`
}

// LedgerEntry represents a single token movement. Debits carry a negative
// amount, credits a positive one.
type LedgerEntry struct {
	ID           uuid.UUID  `db:"id"`
	UserID       uuid.UUID  `db:"user_id"`
	Amount       int        `db:"amount"`
	BalanceAfter int        `db:"balance_after"`
	Operation    string     `db:"operation"`
	ReferenceID  *uuid.UUID `db:"reference_id"`
	CreatedAt    string     `db:"created_at"`
}

// DebitParams contains parameters for debiting tokens from a user.
type DebitParams struct {
	UserID      uuid.UUID
	Amount      int
	Operation   string
	ReferenceID *uuid.UUID
}

// CreditParams contains parameters for crediting tokens to a user.
type CreditParams struct {
	UserID      uuid.UUID
	Amount      int
	Operation   string
	ReferenceID *uuid.UUID
}

// BalanceReader provides read operations for token balances.
type BalanceReader interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (Balance, error)
	ListLedger(ctx context.Context, userID uuid.UUID, limit, offset int) ([]LedgerEntry, error)
}

// BalanceWriter provides write operations for token balances.
// Debit must be atomic: the balance check, the balance update and the ledger
// row are committed together or not at all.
type BalanceWriter interface {
	Debit(ctx context.Context, params DebitParams) (Balance, error)
	Credit(ctx context.Context, params CreditParams) (Balance, error)
}

// Repository combines all token repository operations.
type Repository interface {
	BalanceReader
	BalanceWriter
}
