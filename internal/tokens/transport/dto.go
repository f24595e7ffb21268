package transport

import "github.com/google/uuid"

// BalanceResponse represents a user's token balance in API responses.
type BalanceResponse struct {
	UserID  uuid.UUID `json:"userId"`
	Balance int       `json:"balance"`
}

// ConsumeResult reports the outcome of a token debit.
type ConsumeResult struct {
	Success         bool `json:"success"`
	TokensRemaining int  `json:"tokensRemaining"`
}

// GrantTokensRequest contains data for crediting tokens to a user (admin).
type GrantTokensRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Amount int       `json:"amount" validate:"required,min=1,max=100000"`
	Reason string    `json:"reason,omitempty" validate:"omitempty,max=200"`
}

// LedgerEntryResponse represents a ledger entry in API responses.
type LedgerEntryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Amount       int        `json:"amount"`
	BalanceAfter int        `json:"balanceAfter"`
	Operation    string     `json:"operation"`
	ReferenceID  *uuid.UUID `json:"referenceId,omitempty"`
	CreatedAt    string     `json:"createdAt"`
}

// LedgerListResponse wraps a list of ledger entries.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Total int                   `json:"total"`
}
