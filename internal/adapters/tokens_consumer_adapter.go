package adapters

import (
	"context"

	"github.com/google/uuid"

	"liencrm_backend/internal/tokens/service"
)

// TokensAdapter adapts the tokens service for modules that charge for
// operations. It satisfies the properties and leads TokenConsumer interfaces.
type TokensAdapter struct {
	svc *service.Service
}

// NewTokensAdapter creates a new adapter that wraps the tokens service.
func NewTokensAdapter(svc *service.Service) *TokensAdapter {
	return &TokensAdapter{svc: svc}
}

// ConsumeLookup debits the property-lookup cost and returns the remaining balance.
func (a *TokensAdapter) ConsumeLookup(ctx context.Context, userID uuid.UUID, referenceID *uuid.UUID) (int, error) {
	result, err := a.svc.ConsumeLookup(ctx, userID, referenceID)
	if err != nil {
		return 0, err
	}
	return result.TokensRemaining, nil
}

// ConsumeMail debits the owner-mail cost and returns the remaining balance.
func (a *TokensAdapter) ConsumeMail(ctx context.Context, userID uuid.UUID, referenceID *uuid.UUID) (int, error) {
	result, err := a.svc.ConsumeMail(ctx, userID, referenceID)
	if err != nil {
		return 0, err
	}
	return result.TokensRemaining, nil
}
