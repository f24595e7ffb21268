package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"liencrm_backend/internal/events"
	"liencrm_backend/internal/tokens/repository"
	"liencrm_backend/internal/tokens/transport"
	"liencrm_backend/platform/apperr"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
)

// Operation names recorded in the ledger.
const (
	OperationLookup = "property_lookup"
	OperationMail   = "owner_mail"
	OperationGrant  = "admin_grant"
)

// Service provides business logic for the token ledger.
type Service struct {
	repo     repository.Repository
	cfg      config.TokenConfig
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new tokens service.
func New(repo repository.Repository, cfg config.TokenConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, eventBus: eventBus, log: log}
}

// GetBalance retrieves a user's current balance.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (transport.BalanceResponse, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return transport.BalanceResponse{}, err
	}
	return transport.BalanceResponse{UserID: balance.UserID, Balance: balance.Balance}, nil
}

// ConsumeLookup debits the configured lookup cost from the user.
func (s *Service) ConsumeLookup(ctx context.Context, userID uuid.UUID, referenceID *uuid.UUID) (transport.ConsumeResult, error) {
	return s.consume(ctx, userID, s.cfg.GetLookupTokenCost(), OperationLookup, referenceID)
}

// ConsumeMail debits the configured mail cost from the user. Mailings are
// priced above lookups because they incur real postage downstream.
func (s *Service) ConsumeMail(ctx context.Context, userID uuid.UUID, referenceID *uuid.UUID) (transport.ConsumeResult, error) {
	return s.consume(ctx, userID, s.cfg.GetMailTokenCost(), OperationMail, referenceID)
}

func (s *Service) consume(ctx context.Context, userID uuid.UUID, amount int, operation string, referenceID *uuid.UUID) (transport.ConsumeResult, error) {
	balance, err := s.repo.Debit(ctx, repository.DebitParams{
		UserID:      userID,
		Amount:      amount,
		Operation:   operation,
		ReferenceID: referenceID,
	})
	if err != nil {
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) && domainErr.Kind == apperr.KindPaymentRequired {
			current, balErr := s.repo.GetBalance(ctx, userID)
			if balErr == nil {
				s.log.TokenDebit(userID.String(), operation, amount, current.Balance, false)
				s.eventBus.Publish(ctx, events.TokensDebitDenied{
					BaseEvent: events.NewBaseEvent(),
					UserID:    userID,
					Requested: amount,
					Balance:   current.Balance,
					Operation: operation,
				})
			}
		}
		return transport.ConsumeResult{}, err
	}

	s.log.TokenDebit(userID.String(), operation, amount, balance.Balance, true)
	s.eventBus.Publish(ctx, events.TokensDebited{
		BaseEvent:       events.NewBaseEvent(),
		UserID:          userID,
		Amount:          amount,
		TokensRemaining: balance.Balance,
		Operation:       operation,
		ReferenceID:     referenceID,
	})

	return transport.ConsumeResult{Success: true, TokensRemaining: balance.Balance}, nil
}

// Grant credits tokens to a user (admin operation).
func (s *Service) Grant(ctx context.Context, req transport.GrantTokensRequest) (transport.BalanceResponse, error) {
	balance, err := s.repo.Credit(ctx, repository.CreditParams{
		UserID:    req.UserID,
		Amount:    req.Amount,
		Operation: OperationGrant,
	})
	if err != nil {
		return transport.BalanceResponse{}, err
	}

	s.log.Info("tokens granted", "userId", req.UserID, "amount", req.Amount, "balance", balance.Balance)

	return transport.BalanceResponse{UserID: balance.UserID, Balance: balance.Balance}, nil
}

// Ledger retrieves a page of a user's ledger history, newest first.
func (s *Service) Ledger(ctx context.Context, userID uuid.UUID, limit, offset int) (transport.LedgerListResponse, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.repo.ListLedger(ctx, userID, limit, offset)
	if err != nil {
		return transport.LedgerListResponse{}, err
	}

	items := make([]transport.LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, transport.LedgerEntryResponse{
			ID:           entry.ID,
			Amount:       entry.Amount,
			BalanceAfter: entry.BalanceAfter,
			Operation:    entry.Operation,
			ReferenceID:  entry.ReferenceID,
			CreatedAt:    entry.CreatedAt,
		})
	}

	return transport.LedgerListResponse{Items: items, Total: len(items)}, nil
}
