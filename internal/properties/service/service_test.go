package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"liencrm_backend/internal/properties/repository"
	"liencrm_backend/internal/properties/transport"
	"liencrm_backend/platform/apperr"
	"liencrm_backend/platform/logger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeRepo struct {
	properties map[uuid.UUID]repository.Property
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{properties: make(map[uuid.UUID]repository.Property)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Property, error) {
	property, ok := f.properties[id]
	if !ok || !property.IsActive {
		return repository.Property{}, apperr.NotFound("property not found")
	}
	return property, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Property, int, error) {
	var items []repository.Property
	for _, property := range f.properties {
		if property.IsActive {
			items = append(items, property)
		}
	}
	return items, len(items), nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Property, error) {
	property := repository.Property{
		ID:               uuid.New(),
		County:           params.County,
		Address:          params.Address,
		ImprovementValue: params.ImprovementValue,
		LandValue:        params.LandValue,
		TotalValue:       params.TotalValue,
		MarketValue:      params.MarketValue,
		TaxAmountDue:     params.TaxAmountDue,
		ExistingTaxLoan:  params.ExistingTaxLoan,
		InForeclosure:    params.InForeclosure,
		TaxSaleDate:      params.TaxSaleDate,
		PropertyType:     params.PropertyType,
		YearBuilt:        params.YearBuilt,
		IsActive:         true,
	}
	f.properties[property.ID] = property
	return property, nil
}

func (f *fakeRepo) UpdateDetails(_ context.Context, params repository.UpdateDetailsParams) (repository.Property, error) {
	property, ok := f.properties[params.ID]
	if !ok {
		return repository.Property{}, apperr.NotFound("property not found")
	}
	if params.County != nil {
		property.County = *params.County
	}
	f.properties[params.ID] = property
	return property, nil
}

func (f *fakeRepo) UpdateValues(_ context.Context, params repository.UpdateValuesParams) (repository.Property, error) {
	property, ok := f.properties[params.ID]
	if !ok {
		return repository.Property{}, apperr.NotFound("property not found")
	}
	if params.ImprovementValue != nil {
		property.ImprovementValue = *params.ImprovementValue
	}
	if params.LandValue != nil {
		property.LandValue = *params.LandValue
	}
	property.TotalValue = params.TotalValue
	if params.MarketValue != nil {
		property.MarketValue = params.MarketValue
	}
	f.properties[params.ID] = property
	return property, nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	property, ok := f.properties[id]
	if !ok || !property.IsActive {
		return apperr.NotFound("property not found")
	}
	property.IsActive = false
	f.properties[id] = property
	return nil
}

type fakeTokens struct {
	remaining int
	calls     int
	fail      bool
}

func (f *fakeTokens) ConsumeLookup(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (int, error) {
	f.calls++
	if f.fail {
		return 0, apperr.PaymentRequired("insufficient tokens")
	}
	return f.remaining, nil
}

type loanDefaults struct{}

func (loanDefaults) GetDefaultInterestRate() string { return "0.08" }
func (loanDefaults) GetDefaultTermMonths() int      { return 24 }
func (loanDefaults) GetMaxLTV() string              { return "0.45" }

func newTestService(repo repository.Repository, tokens TokenConsumer) *Service {
	return New(repo, tokens, loanDefaults{}, logger.New("test"))
}

func TestCreateDerivesTotalValue(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTokens{})

	result, err := svc.Create(context.Background(), transport.CreatePropertyRequest{
		County:           "Travis",
		Address:          "100 Main St",
		City:             "Austin",
		State:            "TX",
		PostalCode:       "78701",
		ImprovementValue: dec("80000"),
		LandValue:        dec("20000"),
		TaxAmountDue:     dec("4000"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !result.TotalValue.Equal(dec("100000")) {
		t.Fatalf("total %s, want 100000", result.TotalValue)
	}
}

func TestUpdateValuesRecomputesTotal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTokens{})

	created, err := svc.Create(context.Background(), transport.CreatePropertyRequest{
		County:           "Travis",
		Address:          "100 Main St",
		City:             "Austin",
		State:            "TX",
		PostalCode:       "78701",
		ImprovementValue: dec("80000"),
		LandValue:        dec("20000"),
		TaxAmountDue:     dec("4000"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Changing only the land value must still refresh the total.
	land := dec("35000")
	updated, err := svc.UpdateValues(context.Background(), created.ID, transport.UpdatePropertyValuesRequest{
		LandValue: &land,
	})
	if err != nil {
		t.Fatalf("UpdateValues: %v", err)
	}
	if !updated.TotalValue.Equal(dec("115000")) {
		t.Fatalf("total %s, want 115000", updated.TotalValue)
	}
	if !updated.ImprovementValue.Equal(dec("80000")) {
		t.Fatalf("improvement changed unexpectedly to %s", updated.ImprovementValue)
	}
}

func TestLookupDebitsTokensAndScores(t *testing.T) {
	repo := newFakeRepo()
	tokens := &fakeTokens{remaining: 9}
	svc := newTestService(repo, tokens)

	created, err := svc.Create(context.Background(), transport.CreatePropertyRequest{
		County:           "Travis",
		Address:          "100 Main St",
		City:             "Austin",
		State:            "TX",
		PostalCode:       "78701",
		ImprovementValue: dec("90000"),
		LandValue:        dec("30000"),
		TaxAmountDue:     dec("3000"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	result, err := svc.Lookup(context.Background(), uuid.New(), created.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if tokens.calls != 1 {
		t.Fatalf("token consumer called %d times, want 1", tokens.calls)
	}
	if result.TokensRemaining != 9 {
		t.Fatalf("tokens remaining %d, want 9", result.TokensRemaining)
	}
	if result.Score < 0 || result.Score > 100 {
		t.Fatalf("score %d out of bounds", result.Score)
	}
	if !result.ValuationBasis.Equal(dec("120000")) {
		t.Fatalf("valuation %s, want 120000", result.ValuationBasis)
	}
	// 45% of 120000.
	if !result.MaxLoanAmount.Equal(dec("54000")) {
		t.Fatalf("max loan %s, want 54000", result.MaxLoanAmount)
	}
}

func TestLookupInsufficientTokens(t *testing.T) {
	repo := newFakeRepo()
	tokens := &fakeTokens{fail: true}
	svc := newTestService(repo, tokens)

	created, err := svc.Create(context.Background(), transport.CreatePropertyRequest{
		County:           "Travis",
		Address:          "100 Main St",
		City:             "Austin",
		State:            "TX",
		PostalCode:       "78701",
		ImprovementValue: dec("90000"),
		LandValue:        dec("30000"),
		TaxAmountDue:     dec("3000"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Lookup(context.Background(), uuid.New(), created.ID)
	if apperr.GetKind(err) != apperr.KindPaymentRequired {
		t.Fatalf("kind %v, want KindPaymentRequired", apperr.GetKind(err))
	}
}

func TestDeleteIsSoft(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTokens{})

	created, err := svc.Create(context.Background(), transport.CreatePropertyRequest{
		County:           "Travis",
		Address:          "100 Main St",
		City:             "Austin",
		State:            "TX",
		PostalCode:       "78701",
		ImprovementValue: dec("10000"),
		LandValue:        dec("5000"),
		TaxAmountDue:     dec("1000"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), created.ID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// Row still exists under the covers; only is_active flipped.
	if stored, ok := repo.properties[created.ID]; !ok || stored.IsActive {
		t.Fatal("expected retained inactive row after soft delete")
	}
}
