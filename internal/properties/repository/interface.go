package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Property represents a tax-delinquent parcel tracked by the CRM.
type Property struct {
	ID         uuid.UUID `db:"id"`
	County     string    `db:"county"`
	Address    string    `db:"address"`
	City       string    `db:"city"`
	State      string    `db:"state"`
	PostalCode string    `db:"postal_code"`
	Latitude   *float64  `db:"latitude"`
	Longitude  *float64  `db:"longitude"`

	PropertyType string `db:"property_type"`
	YearBuilt    *int   `db:"year_built"`
	SquareFeet   *int   `db:"square_feet"`

	ImprovementValue decimal.Decimal  `db:"improvement_value"`
	LandValue        decimal.Decimal  `db:"land_value"`
	TotalValue       decimal.Decimal  `db:"total_value"`
	MarketValue      *decimal.Decimal `db:"market_value"`
	TaxAmountDue     decimal.Decimal  `db:"tax_amount_due"`
	ExistingTaxLoan  bool             `db:"existing_tax_loan"`
	InForeclosure    bool             `db:"in_foreclosure"`
	TaxSaleDate      *time.Time       `db:"tax_sale_date"`

	IsActive  bool   `db:"is_active"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// CreateParams contains parameters for creating a property.
// TotalValue is derived by the service, never accepted from callers.
type CreateParams struct {
	County     string
	Address    string
	City       string
	State      string
	PostalCode string
	Latitude   *float64
	Longitude  *float64

	PropertyType string
	YearBuilt    *int
	SquareFeet   *int

	ImprovementValue decimal.Decimal
	LandValue        decimal.Decimal
	TotalValue       decimal.Decimal
	MarketValue      *decimal.Decimal
	TaxAmountDue     decimal.Decimal
	ExistingTaxLoan  bool
	InForeclosure    bool
	TaxSaleDate      *time.Time
}

// UpdateDetailsParams contains parameters for updating a property's
// non-financial attributes. Nil fields are left unchanged.
type UpdateDetailsParams struct {
	ID           uuid.UUID
	County       *string
	Address      *string
	City         *string
	State        *string
	PostalCode   *string
	Latitude     *float64
	Longitude    *float64
	PropertyType *string
	YearBuilt    *int
	SquareFeet   *int
}

// UpdateValuesParams contains parameters for updating a property's financial
// figures. Nil fields are left unchanged; TotalValue always carries the
// recomputed improvement + land sum.
type UpdateValuesParams struct {
	ID               uuid.UUID
	ImprovementValue *decimal.Decimal
	LandValue        *decimal.Decimal
	TotalValue       decimal.Decimal
	MarketValue      *decimal.Decimal
	TaxAmountDue     *decimal.Decimal
	ExistingTaxLoan  *bool
	InForeclosure    *bool
	TaxSaleDate      *time.Time
}

// ListParams contains filters and paging for property listings.
type ListParams struct {
	County       string
	PropertyType string
	Limit        int
	Offset       int
}

// PropertyReader provides read operations for properties.
type PropertyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Property, error)
	List(ctx context.Context, params ListParams) ([]Property, int, error)
}

// PropertyWriter provides write operations for properties.
type PropertyWriter interface {
	Create(ctx context.Context, params CreateParams) (Property, error)
	UpdateDetails(ctx context.Context, params UpdateDetailsParams) (Property, error)
	UpdateValues(ctx context.Context, params UpdateValuesParams) (Property, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// Repository combines all property repository operations.
type Repository interface {
	PropertyReader
	PropertyWriter
}
