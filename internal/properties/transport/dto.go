package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest contains data for registering a new property.
type CreatePropertyRequest struct {
	County     string   `json:"county" validate:"required,min=1,max=100"`
	Address    string   `json:"address" validate:"required,min=1,max=200"`
	City       string   `json:"city" validate:"required,min=1,max=100"`
	State      string   `json:"state" validate:"required,len=2"`
	PostalCode string   `json:"postalCode" validate:"required,min=3,max=10"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`

	PropertyType string `json:"propertyType,omitempty" validate:"omitempty,max=50"`
	YearBuilt    *int   `json:"yearBuilt,omitempty" validate:"omitempty,min=1700,max=2100"`
	SquareFeet   *int   `json:"squareFeet,omitempty" validate:"omitempty,min=0"`

	ImprovementValue decimal.Decimal  `json:"improvementValue"`
	LandValue        decimal.Decimal  `json:"landValue"`
	MarketValue      *decimal.Decimal `json:"marketValue,omitempty"`
	TaxAmountDue     decimal.Decimal  `json:"taxAmountDue"`
	ExistingTaxLoan  bool             `json:"existingTaxLoan"`
	InForeclosure    bool             `json:"inForeclosure"`
	TaxSaleDate      *time.Time       `json:"taxSaleDate,omitempty"`
}

// UpdatePropertyDetailsRequest updates address and structural attributes.
type UpdatePropertyDetailsRequest struct {
	County       *string  `json:"county,omitempty" validate:"omitempty,min=1,max=100"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,min=1,max=200"`
	City         *string  `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State        *string  `json:"state,omitempty" validate:"omitempty,len=2"`
	PostalCode   *string  `json:"postalCode,omitempty" validate:"omitempty,min=3,max=10"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	PropertyType *string  `json:"propertyType,omitempty" validate:"omitempty,max=50"`
	YearBuilt    *int     `json:"yearBuilt,omitempty" validate:"omitempty,min=1700,max=2100"`
	SquareFeet   *int     `json:"squareFeet,omitempty" validate:"omitempty,min=0"`
}

// UpdatePropertyValuesRequest updates financial figures. Any change to the
// improvement or land value recomputes the stored total.
type UpdatePropertyValuesRequest struct {
	ImprovementValue *decimal.Decimal `json:"improvementValue,omitempty"`
	LandValue        *decimal.Decimal `json:"landValue,omitempty"`
	MarketValue      *decimal.Decimal `json:"marketValue,omitempty"`
	TaxAmountDue     *decimal.Decimal `json:"taxAmountDue,omitempty"`
	ExistingTaxLoan  *bool            `json:"existingTaxLoan,omitempty"`
	InForeclosure    *bool            `json:"inForeclosure,omitempty"`
	TaxSaleDate      *time.Time       `json:"taxSaleDate,omitempty"`
}

// ListPropertiesRequest contains query filters for property listings.
type ListPropertiesRequest struct {
	County       string `form:"county"`
	PropertyType string `form:"propertyType"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// PropertyResponse represents a property in API responses.
type PropertyResponse struct {
	ID         uuid.UUID `json:"id"`
	County     string    `json:"county"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`

	PropertyType string `json:"propertyType,omitempty"`
	YearBuilt    *int   `json:"yearBuilt,omitempty"`
	SquareFeet   *int   `json:"squareFeet,omitempty"`

	ImprovementValue decimal.Decimal  `json:"improvementValue"`
	LandValue        decimal.Decimal  `json:"landValue"`
	TotalValue       decimal.Decimal  `json:"totalValue"`
	MarketValue      *decimal.Decimal `json:"marketValue,omitempty"`
	TaxAmountDue     decimal.Decimal  `json:"taxAmountDue"`
	ExistingTaxLoan  bool             `json:"existingTaxLoan"`
	InForeclosure    bool             `json:"inForeclosure"`
	TaxSaleDate      *time.Time       `json:"taxSaleDate,omitempty"`

	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// PropertyListResponse wraps a list of properties.
type PropertyListResponse struct {
	Items []PropertyResponse `json:"items"`
	Total int                `json:"total"`
}

// ScoreFactorResponse is one contribution to a property score.
type ScoreFactorResponse struct {
	Description string `json:"description"`
	Delta       int    `json:"delta"`
}

// PropertyLookupResponse is the priced property report. Retrieving it debits
// lookup tokens from the requesting user.
type PropertyLookupResponse struct {
	Property            PropertyResponse      `json:"property"`
	Score               int                   `json:"score"`
	Grade               string                `json:"grade"`
	InvestmentPotential string                `json:"investmentPotential"`
	ScoreFactors        []ScoreFactorResponse `json:"scoreFactors"`
	ValuationBasis      decimal.Decimal       `json:"valuationBasis"`
	MaxLoanAmount       decimal.Decimal       `json:"maxLoanAmount"`
	TokensRemaining     int                   `json:"tokensRemaining"`
}
