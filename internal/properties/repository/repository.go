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

const propertyNotFoundMessage = "property not found"

const propertyColumns = `
	id, county, address, city, state, postal_code, latitude, longitude,
	property_type, year_built, square_feet,
	improvement_value, land_value, total_value, market_value,
	tax_amount_due, existing_tax_loan, in_foreclosure, tax_sale_date,
	is_active, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new properties repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves an active property by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 AND is_active = true`

	row := r.pool.QueryRow(ctx, query, id)
	property, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return Property{}, fmt.Errorf("get property by id: %w", err)
	}

	return property, nil
}

// List retrieves active properties with optional county and type filters.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Property, int, error) {
	var countyParam, typeParam interface{}
	if params.County != "" {
		countyParam = params.County
	}
	if params.PropertyType != "" {
		typeParam = params.PropertyType
	}

	countQuery := `
		SELECT COUNT(*)
		FROM properties
		WHERE is_active = true
			AND ($1::text IS NULL OR county = $1)
			AND ($2::text IS NULL OR property_type = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countyParam, typeParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	query := `SELECT ` + propertyColumns + `
		FROM properties
		WHERE is_active = true
			AND ($1::text IS NULL OR county = $1)
			AND ($2::text IS NULL OR property_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, countyParam, typeParam, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var results []Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan property: %w", err)
		}
		results = append(results, property)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate properties: %w", err)
	}

	return results, total, nil
}

// Create inserts a new property.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Property, error) {
	query := `
		INSERT INTO properties (
			county, address, city, state, postal_code, latitude, longitude,
			property_type, year_built, square_feet,
			improvement_value, land_value, total_value, market_value,
			tax_amount_due, existing_tax_loan, in_foreclosure, tax_sale_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + propertyColumns

	row := r.pool.QueryRow(ctx, query,
		params.County, params.Address, params.City, params.State, params.PostalCode,
		params.Latitude, params.Longitude,
		params.PropertyType, params.YearBuilt, params.SquareFeet,
		params.ImprovementValue, params.LandValue, params.TotalValue, params.MarketValue,
		params.TaxAmountDue, params.ExistingTaxLoan, params.InForeclosure, params.TaxSaleDate,
	)

	property, err := scanProperty(row)
	if err != nil {
		return Property{}, fmt.Errorf("create property: %w", err)
	}

	return property, nil
}

// UpdateDetails updates a property's non-financial attributes.
func (r *Repo) UpdateDetails(ctx context.Context, params UpdateDetailsParams) (Property, error) {
	query := `
		UPDATE properties SET
			county = COALESCE($2, county),
			address = COALESCE($3, address),
			city = COALESCE($4, city),
			state = COALESCE($5, state),
			postal_code = COALESCE($6, postal_code),
			latitude = COALESCE($7, latitude),
			longitude = COALESCE($8, longitude),
			property_type = COALESCE($9, property_type),
			year_built = COALESCE($10, year_built),
			square_feet = COALESCE($11, square_feet),
			updated_at = now()
		WHERE id = $1 AND is_active = true
		RETURNING ` + propertyColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.County, params.Address, params.City, params.State, params.PostalCode,
		params.Latitude, params.Longitude, params.PropertyType, params.YearBuilt, params.SquareFeet,
	)

	property, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return Property{}, fmt.Errorf("update property details: %w", err)
	}

	return property, nil
}

// UpdateValues updates a property's financial figures. TotalValue is always
// written; the service recomputes it from improvement + land before calling.
func (r *Repo) UpdateValues(ctx context.Context, params UpdateValuesParams) (Property, error) {
	query := `
		UPDATE properties SET
			improvement_value = COALESCE($2, improvement_value),
			land_value = COALESCE($3, land_value),
			total_value = $4,
			market_value = COALESCE($5, market_value),
			tax_amount_due = COALESCE($6, tax_amount_due),
			existing_tax_loan = COALESCE($7, existing_tax_loan),
			in_foreclosure = COALESCE($8, in_foreclosure),
			tax_sale_date = COALESCE($9, tax_sale_date),
			updated_at = now()
		WHERE id = $1 AND is_active = true
		RETURNING ` + propertyColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.ImprovementValue, params.LandValue, params.TotalValue,
		params.MarketValue, params.TaxAmountDue, params.ExistingTaxLoan,
		params.InForeclosure, params.TaxSaleDate,
	)

	property, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return Property{}, fmt.Errorf("update property values: %w", err)
	}

	return property, nil
}

// Deactivate soft-deletes a property.
func (r *Repo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE properties SET is_active = false, updated_at = now() WHERE id = $1 AND is_active = true`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate property: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(propertyNotFoundMessage)
	}

	return nil
}

func scanProperty(row pgx.Row) (Property, error) {
	var p Property
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&p.ID, &p.County, &p.Address, &p.City, &p.State, &p.PostalCode,
		&p.Latitude, &p.Longitude,
		&p.PropertyType, &p.YearBuilt, &p.SquareFeet,
		&p.ImprovementValue, &p.LandValue, &p.TotalValue, &p.MarketValue,
		&p.TaxAmountDue, &p.ExistingTaxLoan, &p.InForeclosure, &p.TaxSaleDate,
		&p.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return Property{}, err
	}

	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)

	return p, nil
}
