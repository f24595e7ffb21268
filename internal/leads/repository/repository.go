package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liencrm_backend/internal/geo"
	"liencrm_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `
	l.id, l.user_id, l.property_id,
	l.owner_name, l.owner_phone, l.owner_email, l.source, l.county,
	l.latitude, l.longitude,
	l.status, l.score, l.grade, l.scored_at,
	l.is_dangerous, l.do_not_email, l.do_not_mail, l.is_business,
	l.notes, l.created_at, l.updated_at`

// leadReturning is leadColumns without the table alias, for RETURNING clauses.
const leadReturning = `
	id, user_id, property_id,
	owner_name, owner_phone, owner_email, source, county,
	latitude, longitude,
	status, score, grade, scored_at,
	is_dangerous, do_not_email, do_not_mail, is_business,
	notes, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a lead by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads l WHERE l.id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	return lead, nil
}

// List retrieves leads for a user with optional status filter.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	var statusParam interface{}
	if params.Status != "" {
		statusParam = params.Status
	}

	countQuery := `
		SELECT COUNT(*)
		FROM leads l
		WHERE l.user_id = $1 AND ($2::text IS NULL OR l.status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.UserID, statusParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := `SELECT ` + leadColumns + `
		FROM leads l
		WHERE l.user_id = $1 AND ($2::text IS NULL OR l.status = $2)
		ORDER BY l.created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, params.UserID, statusParam, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// ListInBoundingBox narrows candidates with an axial bounding box and the
// predicate filters. Properties are joined for type and amount-due filtering
// when the lead carries one.
func (r *Repo) ListInBoundingBox(ctx context.Context, box geo.BoundingBox, filters MatchFilters) ([]Lead, error) {
	var typeParam interface{}
	if filters.PropertyType != "" {
		typeParam = filters.PropertyType
	}

	query := `SELECT ` + leadColumns + `
		FROM leads l
		LEFT JOIN properties p ON p.id = l.property_id
		WHERE l.latitude IS NOT NULL AND l.longitude IS NOT NULL
			AND l.latitude BETWEEN $1 AND $2
			AND l.longitude BETWEEN $3 AND $4
			AND l.status NOT IN ('converted', 'closed')
			AND (NOT $5::boolean OR l.is_dangerous = false)
			AND (NOT $6::boolean OR l.is_business = false)
			AND (NOT $7::boolean OR (l.do_not_email = false AND l.do_not_mail = false))
			AND ($8::text IS NULL OR p.property_type = $8)
			AND ($9::numeric IS NULL OR p.tax_amount_due >= $9)
			AND ($10::numeric IS NULL OR p.tax_amount_due <= $10)`

	rows, err := r.pool.Query(ctx, query,
		box.MinLat, box.MaxLat, box.MinLng, box.MaxLng,
		filters.ExcludeDangerous, filters.ExcludeBusiness, filters.ExcludeDoNotContact,
		typeParam, filters.MinAmountDue, filters.MaxAmountDue,
	)
	if err != nil {
		return nil, fmt.Errorf("list leads in bounding box: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// ListScoreable returns the IDs of leads attached to an active property.
func (r *Repo) ListScoreable(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT l.id
		FROM leads l
		JOIN properties p ON p.id = l.property_id
		WHERE p.is_active = true AND l.status NOT IN ('converted', 'closed')`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list scoreable leads: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan scoreable lead id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scoreable leads: %w", err)
	}

	return ids, nil
}

// Create inserts a new lead.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (
			user_id, property_id, owner_name, owner_phone, owner_email,
			source, county, latitude, longitude, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + leadReturning

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		params.UserID, params.PropertyID, params.OwnerName, params.OwnerPhone, params.OwnerEmail,
		params.Source, params.County, params.Latitude, params.Longitude, params.Notes,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}

// Update updates a lead's mutable fields.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Lead, error) {
	query := `
		UPDATE leads SET
			owner_name = COALESCE($2, owner_name),
			owner_phone = COALESCE($3, owner_phone),
			owner_email = COALESCE($4, owner_email),
			county = COALESCE($5, county),
			latitude = COALESCE($6, latitude),
			longitude = COALESCE($7, longitude),
			status = COALESCE($8, status),
			is_dangerous = COALESCE($9, is_dangerous),
			do_not_email = COALESCE($10, do_not_email),
			do_not_mail = COALESCE($11, do_not_mail),
			is_business = COALESCE($12, is_business),
			notes = COALESCE($13, notes),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + leadReturning

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		params.ID, params.OwnerName, params.OwnerPhone, params.OwnerEmail, params.County,
		params.Latitude, params.Longitude, params.Status,
		params.IsDangerous, params.DoNotEmail, params.DoNotMail, params.IsBusiness, params.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}

	return lead, nil
}

// UpdateScore persists a computed score together with its timestamp.
func (r *Repo) UpdateScore(ctx context.Context, update ScoreUpdate) (Lead, error) {
	query := `
		UPDATE leads SET score = $2, grade = $3, scored_at = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadReturning

	lead, err := scanLead(r.pool.QueryRow(ctx, query, update.ID, update.Score, update.Grade, update.ScoredAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead score: %w", err)
	}

	return lead, nil
}

// Delete removes a lead.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}

	return nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&l.ID, &l.UserID, &l.PropertyID,
		&l.OwnerName, &l.OwnerPhone, &l.OwnerEmail, &l.Source, &l.County,
		&l.Latitude, &l.Longitude,
		&l.Status, &l.Score, &l.Grade, &l.ScoredAt,
		&l.IsDangerous, &l.DoNotEmail, &l.DoNotMail, &l.IsBusiness,
		&l.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	l.CreatedAt = createdAt.Format(time.RFC3339)
	l.UpdatedAt = updatedAt.Format(time.RFC3339)

	return l, nil
}

func scanLeads(rows pgx.Rows) ([]Lead, error) {
	var results []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		results = append(results, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return results, nil
}
