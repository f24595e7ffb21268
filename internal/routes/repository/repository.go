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

const routeColumns = `id, user_id, name, total_distance_km, created_at, updated_at`

const stopColumns = `id, route_id, lead_id, provided_index, optimized_index, latitude, longitude`

// Repo implements Repository backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new routes repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID retrieves a route with its stops ordered by optimized index.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Route, error) {
	query := `SELECT ` + routeColumns + ` FROM mission_routes WHERE id = $1`

	route, err := scanRoute(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Route{}, apperr.NotFound("route not found")
		}
		return Route{}, fmt.Errorf("get route: %w", err)
	}

	stops, err := r.stopsFor(ctx, id)
	if err != nil {
		return Route{}, err
	}
	route.Stops = stops

	return route, nil
}

// List retrieves a user's routes, most recent first, without stops.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Route, int, error) {
	countQuery := `SELECT COUNT(*) FROM mission_routes WHERE user_id = $1`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.UserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count routes: %w", err)
	}

	query := `SELECT ` + routeColumns + `
		FROM mission_routes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, params.UserID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	routes := make([]Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate routes: %w", err)
	}

	return routes, total, nil
}

// Create inserts the route and all its stops in one transaction.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Route, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Route{}, fmt.Errorf("begin route tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	routeQuery := `
		INSERT INTO mission_routes (user_id, name, total_distance_km)
		VALUES ($1, $2, $3)
		RETURNING ` + routeColumns

	route, err := scanRoute(tx.QueryRow(ctx, routeQuery, params.UserID, params.Name, params.TotalDistanceKM))
	if err != nil {
		return Route{}, fmt.Errorf("create route: %w", err)
	}

	stopQuery := `
		INSERT INTO route_stops (route_id, lead_id, provided_index, optimized_index, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + stopColumns

	stops := make([]Stop, 0, len(params.Stops))
	for _, stop := range params.Stops {
		var inserted Stop
		err = tx.QueryRow(ctx, stopQuery,
			route.ID, stop.LeadID, stop.ProvidedIndex, stop.OptimizedIndex, stop.Latitude, stop.Longitude,
		).Scan(
			&inserted.ID, &inserted.RouteID, &inserted.LeadID,
			&inserted.ProvidedIndex, &inserted.OptimizedIndex,
			&inserted.Latitude, &inserted.Longitude,
		)
		if err != nil {
			return Route{}, fmt.Errorf("create route stop: %w", err)
		}
		stops = append(stops, inserted)
	}

	if err = tx.Commit(ctx); err != nil {
		return Route{}, fmt.Errorf("commit route tx: %w", err)
	}

	route.Stops = stops
	return route, nil
}

// Delete removes a route; stops go with it via cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM mission_routes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("route not found")
	}
	return nil
}

func (r *Repo) stopsFor(ctx context.Context, routeID uuid.UUID) ([]Stop, error) {
	query := `SELECT ` + stopColumns + `
		FROM route_stops
		WHERE route_id = $1
		ORDER BY optimized_index`

	rows, err := r.pool.Query(ctx, query, routeID)
	if err != nil {
		return nil, fmt.Errorf("list route stops: %w", err)
	}
	defer rows.Close()

	stops := make([]Stop, 0)
	for rows.Next() {
		var stop Stop
		if err := rows.Scan(
			&stop.ID, &stop.RouteID, &stop.LeadID,
			&stop.ProvidedIndex, &stop.OptimizedIndex,
			&stop.Latitude, &stop.Longitude,
		); err != nil {
			return nil, fmt.Errorf("scan route stop: %w", err)
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate route stops: %w", err)
	}

	return stops, nil
}

func scanRoute(row pgx.Row) (Route, error) {
	var route Route
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&route.ID, &route.UserID, &route.Name, &route.TotalDistanceKM,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return Route{}, err
	}

	route.CreatedAt = createdAt.Format(time.RFC3339)
	route.UpdatedAt = updatedAt.Format(time.RFC3339)

	return route, nil
}

// Compile-time check that Repo implements Repository
var _ Repository = (*Repo)(nil)
