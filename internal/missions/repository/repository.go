package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liencrm_backend/internal/missions/domain"
	"liencrm_backend/platform/apperr"
)

const missionColumns = `id, lead_id, user_id, status, instructions,
	latitude, longitude, hold_expires_at, accepted_at, completed_at,
	completion_latitude, completion_longitude, distance_traveled,
	decline_reason, created_at, updated_at`

// Repo implements Repository backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new missions repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID retrieves a mission by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = $1`

	mission, err := scanMission(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Mission{}, apperr.NotFound("mission not found")
		}
		return Mission{}, fmt.Errorf("get mission: %w", err)
	}
	return mission, nil
}

// List retrieves a user's missions with optional status filtering.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Mission, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM missions
		WHERE user_id = $1 AND ($2::text = '' OR status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.UserID, string(params.Status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count missions: %w", err)
	}

	query := `SELECT ` + missionColumns + `
		FROM missions
		WHERE user_id = $1 AND ($2::text = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, params.UserID, string(params.Status), params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	missions := make([]Mission, 0)
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan mission: %w", err)
		}
		missions = append(missions, mission)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate missions: %w", err)
	}

	return missions, total, nil
}

// CountActive counts the user's missions in an assignment-blocking status.
func (r *Repo) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM missions
		WHERE user_id = $1 AND status IN ('NEW', 'ACCEPTED', 'ON_HOLD')`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active missions: %w", err)
	}
	return count, nil
}

// GetUserStats retrieves per-agent mission counters. Users without a stats
// row get zero counters.
func (r *Repo) GetUserStats(ctx context.Context, userID uuid.UUID) (UserStats, error) {
	query := `
		SELECT user_id, safety_decline_count, completed_count, updated_at
		FROM mission_user_stats WHERE user_id = $1`

	var stats UserStats
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.UserID, &stats.SafetyDeclineCount, &stats.CompletedCount, &stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserStats{UserID: userID}, nil
		}
		return UserStats{}, fmt.Errorf("get mission user stats: %w", err)
	}
	return stats, nil
}

// Create inserts a new mission in the new status.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Mission, error) {
	query := `
		INSERT INTO missions (lead_id, user_id, status, instructions, latitude, longitude, hold_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + missionColumns

	mission, err := scanMission(r.pool.QueryRow(ctx, query,
		params.LeadID, params.UserID, string(domain.StatusNew), params.Instructions,
		params.Latitude, params.Longitude, params.HoldExpiresAt,
	))
	if err != nil {
		return Mission{}, fmt.Errorf("create mission: %w", err)
	}
	return mission, nil
}

// Transition moves a mission between statuses with an optimistic guard on
// the expected current status.
func (r *Repo) Transition(ctx context.Context, id uuid.UUID, from, to domain.Status) (Mission, error) {
	query := `
		UPDATE missions SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + missionColumns

	return r.guardedUpdate(ctx, query, id, string(from), string(to))
}

// Accept marks a mission accepted and records the acceptance time.
func (r *Repo) Accept(ctx context.Context, id uuid.UUID, acceptedAt time.Time) (Mission, error) {
	query := `
		UPDATE missions SET status = $3, accepted_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + missionColumns

	return r.guardedUpdate(ctx, query, id, string(domain.StatusNew), string(domain.StatusAccepted), acceptedAt)
}

// Complete stores the completion report and moves the mission to completed.
func (r *Repo) Complete(ctx context.Context, params CompleteParams) (Mission, error) {
	query := `
		UPDATE missions SET
			status = $3, completed_at = $4,
			completion_latitude = $5, completion_longitude = $6, distance_traveled = $7,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + missionColumns

	return r.guardedUpdate(ctx, query, params.ID,
		string(domain.StatusAccepted), string(domain.StatusCompleted),
		params.CompletedAt, params.Latitude, params.Longitude, params.DistanceKM,
	)
}

// Decline moves a mission to a declined status and records the reason.
func (r *Repo) Decline(ctx context.Context, id uuid.UUID, from, to domain.Status, reason string) (Mission, error) {
	query := `
		UPDATE missions SET status = $3, decline_reason = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + missionColumns

	return r.guardedUpdate(ctx, query, id, string(from), string(to), reason)
}

// ExpireHeld expires every mission still new past its hold window.
func (r *Repo) ExpireHeld(ctx context.Context, now time.Time) ([]Mission, error) {
	query := `
		UPDATE missions SET status = $1, updated_at = NOW()
		WHERE status = $2 AND hold_expires_at <= $3
		RETURNING ` + missionColumns

	rows, err := r.pool.Query(ctx, query, string(domain.StatusHoldExpired), string(domain.StatusNew), now)
	if err != nil {
		return nil, fmt.Errorf("expire held missions: %w", err)
	}
	defer rows.Close()

	missions := make([]Mission, 0)
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expired mission: %w", err)
		}
		missions = append(missions, mission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired missions: %w", err)
	}

	return missions, nil
}

// IncrementSafetyDeclines bumps the user's safety-decline counter and
// returns the new count.
func (r *Repo) IncrementSafetyDeclines(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		INSERT INTO mission_user_stats (user_id, safety_decline_count)
		VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE
		SET safety_decline_count = mission_user_stats.safety_decline_count + 1, updated_at = NOW()
		RETURNING safety_decline_count`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment safety declines: %w", err)
	}
	return count, nil
}

// IncrementCompleted bumps the user's completed-mission counter and returns
// the new count.
func (r *Repo) IncrementCompleted(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		INSERT INTO mission_user_stats (user_id, completed_count)
		VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE
		SET completed_count = mission_user_stats.completed_count + 1, updated_at = NOW()
		RETURNING completed_count`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment completed missions: %w", err)
	}
	return count, nil
}

// guardedUpdate runs a status-guarded UPDATE ... RETURNING. Zero rows means
// the mission either does not exist or moved status concurrently; the two
// cases are distinguished with a follow-up lookup.
func (r *Repo) guardedUpdate(ctx context.Context, query string, id uuid.UUID, args ...any) (Mission, error) {
	queryArgs := append([]any{id}, args...)
	mission, err := scanMission(r.pool.QueryRow(ctx, query, queryArgs...))
	if err == nil {
		return mission, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Mission{}, fmt.Errorf("update mission: %w", err)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return Mission{}, getErr
	}
	return Mission{}, apperr.Conflict("mission status changed")
}

func scanMission(row pgx.Row) (Mission, error) {
	var m Mission
	var status string
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&m.ID, &m.LeadID, &m.UserID, &status, &m.Instructions,
		&m.Latitude, &m.Longitude, &m.HoldExpiresAt, &m.AcceptedAt, &m.CompletedAt,
		&m.CompletionLatitude, &m.CompletionLongitude, &m.DistanceTraveled,
		&m.DeclineReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return Mission{}, err
	}

	m.Status = domain.Status(status)
	m.CreatedAt = createdAt.Format(time.RFC3339)
	m.UpdatedAt = updatedAt.Format(time.RFC3339)

	return m, nil
}

// Compile-time check that Repo implements Repository
var _ Repository = (*Repo)(nil)
