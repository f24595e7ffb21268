package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liencrm_backend/platform/apperr"
)

const notificationColumns = `id, user_id, title, content, resource_id, resource_type, category, is_read, created_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notifications repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a notification.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Notification, error) {
	category := params.Category
	if category == "" {
		category = CategoryInfo
	}

	query := `
		INSERT INTO notifications (user_id, title, content, resource_id, resource_type, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + notificationColumns

	row := r.pool.QueryRow(ctx, query,
		params.UserID, params.Title, params.Content,
		params.ResourceID, params.ResourceType, category,
	)

	n, err := scanNotification(row)
	if err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// List retrieves a user's notifications, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Notification, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, params.UserID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, params.UserID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *Repo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips a single notification to read.
func (r *Repo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead flips all of a user's notifications to read.
func (r *Repo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID,
	)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// Delete removes a notification.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	var createdAt time.Time

	err := row.Scan(
		&n.ID, &n.UserID, &n.Title, &n.Content,
		&n.ResourceID, &n.ResourceType, &n.Category, &n.IsRead,
		&createdAt,
	)
	if err != nil {
		return Notification{}, err
	}

	n.CreatedAt = createdAt.Format(time.RFC3339)

	return n, nil
}
