package repository

import (
	"context"

	"github.com/google/uuid"
)

// Notification categories shown in the client.
const (
	CategoryInfo    = "info"
	CategorySuccess = "success"
	CategoryWarning = "warning"
)

// Notification is an in-app notification row.
type Notification struct {
	ID     uuid.UUID `db:"id"`
	UserID uuid.UUID `db:"user_id"`

	Title   string `db:"title"`
	Content string `db:"content"`

	// ResourceID and ResourceType point at the entity the notification is
	// about, when there is one.
	ResourceID   *uuid.UUID `db:"resource_id"`
	ResourceType *string    `db:"resource_type"`

	Category string `db:"category"`
	IsRead   bool   `db:"is_read"`

	CreatedAt string `db:"created_at"`
}

// CreateParams contains the data needed to create a notification.
type CreateParams struct {
	UserID       uuid.UUID
	Title        string
	Content      string
	ResourceID   *uuid.UUID
	ResourceType *string
	Category     string
}

// ListParams contains pagination for notification listings.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

// NotificationReader provides read operations for notifications.
type NotificationReader interface {
	List(ctx context.Context, params ListParams) ([]Notification, int, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationWriter provides write operations for notifications.
type NotificationWriter interface {
	Create(ctx context.Context, params CreateParams) (Notification, error)
	// MarkRead flips a single notification to read. Scoped to the user so
	// one agent cannot touch another's notifications.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Repository combines all notification repository operations.
type Repository interface {
	NotificationReader
	NotificationWriter
}
