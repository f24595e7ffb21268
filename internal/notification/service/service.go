// Package service provides the in-app notification service: persistence of
// notification rows and the read/unread bookkeeping the client relies on.
package service

import (
	"context"

	"github.com/google/uuid"

	"liencrm_backend/internal/notification/repository"
	"liencrm_backend/platform/logger"
)

// Service provides business logic for in-app notifications.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new notifications service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SendParams describes a notification to deliver to a user.
type SendParams struct {
	UserID       uuid.UUID
	Title        string
	Content      string
	ResourceID   *uuid.UUID
	ResourceType string
	Category     string
}

// Send persists an in-app notification for the user.
func (s *Service) Send(ctx context.Context, params SendParams) error {
	var resourceType *string
	if params.ResourceType != "" {
		resourceType = &params.ResourceType
	}

	_, err := s.repo.Create(ctx, repository.CreateParams{
		UserID:       params.UserID,
		Title:        params.Title,
		Content:      params.Content,
		ResourceID:   params.ResourceID,
		ResourceType: resourceType,
		Category:     params.Category,
	})
	if err != nil {
		s.log.Error("failed to persist notification", "userId", params.UserID, "title", params.Title, "error", err)
		return err
	}
	return nil
}

// List retrieves a user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]repository.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return s.repo.List(ctx, repository.ListParams{
		UserID: userID,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
}

// CountUnread returns the number of unread notifications for the user.
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flips a single notification to read.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead flips all of the user's notifications to read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Delete removes a notification.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
