package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"liencrm_backend/internal/notification/service"
	"liencrm_backend/platform/httpkit"
)

const msgInvalidID = "invalid notification ID"

// Handler handles HTTP requests for in-app notifications.
type Handler struct {
	svc *service.Service
}

// New creates a new notifications handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List retrieves the caller's notifications.
// GET /api/v1/notifications
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	items, total, err := h.svc.List(c.Request.Context(), identity.UserID(), page, pageSize)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{
		"items": items,
		"total": total,
	})
}

// CountUnread returns the caller's unread notification count.
// GET /api/v1/notifications/unread
func (h *Handler) CountUnread(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	count, err := h.svc.CountUnread(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"count": count})
}

// MarkRead marks a single notification as read.
// PATCH /api/v1/notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), identity.UserID(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"read": true})
}

// MarkAllRead marks all of the caller's notifications as read.
// PATCH /api/v1/notifications/read-all
func (h *Handler) MarkAllRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.MarkAllRead(c.Request.Context(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"read": true})
}

// Delete removes a notification.
// DELETE /api/v1/notifications/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": true})
}
