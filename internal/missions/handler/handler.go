package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"liencrm_backend/internal/missions/service"
	"liencrm_backend/internal/missions/transport"
	"liencrm_backend/platform/httpkit"
	"liencrm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid mission ID"
)

// Handler handles HTTP requests for missions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new missions handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create assigns a field mission for a lead to the caller.
// POST /api/v1/missions
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByID retrieves a mission by ID.
// GET /api/v1/missions/:id
func (h *Handler) GetByID(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves the caller's missions.
// GET /api/v1/missions
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ListMissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Accept accepts a new mission.
// POST /api/v1/missions/:id/accept
func (h *Handler) Accept(c *gin.Context) {
	h.simpleTransition(c, h.svc.Accept)
}

// Decline declines a mission, optionally as a safety concern.
// POST /api/v1/missions/:id/decline
func (h *Handler) Decline(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.DeclineMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Decline(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Complete records a mission completion report.
// POST /api/v1/missions/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.CompleteMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), identity.UserID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Pause suspends an accepted mission.
// POST /api/v1/missions/:id/pause
func (h *Handler) Pause(c *gin.Context) {
	h.simpleTransition(c, h.svc.Pause)
}

// Resume returns a paused mission to accepted.
// POST /api/v1/missions/:id/resume
func (h *Handler) Resume(c *gin.Context) {
	h.simpleTransition(c, h.svc.Resume)
}

// Hold parks a new mission.
// POST /api/v1/missions/:id/hold
func (h *Handler) Hold(c *gin.Context) {
	h.simpleTransition(c, h.svc.Hold)
}

// Release returns a held mission to new.
// POST /api/v1/missions/:id/release
func (h *Handler) Release(c *gin.Context) {
	h.simpleTransition(c, h.svc.Release)
}

// Cancel cancels a mission.
// POST /api/v1/missions/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	h.simpleTransition(c, h.svc.Cancel)
}

// Close archives a completed mission.
// POST /api/v1/missions/:id/close
func (h *Handler) Close(c *gin.Context) {
	h.simpleTransition(c, h.svc.Close)
}

// Stats reports the caller's mission counters.
// GET /api/v1/missions/stats
func (h *Handler) Stats(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Stats(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ExpireHeld expires missions past their hold window. Admin only; the
// scheduler worker performs the same sweep on a timer.
// POST /api/v1/admin/missions/expire-held
func (h *Handler) ExpireHeld(c *gin.Context) {
	result, err := h.svc.ExpireHeld(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

type transitionFunc func(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error)

func (h *Handler) simpleTransition(c *gin.Context, fn transitionFunc) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := fn(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
