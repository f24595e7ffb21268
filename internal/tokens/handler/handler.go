package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"liencrm_backend/internal/tokens/service"
	"liencrm_backend/internal/tokens/transport"
	"liencrm_backend/platform/httpkit"
	"liencrm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for token balances and the ledger.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new tokens handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetBalance returns the authenticated user's token balance.
// GET /api/v1/tokens/balance
func (h *Handler) GetBalance(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetBalance(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Ledger returns a page of the authenticated user's ledger history.
// GET /api/v1/tokens/ledger
func (h *Handler) Ledger(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.svc.Ledger(c.Request.Context(), identity.UserID(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Grant credits tokens to a user.
// POST /api/v1/admin/tokens/grant
func (h *Handler) Grant(c *gin.Context) {
	var req transport.GrantTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Grant(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
