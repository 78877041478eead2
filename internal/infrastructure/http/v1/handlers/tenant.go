package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/tenant"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// TenantHandler serves the admin tenant registry endpoints.
type TenantHandler struct {
	*BaseHandler
	registry tenant.Registry
}

// NewTenantHandler creates a tenant handler.
func NewTenantHandler(base *BaseHandler, registry tenant.Registry) *TenantHandler {
	return &TenantHandler{BaseHandler: base, registry: registry}
}

// Create registers a new tenant.
// POST /admin/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	var req dto.CreateTenantRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := tenant.CreateTenantInput{
		Slug:        req.Slug,
		DisplayName: req.DisplayName,
		Plan:        tenant.Plan(req.Plan),
	}
	if err := input.Validate(); err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	t := &tenant.Tenant{
		Slug:        input.Slug,
		DisplayName: input.DisplayName,
		Plan:        input.Plan,
	}
	if err := h.registry.Create(c.Request.Context(), t); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, t.ID)
}

// List returns all registered tenants.
// GET /admin/tenants
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.registry.ListAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		resp = append(resp, dto.FromTenant(t))
	}
	h.OK(c, resp)
}

// Get returns one tenant by ID.
// GET /admin/tenants/:id
func (h *TenantHandler) Get(c *gin.Context) {
	t, err := h.registry.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			h.Error(c, apperror.NewNotFound("tenant", c.Param("id")))
			return
		}
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTenant(t))
}

// UpdateStatus changes tenant lifecycle state (activate, suspend, delete).
// PUT /admin/tenants/:id/status
func (h *TenantHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateTenantStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.registry.UpdateStatusByID(c.Request.Context(), c.Param("id"), tenant.Status(req.Status))
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			h.Error(c, apperror.NewNotFound("tenant", c.Param("id")))
			return
		}
		h.Error(c, err)
		return
	}

	h.Success(c, "status updated")
}
