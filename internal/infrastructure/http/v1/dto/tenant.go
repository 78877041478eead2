package dto

import (
	"time"

	"fieldops/internal/core/tenant"
)

// CreateTenantRequest registers a new business account.
type CreateTenantRequest struct {
	Slug        string `json:"slug" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	Plan        string `json:"plan"`
}

// UpdateTenantStatusRequest changes tenant lifecycle state.
type UpdateTenantStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended deleted"`
}

// TenantResponse contains tenant fields.
type TenantResponse struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	DisplayName string    `json:"displayName"`
	Status      string    `json:"status"`
	Plan        string    `json:"plan"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromTenant converts a tenant record into a response.
func FromTenant(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID,
		Slug:        t.Slug,
		DisplayName: t.DisplayName,
		Status:      string(t.Status),
		Plan:        string(t.Plan),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
