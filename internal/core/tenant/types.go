// Package tenant provides the tenant model and registry contract.
// Tenants share one database; isolation is per-row (tenant id column),
// and each tenant owns exactly one numbering document.
package tenant

import (
	"fmt"
	"strings"
	"time"
)

// Status represents tenant lifecycle state.
type Status string

const (
	// StatusActive - tenant can accept requests
	StatusActive Status = "active"

	// StatusSuspended - tenant is temporarily disabled (e.g., payment issues)
	StatusSuspended Status = "suspended"

	// StatusDeleted - tenant is marked for deletion
	StatusDeleted Status = "deleted"
)

// Plan represents tenant subscription plan.
type Plan string

const (
	PlanStandard   Plan = "standard"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// Tenant represents a registered business account.
type Tenant struct {
	ID          string    `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`                 // URL-safe identifier
	DisplayName string    `db:"display_name" json:"displayName"`  // Human-readable name
	Status      Status    `db:"status" json:"status"`
	Plan        Plan      `db:"plan" json:"plan"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// IsActive returns true if tenant can accept requests.
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// EnsureActive returns ErrTenantNotActive unless the tenant can accept
// requests.
func (t *Tenant) EnsureActive() error {
	if !t.IsActive() {
		return ErrTenantNotActive
	}
	return nil
}

// CreateTenantInput contains data for registering a new tenant.
type CreateTenantInput struct {
	Slug        string
	DisplayName string
	Plan        Plan
}

// Validate checks if input is valid.
func (i *CreateTenantInput) Validate() error {
	if i.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	i.Slug = strings.ToLower(i.Slug)
	if len(i.Slug) > 63 {
		return fmt.Errorf("slug must be 63 characters or less")
	}
	if i.DisplayName == "" {
		return fmt.Errorf("display_name is required")
	}
	if i.Plan == "" {
		i.Plan = PlanStandard
	}
	return nil
}
