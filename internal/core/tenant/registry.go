package tenant

import "context"

// Registry provides access to tenant records.
// The PostgreSQL implementation lives in infrastructure/storage/postgres;
// an embedded SQLite implementation backs dev mode and tests.
type Registry interface {
	// GetByID retrieves tenant by UUID string.
	GetByID(ctx context.Context, tenantID string) (*Tenant, error)

	// GetBySlug retrieves tenant by slug.
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)

	// ListAll returns all tenants.
	ListAll(ctx context.Context) ([]*Tenant, error)

	// Create inserts a new tenant row and populates t.ID.
	Create(ctx context.Context, t *Tenant) error

	// UpdateStatusByID updates tenant status by UUID string.
	UpdateStatusByID(ctx context.Context, tenantID string, status Status) error
}
