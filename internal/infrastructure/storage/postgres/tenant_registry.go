package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldops/internal/core/id"
	"fieldops/internal/core/tenant"
)

// tenantColumns are the registry columns; number_formats is deliberately
// excluded, it belongs to NumberingStore.
const tenantColumns = "id, slug, display_name, status, plan, created_at, updated_at"

// TenantRegistry implements tenant.Registry on the shared tenants table.
type TenantRegistry struct {
	pool *Pool
}

// Ensure compile-time interface compliance.
var _ tenant.Registry = (*TenantRegistry)(nil)

// NewTenantRegistry creates a registry backed by the given pool.
func NewTenantRegistry(pool *Pool) *TenantRegistry {
	return &TenantRegistry{pool: pool}
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func (r *TenantRegistry) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *TenantRegistry) GetByID(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := pgxscan.Get(ctx, r.pool, &t, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE id = $1
	`, tenantID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant by id: %w", err)
	}
	return &t, nil
}

func (r *TenantRegistry) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := pgxscan.Get(ctx, r.pool, &t, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE slug = $1
	`, slug)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant by slug: %w", err)
	}
	return &t, nil
}

func (r *TenantRegistry) ListAll(ctx context.Context) ([]*tenant.Tenant, error) {
	var tenants []*tenant.Tenant
	err := pgxscan.Select(ctx, r.pool, &tenants, `
		SELECT `+tenantColumns+`
		FROM tenants
		ORDER BY slug
	`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

func (r *TenantRegistry) Create(ctx context.Context, t *tenant.Tenant) error {
	if t.ID == "" {
		t.ID = id.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = tenant.StatusActive
	}
	if t.Plan == "" {
		t.Plan = tenant.PlanStandard
	}

	sql, args, err := r.builder().
		Insert("tenants").
		Columns("id", "slug", "display_name", "status", "plan", "created_at", "updated_at").
		Values(t.ID, t.Slug, t.DisplayName, t.Status, t.Plan, t.CreatedAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert tenant: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (r *TenantRegistry) UpdateStatusByID(ctx context.Context, tenantID string, status tenant.Status) error {
	sql, args, err := r.builder().
		Update("tenants").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update tenant status: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update tenant status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}
