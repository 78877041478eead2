package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldops/internal/core/id"
	"fieldops/internal/core/tenant"
)

// TenantRegistry implements tenant.Registry on the embedded database.
type TenantRegistry struct {
	db *DB
}

// Ensure compile-time interface compliance.
var _ tenant.Registry = (*TenantRegistry)(nil)

// NewTenantRegistry creates a registry backed by db.
func NewTenantRegistry(db *DB) *TenantRegistry {
	return &TenantRegistry{db: db}
}

const tenantColumns = "id, slug, display_name, status, plan, created_at, updated_at"

func scanTenant(row interface{ Scan(...any) error }) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Slug, &t.DisplayName, &t.Status, &t.Plan, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantRegistry) GetByID(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, tenantID)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant by id: %w", err)
	}
	return t, nil
}

func (r *TenantRegistry) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = ?`, slug)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant by slug: %w", err)
	}
	return t, nil
}

func (r *TenantRegistry) ListAll(ctx context.Context) ([]*tenant.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
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

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (id, slug, display_name, status, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Slug, t.DisplayName, t.Status, t.Plan, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (r *TenantRegistry) UpdateStatusByID(ctx context.Context, tenantID string, status tenant.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), tenantID)
	if err != nil {
		return fmt.Errorf("update tenant status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tenant status: %w", err)
	}
	if affected == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}
