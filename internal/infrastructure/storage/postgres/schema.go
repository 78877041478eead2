package postgres

import (
	"context"
	"fmt"
)

// schema holds the DDL for the tenant registry and its numbering document.
// The format map is one JSONB document per tenant: the per-tenant
// read-modify-write in NumberingStore locks exactly this row.
const schema = `
CREATE TABLE IF NOT EXISTS tenants (
    id              UUID PRIMARY KEY,
    slug            TEXT NOT NULL UNIQUE,
    display_name    TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'active',
    plan            TEXT NOT NULL DEFAULT 'standard',
    number_formats  JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_tenants_status ON tenants (status);
`

// EnsureSchema creates the registry tables if they do not exist.
// Invoked by the tenant CLI and, when AUTO_MIGRATE is set, by the server.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
