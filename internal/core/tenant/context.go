package tenant

import (
	"context"
)

// ctxKey is the context key type for tenant-related values.
type ctxKey int

const (
	tenantKey ctxKey = iota
)

// WithTenant stores tenant info in context.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// GetTenant retrieves tenant from context, or nil if absent.
func GetTenant(ctx context.Context) *Tenant {
	t, _ := ctx.Value(tenantKey).(*Tenant)
	return t
}

// GetTenantID returns tenant ID or empty string.
func GetTenantID(ctx context.Context) string {
	if t := GetTenant(ctx); t != nil {
		return t.ID
	}
	return ""
}

// MustGetTenant retrieves tenant or panics.
// Use only after the tenant middleware has run.
func MustGetTenant(ctx context.Context) *Tenant {
	t := GetTenant(ctx)
	if t == nil {
		panic("tenant not in context")
	}
	return t
}
