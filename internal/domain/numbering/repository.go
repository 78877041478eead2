package numbering

import (
	"context"

	corenumbering "fieldops/internal/core/numbering"
)

// Store is the persistence contract for per-tenant numbering state.
// Implementations live in infrastructure/storage.
//
// The tenant's format map is the only shared mutable resource of this
// subsystem: Mutate must serialize writers per tenant, while different
// tenants progress in parallel without coordination.
type Store interface {
	// GetFormats returns the stored format map for the tenant.
	// exists is false when no tenant record is registered; that is not an
	// error on read paths, which fall back to system defaults.
	GetFormats(ctx context.Context, tenantID string) (formats corenumbering.FormatMap, exists bool, err error)

	// Mutate executes fn against the tenant's current format map as a single
	// atomic read-modify-write. No other writer's update may interleave
	// between the read and the persisted result. fn receives the stored map
	// and returns the map to persist; if fn errors, nothing is written.
	//
	// Returns apperror NOT_FOUND when the tenant record does not exist.
	Mutate(ctx context.Context, tenantID string, fn func(corenumbering.FormatMap) (corenumbering.FormatMap, error)) error

	// ReplaceFormats persists the full format map, last-write-wins. Used by
	// the settings path, where updates are rare and human-driven.
	// Returns apperror NOT_FOUND when the tenant record does not exist.
	ReplaceFormats(ctx context.Context, tenantID string, formats corenumbering.FormatMap) error
}
