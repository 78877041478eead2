// Package numbering provides business logic for tenant-scoped sequential
// number generation: the generate operation, format settings CRUD and
// format preview.
package numbering

import (
	"context"
	"time"

	"fieldops/internal/core/apperror"
	corenumbering "fieldops/internal/core/numbering"
	"fieldops/pkg/logger"
)

// Service implements number generation and format configuration on top of
// an atomic per-tenant Store. It holds no counter state in memory: every
// call re-reads persisted state, so any number of workers may run it.
type Service struct {
	store Store
	now   func() time.Time
}

// Ensure compile-time interface compliance.
var _ corenumbering.Generator = (*Service)(nil)

// NewService creates a numbering service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewServiceWithClock creates a service with an injected clock.
// Use in tests that exercise reset boundaries.
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// Generate produces the next formatted number for (tenantID, numberType),
// persists the incremented counter and returns the rendered string.
//
// The read-check-render-increment-persist sequence runs as one atomic unit
// per tenant record; two concurrent calls can never both observe the same
// counter value. On any error no number is issued and no state is written.
//
// Unlike the settings read path, Generate requires a registered tenant and
// fails with NOT_FOUND otherwise.
func (s *Service) Generate(ctx context.Context, tenantID string, numberType corenumbering.Type) (string, error) {
	if tenantID == "" {
		return "", apperror.NewValidation("tenant id is required")
	}

	now := s.now()
	var formatted string

	err := s.store.Mutate(ctx, tenantID, func(stored corenumbering.FormatMap) (corenumbering.FormatMap, error) {
		cfg, ok := stored[numberType]
		if ok {
			cfg = corenumbering.Normalize(numberType, cfg)
		} else {
			// Custom types are honored when configured; otherwise the
			// type must be one of the recognized five.
			if !numberType.Valid() {
				return nil, apperror.NewInvalidNumberType(string(numberType))
			}
			cfg = corenumbering.DefaultConfig(numberType)
		}

		if corenumbering.ShouldReset(cfg, now) {
			cfg.Counter = 1
			cfg.LastReset = now
		}

		current := cfg.Counter
		formatted = corenumbering.Render(cfg.Format, current, cfg.Padding, now)
		cfg.Counter = current + 1

		updated := stored.Clone()
		updated[numberType] = cfg
		return updated, nil
	})
	if err != nil {
		return "", err
	}

	logger.Debug(ctx, "number generated",
		"tenant_id", tenantID,
		"type", string(numberType),
		"number", formatted,
	)
	return formatted, nil
}

// GetFormats returns the tenant's format configuration merged over system
// defaults. Stored values win; types the tenant never touched come back as
// defaults. Never fails for an unknown tenant: reads have no registration
// requirement, only Generate does.
func (s *Service) GetFormats(ctx context.Context, tenantID string) (corenumbering.FormatMap, error) {
	stored, _, err := s.store.GetFormats(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return corenumbering.MergeWithDefaults(stored), nil
}

// Defaults returns the static system default map.
func (s *Service) Defaults() corenumbering.FormatMap {
	return corenumbering.Defaults()
}

// UpdateFormats validates and merges a partial format map into the tenant's
// stored configuration. Types absent from partial are left untouched.
// Persistence is last-write-wins: settings changes are rare, human-driven
// operations and do not contend with Generate's transactional path.
// Returns the full merged map.
func (s *Service) UpdateFormats(ctx context.Context, tenantID string, partial corenumbering.FormatMap) (corenumbering.FormatMap, error) {
	if tenantID == "" {
		return nil, apperror.NewValidation("tenant id is required")
	}

	now := s.now()
	sanitized := make(corenumbering.FormatMap, len(partial))
	for t, cfg := range partial {
		if !t.Valid() {
			return nil, apperror.NewValidation("unrecognized number type").
				WithDetail("type", string(t))
		}
		if cfg.Format == "" {
			return nil, apperror.NewValidation("format must be a non-empty string").
				WithDetail("type", string(t))
		}
		if cfg.Counter < 0 {
			return nil, apperror.NewValidation("counter must not be negative").
				WithDetail("type", string(t))
		}
		if cfg.Padding < 0 {
			return nil, apperror.NewValidation("padding must not be negative").
				WithDetail("type", string(t))
		}
		if cfg.ResetPeriod != "" && !cfg.ResetPeriod.Valid() {
			return nil, apperror.NewValidation("invalid reset period").
				WithDetail("type", string(t)).
				WithDetail("resetPeriod", string(cfg.ResetPeriod))
		}

		// Omitted fields get their lifecycle defaults.
		if cfg.Counter == 0 {
			cfg.Counter = 1
		}
		if cfg.ResetPeriod == "" {
			cfg.ResetPeriod = corenumbering.DefaultConfig(t).ResetPeriod
		}
		if cfg.LastReset.IsZero() {
			cfg.LastReset = now
		}
		sanitized[t] = cfg
	}

	stored, _, err := s.store.GetFormats(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	merged := stored.Clone()
	for t, cfg := range sanitized {
		merged[t] = cfg
	}

	if err := s.store.ReplaceFormats(ctx, tenantID, merged); err != nil {
		return nil, err
	}

	logger.Info(ctx, "number formats updated",
		"tenant_id", tenantID,
		"types", len(sanitized),
	)
	return corenumbering.MergeWithDefaults(merged), nil
}

// PreviewFormat renders a template without touching persisted state. Used by
// the settings UI to show a live example before saving. Per the renderer's
// leniency policy it cannot fail on malformed templates.
func (s *Service) PreviewFormat(format string, counter int64, padding int) string {
	return corenumbering.Render(format, counter, padding, s.now())
}
