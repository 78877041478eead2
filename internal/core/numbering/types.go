// Package numbering provides domain contracts and pure logic for
// business-scoped sequential number generation.
// Persistence implementations live in the infrastructure layer.
package numbering

import "time"

// Type identifies an independent counter within a tenant.
// Each type carries its own format, counter and reset policy.
type Type string

const (
	TypeWorkOrder  Type = "workOrder"
	TypeInvoice    Type = "invoice"
	TypeClient     Type = "client"
	TypeScheduling Type = "scheduling"
	TypeContract   Type = "contract"
)

// AllTypes returns the recognized number types in stable order.
func AllTypes() []Type {
	return []Type{TypeWorkOrder, TypeInvoice, TypeClient, TypeScheduling, TypeContract}
}

// Valid reports whether t is one of the recognized number types.
func (t Type) Valid() bool {
	switch t {
	case TypeWorkOrder, TypeInvoice, TypeClient, TypeScheduling, TypeContract:
		return true
	}
	return false
}

// ResetPeriod defines how often a counter returns to 1.
// Boundaries are compared by calendar component, not elapsed duration.
type ResetPeriod string

const (
	ResetNever   ResetPeriod = "never"
	ResetDaily   ResetPeriod = "daily"
	ResetMonthly ResetPeriod = "monthly"
	ResetYearly  ResetPeriod = "yearly"
)

// Valid reports whether p is a recognized reset period.
func (p ResetPeriod) Valid() bool {
	switch p {
	case ResetNever, ResetDaily, ResetMonthly, ResetYearly:
		return true
	}
	return false
}

// FormatConfig holds the numbering configuration for one (tenant, type) pair.
type FormatConfig struct {
	// Format is the template string, literal text plus placeholders
	// ({YEAR}, {YY}, {MONTH}, {DAY}, {COUNTER}, {COUNTER:N}).
	Format string `json:"format"`

	// Counter is the next value to be consumed; starts at 1.
	Counter int64 `json:"counter"`

	// Padding is the zero-pad width used when {COUNTER} has no explicit width.
	Padding int `json:"padding"`

	// ResetPeriod controls periodic counter resets.
	ResetPeriod ResetPeriod `json:"resetPeriod"`

	// LastReset is the moment the counter was last reset to 1.
	// Updated only when a reset is applied.
	LastReset time.Time `json:"lastReset"`
}

// FormatMap maps number types to their configuration.
// Exactly one map exists per tenant.
type FormatMap map[Type]FormatConfig

// Clone returns a shallow copy of the map. FormatConfig has value semantics,
// so a shallow copy is a full copy.
func (m FormatMap) Clone() FormatMap {
	out := make(FormatMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DefaultConfig returns the system default configuration for a number type.
// Unknown types get a bare counter format so custom types remain renderable.
func DefaultConfig(t Type) FormatConfig {
	if cfg, ok := defaults[t]; ok {
		return cfg
	}
	return FormatConfig{Format: "{COUNTER:5}", Counter: 1, Padding: 5, ResetPeriod: ResetNever}
}

// Defaults returns a fresh copy of the system default format map.
func Defaults() FormatMap {
	out := make(FormatMap, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

var defaults = FormatMap{
	TypeWorkOrder:  {Format: "WO-{YEAR}-{COUNTER:5}", Counter: 1, Padding: 5, ResetPeriod: ResetNever},
	TypeInvoice:    {Format: "INV-{YEAR}{MONTH}-{COUNTER:4}", Counter: 1, Padding: 4, ResetPeriod: ResetMonthly},
	TypeClient:     {Format: "CLIENT-{COUNTER:6}", Counter: 1, Padding: 6, ResetPeriod: ResetNever},
	TypeScheduling: {Format: "SCH-{COUNTER:5}", Counter: 1, Padding: 5, ResetPeriod: ResetNever},
	TypeContract:   {Format: "CONT-{YEAR}-{COUNTER:4}", Counter: 1, Padding: 4, ResetPeriod: ResetYearly},
}

// Normalize fills the unset fields of a stored config from the type's
// defaults, so partially populated records read as complete ones.
func Normalize(t Type, cfg FormatConfig) FormatConfig {
	def := DefaultConfig(t)
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	if cfg.Counter < 1 {
		cfg.Counter = 1
	}
	if cfg.Padding < 0 {
		cfg.Padding = def.Padding
	}
	if !cfg.ResetPeriod.Valid() {
		cfg.ResetPeriod = def.ResetPeriod
	}
	return cfg
}

// MergeWithDefaults overlays stored configuration on the system defaults.
// Stored types win; missing types are filled from defaults. Pure function:
// the input map is not modified, so older tenants gain new number types
// without migration.
func MergeWithDefaults(stored FormatMap) FormatMap {
	out := Defaults()
	for t, cfg := range stored {
		out[t] = Normalize(t, cfg)
	}
	return out
}
