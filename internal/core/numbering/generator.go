package numbering

import "context"

// Generator mints the next formatted identifier for a tenant/type pair.
// This is the domain contract consumed by the business-object creation
// services; the implementation lives in the domain/infrastructure layers.
type Generator interface {
	// Generate atomically produces the next formatted number for the
	// tenant and type, persists the incremented counter and returns the
	// rendered string. On error no number is considered issued.
	Generate(ctx context.Context, tenantID string, numberType Type) (string, error)
}
