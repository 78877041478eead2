package numbering

import "context"

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid store dependencies.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, tenantID string, numberType Type) (string, error)
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, tenantID string, numberType Type) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, tenantID, numberType)
	}
	// Default: return predictable mock number
	return "WO-2026-00001", nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
