package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/tenant"
	"fieldops/internal/domain/numbering"
	"fieldops/internal/infrastructure/storage/sqlite"
	"fieldops/pkg/logger"
)

type testServer struct {
	router   http.Handler
	registry tenant.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "fieldops.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.EnsureSchema())

	registry := sqlite.NewTenantRegistry(db)
	svc := numbering.NewService(sqlite.NewNumberingStore(db))

	router := NewRouter(RouterConfig{
		Registry:  registry,
		Numbering: svc,
		DB:        db,
		Driver:    "sqlite",
		Logger:    logger.Default(),
		Version:   "test",
	})

	return &testServer{router: router, registry: registry}
}

func (s *testServer) do(t *testing.T, method, path, tenantID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tenantID != "" {
		req.Header.Set("X-Tenant-ID", tenantID)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createTenant(t *testing.T, s *testServer) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/admin/tenants", "", map[string]string{
		"slug":        "acme",
		"displayName": "ACME Field Services",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]string](t, rec)["id"]
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/health/info", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sqlite", decode[map[string]any](t, rec)["database"].(map[string]any)["driver"])
}

func TestTenantHeaderRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/settings/number-formats", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/settings/number-formats", "not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/settings/number-formats", uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuspendedTenantRejected(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	rec := s.do(t, http.MethodPut, "/admin/tenants/"+tenantID+"/status", "", map[string]string{"status": "suspended"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/settings/number-formats", tenantID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetFormats_Defaults(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	rec := s.do(t, http.MethodGet, "/api/v1/settings/number-formats", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	formats := decode[map[string]map[string]any](t, rec)
	require.Len(t, formats, 5)
	assert.Equal(t, "WO-{YEAR}-{COUNTER:5}", formats["workOrder"]["format"])
	assert.Equal(t, "INV-{YEAR}{MONTH}-{COUNTER:4}", formats["invoice"]["format"])
	assert.Equal(t, "monthly", formats["invoice"]["resetPeriod"])
	assert.Equal(t, float64(1), formats["client"]["counter"])
}

func TestUpdateFormatsAndGenerate(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	rec := s.do(t, http.MethodPut, "/api/v1/settings/number-formats", tenantID, map[string]any{
		"workOrder": map[string]any{"format": "JOB-{COUNTER:3}", "padding": 3},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[map[string]map[string]any](t, rec)
	assert.Equal(t, "JOB-{COUNTER:3}", updated["workOrder"]["format"])
	// Untouched types keep defaults
	assert.Equal(t, "CLIENT-{COUNTER:6}", updated["client"]["format"])

	rec = s.do(t, http.MethodPost, "/api/v1/numbers/workOrder", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "JOB-001", decode[map[string]string](t, rec)["number"])

	rec = s.do(t, http.MethodPost, "/api/v1/numbers/workOrder", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "JOB-002", decode[map[string]string](t, rec)["number"])
}

func TestGenerate_DefaultFormat(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	rec := s.do(t, http.MethodPost, "/api/v1/numbers/invoice", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[map[string]string](t, rec)
	assert.Equal(t, "invoice", resp["type"])
	assert.Regexp(t, regexp.MustCompile(`^INV-\d{6}-0001$`), resp["number"])
}

func TestGenerate_UnknownType(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	rec := s.do(t, http.MethodPost, "/api/v1/numbers/bogus", tenantID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_NUMBER_TYPE", decode[map[string]any](t, rec)["code"])
}

func TestUpdateFormats_Invalid(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	// Missing required format field fails binding
	rec := s.do(t, http.MethodPut, "/api/v1/settings/number-formats", tenantID, map[string]any{
		"workOrder": map[string]any{"counter": 5},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/settings/number-formats", tenantID, map[string]any{
		"workOrder": map[string]any{"format": "X-{COUNTER}", "resetPeriod": "hourly"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	rec := s.do(t, http.MethodPost, "/api/v1/settings/number-formats/preview", tenantID, map[string]any{
		"format":  "EST-{COUNTER:4}",
		"counter": 42,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "EST-0042", decode[map[string]string](t, rec)["preview"])
}

func TestDefaultsEndpoint(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	rec := s.do(t, http.MethodGet, "/api/v1/settings/number-formats/defaults", tenantID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	formats := decode[map[string]map[string]any](t, rec)
	assert.Equal(t, "CONT-{YEAR}-{COUNTER:4}", formats["contract"]["format"])
	assert.Equal(t, "yearly", formats["contract"]["resetPeriod"])
}

func TestAdminTenantEndpoints(t *testing.T) {
	s := newTestServer(t)
	tenantID := createTenant(t, s)

	rec := s.do(t, http.MethodGet, "/admin/tenants", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/admin/tenants/"+tenantID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", decode[map[string]any](t, rec)["slug"])

	rec = s.do(t, http.MethodGet, "/admin/tenants/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/admin/tenants/"+tenantID+"/status", "", map[string]string{"status": "frozen"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/admin/tenants", "", map[string]string{"slug": "acme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
