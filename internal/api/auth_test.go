package api

import (
	"net/http"
	"testing"

	"slotbook/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig() config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true},
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			APIKeys: []config.APIClientKey{
				{Key: "full-access", Name: "admin"},
				{Key: "read-only", Name: "widget", Permissions: []string{"read:slots", "read:services"}},
			},
		},
	}
}

func doGet(t *testing.T, url, apiKey string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestAuth(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	ts := newTestServer(t, db, authConfig(), nil)

	t.Run("MissingKey", func(t *testing.T) {
		resp := doGet(t, ts.URL+"/api/v1/services?professional_id=7", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("InvalidKey", func(t *testing.T) {
		resp := doGet(t, ts.URL+"/api/v1/services?professional_id=7", "wrong")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ValidKey", func(t *testing.T) {
		resp := doGet(t, ts.URL+"/api/v1/services?professional_id=7", "full-access")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("ScopedKeyAllowed", func(t *testing.T) {
		resp := doGet(t, ts.URL+"/api/v1/services?professional_id=7", "read-only")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("ScopedKeyDenied", func(t *testing.T) {
		resp := doGet(t, ts.URL+"/api/v1/appointments/1", "read-only")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("EmptyPermissionsAllowEverything", func(t *testing.T) {
		resp := doGet(t, ts.URL+"/api/v1/appointments/4040", "full-access")
		// Authorized; the appointment simply does not exist.
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	cfg := authConfig()
	cfg.Auth.Enabled = false
	ts := newTestServer(t, db, cfg, nil)

	resp := doGet(t, ts.URL+"/api/v1/services?professional_id=7", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	cfg := authConfig()
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 0.001, Burst: 2}
	ts := newTestServer(t, db, cfg, nil)

	url := ts.URL + "/api/v1/services?professional_id=7"
	assert.Equal(t, http.StatusOK, doGet(t, url, "full-access").StatusCode)
	assert.Equal(t, http.StatusOK, doGet(t, url, "full-access").StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, doGet(t, url, "full-access").StatusCode)

	// A different key has its own bucket.
	assert.Equal(t, http.StatusOK, doGet(t, url, "read-only").StatusCode)
}

func TestRequiredPermission(t *testing.T) {
	cases := []struct {
		method   string
		path     string
		expected string
	}{
		{http.MethodGet, "/api/v1/professionals/7/slots", "read:slots"},
		{http.MethodGet, "/api/v1/professionals/7/slots/range", "read:slots"},
		{http.MethodPut, "/api/v1/professionals/7/schedule", "write:schedule"},
		{http.MethodPost, "/api/v1/appointments", "write:appointments"},
		{http.MethodPatch, "/api/v1/appointments/1/status", "write:appointments"},
		{http.MethodGet, "/api/v1/appointments/1", "read:appointments"},
		{http.MethodGet, "/api/v1/services", "read:services"},
		{http.MethodGet, "/api/v1/export/appointments", "read:export"},
		{http.MethodGet, "/healthz", ""},
	}

	for _, tc := range cases {
		req, err := http.NewRequest(tc.method, "http://localhost"+tc.path, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, requiredPermissionHTTP(req), "%s %s", tc.method, tc.path)
	}
}
