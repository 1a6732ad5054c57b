package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/secondbrain/brain-server/internal/auth"
	"github.com/secondbrain/brain-server/internal/service"
	"github.com/secondbrain/brain-server/internal/store"
	"github.com/secondbrain/brain-server/internal/validation"
)

const testPassword = "Str0ng!Pass"

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a test server backed by a Badger store in a temp dir.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "badger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(auth.FormatJWT, key, 0)
	require.NoError(t, err)

	tags := service.NewTagService(st, nil)
	services := &Services{
		Auth:    service.NewAuthService(st, auth.NewBcryptHasher(bcrypt.MinCost), tokens, nil),
		Tag:     tags,
		Content: service.NewContentService(st, tags, validation.New(), nil),
	}

	s := NewServer(st, services, Options{Metrics: NewMetrics()}, nil)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.API()),
	}
}

// signupAndSignin registers username and returns a session token for it.
func (ts *testServer) signupAndSignin(t *testing.T, username string) string {
	t.Helper()

	creds := map[string]any{"username": username, "password": testPassword}

	resp := ts.api.Post("/api/v1/signup", creds)
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/v1/signin", creds)
	require.Equal(t, http.StatusOK, resp.Code, "signin failed: %s", resp.Body.String())

	var body TokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func authHeader(token string) string {
	return "Authorization: " + token
}

// decodeError parses an error response body.
func decodeError(t *testing.T, body []byte) APIError {
	t.Helper()

	var apiErr APIError
	require.NoError(t, json.Unmarshal(body, &apiErr))
	return apiErr
}

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var healthResp HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &healthResp))

	assert.Equal(t, statusHealthy, healthResp.Status)
	assert.Equal(t, statusHealthy, healthResp.Components["store"].Status)
}

func TestHealthCheck_StoreClosed(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.store.Close())

	resp := ts.api.Get("/health")

	var healthResp HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &healthResp))
	assert.Equal(t, statusUnhealthy, healthResp.Status)
}

func TestMetrics_CountsRequestsByRoutePattern(t *testing.T) {
	ts := setupTestServer(t)

	ts.api.Get("/health")
	ts.api.Get("/api/v1/brain/0123456789abcdef0123456789abcdef")

	resp := ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `brain_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, `route="/api/v1/brain/{shareId}"`)
	assert.NotContains(t, body, "0123456789abcdef0123456789abcdef", "path values never become labels")
	assert.Contains(t, body, "brain_http_request_duration_seconds")
}

func TestOpenAPI_DocumentsRoutes(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/openapi.json")
	require.Equal(t, http.StatusOK, resp.Code)

	for _, path := range []string{
		"/api/v1/signup",
		"/api/v1/signin",
		"/api/v1/content",
		"/api/v1/brain/share",
		"/api/v1/brain/{shareId}",
		"/api/v1/tags",
		"/api/v1/me",
	} {
		assert.Contains(t, resp.Body.String(), `"`+path+`"`)
	}
}

func TestResponses_HaveNoSchemaLinks(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/signup", map[string]any{"username": "alice", "password": testPassword})
	require.Equal(t, http.StatusOK, resp.Code)

	assert.False(t, strings.Contains(resp.Body.String(), "$schema"))
	assert.JSONEq(t, `{"message":"Signed up"}`, resp.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/content", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	resp := httptest.NewRecorder()
	ts.ServeHTTP(resp, req)

	assert.Less(t, resp.Code, http.StatusBadRequest)
	assert.NotEmpty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}
