package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalhub/hub/internal/app"
	"github.com/personalhub/hub/internal/config"
	"github.com/personalhub/hub/internal/db/dbtest"
	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/routes"
)

const testPassword = "correct-horse-battery"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		AppName:         "Personal Hub",
		AppEnv:          "development",
		Port:            "0",
		JWTSecret:       "test-secret-that-is-long-enough-to-sign",
		JWTExpiry:       time.Hour,
		RateLimitAuth:   1000,
		RateLimitWindow: time.Minute,
		Timezone:        "UTC",
		S3PresignExpiry: time.Hour,
	}

	server := httptest.NewServer(routes.SetupRoutes(app.Wire(cfg, dbtest.New(t), nil)))
	t.Cleanup(server.Close)
	return server
}

// apiClient keeps cookies between calls and echoes the CSRF cookie on writes.
type apiClient struct {
	t      *testing.T
	base   *url.URL
	client *http.Client
}

func newClient(t *testing.T, server *httptest.Server) *apiClient {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, err := url.Parse(server.URL)
	require.NoError(t, err)

	c := &apiClient{t: t, base: base, client: &http.Client{Jar: jar}}
	status, _, _ := c.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, status)
	return c
}

func (c *apiClient) csrfToken() string {
	for _, cookie := range c.client.Jar.Cookies(c.base) {
		if cookie.Name == "csrf_token" {
			return cookie.Value
		}
	}
	return ""
}

func (c *apiClient) do(method, path string, body any) (int, http.Header, []byte) {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base.String()+path, reader)
	require.NoError(c.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", c.csrfToken())
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, resp.Header, data
}

// json sends a request and decodes the response into a generic map.
func (c *apiClient) json(method, path string, body any) (int, map[string]any) {
	c.t.Helper()

	status, _, data := c.do(method, path, body)
	var out map[string]any
	if len(data) > 0 {
		require.NoError(c.t, json.Unmarshal(data, &out), string(data))
	}
	return status, out
}

func (c *apiClient) register(email string) map[string]any {
	c.t.Helper()

	status, user := c.json(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(c.t, http.StatusCreated, status, user)
	return user
}

func decodeError(t *testing.T, data []byte) respond.APIError {
	t.Helper()

	var envelope respond.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &envelope), string(data))
	return envelope.Error
}

func TestHealthz(t *testing.T) {
	server := newServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	c := newClient(t, newServer(t))

	status, _, data := c.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, respond.CodeNotFound, decodeError(t, data).Code)
}

func TestUnauthenticatedRequestIs401(t *testing.T) {
	c := newClient(t, newServer(t))

	status, header, data := c.do(http.MethodGet, "/api/todos", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, respond.CodeUnauthorized, decodeError(t, data).Code)
}

func TestWritesRequireCSRFHeader(t *testing.T) {
	server := newServer(t)
	c := newClient(t, server)
	c.register("alice@example.com")

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/todos", bytes.NewBufferString(`{"title":"x"}`))
	require.NoError(t, err)
	resp, err := c.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t, newServer(t))

	user := c.register("Alice@Example.com")
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")

	status, me := c.json(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, user["id"], me["id"])

	status, _, data := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "email")

	status, _, _ = c.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _, _ = c.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _, data = c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "not-the-right-one",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, respond.CodeUnauthorized, decodeError(t, data).Code)

	status, _ = c.json(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = c.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	c := newClient(t, newServer(t))

	status, _, data := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "bob@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	apiErr := decodeError(t, data)
	assert.Equal(t, respond.CodeValidation, apiErr.Code)
	assert.Contains(t, apiErr.Fields, "password")
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, _, data := c.do(http.MethodPost, "/api/todos", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, respond.CodeBadRequest, decodeError(t, data).Code)
}

func TestPaginationOutOfRange(t *testing.T) {
	c := newClient(t, newServer(t))
	c.register("alice@example.com")

	status, _, data := c.do(http.MethodGet, "/api/todos?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "limit")

	status, _, data = c.do(http.MethodGet, "/api/notes?offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, data).Fields, "offset")
}
