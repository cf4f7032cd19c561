package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"friendlyvoice/internal/config"
	"friendlyvoice/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// onePixelPNG is a valid 1x1 PNG data URI for the stub generator.
const onePixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

type stubGenerator struct{}

func (stubGenerator) GenerateAvatar(ctx context.Context, mimeType string, audio []byte) (string, error) {
	return onePixelPNG, nil
}

// newTestServer builds a Server on sqlite and miniredis with routes mounted.
// APP_ENV=test disables the per-route rate limits.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		Env:                 "test",
		Port:                "8375",
		JWTSecret:           "handler-test-secret-at-least-32-chars",
		SignupExistingEmail: config.SignupExistingReject,
	}

	srv, err := NewServerWithDeps(cfg, db, rdb, stubGenerator{})
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

// doJSON performs a request with an optional bearer token and JSON body,
// decoding the response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// signupUser registers a user through the API and returns the token and ID.
func signupUser(t *testing.T, app *fiber.App, name, email string) (string, uint) {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    email,
		"name":     name,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	return token, uint(user["id"].(float64))
}

func TestSignupIssuesSession(t *testing.T) {
	_, app := newTestServer(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "ana@friendlyvoice.app",
		"name":     "Ana Pérez",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, true, body["onboarding"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "Ana Pérez", user["name"])
	assert.Empty(t, user["password"], "password hash must never appear in responses")

	// Duplicate email is rejected under the default policy.
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "ana@friendlyvoice.app",
		"name":     "Otra Ana",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestLoginResolvesSameIdentity(t *testing.T) {
	_, app := newTestServer(t)
	_, anaID := signupUser(t, app, "Ana Pérez", "ana@friendlyvoice.app")

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@friendlyvoice.app",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]any)
	assert.Equal(t, float64(anaID), user["id"])

	// Wrong password is rejected once a password is set.
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@friendlyvoice.app",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginAutoCreatesUnknownEmail(t *testing.T) {
	_, app := newTestServer(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "carlos.lopez@friendlyvoice.app",
	})
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Carlos Lopez", user["name"])
	assert.Equal(t, true, body["onboarding"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, app := newTestServer(t)

	status, _ := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/users/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token, _ := signupUser(t, app, "Ana Pérez", "ana@friendlyvoice.app")
	status, body := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ana Pérez", body["name"])
}

func TestLogoutRevokesToken(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := signupUser(t, app, "Ana Pérez", "ana@friendlyvoice.app")

	status, _ := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logged out", body["message"])

	// The revoked token no longer works.
	status, _ = doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Logout is idempotent.
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestIssueWSTicket(t *testing.T) {
	srv, app := newTestServer(t)
	token, anaID := signupUser(t, app, "Ana Pérez", "ana@friendlyvoice.app")

	status, body := doJSON(t, app, http.MethodPost, "/api/ws/ticket", token, nil)
	require.Equal(t, http.StatusOK, status)
	ticket, _ := body["ticket"].(string)
	require.NotEmpty(t, ticket)
	assert.Equal(t, float64(30), body["expires_in"])

	// The ticket maps back to the authenticated user in Redis.
	val, err := srv.redis.Get(context.Background(), "ws_ticket:"+ticket).Result()
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(anaID), 10), val)
}
