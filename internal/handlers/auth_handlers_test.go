package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoicely/internal/auth"
	"invoicely/internal/middleware"
	"invoicely/internal/repositories"
	"invoicely/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full API surface over the flat-file backend, the
// same routing shape cmd/main.go builds.
func newTestServer(t *testing.T) (*echo.Echo, *auth.TokenIssuer) {
	t.Helper()

	store, err := repositories.NewJSONFileStore(t.TempDir())
	require.NoError(t, err)

	tokens := auth.NewTokenIssuer("test-secret", 24*time.Hour)
	authService := services.NewAuthService(store.Users(), tokens, 5*time.Second)
	invoiceService := services.NewInvoiceService(store.Invoices(), 5*time.Second)

	authHandlers := NewAuthHandlers(authService)
	invoiceHandlers := NewInvoiceHandlers(invoiceService)

	e := echo.New()
	api := e.Group("/api")
	api.POST("/auth/register", authHandlers.Register)
	api.POST("/auth/login", authHandlers.Login)

	protected := api.Group("", middleware.RequireAuth(tokens))
	protected.GET("/user/profile", authHandlers.Profile)
	protected.POST("/invoices", invoiceHandlers.Create)
	protected.GET("/invoices", invoiceHandlers.List)

	return e, tokens
}

func doRequest(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, e *echo.Echo, email, password, name string) (token string, userID string) {
	t.Helper()

	rec := doRequest(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": password, "name": name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func TestRegister_Success(t *testing.T) {
	e, tokens := newTestServer(t)

	rec := doRequest(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":       "alice@example.com",
		"password":    "secret123",
		"name":        "Alice",
		"companyName": "Acme",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User created successfully", resp["message"])
	assert.NotEmpty(t, resp["token"])

	user := resp["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "Acme", user["companyName"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, rec.Body.String(), "secret123")

	_, err := tokens.Verify(resp["token"].(string))
	assert.NoError(t, err)
}

func TestRegister_MissingFields(t *testing.T) {
	e, _ := newTestServer(t)

	for _, body := range []map[string]string{
		{"password": "secret123", "name": "Alice"},
		{"email": "alice@example.com", "name": "Alice"},
		{"email": "alice@example.com", "password": "secret123"},
	} {
		rec := doRequest(t, e, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Email, password, and name are required"}`, rec.Body.String())
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e, _ := newTestServer(t)

	register(t, e, "alice@example.com", "secret123", "Alice")

	rec := doRequest(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "other", "name": "Alice Again",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"User already exists"}`, rec.Body.String())
}

func TestLogin_Scenario(t *testing.T) {
	e, tokens := newTestServer(t)

	register(t, e, "alice@example.com", "secret123", "Alice")

	rec := doRequest(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp["message"])
	_, err := tokens.Verify(resp["token"].(string))
	assert.NoError(t, err)

	// Wrong password
	rec = doRequest(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	// Unknown email yields the identical response.
	rec = doRequest(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
}

func TestLogin_MissingFields(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email and password are required"}`, rec.Body.String())
}

func TestProfile(t *testing.T) {
	e, _ := newTestServer(t)

	token, userID := register(t, e, "alice@example.com", "secret123", "Alice")

	rec := doRequest(t, e, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, userID, profile["id"])
	assert.Equal(t, "alice@example.com", profile["email"])
	assert.Equal(t, "Alice", profile["name"])
	assert.NotEmpty(t, profile["createdAt"])
	assert.NotContains(t, profile, "passwordHash")

	// companyName is part of the profile shape even when nothing was supplied.
	assert.Contains(t, profile, "companyName")
	assert.Equal(t, "", profile["companyName"])
}

func TestProfile_UnknownUser(t *testing.T) {
	e, tokens := newTestServer(t)

	// Valid token for an identity that no longer exists in the store.
	token, err := tokens.Issue(uuid.New(), "ghost@example.com", "Ghost")
	require.NoError(t, err)

	rec := doRequest(t, e, http.MethodGet, "/api/user/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
}

func TestProfile_AuthFailures(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(t, e, http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/api/user/profile", "malformed-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
