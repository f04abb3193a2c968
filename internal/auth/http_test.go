// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangtk/passport/internal/auth"
	"github.com/hoangtk/passport/internal/platform/constants"
	"github.com/hoangtk/passport/internal/platform/middleware"
	"github.com/hoangtk/passport/internal/platform/respond"
	"github.com/hoangtk/passport/internal/platform/sec"
)

// newAuthRouter mounts the auth routes behind the token-extraction middleware,
// mirroring the production server chain for the pieces under test.
func newAuthRouter(harness *serviceHarness) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(harness.tokens))
	router.Mount("/auth", auth.NewHandler(harness.service).Routes())
	return router
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func getWithToken(t *testing.T, router http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		request.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

// # POST /auth/register

func TestHandler_Register(t *testing.T) {
	harness := newServiceHarness(t)
	router := newAuthRouter(harness)

	recorder := postJSON(t, router, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"Secret123!"}`)

	require.Equal(t, http.StatusCreated, recorder.Code)

	data := decodeData(t, recorder)
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "alice@example.com", data["email"])

	// The stored hash must never travel in the response body.
	assert.NotContains(t, recorder.Body.String(), "Secret123!")
	assert.NotContains(t, recorder.Body.String(), "$2")
}

func TestHandler_RegisterValidation(t *testing.T) {
	harness := newServiceHarness(t)
	router := newAuthRouter(harness)

	recorder := postJSON(t, router, "/auth/register",
		`{"username":"al","email":"not-an-email","password":"short"}`)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	envelope := decodeError(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error)
	assert.Len(t, envelope.Details, 3)
}

func TestHandler_RegisterInvalidJSON(t *testing.T) {
	harness := newServiceHarness(t)
	router := newAuthRouter(harness)

	recorder := postJSON(t, router, "/auth/register", `{"username":`)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, recorder).Error)
}

func TestHandler_RegisterConflict(t *testing.T) {
	harness := newServiceHarness(t)
	harness.register(t, "alice", "Secret123!", false)
	router := newAuthRouter(harness)

	recorder := postJSON(t, router, "/auth/register",
		`{"username":"alice","email":"fresh@example.com","password":"Secret123!"}`)

	require.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "CONFLICT", decodeError(t, recorder).Error)
}

// # POST /auth/login

func TestHandler_Login(t *testing.T) {
	harness := newServiceHarness(t)
	harness.register(t, "alice", "Secret123!", false)
	router := newAuthRouter(harness)

	recorder := postJSON(t, router, "/auth/login",
		`{"username":"alice","password":"Secret123!"}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	// Token travels twice: response header and body.
	authHeader := recorder.Header().Get(constants.HeaderAuthorization)
	require.True(t, strings.HasPrefix(authHeader, constants.BearerPrefix))
	headerToken := strings.TrimPrefix(authHeader, constants.BearerPrefix)

	data := decodeData(t, recorder)
	assert.Equal(t, headerToken, data["token"])
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "Welcome, alice", data["message"])

	claims, err := harness.tokens.Validate(headerToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

/*
TestHandler_LoginFailureEnvelope pins the wire contract for auth failures:
{message, error, status, date} with identical content for unknown users and
wrong passwords.
*/
func TestHandler_LoginFailureEnvelope(t *testing.T) {
	harness := newServiceHarness(t)
	harness.register(t, "alice", "Secret123!", false)
	router := newAuthRouter(harness)

	wrongPassword := postJSON(t, router, "/auth/login",
		`{"username":"alice","password":"WrongPassword"}`)
	unknownUser := postJSON(t, router, "/auth/login",
		`{"username":"mallory","password":"Secret123!"}`)

	for _, recorder := range []*httptest.ResponseRecorder{wrongPassword, unknownUser} {
		require.Equal(t, http.StatusUnauthorized, recorder.Code)

		envelope := decodeError(t, recorder)
		assert.Equal(t, "Invalid username or password", envelope.Message)
		assert.Equal(t, "UNAUTHORIZED", envelope.Error)
		assert.Equal(t, http.StatusUnauthorized, envelope.Status)
		assert.False(t, envelope.Date.IsZero())
	}

	assert.Empty(t, wrongPassword.Header().Get(constants.HeaderAuthorization))
}

func TestHandler_LoginMissingFields(t *testing.T) {
	harness := newServiceHarness(t)
	router := newAuthRouter(harness)

	recorder := postJSON(t, router, "/auth/login", `{"username":"alice"}`)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, recorder).Error)
}

// # GET /auth/me

func TestHandler_Me(t *testing.T) {
	harness := newServiceHarness(t)
	harness.register(t, "root", "Secret123!", true)
	router := newAuthRouter(harness)

	login := postJSON(t, router, "/auth/login", `{"username":"root","password":"Secret123!"}`)
	require.Equal(t, http.StatusOK, login.Code)
	token, _ := decodeData(t, login)["token"].(string)
	require.NotEmpty(t, token)

	recorder := getWithToken(t, router, "/auth/me", token)

	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeData(t, recorder)
	assert.Equal(t, "root", data["username"])
	assert.ElementsMatch(t, []any{auth.RoleUser, auth.RoleAdmin}, data["authorities"])
}

func TestHandler_MeAnonymous(t *testing.T) {
	harness := newServiceHarness(t)
	router := newAuthRouter(harness)

	recorder := getWithToken(t, router, "/auth/me", "")

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Authentication required", decodeError(t, recorder).Message)
}

func TestHandler_MeExpiredToken(t *testing.T) {
	harness := newServiceHarness(t)
	router := newAuthRouter(harness)

	// Mint a token under the same key whose lifetime already ran out.
	staleIssuer := sec.NewTokenService(harness.key, "passport.test", time.Hour,
		sec.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
	token, err := staleIssuer.Issue("alice", []string{auth.RoleUser})
	require.NoError(t, err)

	recorder := getWithToken(t, router, "/auth/me", token)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Token has expired", decodeError(t, recorder).Message)
}
