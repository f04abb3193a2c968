// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangtk/passport/internal/platform/constants"
	"github.com/hoangtk/passport/internal/platform/ctxutil"
	"github.com/hoangtk/passport/internal/platform/middleware"
	"github.com/hoangtk/passport/internal/platform/respond"
	"github.com/hoangtk/passport/internal/platform/sec"
)

// authzHarness wires a token issuer and a verifier over the same key, so tests
// can mint tokens (including back-dated ones) that the middleware will check
// against the real clock.
type authzHarness struct {
	key      sec.SigningKey
	verifier *sec.TokenService
}

func newAuthzHarness(t *testing.T) *authzHarness {
	t.Helper()
	key, err := sec.NewSigningKey()
	require.NoError(t, err)
	return &authzHarness{
		key:      key,
		verifier: sec.NewTokenService(key, "passport.test", time.Hour),
	}
}

func (harness *authzHarness) tokenIssuedAt(t *testing.T, issuedAt time.Time) string {
	t.Helper()
	issuer := sec.NewTokenService(harness.key, "passport.test", time.Hour,
		sec.WithClock(func() time.Time { return issuedAt }))
	token, err := issuer.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)
	return token
}

// principalEcho records the principal seen by the innermost handler.
func principalEcho(seen **sec.AuthClaims) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*seen = ctxutil.GetPrincipal(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func performRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		request.Header.Set(constants.HeaderAuthorization, authHeader)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeErrorEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

// # Authenticate

/*
TestAuthenticate_AnonymousPassThrough verifies that requests without a usable
bearer token proceed anonymously: extraction is optional, route policy decides.
*/
func TestAuthenticate_AnonymousPassThrough(t *testing.T) {
	harness := newAuthzHarness(t)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"no_header", ""},
		{"basic_scheme", "Basic dXNlcjpwYXNz"},
		{"bare_token_no_scheme", "some-raw-token"},
		{"lowercase_bearer", "bearer abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *sec.AuthClaims
			handler := middleware.Authenticate(harness.verifier)(principalEcho(&seen))

			recorder := performRequest(handler, tt.authHeader)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Nil(t, seen)
		})
	}
}

func TestAuthenticate_ValidTokenInjectsPrincipal(t *testing.T) {
	harness := newAuthzHarness(t)
	token := harness.tokenIssuedAt(t, time.Now())

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(harness.verifier)(principalEcho(&seen))

	recorder := performRequest(handler, constants.BearerPrefix+token)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Subject)
	assert.True(t, seen.Authorities.Contains("ROLE_USER"))
}

func TestAuthenticate_ExpiredTokenRejected(t *testing.T) {
	harness := newAuthzHarness(t)
	token := harness.tokenIssuedAt(t, time.Now().Add(-2*time.Hour))

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(harness.verifier)(principalEcho(&seen))

	recorder := performRequest(handler, constants.BearerPrefix+token)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Nil(t, seen)

	envelope := decodeErrorEnvelope(t, recorder)
	assert.Equal(t, "Token has expired", envelope.Message)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error)
	assert.Equal(t, http.StatusUnauthorized, envelope.Status)
	assert.False(t, envelope.Date.IsZero())
}

func TestAuthenticate_MalformedTokenRejected(t *testing.T) {
	harness := newAuthzHarness(t)

	var seen *sec.AuthClaims
	handler := middleware.Authenticate(harness.verifier)(principalEcho(&seen))

	recorder := performRequest(handler, constants.BearerPrefix+"not.a.token")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Nil(t, seen)

	envelope := decodeErrorEnvelope(t, recorder)
	assert.Equal(t, "Invalid token", envelope.Message)
	assert.Equal(t, "UNAUTHORIZED", envelope.Error)
}

// # Route Guards

func TestRequireAuth(t *testing.T) {
	var reached bool
	handler := middleware.RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = true
		writer.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous_rejected", func(t *testing.T) {
		reached = false
		recorder := performRequest(handler, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, reached)

		envelope := decodeErrorEnvelope(t, recorder)
		assert.Equal(t, "Authentication required", envelope.Message)
	})

	t.Run("authenticated_allowed", func(t *testing.T) {
		reached = false
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		claims := &sec.AuthClaims{Authorities: sec.AuthorityList{"ROLE_USER"}}
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), claims))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, reached)
	})
}

func TestRequireAuthority(t *testing.T) {
	var reached bool
	handler := middleware.RequireAuthority("ROLE_ADMIN")(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = true
		writer.WriteHeader(http.StatusOK)
	}))

	serve := func(claims *sec.AuthClaims) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if claims != nil {
			request = request.WithContext(ctxutil.WithPrincipal(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("anonymous_gets_401", func(t *testing.T) {
		reached = false
		recorder := serve(nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, reached)
	})

	t.Run("missing_authority_gets_403", func(t *testing.T) {
		reached = false
		recorder := serve(&sec.AuthClaims{Authorities: sec.AuthorityList{"ROLE_USER"}})
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.False(t, reached)

		envelope := decodeErrorEnvelope(t, recorder)
		assert.Equal(t, "FORBIDDEN", envelope.Error)
	})

	t.Run("granted_authority_allowed", func(t *testing.T) {
		reached = false
		recorder := serve(&sec.AuthClaims{Authorities: sec.AuthorityList{"ROLE_USER", "ROLE_ADMIN"}})
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, reached)
	})
}
