// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hoangtk/passport/internal/platform/apperr"
	"github.com/hoangtk/passport/internal/platform/constants"
	"github.com/hoangtk/passport/internal/platform/ctxutil"
	"github.com/hoangtk/passport/internal/platform/respond"
	"github.com/hoangtk/passport/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing mocks to be injected during unit testing.
type TokenVerifier interface {
	Validate(tokenString string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. Look for 'Authorization: Bearer <token>'.
//  2. If the header is absent, or does not use the Bearer scheme, the request
//     proceeds anonymously. Extraction is deliberately optional: some routes
//     are public, and route-level policy (RequireAuth / RequireAuthority)
//     decides whether a principal is mandatory.
//  3. If a token is present, verify it via [TokenVerifier].
//  4. On success, inject the verified claims into the request context as the
//     security principal for this request only.
//  5. On failure, short-circuit with 401. An expired token is the ordinary end
//     of its life (warn); anything else failed structurally or
//     cryptographically and may be tampering (error).
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" || !strings.HasPrefix(authHeader, constants.BearerPrefix) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			tokenString := strings.TrimPrefix(authHeader, constants.BearerPrefix)
			claims, err := verifier.Validate(tokenString)
			if err != nil {
				logger := ctxutil.GetLogger(request.Context())

				if errors.Is(err, sec.ErrTokenExpired) {
					logger.WarnContext(request.Context(), "token_expired")
					respond.Error(writer, request, apperr.Unauthorized("Token has expired"))
					return
				}

				logger.ErrorContext(request.Context(), "token_rejected",
					slog.String("reason", err.Error()),
				)
				respond.Error(writer, request, apperr.Unauthorized("Invalid token"))
				return
			}

			// ── 3. Security Context Injection ─────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetPrincipal(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAuthority blocks requests whose principal lacks the named authority.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies
// [RequireAuth], so mounting both is unnecessary.
//
// # Flow
//  1. Anonymous request → 401.
//  2. Authenticated but authority not granted → 403.
func RequireAuthority(authority string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !claims.Authorities.Contains(authority) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
