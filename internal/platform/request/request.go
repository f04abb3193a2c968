// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts common body decoding and principal extraction patterns so
handlers stay focused on transport orchestration.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/hoangtk/passport/internal/platform/apperr"
	"github.com/hoangtk/passport/internal/platform/ctxutil"
	"github.com/hoangtk/passport/internal/platform/sec"
	"github.com/hoangtk/passport/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
// It returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Principal extracts the verified token claims from the request context.
// Returns nil if the request is anonymous.
func Principal(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns the claims.

Returns:
  - *sec.AuthClaims: the request's security principal
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredPrincipal(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetPrincipal(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
RequiredSubject returns the principal identifier of the authenticated request.

Returns:
  - string: the subject (username)
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredSubject(request *http.Request) (string, error) {
	claims, err := RequiredPrincipal(request)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
