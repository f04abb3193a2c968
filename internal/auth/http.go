// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoangtk/passport/internal/platform/constants"
	"github.com/hoangtk/passport/internal/platform/middleware"
	requestutil "github.com/hoangtk/passport/internal/platform/request"
	"github.com/hoangtk/passport/internal/platform/respond"
	"github.com/hoangtk/passport/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// This layer is strictly responsible for transport concerns (status codes,
// headers, JSON). Credential and token decisions live in [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : creates a new account.
//   - POST /login    : authenticates and returns a signed token.
//   - GET  /me       : echoes the request's security principal.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new account.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Username, Email, Password, IsAdmin)

Response:
  - 201: User: created profile
  - 400: VALIDATION_ERROR: bad input
  - 409: CONFLICT: username or email already exists
  - 500: MISSING_ROLE: role store is missing a canonical role
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		IsAdmin:  input.IsAdmin,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a principal and returns a signed access token.

POST /api/v1/auth/login

Description: on success the token travels twice — in the Authorization
response header (Bearer scheme) and echoed in the body alongside the username
and a welcome message.

Request:
  - Body: loginRequest (Username, Password)

Response:
  - 200: {token, username, message} + 'Authorization: Bearer <token>' header
  - 401: UNAUTHORIZED: uniform message for unknown user or wrong password
  - 429: RATE_LIMITED: failure budget exhausted
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Username:  input.Username,
		Password:  input.Password,
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderAuthorization, constants.BearerPrefix+result.Token)

	respond.OK(writer, map[string]any{
		FieldToken:    result.Token,
		FieldUsername: result.Username,
		FieldMessage:  result.Message,
	})
}

/*
Me echoes the authenticated request's security principal.

GET /api/v1/auth/me

Response:
  - 200: {username, authorities}
  - 401: UNAUTHORIZED: request is anonymous
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldUsername:    claims.Subject,
		FieldAuthorities: claims.Authorities,
	})
}
