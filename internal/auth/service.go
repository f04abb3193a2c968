// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/hoangtk/passport/internal/platform/apperr"
	"github.com/hoangtk/passport/internal/platform/sec"
	"github.com/hoangtk/passport/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for producing signed access tokens.
//
// The implementation is [sec.TokenService]; the interface keeps the service
// testable and the token lifetime out of the domain layer (it is a
// process-wide constant of the codec).
type TokenIssuer interface {
	Issue(subject string, authorities []string) (string, error)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	users    UserRepository
	resolver *RoleResolver
	attempts LoginAttemptRepository
	tokens   TokenIssuer
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	users UserRepository,
	resolver *RoleResolver,
	attempts LoginAttemptRepository,
	tokens TokenIssuer,
) *Service {
	return &Service{
		users:    users,
		resolver: resolver,
		attempts: attempts,
		tokens:   tokens,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new principal.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

/*
Register validates, hashes, and persists a brand-new account.

Description: roles are resolved BEFORE the account is written, so a missing
canonical role aborts the whole registration — the store never ends up with a
principal holding a partial role set.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: created entity
  - error: Conflict (identity exists), MissingRole (config defect), or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.users.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err = service.users.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Resolve the role set first: a MISSING_ROLE defect must fail the whole
	// operation before anything is persisted.
	roles, err := service.resolver.Resolve(context, input.IsAdmin)
	if err != nil {
		return nil, err
	}

	// EnsureHashed is idempotent: an input that already carries a recognized
	// hash prefix passes through untouched, so re-submitted hashes can never
	// be double-encoded.
	hashedPassword, err := sec.EnsureHashed(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		IsAdmin:      input.IsAdmin,
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Persist the role links for the new account.
	for _, role := range roles {
		if err := service.users.LinkRole(context, user.ID, role.ID); err != nil {
			return nil, fmt.Errorf("auth_service_link_role_failed: %w", err)
		}
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username  string
	Password  string
	IPAddress string
}

// LoginResult carries the issued token back to the transport layer.
type LoginResult struct {
	Token       string
	Username    string
	Authorities []string
	Message     string
}

/*
Login validates credentials and issues a signed access token.

Description: verifies identity with constant-time password comparison and
seals the resolved authorities into a stateless token. Nothing is persisted —
login is a read-then-sign operation; the only side effect is the volatile
failure counter feeding the throttle.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: transport-ready token and principal echo
  - error: Unauthorized (uniform for unknown user and wrong password),
    RateLimited, MissingRole, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	throttleKey := input.Username + "@" + input.IPAddress

	// Reject early when the caller has exhausted the failure budget.
	failures, err := service.attempts.Failures(context, throttleKey)
	if err != nil {
		return nil, fmt.Errorf("auth_service_throttle_read_failed: %w", err)
	}
	if failures >= MaxFailedLogins {
		return nil, apperr.RateLimited(loginThrottledMessage)
	}

	// Unknown user and wrong password MUST be indistinguishable to the client.
	user, err := service.users.FindByUsername(context, input.Username)
	if err != nil {
		_ = service.attempts.RecordFailure(context, throttleKey)
		return nil, apperr.Unauthorized(loginFailedMessage)
	}

	if !sec.CheckPassword(input.Password, user.PasswordHash) {
		_ = service.attempts.RecordFailure(context, throttleKey)
		return nil, apperr.Unauthorized(loginFailedMessage)
	}

	// Resolve the canonical role set from the role store.
	roles, err := service.resolver.Resolve(context, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	authorities := AuthorityNames(roles)

	token, err := service.tokens.Issue(user.Username, authorities)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	_ = service.attempts.Clear(context, throttleKey)

	return &LoginResult{
		Token:       token,
		Username:    user.Username,
		Authorities: authorities,
		Message:     "Welcome, " + user.Username,
	}, nil
}
