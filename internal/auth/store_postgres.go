// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangtk/passport/internal/platform/apperr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] values so callers never see driver details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new account record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (entity to persist)

Returns:
  - error: database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, isadmin, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByUsername retrieves an account record by its unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, email, passwordhash, isadmin, createdat, updatedat
		FROM users.account
		WHERE username = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves an account record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, username, email, passwordhash, isadmin, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
LinkRole records that the account holds a persisted role.

Parameters:
  - context: context.Context
  - userID: string
  - roleID: string

Returns:
  - error: persistence failures
*/
func (repository *PostgresUserRepository) LinkRole(context context.Context, userID, roleID string) error {
	const query = `
		INSERT INTO users.account_role (accountid, roleid)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	_, err := repository.pool.Exec(context, query, userID, roleID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_link_role_failed: %w", err)
	}

	return nil
}

// # Role Repository

// PostgresRoleRepository implements the RoleRepository interface using pgx.
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new PostgreSQL implementation of the RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

/*
FindByName retrieves a persisted role by its canonical name.

Description: the role store is seeded by migration; a miss here surfaces as
apperr.NotFound, which the role resolver converts to the fatal MISSING_ROLE.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *Role: hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRoleRepository) FindByName(context context.Context, name string) (*Role, error) {
	const query = `SELECT id, name FROM users.role WHERE name = $1`

	role := &Role{}
	err := repository.pool.QueryRow(context, query, name).Scan(&role.ID, &role.Name)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Role")
		}
		return nil, fmt.Errorf("postgres_role_repo_find_by_name_failed: %w", err)
	}

	return role, nil
}
