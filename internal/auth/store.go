// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for principal accounts.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account to storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		LinkRole records that the account holds the given persisted role.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - roleID: string

		Returns:
		  - error: persistence failures
	*/
	LinkRole(context context.Context, userID, roleID string) error
}

// # Role Data Access

// RoleRepository is the read-only contract over the persisted role store.
type RoleRepository interface {

	/*
		FindByName returns the persisted role with the given canonical name.

		Parameters:
		  - context: context.Context
		  - name: string (e.g. "ROLE_USER")

		Returns:
		  - *Role: hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByName(context context.Context, name string) (*Role, error)
}

// # Login Throttling Data Access

// LoginAttemptRepository tracks failed login attempts with expiry.
type LoginAttemptRepository interface {

	/*
		Failures returns the current failure count for a throttle key.

		Parameters:
		  - context: context.Context
		  - key: string (username + client IP)

		Returns:
		  - int64: failures within the active window, 0 when none recorded
		  - error: store connectivity failures
	*/
	Failures(context context.Context, key string) (int64, error)

	/*
		RecordFailure increments the failure count and refreshes its TTL.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: store connectivity failures
	*/
	RecordFailure(context context.Context, key string) error

	/*
		Clear removes the failure count after a successful login.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: store connectivity failures
	*/
	Clear(context context.Context, key string) error
}
