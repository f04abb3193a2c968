// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth

import "time"

// # Canonical Roles

const (
	// RoleUser is the base role granted to every principal.
	RoleUser = "ROLE_USER"

	// RoleAdmin is the elevated role, granted in addition to the base role.
	RoleAdmin = "ROLE_ADMIN"
)

// # Login Throttling

const (
	// MaxFailedLogins is the number of failed attempts per username+IP before
	// further logins are rejected. Below the threshold every failure returns
	// the same uniform 401, so the throttle does not leak which credential
	// part was wrong.
	MaxFailedLogins = 10

	// FailedLoginWindow is how long a failure counter lives without new failures.
	FailedLoginWindow = 15 * time.Minute
)

// # Messages

const (
	// loginFailedMessage is returned for unknown users AND wrong passwords.
	// A single message prevents account enumeration.
	loginFailedMessage = "Invalid username or password"

	// loginThrottledMessage is returned above the failure threshold.
	loginThrottledMessage = "Too many failed login attempts, try again later"
)
