// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

/*
Package auth implements the stateless authentication and authorization core.

It owns the full pipeline: credential verification at login, signed-token
issuance, persisted role resolution, and the entities those operations read
and write. Per-request token validation lives in the middleware package,
which consumes the same token service.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
transport or storage dependencies and encapsulate the identity rules.
*/
package auth

import "time"

// # Domain Entities

// User is a registered principal: a stable username plus a privilege flag.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role is a canonical, persisted authority grant.
//
// Roles are seeded by migration and never auto-created at runtime: a name the
// resolver expects but cannot find is a deployment defect (MISSING_ROLE).
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// # Field Identifiers

// Field names used for validation details and response payloads.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldToken       = "token"
	FieldMessage     = "message"
	FieldAuthorities = "authorities"
)
