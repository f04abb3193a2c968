// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth

import (
	"context"
	"errors"

	"github.com/hoangtk/passport/internal/platform/apperr"
)

// RoleResolver maps a principal's privilege flag to its canonical role set.
//
// # Contract
//
// Every principal holds the base role; elevated principals additionally hold
// the admin role. Each name is resolved against the persisted role store —
// the resolver never invents a role. An expected name missing from the store
// is a configuration defect surfaced as a MISSING_ROLE error, and the whole
// triggering operation must fail; partial role sets are never returned.
type RoleResolver struct {
	roles RoleRepository
}

// NewRoleResolver constructs a resolver over the persisted role store.
func NewRoleResolver(roles RoleRepository) *RoleResolver {
	return &RoleResolver{roles: roles}
}

/*
Resolve returns the persisted roles for a privilege flag.

Description: read-only with respect to the store; result names are unique and
ordering carries no meaning.

Parameters:
  - context: context.Context
  - elevated: bool

Returns:
  - []Role: base role, plus admin role iff elevated
  - error: apperr.MissingRole naming the absent role, or store failures
*/
func (resolver *RoleResolver) Resolve(context context.Context, elevated bool) ([]Role, error) {
	names := []string{RoleUser}
	if elevated {
		names = append(names, RoleAdmin)
	}

	roles := make([]Role, 0, len(names))
	for _, name := range names {
		role, err := resolver.roles.FindByName(context, name)
		if err != nil {
			var appError *apperr.AppError
			if errors.As(err, &appError) && appError.Code == "NOT_FOUND" {
				return nil, apperr.MissingRole(name)
			}
			return nil, err
		}
		roles = append(roles, *role)
	}

	return roles, nil
}

// AuthorityNames projects resolved roles onto their claim representation.
func AuthorityNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}
