// Copyright (c) 2026 Passport. All rights reserved.
// Author: khoa.tranhoang.vn@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangtk/passport/internal/auth"
	"github.com/hoangtk/passport/internal/platform/apperr"
)

// fakeRoleRepository serves roles from an in-memory map. Names absent from the
// map return apperr.NotFound; a non-nil failWith overrides every lookup.
type fakeRoleRepository struct {
	roles    map[string]*auth.Role
	failWith error
}

func (repository *fakeRoleRepository) FindByName(_ context.Context, name string) (*auth.Role, error) {
	if repository.failWith != nil {
		return nil, repository.failWith
	}
	role, found := repository.roles[name]
	if !found {
		return nil, apperr.NotFound("Role")
	}
	return role, nil
}

func seededRoles() map[string]*auth.Role {
	return map[string]*auth.Role{
		auth.RoleUser:  {ID: "role-user-id", Name: auth.RoleUser},
		auth.RoleAdmin: {ID: "role-admin-id", Name: auth.RoleAdmin},
	}
}

func TestRoleResolver_BasePrincipal(t *testing.T) {
	resolver := auth.NewRoleResolver(&fakeRoleRepository{roles: seededRoles()})

	roles, err := resolver.Resolve(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, []string{auth.RoleUser}, auth.AuthorityNames(roles))
}

func TestRoleResolver_ElevatedPrincipal(t *testing.T) {
	resolver := auth.NewRoleResolver(&fakeRoleRepository{roles: seededRoles()})

	roles, err := resolver.Resolve(context.Background(), true)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{auth.RoleUser, auth.RoleAdmin}, auth.AuthorityNames(roles))
}

/*
TestRoleResolver_MissingRoleIsFatal verifies that an expected role absent from
the store surfaces as a MISSING_ROLE defect and never yields a partial set.
*/
func TestRoleResolver_MissingRoleIsFatal(t *testing.T) {
	store := seededRoles()
	delete(store, auth.RoleAdmin)
	resolver := auth.NewRoleResolver(&fakeRoleRepository{roles: store})

	roles, err := resolver.Resolve(context.Background(), true)

	require.Error(t, err)
	assert.True(t, apperr.IsMissingRole(err))
	assert.Contains(t, err.Error(), auth.RoleAdmin)
	assert.Nil(t, roles)
}

func TestRoleResolver_StoreErrorPassesThrough(t *testing.T) {
	storeFailure := errors.New("connection reset")
	resolver := auth.NewRoleResolver(&fakeRoleRepository{failWith: storeFailure})

	roles, err := resolver.Resolve(context.Background(), false)

	assert.ErrorIs(t, err, storeFailure)
	assert.False(t, apperr.IsMissingRole(err))
	assert.Nil(t, roles)
}
