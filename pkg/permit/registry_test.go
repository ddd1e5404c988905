package permit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit/pkg/permit"
)

func TestNewRegistry(t *testing.T) {
	t.Run("valid registry", func(t *testing.T) {
		reg, err := permit.NewRegistry("users.read", "users.write", "invoices.read")
		require.NoError(t, err)
		assert.True(t, reg.Contains("users.read"))
		assert.False(t, reg.Contains("users.delete"))
		assert.Equal(t, []permit.Permission{"users.read", "users.write", "invoices.read"}, reg.Permissions())
	})

	t.Run("empty registry rejected", func(t *testing.T) {
		_, err := permit.NewRegistry()
		assert.ErrorIs(t, err, permit.ErrNoPermissions)
	})

	t.Run("duplicate code rejected", func(t *testing.T) {
		_, err := permit.NewRegistry("users.read", "users.read")
		assert.ErrorIs(t, err, permit.ErrDuplicatePermission)
	})

	t.Run("blank code rejected", func(t *testing.T) {
		_, err := permit.NewRegistry("users.read", "  ")
		assert.ErrorIs(t, err, permit.ErrNoPermissions)
	})
}

func TestRegistry_PackUnpack(t *testing.T) {
	reg, err := permit.NewRegistry("a.read", "a.write", "b.read", "b.write")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		packed := reg.Pack([]permit.Permission{"a.read", "b.write"})
		assert.Len(t, []rune(packed), 2)
		assert.Equal(t, []permit.Permission{"a.read", "b.write"}, reg.Unpack(packed))
	})

	t.Run("deterministic regardless of input order", func(t *testing.T) {
		p1 := reg.Pack([]permit.Permission{"b.read", "a.read"})
		p2 := reg.Pack([]permit.Permission{"a.read", "b.read"})
		assert.Equal(t, p1, p2)
	})

	t.Run("deduplicates", func(t *testing.T) {
		packed := reg.Pack([]permit.Permission{"a.read", "a.read"})
		assert.Len(t, []rune(packed), 1)
	})

	t.Run("skips unregistered codes", func(t *testing.T) {
		packed := reg.Pack([]permit.Permission{"a.read", "nope"})
		assert.Equal(t, []permit.Permission{"a.read"}, reg.Unpack(packed))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, reg.Pack(nil))
		assert.Nil(t, reg.Unpack(""))
	})

	t.Run("unknown runes ignored on unpack", func(t *testing.T) {
		packed := reg.Pack([]permit.Permission{"a.read"}) + "￰"
		assert.Equal(t, []permit.Permission{"a.read"}, reg.Unpack(packed))
	})
}

func TestNewRole(t *testing.T) {
	t.Run("valid role", func(t *testing.T) {
		role, err := permit.NewRole("Support", permit.RoleTypeNormal, "users.read", "users.read", "b.read")
		require.NoError(t, err)
		assert.Equal(t, "Support", role.Name)
		assert.Equal(t, []permit.Permission{"users.read", "b.read"}, role.Permissions)
		assert.True(t, role.Has("users.read"))
		assert.False(t, role.Has("users.write"))
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := permit.NewRole("  ", permit.RoleTypeNormal, "users.read")
		assert.ErrorIs(t, err, permit.ErrEmptyRoleName)
	})

	t.Run("empty permissions rejected", func(t *testing.T) {
		_, err := permit.NewRole("Support", permit.RoleTypeNormal)
		assert.ErrorIs(t, err, permit.ErrNoPermissions)
	})
}

func TestRoleType_RoundTrip(t *testing.T) {
	for _, rt := range []permit.RoleType{
		permit.RoleTypeNormal,
		permit.RoleTypeHiddenFromTenant,
		permit.RoleTypeTenantAdminAdd,
	} {
		parsed, err := permit.ParseRoleType(rt.String())
		require.NoError(t, err)
		assert.Equal(t, rt, parsed)
	}

	_, err := permit.ParseRoleType("bogus")
	assert.ErrorIs(t, err, permit.ErrInvalidRoleType)
}

func TestCanAssign(t *testing.T) {
	tests := []struct {
		name        string
		roleType    permit.RoleType
		hasTenant   bool
		tenantRoles []string
		roleName    string
		wantErr     error
	}{
		{
			name:     "normal role for app user",
			roleType: permit.RoleTypeNormal,
		},
		{
			name:      "normal role for tenant user",
			roleType:  permit.RoleTypeNormal,
			hasTenant: true,
		},
		{
			name:     "hidden role for app user",
			roleType: permit.RoleTypeHiddenFromTenant,
		},
		{
			name:      "hidden role for tenant user denied",
			roleType:  permit.RoleTypeHiddenFromTenant,
			hasTenant: true,
			wantErr:   permit.ErrRoleForbidsTenant,
		},
		{
			name:     "tenant admin role without tenant denied",
			roleType: permit.RoleTypeTenantAdminAdd,
			roleName: "TenantAdmin",
			wantErr:  permit.ErrRoleNeedsTenant,
		},
		{
			name:        "tenant admin role listed by tenant",
			roleType:    permit.RoleTypeTenantAdminAdd,
			hasTenant:   true,
			tenantRoles: []string{"TenantAdmin"},
			roleName:    "TenantAdmin",
		},
		{
			name:        "tenant admin role not listed denied",
			roleType:    permit.RoleTypeTenantAdminAdd,
			hasTenant:   true,
			tenantRoles: []string{"Other"},
			roleName:    "TenantAdmin",
			wantErr:     permit.ErrRoleNotInTenantList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := permit.CanAssign(tt.roleType, tt.hasTenant, tt.tenantRoles, tt.roleName)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
