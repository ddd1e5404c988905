package admin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit/pkg/admin"
)

func TestTenantService_AddTenant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates root and child tenants with derived keys", func(t *testing.T) {
		t.Parallel()
		st := seedStore(t)
		tenants := admin.NewTenantService(st)

		res := tenants.AddTenant(ctx, "Globex", "", nil)
		require.True(t, res.IsValid(), res.ErrorText())

		got := tenants.Tenant(ctx, "Globex")
		require.True(t, got.IsValid())
		root := got.Result()
		assert.Equal(t, int64(3), root.ID, "seed ends at id 2")
		assert.Equal(t, "3.", root.DataKey)

		res = tenants.AddTenant(ctx, "East", "Globex", []string{"Support"})
		require.True(t, res.IsValid(), res.ErrorText())

		child := tenants.Tenant(ctx, "Globex|East").Result()
		assert.Equal(t, "3.4.", child.DataKey)
		assert.Equal(t, root.ID, child.ParentID)
		assert.Equal(t, []string{"Support"}, child.Roles)
	})

	t.Run("rejects unknown parents, bad roles, and duplicate names", func(t *testing.T) {
		t.Parallel()
		st := seedStore(t)
		tenants := admin.NewTenantService(st)

		res := tenants.AddTenant(ctx, "X", "NoSuchParent", nil)
		require.True(t, res.HasErrors())
		assert.Contains(t, res.ErrorText(), "NoSuchParent")

		res = tenants.AddTenant(ctx, "X", "", []string{"NoSuchRole", "Admin"})
		require.True(t, res.HasErrors())
		assert.Len(t, res.Errors(), 2, "missing role and hidden role reported together")

		res = tenants.AddTenant(ctx, "West", "Acme", nil)
		require.True(t, res.HasErrors())
		assert.Contains(t, res.ErrorText(), "Acme|West")
	})
}

func TestTenantService_RenameTenant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := seedStore(t)
	tenants := admin.NewTenantService(st)

	res := tenants.RenameTenant(ctx, "Acme", "AcmeCorp")
	require.True(t, res.IsValid(), res.ErrorText())

	// Names cascade, data keys stay put.
	root := tenants.Tenant(ctx, "AcmeCorp").Result()
	assert.Equal(t, "1.", root.DataKey)
	child := tenants.Tenant(ctx, "AcmeCorp|West").Result()
	assert.Equal(t, "1.2.", child.DataKey)

	assert.True(t, tenants.Tenant(ctx, "Acme").HasErrors(), "old name must be gone")

	res = tenants.RenameTenant(ctx, "NoSuchTenant", "X")
	require.True(t, res.HasErrors())
}

func TestTenantService_MoveTenant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("recomputes names and keys of the moved subtree", func(t *testing.T) {
		t.Parallel()
		st := seedStore(t)
		tenants := admin.NewTenantService(st)
		require.True(t, tenants.AddTenant(ctx, "Globex", "", nil).IsValid())

		res := tenants.MoveTenant(ctx, "Acme", "Globex")
		require.True(t, res.IsValid(), res.ErrorText())

		moved := tenants.Tenant(ctx, "Globex|Acme").Result()
		assert.Equal(t, "3.1.", moved.DataKey)
		child := tenants.Tenant(ctx, "Globex|Acme|West").Result()
		assert.Equal(t, "3.1.2.", child.DataKey)
	})

	t.Run("rejects moving a tenant under its own subtree", func(t *testing.T) {
		t.Parallel()
		st := seedStore(t)
		tenants := admin.NewTenantService(st)

		res := tenants.MoveTenant(ctx, "Acme", "Acme|West")
		require.True(t, res.HasErrors())

		// Hierarchy untouched.
		require.True(t, tenants.Tenant(ctx, "Acme|West").IsValid())
	})

	t.Run("move to root", func(t *testing.T) {
		t.Parallel()
		st := seedStore(t)
		tenants := admin.NewTenantService(st)

		res := tenants.MoveTenant(ctx, "Acme|West", "")
		require.True(t, res.IsValid(), res.ErrorText())

		west := tenants.Tenant(ctx, "West").Result()
		assert.Equal(t, "2.", west.DataKey)
		assert.Zero(t, west.ParentID)
	})
}

func TestTenantService_UpdateTenantRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := seedStore(t)
	tenants := admin.NewTenantService(st)

	res := tenants.UpdateTenantRoles(ctx, "Acme|West", []string{"TenantAdmin", "Support"})
	require.True(t, res.IsValid(), res.ErrorText())
	assert.Equal(t, []string{"TenantAdmin", "Support"},
		tenants.Tenant(ctx, "Acme|West").Result().Roles)

	res = tenants.UpdateTenantRoles(ctx, "Acme", []string{"Admin"})
	require.True(t, res.HasErrors(), "hidden roles cannot be offered to tenants")
	assert.Equal(t, []string{"TenantAdmin"}, tenants.Tenant(ctx, "Acme").Result().Roles)
}

func TestTenantService_DeleteTenant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("children and assigned users both block deletion", func(t *testing.T) {
		t.Parallel()
		st := seedStore(t)
		tenants := admin.NewTenantService(st)
		users := admin.NewUserService(st)
		require.True(t, users.AddNewUser(ctx, "auth0|ann", "", "",
			[]string{"Support"}, "Acme").IsValid())

		res := tenants.DeleteTenant(ctx, "Acme")
		require.True(t, res.HasErrors())
		assert.Len(t, res.Errors(), 2)
		assert.Contains(t, res.ErrorText(), "child tenants")
		assert.Contains(t, res.ErrorText(), "users assigned")
	})

	t.Run("deletes an empty leaf", func(t *testing.T) {
		t.Parallel()
		st := seedStore(t)
		tenants := admin.NewTenantService(st)

		res := tenants.DeleteTenant(ctx, "Acme|West")
		require.True(t, res.IsValid(), res.ErrorText())
		assert.True(t, tenants.Tenant(ctx, "Acme|West").HasErrors())

		names, err := tenants.TenantNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Acme"}, names)
	})
}
