package admin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/store"
	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

// testRegistry returns the permission universe shared by the admin tests.
func testRegistry(t *testing.T) *permit.Registry {
	t.Helper()
	reg, err := permit.NewRegistry("users.read", "users.write", "billing.read")
	require.NoError(t, err)
	return reg
}

// seedStore builds a memory store with a few roles, a two-level tenant
// hierarchy, and one app-level user:
//
//	roles:   Admin (hidden from tenants), Support (normal),
//	         TenantAdmin (tenant admin add)
//	tenants: Acme (id 1, key "1.", allows TenantAdmin)
//	         Acme|West (id 2, key "1.2.")
//	users:   auth0|root (app level, role Admin)
func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()

	admin, err := permit.NewRole("Admin", permit.RoleTypeHiddenFromTenant, "users.read", "users.write")
	require.NoError(t, err)
	support, err := permit.NewRole("Support", permit.RoleTypeNormal, "users.read")
	require.NoError(t, err)
	tenantAdmin, err := permit.NewRole("TenantAdmin", permit.RoleTypeTenantAdminAdd, "users.read", "billing.read")
	require.NoError(t, err)

	require.NoError(t, st.InTx(ctx, func(tx store.Tx) error {
		for _, r := range []permit.Role{admin, support, tenantAdmin} {
			if err := tx.CreateRole(ctx, r); err != nil {
				return err
			}
		}
		if err := tx.UpsertTenant(ctx, tenant.Tenant{
			ID: 1, Name: "Acme", DataKey: "1.", Roles: []string{"TenantAdmin"},
		}); err != nil {
			return err
		}
		if err := tx.UpsertTenant(ctx, tenant.Tenant{
			ID: 2, Name: "Acme|West", ParentID: 1, DataKey: "1.2.",
		}); err != nil {
			return err
		}
		return tx.CreateUser(ctx, store.AuthUser{
			UserID:    "auth0|root",
			Email:     "root@example.com",
			RoleNames: []string{"Admin"},
		})
	}))

	return st
}
