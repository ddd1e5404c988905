package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/store"
	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	user := store.AuthUser{UserID: "u1", Email: "a@example.com", RoleNames: []string{"Support"}}

	t.Run("create and read back", func(t *testing.T) {
		err := st.InTx(ctx, func(tx store.Tx) error {
			return tx.CreateUser(ctx, user)
		})
		require.NoError(t, err)

		got, err := st.UserByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("duplicate create rejected", func(t *testing.T) {
		err := st.InTx(ctx, func(tx store.Tx) error {
			return tx.CreateUser(ctx, user)
		})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("update missing user rejected", func(t *testing.T) {
		err := st.InTx(ctx, func(tx store.Tx) error {
			return tx.UpdateUser(ctx, store.AuthUser{UserID: "ghost"})
		})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("users sorted by id", func(t *testing.T) {
		err := st.InTx(ctx, func(tx store.Tx) error {
			return tx.CreateUser(ctx, store.AuthUser{UserID: "a0"})
		})
		require.NoError(t, err)

		users, err := st.Users(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "a0", users[0].UserID)
		assert.Equal(t, "u1", users[1].UserID)
	})

	t.Run("delete", func(t *testing.T) {
		err := st.InTx(ctx, func(tx store.Tx) error {
			return tx.DeleteUser(ctx, "a0")
		})
		require.NoError(t, err)

		_, err = st.UserByID(ctx, "a0")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestMemoryStore_TxAtomicity(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	// A failing closure must leave no trace of its earlier writes.
	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateUser(ctx, store.AuthUser{UserID: "u1"}); err != nil {
			return err
		}
		if err := tx.CreateRole(ctx, permit.Role{Name: "Support", Permissions: []permit.Permission{"p"}}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.UserByID(ctx, "u1")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = st.RoleByName(ctx, "Support")
	assert.ErrorIs(t, err, store.ErrRoleNotFound)

	// Reads inside the transaction see its own uncommitted writes.
	err = st.InTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateUser(ctx, store.AuthUser{UserID: "u2"}); err != nil {
			return err
		}
		_, err := tx.UserByID(ctx, "u2")
		return err
	})
	require.NoError(t, err)
}

func TestMemoryStore_Tenants(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	t.Run("ids are allocated sequentially and never reused", func(t *testing.T) {
		var first, second int64
		err := st.InTx(ctx, func(tx store.Tx) error {
			var err error
			if first, err = tx.NextTenantID(ctx); err != nil {
				return err
			}
			return tx.UpsertTenant(ctx, tenant.Tenant{ID: first, Name: "Acme", DataKey: tenant.DataKeyFor("", first)})
		})
		require.NoError(t, err)

		err = st.InTx(ctx, func(tx store.Tx) error {
			var err error
			if second, err = tx.NextTenantID(ctx); err != nil {
				return err
			}
			return tx.UpsertTenant(ctx, tenant.Tenant{ID: second, Name: "Globex", DataKey: tenant.DataKeyFor("", second)})
		})
		require.NoError(t, err)
		assert.Greater(t, second, first)

		// Delete and re-allocate: the freed ID must not come back.
		err = st.InTx(ctx, func(tx store.Tx) error {
			return tx.DeleteTenant(ctx, second)
		})
		require.NoError(t, err)

		var third int64
		err = st.InTx(ctx, func(tx store.Tx) error {
			var err error
			third, err = tx.NextTenantID(ctx)
			return err
		})
		require.NoError(t, err)
		assert.Greater(t, third, second)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := st.InTx(ctx, func(tx store.Tx) error {
			id, err := tx.NextTenantID(ctx)
			if err != nil {
				return err
			}
			return tx.UpsertTenant(ctx, tenant.Tenant{ID: id, Name: "Acme"})
		})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("lookup by name inside a transaction", func(t *testing.T) {
		err := st.InTx(ctx, func(tx store.Tx) error {
			tn, err := tx.TenantByName(ctx, "Acme")
			if err != nil {
				return err
			}
			assert.Equal(t, "Acme", tn.Name)

			_, err = tx.TenantByName(ctx, "Nowhere")
			assert.ErrorIs(t, err, store.ErrTenantNotFound)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("upsert rename updates name index", func(t *testing.T) {
		tn, err := st.TenantByName(ctx, "Acme")
		require.NoError(t, err)

		tn.Name = "Acme Corp"
		err = st.InTx(ctx, func(tx store.Tx) error {
			return tx.UpsertTenant(ctx, tn)
		})
		require.NoError(t, err)

		_, err = st.TenantByName(ctx, "Acme")
		assert.ErrorIs(t, err, store.ErrTenantNotFound)
		got, err := st.TenantByName(ctx, "Acme Corp")
		require.NoError(t, err)
		assert.Equal(t, tn.ID, got.ID)
	})
}

func TestMemoryStore_CopiesAreIndependent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	require.NoError(t, st.InTx(ctx, func(tx store.Tx) error {
		return tx.CreateUser(ctx, store.AuthUser{UserID: "u1", RoleNames: []string{"A"}})
	}))

	got, err := st.UserByID(ctx, "u1")
	require.NoError(t, err)
	got.RoleNames[0] = "mutated"

	again, err := st.UserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, again.RoleNames)
}
