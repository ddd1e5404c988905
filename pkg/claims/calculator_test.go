package claims_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit/pkg/claims"
	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/store"
	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

func seedStore(t *testing.T) (*store.MemoryStore, *permit.Registry) {
	t.Helper()
	ctx := context.Background()

	reg, err := permit.NewRegistry("users.read", "users.write", "billing.read")
	require.NoError(t, err)

	st := store.NewMemoryStore()
	err = st.InTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateRole(ctx, permit.Role{
			Name: "Support", Type: permit.RoleTypeNormal,
			Permissions: []permit.Permission{"users.read", "billing.read"},
		}); err != nil {
			return err
		}
		if err := tx.CreateRole(ctx, permit.Role{
			Name: "Editor", Type: permit.RoleTypeNormal,
			Permissions: []permit.Permission{"users.read", "users.write"},
		}); err != nil {
			return err
		}
		if err := tx.UpsertTenant(ctx, tenant.Tenant{ID: 7, Name: "Acme", DataKey: "7."}); err != nil {
			return err
		}
		return tx.CreateUser(ctx, store.AuthUser{
			UserID:    "u1",
			Email:     "a@example.com",
			RoleNames: []string{"Support", "Editor"},
			TenantID:  7,
		})
	})
	require.NoError(t, err)

	return st, reg
}

func TestCalculator_ClaimsFor(t *testing.T) {
	ctx := context.Background()

	t.Run("permissions deduplicated across roles", func(t *testing.T) {
		st, reg := seedStore(t)
		calc := claims.NewCalculator(st, reg)

		cl, err := calc.ClaimsFor(ctx, "u1")
		require.NoError(t, err)

		perms := reg.Unpack(cl.Permissions)
		assert.ElementsMatch(t, []permit.Permission{"users.read", "users.write", "billing.read"}, perms)
		assert.Empty(t, cl.DataKey, "data key requires multi-tenant mode")
	})

	t.Run("data key emitted in multi-tenant mode", func(t *testing.T) {
		st, reg := seedStore(t)
		calc := claims.NewCalculator(st, reg, claims.WithMultiTenant())

		cl, err := calc.ClaimsFor(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "7.", cl.DataKey)
		assert.Equal(t, map[string]string{
			claims.KeyPermissions: cl.Permissions,
			claims.KeyDataKey:     "7.",
		}, cl.AsMap())
	})

	t.Run("unknown user yields empty claims without error", func(t *testing.T) {
		st, reg := seedStore(t)
		calc := claims.NewCalculator(st, reg, claims.WithMultiTenant())

		cl, err := calc.ClaimsFor(ctx, "nobody")
		require.NoError(t, err)
		assert.True(t, cl.IsEmpty())
	})

	t.Run("missing role skipped", func(t *testing.T) {
		st, reg := seedStore(t)
		require.NoError(t, st.InTx(ctx, func(tx store.Tx) error {
			return tx.CreateUser(ctx, store.AuthUser{
				UserID:    "u2",
				RoleNames: []string{"Ghost", "Support"},
			})
		}))

		calc := claims.NewCalculator(st, reg)
		cl, err := calc.ClaimsFor(ctx, "u2")
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]permit.Permission{"users.read", "billing.read"},
			reg.Unpack(cl.Permissions))
	})
}

// fakeCache records operations so cache interaction can be asserted.
type fakeCache struct {
	mu      sync.Mutex
	items   map[string]claims.Claims
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]claims.Claims)}
}

func (c *fakeCache) Get(ctx context.Context, userID string) (claims.Claims, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cl, ok := c.items[userID]
	return cl, ok
}

func (c *fakeCache) Set(ctx context.Context, userID string, cl claims.Claims, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[userID] = cl
	c.sets++
}

func (c *fakeCache) Delete(ctx context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, userID)
	c.deletes++
}

func TestCalculator_Cache(t *testing.T) {
	ctx := context.Background()
	st, reg := seedStore(t)
	cache := newFakeCache()
	calc := claims.NewCalculator(st, reg, claims.WithCache(cache, time.Minute))

	first, err := calc.ClaimsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache even if the store changes underneath.
	require.NoError(t, st.InTx(ctx, func(tx store.Tx) error {
		user, err := tx.UserByID(ctx, "u1")
		if err != nil {
			return err
		}
		user.RoleNames = nil
		return tx.UpdateUser(ctx, user)
	}))

	second, err := calc.ClaimsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)

	// Invalidate drops the stale entry; the next read recomputes.
	calc.Invalidate(ctx, "u1")
	assert.Equal(t, 1, cache.deletes)

	third, err := calc.ClaimsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, third.Permissions)
}
