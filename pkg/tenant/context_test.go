package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

func TestContext(t *testing.T) {
	tn := &tenant.Tenant{ID: 7, Name: "Acme", DataKey: "7."}

	t.Run("round trip", func(t *testing.T) {
		ctx := tenant.WithTenant(context.Background(), tn)
		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, tn, got)

		key, ok := tenant.DataKeyFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "7.", key)
	})

	t.Run("empty context", func(t *testing.T) {
		_, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)
		_, ok = tenant.DataKeyFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("logger extractor", func(t *testing.T) {
		extract := tenant.LoggerExtractor()

		attr, ok := extract(tenant.WithTenant(context.Background(), tn))
		require.True(t, ok)
		assert.Equal(t, "tenant_id", attr.Key)
		assert.Equal(t, "7", attr.Value.String())

		_, ok = extract(context.Background())
		assert.False(t, ok)
	})
}
