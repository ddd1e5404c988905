package claims

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores computed claims keyed by user ID. Implementations must be
// safe for concurrent use. Cache misses and backend failures are treated
// identically by the calculator: the claims are recomputed from the store.
type Cache interface {
	Get(ctx context.Context, userID string) (Claims, bool)
	Set(ctx context.Context, userID string, claims Claims, ttl time.Duration)
	Delete(ctx context.Context, userID string)
}

// redisCache is a Redis-backed claims cache. Claims are stored as JSON
// under a prefixed key so several applications can share one Redis.
type redisCache struct {
	client *redis.Client
	prefix string
}

// DefaultCachePrefix namespaces claim cache keys in Redis.
const DefaultCachePrefix = "authz:claims:"

// NewRedisCache creates a claims cache on the given Redis client.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client, prefix: DefaultCachePrefix}
}

func (c *redisCache) Get(ctx context.Context, userID string) (Claims, bool) {
	raw, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		return Claims{}, false
	}

	var out Claims
	if err := json.Unmarshal(raw, &out); err != nil {
		return Claims{}, false
	}
	return out, true
}

func (c *redisCache) Set(ctx context.Context, userID string, claims Claims, ttl time.Duration) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return
	}
	// A failed write only costs a recomputation on the next request.
	c.client.Set(ctx, c.prefix+userID, raw, ttl)
}

func (c *redisCache) Delete(ctx context.Context, userID string) {
	c.client.Del(ctx, c.prefix+userID)
}
