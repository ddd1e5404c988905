// Package redis connects the claims cache to a Redis server.
//
// It wraps github.com/redis/go-redis/v9 with a retrying Connect driven by
// an env-tagged Config, plus a Healthcheck probe for the host's liveness
// endpoints.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // redis unreachable, start without the claims cache
//	}
//	cache := claims.NewRedisCache(client)
package redis
