package redis

import "time"

// Config describes the Redis connection used for the claims cache. Fields
// are populated from the environment via pkg/config.
type Config struct {
	// ConnectionURL in the form "redis://:password@localhost:6379/0".
	ConnectionURL  string        `env:"AUTHZ_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"AUTHZ_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"AUTHZ_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"AUTHZ_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
