package pg

import "time"

// Config controls the PostgreSQL connection pool. Values are populated from
// environment variables via pkg/config.
type Config struct {
	ConnectionString  string        `env:"AUTHZ_PG_CONN_URL,required"`                // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"AUTHZ_PG_MAX_OPEN_CONNS" envDefault:"10"`   // MaxOpenConns is the maximum number of open connections.
	MaxIdleConns      int32         `env:"AUTHZ_PG_MAX_IDLE_CONNS" envDefault:"5"`    // MaxIdleConns is the minimum number of idle connections kept.
	HealthCheckPeriod time.Duration `env:"AUTHZ_PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"AUTHZ_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"AUTHZ_PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"AUTHZ_PG_RETRY_ATTEMPTS" envDefault:"3"` // RetryAttempts is the number of connection attempts.
	RetryInterval time.Duration `env:"AUTHZ_PG_RETRY_INTERVAL" envDefault:"5s"`
}
