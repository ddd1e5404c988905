package config

import "time"

// Options is the environment-driven configuration of the authorization
// library. Hosts load it with Load and translate the fields into the
// constructor options of the services they wire; hosts that configure
// everything programmatically can ignore it.
type Options struct {
	// MultiTenant enables tenant assignment and the data-key claim.
	MultiTenant bool `env:"AUTHZ_MULTI_TENANT" envDefault:"true"`

	// ClaimsCacheTTL bounds how long computed claims may be served from
	// cache. Zero disables caching even when a cache client is wired.
	ClaimsCacheTTL time.Duration `env:"AUTHZ_CLAIMS_CACHE_TTL" envDefault:"5m"`

	// JWTSigningKey signs issued access tokens. Required only when the
	// token service is used.
	JWTSigningKey string `env:"AUTHZ_JWT_SIGNING_KEY"`

	// JWTIssuer is stamped into issued tokens and checked on parse.
	JWTIssuer string `env:"AUTHZ_JWT_ISSUER" envDefault:"authzkit"`

	// JWTTTL is the lifetime of issued access tokens.
	JWTTTL time.Duration `env:"AUTHZ_JWT_TTL" envDefault:"1h"`
}
