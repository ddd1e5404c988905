// Package config loads library configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11 behind
// a small cached API: Load parses any tagged struct at most once per
// process, LoadEnv pulls extra .env files in first, and ForceReload /
// ResetCache exist for tests that mutate the environment.
//
//	var opts config.Options
//	config.MustLoad(&opts)
//	if opts.MultiTenant {
//	    // wire tenant services
//	}
//
// Options holds the library's own knobs under the AUTHZ_ prefix; hosts may
// define and Load their own structs with the same mechanism.
package config
