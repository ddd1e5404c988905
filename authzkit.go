package authzkit

import (
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authzkit/pkg/admin"
	"github.com/dmitrymomot/authzkit/pkg/claims"
	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/store"
	"github.com/dmitrymomot/authzkit/pkg/usersync"
)

// Service bundles the library's building blocks behind one constructor so
// hosts with ordinary needs wire a single value. Each field remains usable
// on its own for hosts that want a partial setup.
type Service struct {
	Users   *admin.UserService
	Roles   *admin.RoleService
	Tenants *admin.TenantService
	Claims  *claims.Calculator

	// Sync is nil unless WithSyncProvider was given.
	Sync *usersync.Service
}

type options struct {
	logger      *slog.Logger
	multiTenant bool
	cache       claims.Cache
	cacheTTL    time.Duration
	provider    usersync.Provider
}

// Option configures the facade during construction.
type Option func(*options)

// WithLogger sets the logger shared by every bundled service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithoutTenants disables multi-tenancy: tenant assignment is rejected by
// the admin services and no data-key claim is emitted.
func WithoutTenants() Option {
	return func(o *options) {
		o.multiTenant = false
	}
}

// WithClaimsCache caches computed claims for ttl.
func WithClaimsCache(cache claims.Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = cache
		o.cacheTTL = ttl
	}
}

// WithSyncProvider wires the external identity provider and enables the
// user synchronization service.
func WithSyncProvider(p usersync.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// New assembles the admin services, the claims calculator, and optionally
// the sync service over one store and permission registry.
func New(st store.Store, registry *permit.Registry, opts ...Option) (*Service, error) {
	o := options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		multiTenant: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	userOpts := []admin.UserOption{admin.WithUserLogger(o.logger)}
	if !o.multiTenant {
		userOpts = append(userOpts, admin.WithoutTenants())
	}
	users := admin.NewUserService(st, userOpts...)

	calcOpts := []claims.Option{claims.WithLogger(o.logger)}
	if o.multiTenant {
		calcOpts = append(calcOpts, claims.WithMultiTenant())
	}
	if o.cache != nil {
		calcOpts = append(calcOpts, claims.WithCache(o.cache, o.cacheTTL))
	}

	svc := &Service{
		Users:   users,
		Roles:   admin.NewRoleService(st, registry, admin.WithRoleLogger(o.logger)),
		Tenants: admin.NewTenantService(st, admin.WithTenantLogger(o.logger)),
		Claims:  claims.NewCalculator(st, registry, calcOpts...),
	}

	if o.provider != nil {
		sync, err := usersync.New(o.provider, st, users, usersync.WithLogger(o.logger))
		if err != nil {
			return nil, err
		}
		svc.Sync = sync
	}

	return svc, nil
}
