package claims

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/store"
)

// Calculator derives a principal's claims from the persisted model.
// It performs reads only; admin services own every mutation.
type Calculator struct {
	store       store.Querier
	registry    *permit.Registry
	multiTenant bool
	cache       Cache
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// Option configures a Calculator during construction.
type Option func(*Calculator)

// WithMultiTenant enables the tenant data-key claim.
func WithMultiTenant() Option {
	return func(c *Calculator) {
		c.multiTenant = true
	}
}

// WithCache stores computed claims in the given cache for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Calculator) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithLogger configures the logger for the calculator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// NewCalculator creates a claims calculator over the given store and
// permission registry.
func NewCalculator(st store.Querier, registry *permit.Registry, opts ...Option) *Calculator {
	c := &Calculator{
		store:    st,
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClaimsFor computes the claims for the given external user ID.
//
// A user ID with no local record yields zero-value Claims and a nil error:
// unknown identity means zero capability. Roles referenced by the user but
// missing from the store are skipped with a warning rather than failing the
// whole computation; a user should never lose all access because one role
// was deleted underneath them.
func (c *Calculator) ClaimsFor(ctx context.Context, userID string) (Claims, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	user, err := c.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.logger.DebugContext(ctx, "no local record for user, emitting empty claims",
				slog.String("user_id", userID))
			return Claims{}, nil
		}
		return Claims{}, fmt.Errorf("load user: %w", err)
	}

	var permissions []permit.Permission
	for _, roleName := range user.RoleNames {
		role, err := c.store.RoleByName(ctx, roleName)
		if err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				c.logger.WarnContext(ctx, "user references missing role",
					slog.String("user_id", userID),
					slog.String("role", roleName))
				continue
			}
			return Claims{}, fmt.Errorf("load role %q: %w", roleName, err)
		}
		permissions = append(permissions, role.Permissions...)
	}

	out := Claims{Permissions: c.registry.Pack(permissions)}

	if c.multiTenant && user.HasTenant() {
		tn, err := c.store.TenantByID(ctx, user.TenantID)
		if err != nil {
			if !errors.Is(err, store.ErrTenantNotFound) {
				return Claims{}, fmt.Errorf("load tenant %d: %w", user.TenantID, err)
			}
			c.logger.WarnContext(ctx, "user references missing tenant",
				slog.String("user_id", userID),
				slog.Int64("tenant_id", user.TenantID))
		} else {
			out.DataKey = tn.DataKey
		}
	}

	if c.cache != nil {
		c.cache.Set(ctx, userID, out, c.cacheTTL)
	}

	return out, nil
}

// Invalidate drops any cached claims for the user. Call it after admin
// operations that change the user's roles or tenant.
func (c *Calculator) Invalidate(ctx context.Context, userID string) {
	if c.cache != nil {
		c.cache.Delete(ctx, userID)
	}
}
