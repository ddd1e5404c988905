package tenant

import (
	"context"
	"log/slog"
	"strconv"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithTenant adds a tenant to the context.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, tenant)
}

// FromContext retrieves the tenant from the context.
// Returns nil, false if no tenant is found.
func FromContext(ctx context.Context) (*Tenant, bool) {
	tenant, ok := ctx.Value(contextKey{}).(*Tenant)
	return tenant, ok
}

// DataKeyFromContext retrieves just the tenant data key from the context.
// Returns "" and false if no tenant is found.
func DataKeyFromContext(ctx context.Context) (string, bool) {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		return "", false
	}
	return tenant.DataKey, true
}

// LoggerExtractor returns a context extractor for structured loggers that
// adds the tenant ID attribute when a tenant is present.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if t, ok := FromContext(ctx); ok && t != nil {
			return slog.String("tenant_id", strconv.FormatInt(t.ID, 10)), true
		}
		return slog.Attr{}, false
	}
}
