package jwt

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

// WithAccessClaims stores parsed access claims in the context.
func WithAccessClaims(ctx context.Context, claims AccessClaims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// AccessClaimsFromContext retrieves access claims from the context.
func AccessClaimsFromContext(ctx context.Context) (AccessClaims, bool) {
	claims, ok := ctx.Value(contextKey{}).(AccessClaims)
	return claims, ok
}
