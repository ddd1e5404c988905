// Package claims computes the authorization claims attached to a
// principal's session or token.
//
// The Calculator is a pure read over the store: given an external user ID
// it collects the permissions of every role the user holds, deduplicates
// them, and packs them into one compact claim value. When multi-tenancy is
// enabled it also emits the user's tenant data key, which the hosting
// application uses to scope queries.
//
// An unknown user ID yields empty claims and no error. That is a security
// default, not a convenience: an identity the local store has never heard
// of gets zero capability rather than a failed request the host might be
// tempted to special-case.
//
//	calc := claims.NewCalculator(st, registry,
//	    claims.WithMultiTenant(),
//	    claims.WithCache(claims.NewRedisCache(rdb), 5*time.Minute),
//	)
//
//	cl, err := calc.ClaimsFor(ctx, "auth0|12345")
//	// cl.Permissions -> packed permission set
//	// cl.DataKey     -> "" or the tenant scope key
//
// After an admin operation changes a user's roles or tenant, call
// Invalidate so cached claims do not outlive the change.
package claims
