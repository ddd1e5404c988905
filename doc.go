// Package authzkit is a role and permission authorization library with
// hierarchical multi-tenancy.
//
// The model is small: the host application registers its permission codes
// in a permit.Registry at startup, administrators define roles as named
// permission bundles, users carry role names and at most one tenant, and
// tenants form a tree whose derived data keys scope per-tenant queries by
// string prefix. The claims calculator folds a user's roles into one
// compact permission claim (plus the tenant data key) for embedding in a
// session or token, and the sync engine reconciles users against an
// external identity provider.
//
//	registry, _ := permit.NewRegistry("users.read", "users.write")
//	st := store.NewMemoryStore() // or pg.New(ctx, cfg) for Postgres
//
//	authz, err := authzkit.New(st, registry)
//	if err != nil {
//	    // ...
//	}
//
//	res := authz.Users.AddNewUser(ctx, "auth0|1", "a@example.com", "Ann",
//	    []string{"Support"}, "Acme|West")
//	if res.HasErrors() {
//	    // every input problem reported at once, nothing persisted
//	}
//
//	cl, err := authz.Claims.ClaimsFor(ctx, "auth0|1")
//	// cl.Permissions is the packed permission set, cl.DataKey the tenant scope
//
// Every mutating admin operation validates fully before persisting and
// flushes as one transaction. See the pkg subdirectories for the
// individual building blocks.
package authzkit
