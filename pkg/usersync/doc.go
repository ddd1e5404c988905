// Package usersync reconciles an external identity provider's user
// population with the local user store.
//
// A sync pass is split in two so an administrator can review the diff
// before anything changes:
//
//	svc, err := usersync.New(provider, st, admin.NewUserService(st))
//	if err != nil {
//	    // usersync.ErrProviderNotConfigured when the host wired no provider
//	}
//	changes, err := svc.ComputeChangeSet(ctx)
//	// review, optionally edit roles/tenant on create/update entries
//	res := svc.ApplyChangeSet(ctx, changes)
//	fmt.Println(res.Message()) // "created 1, updated 2, deleted 0, unchanged 7"
//
// ComputeChangeSet classifies every user exactly once: external users in
// provider order as no-change, create, or update entries, then every
// local-only user as a delete entry in user-ID order. ApplyChangeSet runs
// the approved set through the user admin service inside one store
// transaction, so the batch either fully applies or leaves the store
// untouched.
package usersync
