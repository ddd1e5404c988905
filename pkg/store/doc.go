// Package store defines the persistence boundary for the authorization
// model: users, roles, and tenants behind a small repository interface
// with transactional save semantics.
//
// Reads go through Querier. All writes happen inside InTx, whose closure
// receives a Tx combining reads with the mutating operations. The whole
// closure commits atomically: either every buffered change lands, or none
// do. Services use this as their single flush point per operation, so
// constraint violations surface as errors from InTx rather than partial
// writes.
//
//	err := st.InTx(ctx, func(tx store.Tx) error {
//	    if err := tx.CreateUser(ctx, user); err != nil {
//	        return err
//	    }
//	    return tx.UpdateTenant(ctx, tn)
//	})
//
// NewMemoryStore returns an in-memory implementation used in tests and
// small deployments; pkg/store/pg provides the PostgreSQL implementation.
package store
