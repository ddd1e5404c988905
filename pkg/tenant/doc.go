// Package tenant models the tenant hierarchy and the data keys that
// isolate per-tenant rows in storage.
//
// Tenants form a tree. A tenant's full name encodes its ancestry with the
// "|" separator ("Acme|West|Store 42"), while its data key encodes the same
// ancestry with stable numeric IDs ("7.12.3."). Host queries scope rows to
// a tenant and all of its descendants with a plain string-prefix match on
// the data key:
//
//	tree, _ := tenant.NewTree(nil)
//	acme, _ := tree.Insert("Acme", 0, nil)        // data key "1."
//	west, _ := tree.Insert("West", acme.ID, nil)  // full name "Acme|West", data key "1.2."
//
//	tenant.WithinScope(acme.DataKey, row.DataKey) // true for Acme and West rows
//
// Data keys are derived from IDs, never from names, so renaming a tenant
// leaves historical data correctly scoped. Moving a tenant to a new parent
// recomputes names and data keys for the whole moved subtree.
//
// Tree is an in-memory index built from the persisted tenant list; it is
// not safe for concurrent mutation and is expected to be rebuilt or updated
// inside the same transaction that persists a structural change.
package tenant
