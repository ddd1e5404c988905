// Package admin provides the validated CRUD services over users, roles,
// and tenants.
//
// Every mutating operation follows the same contract: all input problems
// are collected into a status.Status (bad email, unknown role names,
// unresolvable tenant, role/tenant incompatibility), and persistence only
// happens when zero errors accumulated. A call either fully applies or
// changes nothing, with the whole mutation flushed once inside a single
// store transaction. Not-found lookups are reported through the status as
// well; nothing here panics on business input.
//
//	users := admin.NewUserService(st)
//	st := users.AddNewUser(ctx, "auth0|1", "a@example.com", "Ann",
//	    []string{"Support"}, "Acme|West")
//	if st.HasErrors() {
//	    // every problem reported at once
//	}
//	fmt.Println(st.Message()) // human-readable outcome
//
// The *In method variants operate inside a caller-owned transaction so
// batch callers (the sync engine) can compose many changes into one
// atomic commit.
package admin
