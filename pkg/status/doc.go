// Package status implements the result type used by every mutating
// operation in this module.
//
// Business-rule failures (bad input, unknown names, incompatible role
// assignments) are expected conditions, so they are accumulated into a
// Status instead of being returned as the first error encountered. A caller
// gets every problem from one call, checks HasErrors before trusting any
// payload, and reads a human-readable Message on success:
//
//	st := status.New()
//	st.AddError(errors.New("tenant 'Acme' not found"))
//	st.AddError(errors.New("role 'SuperUser' not found"))
//	if st.HasErrors() {
//	    return st // both problems reported together
//	}
//	st.SetMessage("added user %q", email)
//
// Statuses compose: Combine merges another status's errors into this one,
// so a batch operation can collect per-item results into a single report.
// Exceptions in the form of panics are reserved for programmer errors;
// nothing in this package panics on business input.
package status
