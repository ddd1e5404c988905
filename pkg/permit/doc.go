// Package permit defines the permission and role model used for
// claims-based authorization.
//
// A Permission is a short stable code (e.g. "users.read"). The hosting
// application registers the full permission universe once at startup in a
// Registry; the registry is immutable afterwards. Registration order gives
// every permission a compact index, which lets a whole permission set be
// packed into a short string suitable for embedding in a session claim.
//
// A Role is a named, non-empty set of permissions with a RoleType that
// controls who the role may be assigned to:
//
//   - RoleTypeNormal: assignable to any user
//   - RoleTypeHiddenFromTenant: only app-level users (no tenant)
//   - RoleTypeTenantAdminAdd: only tenant users, and only when the tenant
//     lists the role among its allowed roles
//
// Basic usage:
//
//	reg, err := permit.NewRegistry(
//	    "users.read", "users.write", "invoices.read",
//	)
//	if err != nil { ... }
//
//	role, err := permit.NewRole("Support", permit.RoleTypeNormal,
//	    "users.read", "invoices.read")
//
//	packed := reg.Pack(role.Permissions) // compact claim value
//	perms := reg.Unpack(packed)          // back to permission codes
//
// The assignment-eligibility check is a pure function so it can be tested
// without any persistence:
//
//	err := permit.CanAssign(role.Type, hasTenant, tenantRoles, role.Name)
package permit
