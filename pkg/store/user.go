package store

import "slices"

// AuthUser links an externally authenticated identity to its local
// authorization data: role assignments and an optional tenant.
type AuthUser struct {
	// UserID is the opaque identifier issued by the identity provider.
	UserID string

	// Email is the user's email, optional but usually present.
	Email string

	// UserName is the display name, optional.
	UserName string

	// RoleNames lists the user's assigned roles.
	RoleNames []string

	// TenantID references the user's tenant, 0 for app-level users.
	TenantID int64
}

// HasTenant reports whether the user belongs to a tenant.
func (u AuthUser) HasTenant() bool {
	return u.TenantID != 0
}

// HasRole reports whether the user already has the named role.
func (u AuthUser) HasRole(roleName string) bool {
	return slices.Contains(u.RoleNames, roleName)
}

// SameIdentity reports whether email and user name match the given values.
// Used by the sync engine to classify upstream changes.
func (u AuthUser) SameIdentity(email, userName string) bool {
	return u.Email == email && u.UserName == userName
}

// Clone returns a deep copy safe to mutate independently.
func (u AuthUser) Clone() AuthUser {
	out := u
	out.RoleNames = slices.Clone(u.RoleNames)
	return out
}
