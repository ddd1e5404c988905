package permit

import (
	"fmt"
	"slices"
	"strings"
)

// Permission is an atomic capability code. Codes are short, stable strings;
// hierarchical codes use dots (e.g. "users.read").
type Permission string

// RoleType controls which users a role may be assigned to.
type RoleType uint8

const (
	// RoleTypeNormal roles are assignable to any user.
	RoleTypeNormal RoleType = iota

	// RoleTypeHiddenFromTenant roles are assignable only to app-level users,
	// i.e. users without a tenant.
	RoleTypeHiddenFromTenant

	// RoleTypeTenantAdminAdd roles are assignable only to tenant users, and
	// only when the tenant lists the role among its allowed roles.
	RoleTypeTenantAdminAdd
)

// String returns the stable string form used for persistence.
func (t RoleType) String() string {
	switch t {
	case RoleTypeNormal:
		return "normal"
	case RoleTypeHiddenFromTenant:
		return "hidden_from_tenant"
	case RoleTypeTenantAdminAdd:
		return "tenant_admin_add"
	default:
		return fmt.Sprintf("role_type(%d)", uint8(t))
	}
}

// ParseRoleType converts the persisted string form back to a RoleType.
func ParseRoleType(s string) (RoleType, error) {
	switch s {
	case "normal":
		return RoleTypeNormal, nil
	case "hidden_from_tenant":
		return RoleTypeHiddenFromTenant, nil
	case "tenant_admin_add":
		return RoleTypeTenantAdminAdd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRoleType, s)
	}
}

// Role is a named bundle of permissions with an assignment-eligibility type.
type Role struct {
	// Name uniquely identifies the role.
	Name string

	// Type controls who the role may be assigned to.
	Type RoleType

	// Permissions granted by this role. Never empty for a valid role.
	Permissions []Permission
}

// NewRole builds a validated role. The name must be non-empty and the
// permission set must contain at least one code; duplicate codes are removed
// while preserving order.
func NewRole(name string, roleType RoleType, permissions ...Permission) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, ErrEmptyRoleName
	}
	if len(permissions) == 0 {
		return Role{}, fmt.Errorf("role %q: %w", name, ErrNoPermissions)
	}

	deduped := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		if !slices.Contains(deduped, p) {
			deduped = append(deduped, p)
		}
	}

	return Role{
		Name:        name,
		Type:        roleType,
		Permissions: deduped,
	}, nil
}

// Has reports whether the role grants the given permission.
func (r Role) Has(permission Permission) bool {
	return slices.Contains(r.Permissions, permission)
}
