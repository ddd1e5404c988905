package permit

import "slices"

// CanAssign decides whether a role may be assigned to a user, given the
// role's type, whether the user belongs to a tenant, and the tenant's
// allowed-role list (ignored for tenant-less users).
//
// It is a pure function so the eligibility rules can be tested in isolation
// from any persistence.
func CanAssign(roleType RoleType, hasTenant bool, tenantRoles []string, roleName string) error {
	switch roleType {
	case RoleTypeHiddenFromTenant:
		if hasTenant {
			return ErrRoleForbidsTenant
		}
	case RoleTypeTenantAdminAdd:
		if !hasTenant {
			return ErrRoleNeedsTenant
		}
		if !slices.Contains(tenantRoles, roleName) {
			return ErrRoleNotInTenantList
		}
	}
	return nil
}
