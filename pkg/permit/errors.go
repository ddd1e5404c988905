package permit

import "errors"

// Registry and role construction errors.
var (
	// ErrNoPermissions is returned when a registry or role is built with an
	// empty permission set.
	ErrNoPermissions = errors.New("permission set is empty")

	// ErrDuplicatePermission is returned when the same code is registered twice.
	ErrDuplicatePermission = errors.New("duplicate permission code")

	// ErrUnknownPermission is returned when a permission code is not in the registry.
	ErrUnknownPermission = errors.New("unknown permission code")

	// ErrEmptyRoleName is returned when a role is built without a name.
	ErrEmptyRoleName = errors.New("role name is empty")

	// ErrInvalidRoleType is returned when a role type string cannot be parsed.
	ErrInvalidRoleType = errors.New("invalid role type")
)

// Role assignment eligibility errors.
var (
	// ErrRoleNeedsTenant is returned when a tenant-admin role is assigned to
	// a user without a tenant.
	ErrRoleNeedsTenant = errors.New("role can only be assigned to tenant users")

	// ErrRoleForbidsTenant is returned when a hidden-from-tenant role is
	// assigned to a tenant user.
	ErrRoleForbidsTenant = errors.New("role cannot be assigned to tenant users")

	// ErrRoleNotInTenantList is returned when a tenant-admin role is not among
	// the tenant's allowed roles.
	ErrRoleNotInTenantList = errors.New("role is not in the tenant's allowed roles")
)
