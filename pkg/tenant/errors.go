package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrParentNotFound is returned when the referenced parent tenant does not exist.
	ErrParentNotFound = errors.New("parent tenant not found")

	// ErrDuplicateName is returned when a tenant's full name is already taken.
	ErrDuplicateName = errors.New("tenant name already used")

	// ErrInvalidName is returned when a tenant name is empty or contains the
	// hierarchy separator.
	ErrInvalidName = errors.New("invalid tenant name")

	// ErrMoveIntoSubtree is returned when a tenant is moved under itself or
	// one of its descendants.
	ErrMoveIntoSubtree = errors.New("cannot move tenant into its own subtree")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
