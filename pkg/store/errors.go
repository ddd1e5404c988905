package store

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the given user ID.
	ErrUserNotFound = errors.New("auth user not found")

	// ErrRoleNotFound is returned when no role matches the given name.
	ErrRoleNotFound = errors.New("role not found")

	// ErrTenantNotFound is returned when no tenant matches the given ID or name.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrDuplicate is returned when a create violates a uniqueness
	// constraint (user ID, role name, or tenant full name).
	ErrDuplicate = errors.New("duplicate key")
)
