package store

import (
	"context"

	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

// Querier is the read side of the store. Users are returned with their
// role names and tenant reference already loaded; there is no lazy loading
// anywhere in this model.
type Querier interface {
	// UserByID returns the user with the given external user ID.
	UserByID(ctx context.Context, userID string) (AuthUser, error)

	// Users returns all users ordered by user ID.
	Users(ctx context.Context) ([]AuthUser, error)

	// RoleByName returns the role with the given name.
	RoleByName(ctx context.Context, name string) (permit.Role, error)

	// Roles returns all roles ordered by name.
	Roles(ctx context.Context) ([]permit.Role, error)

	// TenantByID returns the tenant with the given ID.
	TenantByID(ctx context.Context, id int64) (tenant.Tenant, error)

	// TenantByName returns the tenant with the given full hierarchical name.
	TenantByName(ctx context.Context, name string) (tenant.Tenant, error)

	// Tenants returns all tenants ordered by full name.
	Tenants(ctx context.Context) ([]tenant.Tenant, error)
}

// Tx adds the mutating operations to Querier. A Tx is only valid inside
// the InTx closure that produced it.
type Tx interface {
	Querier

	CreateUser(ctx context.Context, user AuthUser) error
	UpdateUser(ctx context.Context, user AuthUser) error
	DeleteUser(ctx context.Context, userID string) error

	CreateRole(ctx context.Context, role permit.Role) error
	UpdateRole(ctx context.Context, role permit.Role) error
	DeleteRole(ctx context.Context, name string) error

	// NextTenantID allocates a tenant ID. IDs are never reused, which is
	// what keeps data keys stable for the lifetime of the data.
	NextTenantID(ctx context.Context) (int64, error)

	// UpsertTenant creates the tenant or replaces its stored fields.
	// Structural changes touch whole subtrees, so callers upsert every
	// changed tenant in one transaction.
	UpsertTenant(ctx context.Context, tn tenant.Tenant) error

	DeleteTenant(ctx context.Context, id int64) error
}

// Store is the persistence boundary handed to the services.
type Store interface {
	Querier

	// InTx runs fn inside a transaction. The transaction commits only if
	// fn returns nil; any error rolls back every buffered change.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
