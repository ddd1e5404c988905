package admin

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/status"
	"github.com/dmitrymomot/authzkit/pkg/store"
	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

// RoleService manages role definitions. Permission codes are checked
// against the application's registry, so a role can never grant a
// permission the application does not know.
type RoleService struct {
	store    store.Store
	registry *permit.Registry
	logger   *slog.Logger
}

// RoleOption configures a RoleService during construction.
type RoleOption func(*RoleService)

// WithRoleLogger configures the logger for the role service.
func WithRoleLogger(logger *slog.Logger) RoleOption {
	return func(s *RoleService) {
		s.logger = logger
	}
}

// NewRoleService creates a role admin service over the given store and
// permission registry.
func NewRoleService(st store.Store, registry *permit.Registry, opts ...RoleOption) *RoleService {
	s := &RoleService{
		store:    st,
		registry: registry,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRole defines a new role. The name must be unused, the permission
// set non-empty, and every code registered; all problems are reported
// together.
func (s *RoleService) CreateRole(ctx context.Context, name string, roleType permit.RoleType, permissions []permit.Permission) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		role, ok := s.buildRole(st, name, roleType, permissions)
		if !ok {
			return st
		}

		if err := tx.CreateRole(ctx, role); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return st.Addf("role %q already exists", name)
			}
			return st.AddError(err)
		}
		return st.SetMessage("created role %q with %d permissions", role.Name, len(role.Permissions))
	})
	s.logOutcome(ctx, "CreateRole", name, st)
	return st
}

// UpdateRole replaces an existing role's type and permission set.
func (s *RoleService) UpdateRole(ctx context.Context, name string, roleType permit.RoleType, permissions []permit.Permission) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		role, ok := s.buildRole(st, name, roleType, permissions)
		if !ok {
			return st
		}

		if err := tx.UpdateRole(ctx, role); err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				return st.Addf("role %q not found", name)
			}
			return st.AddError(err)
		}
		return st.SetMessage("updated role %q", role.Name)
	})
	s.logOutcome(ctx, "UpdateRole", name, st)
	return st
}

// DeleteRole removes a role definition. When the role is still referenced
// by users or tenants the deletion is refused unless removeFromUsers is
// set, in which case every reference is removed in the same transaction.
func (s *RoleService) DeleteRole(ctx context.Context, name string, removeFromUsers bool) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		if _, err := tx.RoleByName(ctx, name); err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				return st.Addf("role %q not found", name)
			}
			return st.AddError(err)
		}

		users, err := tx.Users(ctx)
		if err != nil {
			return st.AddError(err)
		}
		tenants, err := tx.Tenants(ctx)
		if err != nil {
			return st.AddError(err)
		}

		var usersWithRole []store.AuthUser
		for _, u := range users {
			if u.HasRole(name) {
				usersWithRole = append(usersWithRole, u)
			}
		}
		var tenantsWithRole []tenant.Tenant
		for _, tn := range tenants {
			if tn.HasRole(name) {
				tenantsWithRole = append(tenantsWithRole, tn)
			}
		}

		if !removeFromUsers && (len(usersWithRole) > 0 || len(tenantsWithRole) > 0) {
			return st.Addf("role %q is used by %d users and %d tenants; confirm removal to delete it anyway",
				name, len(usersWithRole), len(tenantsWithRole))
		}

		for _, u := range usersWithRole {
			if i := slices.Index(u.RoleNames, name); i >= 0 {
				u.RoleNames = slices.Delete(u.RoleNames, i, i+1)
			}
			if err := tx.UpdateUser(ctx, u); err != nil {
				return st.AddError(err)
			}
		}
		for _, tn := range tenantsWithRole {
			if i := slices.Index(tn.Roles, name); i >= 0 {
				tn.Roles = slices.Delete(tn.Roles, i, i+1)
			}
			if err := tx.UpsertTenant(ctx, tn); err != nil {
				return st.AddError(err)
			}
		}

		if err := tx.DeleteRole(ctx, name); err != nil {
			return st.AddError(err)
		}
		return st.SetMessage("deleted role %q, removed from %d users and %d tenants",
			name, len(usersWithRole), len(tenantsWithRole))
	})
	s.logOutcome(ctx, "DeleteRole", name, st)
	return st
}

// Role returns a single role definition; a missing role is reported on
// the status.
func (s *RoleService) Role(ctx context.Context, name string) *status.Result[permit.Role] {
	res := status.NewResult[permit.Role]()

	role, err := s.store.RoleByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrRoleNotFound) {
			res.Addf("role %q not found", name)
		} else {
			res.AddError(err)
		}
		return res
	}
	return res.SetResult(role)
}

// Roles returns all role definitions ordered by name.
func (s *RoleService) Roles(ctx context.Context) ([]permit.Role, error) {
	return s.store.Roles(ctx)
}

// RolesForUserContext returns the roles assignable in a given user
// context: app-level users see normal and hidden roles, tenant users see
// normal roles plus the tenant-admin roles their tenant lists.
func (s *RoleService) RolesForUserContext(ctx context.Context, tenantName string) *status.Result[[]permit.Role] {
	res := status.NewResult[[]permit.Role]()

	var tn tenant.Tenant
	if tenantName != "" {
		var err error
		tn, err = s.store.TenantByName(ctx, tenantName)
		if err != nil {
			if errors.Is(err, store.ErrTenantNotFound) {
				res.Addf("tenant %q not found", tenantName)
			} else {
				res.AddError(err)
			}
			return res
		}
	}

	roles, err := s.store.Roles(ctx)
	if err != nil {
		res.AddError(err)
		return res
	}

	assignable := make([]permit.Role, 0, len(roles))
	for _, role := range roles {
		if permit.CanAssign(role.Type, tn.ID != 0, tn.Roles, role.Name) == nil {
			assignable = append(assignable, role)
		}
	}
	return res.SetResult(assignable)
}

// buildRole validates inputs into a Role, reporting every problem.
func (s *RoleService) buildRole(st *status.Status, name string, roleType permit.RoleType, permissions []permit.Permission) (permit.Role, bool) {
	role, err := permit.NewRole(name, roleType, permissions...)
	if err != nil {
		st.AddError(err)
	}

	for _, p := range permissions {
		if !s.registry.Contains(p) {
			st.Addf("permission %q is not registered", p)
		}
	}

	if st.HasErrors() {
		return permit.Role{}, false
	}
	return role, true
}

func (s *RoleService) logOutcome(ctx context.Context, op, name string, st *status.Status) {
	if st.HasErrors() {
		s.logger.WarnContext(ctx, "role admin operation failed",
			slog.String("op", op),
			slog.String("role", name),
			slog.String("errors", st.ErrorText()),
		)
		return
	}
	s.logger.InfoContext(ctx, "role admin operation",
		slog.String("op", op),
		slog.String("role", name),
		slog.String("result", st.Message()),
	)
}
