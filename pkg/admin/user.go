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
	"github.com/dmitrymomot/authzkit/pkg/validate"
)

// UserService manages auth users: their identity fields, role assignments,
// and tenant membership.
type UserService struct {
	store       store.Store
	logger      *slog.Logger
	multiTenant bool
}

// UserOption configures a UserService during construction.
type UserOption func(*UserService)

// WithUserLogger configures the logger for the user service.
func WithUserLogger(logger *slog.Logger) UserOption {
	return func(s *UserService) {
		s.logger = logger
	}
}

// WithoutTenants disables multi-tenancy: any attempt to assign a tenant
// becomes a validation error.
func WithoutTenants() UserOption {
	return func(s *UserService) {
		s.multiTenant = false
	}
}

// NewUserService creates a user admin service over the given store.
func NewUserService(st store.Store, opts ...UserOption) *UserService {
	s := &UserService{
		store:       st,
		logger:      discardLogger(),
		multiTenant: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddNewUser creates a user with the given identity fields, roles, and
// optional tenant (by full name, empty for an app-level user). Every input
// problem is reported on the returned status; nothing is persisted unless
// the status is valid.
func (s *UserService) AddNewUser(ctx context.Context, userID, email, userName string, roleNames []string, tenantName string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		return s.AddNewUserIn(ctx, tx, userID, email, userName, roleNames, tenantName)
	})
	s.logOutcome(ctx, "AddNewUser", userID, st)
	return st
}

// AddNewUserIn is AddNewUser inside a caller-owned transaction, for batch
// callers composing several changes into one commit.
func (s *UserService) AddNewUserIn(ctx context.Context, tx store.Tx, userID, email, userName string, roleNames []string, tenantName string) *status.Status {
	st := status.New()
	st.AddValidationErrs(validate.Apply(
		validate.Required("userId", userID),
	))
	if email != "" {
		st.AddValidationErrs(validate.Apply(validate.ValidEmail("email", email)))
	}

	tenantID := s.resolveUserInput(ctx, tx, st, roleNames, tenantName)
	if st.HasErrors() {
		return st
	}

	if err := tx.CreateUser(ctx, store.AuthUser{
		UserID:    userID,
		Email:     email,
		UserName:  userName,
		RoleNames: uniqueInOrder(roleNames),
		TenantID:  tenantID,
	}); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return st.Addf("user %q already exists", userID)
		}
		return st.AddError(err)
	}

	return st.SetMessage("added user %q with %d roles", displayName(email, userName, userID), len(uniqueInOrder(roleNames)))
}

// UpdateUser replaces a user's identity fields, role list, and tenant.
// The role list is compared as a set, so reordering the same names is not
// reported as a role change.
func (s *UserService) UpdateUser(ctx context.Context, userID, email, userName string, roleNames []string, tenantName string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		return s.UpdateUserIn(ctx, tx, userID, email, userName, roleNames, tenantName)
	})
	s.logOutcome(ctx, "UpdateUser", userID, st)
	return st
}

// UpdateUserIn is UpdateUser inside a caller-owned transaction.
func (s *UserService) UpdateUserIn(ctx context.Context, tx store.Tx, userID, email, userName string, roleNames []string, tenantName string) *status.Status {
	st := status.New()

	user, err := tx.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return st.Addf("user %q not found", userID)
		}
		return st.AddError(err)
	}

	if email != "" {
		st.AddValidationErrs(validate.Apply(validate.ValidEmail("email", email)))
	}
	tenantID := s.resolveUserInput(ctx, tx, st, roleNames, tenantName)
	if st.HasErrors() {
		return st
	}

	rolesChanged := !sameRoleSet(user.RoleNames, roleNames)

	user.Email = email
	user.UserName = userName
	user.RoleNames = uniqueInOrder(roleNames)
	user.TenantID = tenantID
	if err := tx.UpdateUser(ctx, user); err != nil {
		return st.AddError(err)
	}

	if rolesChanged {
		return st.SetMessage("updated user %q, roles changed", displayName(email, userName, userID))
	}
	return st.SetMessage("updated user %q", displayName(email, userName, userID))
}

// AddRoleToUser assigns one more role to the user. Assigning a role the
// user already has succeeds without mutation and says so in the message.
func (s *UserService) AddRoleToUser(ctx context.Context, userID, roleName string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		user, err := tx.UserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return st.Addf("user %q not found", userID)
			}
			return st.AddError(err)
		}

		role, err := tx.RoleByName(ctx, roleName)
		if err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				return st.Addf("role %q not found", roleName)
			}
			return st.AddError(err)
		}

		if err := s.checkRoleCompat(ctx, tx, st, role, user.TenantID); err != nil {
			return st
		}

		if user.HasRole(roleName) {
			return st.SetMessage("user %q already had role %q", displayName(user.Email, user.UserName, userID), roleName)
		}

		user.RoleNames = append(user.RoleNames, roleName)
		if err := tx.UpdateUser(ctx, user); err != nil {
			return st.AddError(err)
		}
		return st.SetMessage("added role %q to user %q", roleName, displayName(user.Email, user.UserName, userID))
	})
	s.logOutcome(ctx, "AddRoleToUser", userID, st)
	return st
}

// RemoveRoleFromUser removes one role from the user. Removing a role the
// user does not have succeeds without mutation and says so in the message.
func (s *UserService) RemoveRoleFromUser(ctx context.Context, userID, roleName string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		user, err := tx.UserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return st.Addf("user %q not found", userID)
			}
			return st.AddError(err)
		}

		if _, err := tx.RoleByName(ctx, roleName); err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				return st.Addf("role %q not found", roleName)
			}
			return st.AddError(err)
		}

		i := slices.Index(user.RoleNames, roleName)
		if i < 0 {
			return st.SetMessage("user %q did not have role %q", displayName(user.Email, user.UserName, userID), roleName)
		}

		user.RoleNames = slices.Delete(user.RoleNames, i, i+1)
		if err := tx.UpdateUser(ctx, user); err != nil {
			return st.AddError(err)
		}
		return st.SetMessage("removed role %q from user %q", roleName, displayName(user.Email, user.UserName, userID))
	})
	s.logOutcome(ctx, "RemoveRoleFromUser", userID, st)
	return st
}

// DeleteUser hard-deletes the user and its role/tenant associations.
// A missing user is a reported error, not a fault.
func (s *UserService) DeleteUser(ctx context.Context, userID string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		return s.DeleteUserIn(ctx, tx, userID)
	})
	s.logOutcome(ctx, "DeleteUser", userID, st)
	return st
}

// DeleteUserIn is DeleteUser inside a caller-owned transaction. The
// not-found case carries store.ErrUserNotFound so batch callers can
// distinguish it from other failures.
func (s *UserService) DeleteUserIn(ctx context.Context, tx store.Tx, userID string) *status.Status {
	st := status.New()
	if err := tx.DeleteUser(ctx, userID); err != nil {
		return st.AddError(err)
	}
	return st.SetMessage("deleted user %q", userID)
}

// User returns a single user; a missing user is reported on the status.
func (s *UserService) User(ctx context.Context, userID string) *status.Result[store.AuthUser] {
	res := status.NewResult[store.AuthUser]()

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			res.Addf("user %q not found", userID)
		} else {
			res.AddError(err)
		}
		return res
	}
	return res.SetResult(user)
}

// Users returns all users ordered by user ID.
func (s *UserService) Users(ctx context.Context) ([]store.AuthUser, error) {
	return s.store.Users(ctx)
}

// resolveUserInput resolves the tenant name and validates every requested
// role, accumulating all problems. Returns the resolved tenant ID (0 when
// no tenant requested or on error).
func (s *UserService) resolveUserInput(ctx context.Context, tx store.Tx, st *status.Status, roleNames []string, tenantName string) int64 {
	var tn tenant.Tenant
	if tenantName != "" {
		if !s.multiTenant {
			st.Addf("tenant %q requested but multi-tenant support is disabled", tenantName)
		} else {
			var err error
			tn, err = tx.TenantByName(ctx, tenantName)
			if err != nil {
				if errors.Is(err, store.ErrTenantNotFound) {
					st.Addf("tenant %q not found", tenantName)
				} else {
					st.AddError(err)
				}
			}
		}
	}

	for _, name := range uniqueInOrder(roleNames) {
		role, err := tx.RoleByName(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				st.Addf("role %q not found", name)
			} else {
				st.AddError(err)
			}
			continue
		}
		if err := permit.CanAssign(role.Type, tn.ID != 0, tn.Roles, role.Name); err != nil {
			st.Addf("role %q: %v", name, err)
		}
	}

	return tn.ID
}

// checkRoleCompat validates a single role assignment against the user's
// current tenant, recording any problem on st and returning it as error.
func (s *UserService) checkRoleCompat(ctx context.Context, tx store.Tx, st *status.Status, role permit.Role, tenantID int64) error {
	var tenantRoles []string
	if tenantID != 0 {
		tn, err := tx.TenantByID(ctx, tenantID)
		if err != nil {
			st.AddError(err)
			return err
		}
		tenantRoles = tn.Roles
	}

	if err := permit.CanAssign(role.Type, tenantID != 0, tenantRoles, role.Name); err != nil {
		st.Addf("role %q: %v", role.Name, err)
		return err
	}
	return nil
}

func (s *UserService) logOutcome(ctx context.Context, op, userID string, st *status.Status) {
	if st.HasErrors() {
		s.logger.WarnContext(ctx, "user admin operation failed",
			slog.String("op", op),
			slog.String("user_id", userID),
			slog.String("errors", st.ErrorText()),
		)
		return
	}
	s.logger.InfoContext(ctx, "user admin operation",
		slog.String("op", op),
		slog.String("user_id", userID),
		slog.String("result", st.Message()),
	)
}

// displayName picks the best human-readable identifier for messages.
func displayName(email, userName, userID string) string {
	switch {
	case email != "":
		return email
	case userName != "":
		return userName
	default:
		return userID
	}
}

// uniqueInOrder removes duplicate names preserving first-seen order.
func uniqueInOrder(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
