package admin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/status"
	"github.com/dmitrymomot/authzkit/pkg/store"
	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

// TenantService manages the tenant hierarchy. Structural changes (add,
// rename, move) rebuild the in-memory tree inside the transaction, apply
// the change, and persist every affected tenant in the same commit, so
// derived names and data keys can never drift from the hierarchy.
type TenantService struct {
	store  store.Store
	logger *slog.Logger
}

// TenantOption configures a TenantService during construction.
type TenantOption func(*TenantService)

// WithTenantLogger configures the logger for the tenant service.
func WithTenantLogger(logger *slog.Logger) TenantOption {
	return func(s *TenantService) {
		s.logger = logger
	}
}

// NewTenantService creates a tenant admin service over the given store.
func NewTenantService(st store.Store, opts ...TenantOption) *TenantService {
	s := &TenantService{
		store:  st,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTenant creates a tenant under the named parent ("" for a root
// tenant) with the given allowed-role list. The new tenant's data key is
// derived from a freshly allocated ID, never from the name.
func (s *TenantService) AddTenant(ctx context.Context, baseName, parentName string, roleNames []string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		tree, ok := s.loadTree(ctx, tx, st)
		if !ok {
			return st
		}

		var parentID int64
		if parentName != "" {
			parent, err := tree.GetByName(parentName)
			if err != nil {
				return st.Addf("parent tenant %q not found", parentName)
			}
			parentID = parent.ID
		}

		s.validateTenantRoles(ctx, tx, st, roleNames)
		if st.HasErrors() {
			return st
		}

		id, err := tx.NextTenantID(ctx)
		if err != nil {
			return st.AddError(err)
		}

		tn, err := tree.Insert(id, baseName, parentID, uniqueInOrder(roleNames))
		if err != nil {
			return st.AddError(err)
		}

		if err := tx.UpsertTenant(ctx, tn); err != nil {
			return st.AddError(err)
		}
		return st.SetMessage("added tenant %q with data key %q", tn.Name, tn.DataKey)
	})
	s.logOutcome(ctx, "AddTenant", baseName, st)
	return st
}

// RenameTenant changes a tenant's display segment. The full names of the
// tenant and its descendants are rewritten; data keys are untouched, so
// existing rows stay correctly scoped.
func (s *TenantService) RenameTenant(ctx context.Context, fullName, newBaseName string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		tree, ok := s.loadTree(ctx, tx, st)
		if !ok {
			return st
		}

		tn, err := tree.GetByName(fullName)
		if err != nil {
			return st.Addf("tenant %q not found", fullName)
		}

		changed, err := tree.Rename(tn.ID, newBaseName)
		if err != nil {
			return st.AddError(err)
		}
		if len(changed) == 0 {
			return st.SetMessage("tenant %q already has that name", fullName)
		}

		for _, c := range changed {
			if err := tx.UpsertTenant(ctx, c); err != nil {
				return st.AddError(err)
			}
		}
		return st.SetMessage("renamed tenant %q to %q, updated %d tenants", fullName, changed[0].Name, len(changed))
	})
	s.logOutcome(ctx, "RenameTenant", fullName, st)
	return st
}

// MoveTenant reparents a tenant ("" moves it to the root). Names and data
// keys of the whole moved subtree are recomputed and persisted atomically;
// rows written under the old data keys must be re-tagged by the host
// before they are queried under the new scope.
func (s *TenantService) MoveTenant(ctx context.Context, fullName, newParentName string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		tree, ok := s.loadTree(ctx, tx, st)
		if !ok {
			return st
		}

		tn, err := tree.GetByName(fullName)
		if err != nil {
			return st.Addf("tenant %q not found", fullName)
		}

		var newParentID int64
		if newParentName != "" {
			parent, err := tree.GetByName(newParentName)
			if err != nil {
				return st.Addf("parent tenant %q not found", newParentName)
			}
			newParentID = parent.ID
		}

		changed, err := tree.Move(tn.ID, newParentID)
		if err != nil {
			return st.AddError(err)
		}
		if len(changed) == 0 {
			return st.SetMessage("tenant %q already has that parent", fullName)
		}

		for _, c := range changed {
			if err := tx.UpsertTenant(ctx, c); err != nil {
				return st.AddError(err)
			}
		}
		return st.SetMessage("moved tenant %q to %q, updated %d tenants", fullName, changed[0].Name, len(changed))
	})
	s.logOutcome(ctx, "MoveTenant", fullName, st)
	return st
}

// UpdateTenantRoles replaces the tenant's allowed-role list.
func (s *TenantService) UpdateTenantRoles(ctx context.Context, fullName string, roleNames []string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		tn, err := tx.TenantByName(ctx, fullName)
		if err != nil {
			if errors.Is(err, store.ErrTenantNotFound) {
				return st.Addf("tenant %q not found", fullName)
			}
			return st.AddError(err)
		}

		s.validateTenantRoles(ctx, tx, st, roleNames)
		if st.HasErrors() {
			return st
		}

		tn.Roles = uniqueInOrder(roleNames)
		if err := tx.UpsertTenant(ctx, tn); err != nil {
			return st.AddError(err)
		}
		return st.SetMessage("updated roles of tenant %q, now %d roles", fullName, len(tn.Roles))
	})
	s.logOutcome(ctx, "UpdateTenantRoles", fullName, st)
	return st
}

// DeleteTenant removes a tenant. Child tenants and assigned users both
// block deletion and are reported together.
func (s *TenantService) DeleteTenant(ctx context.Context, fullName string) *status.Status {
	st := runTx(ctx, s.store, func(tx store.Tx) *status.Status {
		st := status.New()

		tree, ok := s.loadTree(ctx, tx, st)
		if !ok {
			return st
		}

		tn, err := tree.GetByName(fullName)
		if err != nil {
			return st.Addf("tenant %q not found", fullName)
		}

		if tree.HasChildren(tn.ID) {
			st.Addf("tenant %q has %d child tenants", fullName, len(tree.Descendants(tn.ID)))
		}

		users, err := tx.Users(ctx)
		if err != nil {
			return st.AddError(err)
		}
		var assigned int
		for _, u := range users {
			if u.TenantID == tn.ID {
				assigned++
			}
		}
		if assigned > 0 {
			st.Addf("tenant %q still has %d users assigned", fullName, assigned)
		}
		if st.HasErrors() {
			return st
		}

		if err := tx.DeleteTenant(ctx, tn.ID); err != nil {
			return st.AddError(err)
		}
		return st.SetMessage("deleted tenant %q", fullName)
	})
	s.logOutcome(ctx, "DeleteTenant", fullName, st)
	return st
}

// Tenant returns a single tenant by full name; a missing tenant is
// reported on the status.
func (s *TenantService) Tenant(ctx context.Context, fullName string) *status.Result[tenant.Tenant] {
	res := status.NewResult[tenant.Tenant]()

	tn, err := s.store.TenantByName(ctx, fullName)
	if err != nil {
		if errors.Is(err, store.ErrTenantNotFound) {
			res.Addf("tenant %q not found", fullName)
		} else {
			res.AddError(err)
		}
		return res
	}
	return res.SetResult(tn)
}

// TenantNames returns every full tenant name, sorted.
func (s *TenantService) TenantNames(ctx context.Context) ([]string, error) {
	tenants, err := s.store.Tenants(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tenants))
	for _, tn := range tenants {
		names = append(names, tn.Name)
	}
	return names, nil
}

// loadTree builds the hierarchy index from the transaction's snapshot.
func (s *TenantService) loadTree(ctx context.Context, tx store.Tx, st *status.Status) (*tenant.Tree, bool) {
	tenants, err := tx.Tenants(ctx)
	if err != nil {
		st.AddError(err)
		return nil, false
	}
	tree, err := tenant.NewTree(tenants)
	if err != nil {
		st.AddError(err)
		return nil, false
	}
	return tree, true
}

// validateTenantRoles checks that every allowed role exists and may be
// granted to tenant users at all.
func (s *TenantService) validateTenantRoles(ctx context.Context, tx store.Tx, st *status.Status, roleNames []string) {
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
		if role.Type == permit.RoleTypeHiddenFromTenant {
			st.Addf("role %q is hidden from tenants and cannot be in a tenant's role list", name)
		}
	}
}

func (s *TenantService) logOutcome(ctx context.Context, op, name string, st *status.Status) {
	if st.HasErrors() {
		s.logger.WarnContext(ctx, "tenant admin operation failed",
			slog.String("op", op),
			slog.String("tenant", name),
			slog.String("errors", st.ErrorText()),
		)
		return
	}
	s.logger.InfoContext(ctx, "tenant admin operation",
		slog.String("op", op),
		slog.String("tenant", name),
		slog.String("result", st.Message()),
	)
}
