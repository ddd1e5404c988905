package usersync

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authzkit/pkg/admin"
	"github.com/dmitrymomot/authzkit/pkg/status"
	"github.com/dmitrymomot/authzkit/pkg/store"
)

// Service reconciles the external identity provider's user population with
// the local user store. A run has two phases: ComputeChangeSet produces a
// reviewable diff, and ApplyChangeSet persists an approved diff through the
// user admin service as one atomic batch.
type Service struct {
	provider Provider
	store    store.Store
	users    *admin.UserService
	logger   *slog.Logger
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger configures the logger for the sync service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a sync service. The provider is a host-supplied capability;
// a nil provider fails fast with ErrProviderNotConfigured instead of
// surfacing as a nil-pointer panic on the first run.
func New(provider Provider, st store.Store, users *admin.UserService, opts ...Option) (*Service, error) {
	if provider == nil {
		return nil, ErrProviderNotConfigured
	}

	s := &Service{
		provider: provider,
		store:    st,
		users:    users,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ComputeChangeSet diffs the provider's active users against the local
// store. The result is deterministic and exhaustive: one entry per
// external user in provider order, followed by a delete entry for every
// local-only user in user-ID order. Every user appears exactly once.
func (s *Service) ComputeChangeSet(ctx context.Context) ([]Change, error) {
	external, err := s.provider.ActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	locals, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	tenantNames, err := s.tenantNamesByID(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]store.AuthUser, len(locals))
	for _, u := range locals {
		byID[u.UserID] = u
	}

	changes := make([]Change, 0, len(external)+len(locals))
	matched := make(map[string]bool, len(external))
	for _, ext := range external {
		matched[ext.UserID] = true

		local, found := byID[ext.UserID]
		if !found {
			changes = append(changes, Change{
				ID:       uuid.New(),
				Type:     ChangeCreate,
				UserID:   ext.UserID,
				Email:    ext.Email,
				UserName: ext.UserName,
			})
			continue
		}

		c := Change{
			ID:          uuid.New(),
			Type:        ChangeNone,
			UserID:      ext.UserID,
			Email:       ext.Email,
			UserName:    ext.UserName,
			OldEmail:    local.Email,
			OldUserName: local.UserName,
			RoleNames:   local.RoleNames,
			TenantName:  tenantNames[local.TenantID],
		}
		if !local.SameIdentity(ext.Email, ext.UserName) {
			c.Type = ChangeUpdate
		}
		changes = append(changes, c)
	}

	// Users(ctx) is ordered by user ID, so the delete tail is stable.
	for _, local := range locals {
		if matched[local.UserID] {
			continue
		}
		changes = append(changes, Change{
			ID:          uuid.New(),
			Type:        ChangeDelete,
			UserID:      local.UserID,
			OldEmail:    local.Email,
			OldUserName: local.UserName,
			RoleNames:   local.RoleNames,
			TenantName:  tenantNames[local.TenantID],
		})
	}

	s.logger.InfoContext(ctx, "computed sync change set",
		slog.Int("external_users", len(external)),
		slog.Int("local_users", len(locals)),
		slog.Int("changes", len(changes)),
	)
	return changes, nil
}

// errAbort rolls the apply transaction back after the batch status has
// collected its errors.
var errAbort = errors.New("usersync: abort batch")

// ApplyChangeSet persists an approved change set in one transaction. A
// delete for a user that no longer exists locally means the set was
// computed from stale state; that aborts the whole apply with
// ErrSyncInconsistent. Any other per-item failure (an unknown role name, a
// tenant renamed since review) is accumulated, and a batch with errors
// commits nothing. On success the status message counts each change type.
func (s *Service) ApplyChangeSet(ctx context.Context, changes []Change) *status.Status {
	batch := status.New()
	var created, updated, deleted, unchanged int

	err := s.store.InTx(ctx, func(tx store.Tx) error {
		for _, c := range changes {
			switch c.Type {
			case ChangeNone:
				unchanged++

			case ChangeCreate:
				st := s.users.AddNewUserIn(ctx, tx, c.UserID, c.Email, c.UserName, c.RoleNames, c.TenantName)
				if st.HasErrors() {
					batch.Combine(st)
					continue
				}
				created++

			case ChangeUpdate:
				st := s.users.UpdateUserIn(ctx, tx, c.UserID, c.Email, c.UserName, c.RoleNames, c.TenantName)
				if st.HasErrors() {
					batch.Combine(st)
					continue
				}
				updated++

			case ChangeDelete:
				st := s.users.DeleteUserIn(ctx, tx, c.UserID)
				if err := st.Err(); err != nil {
					if errors.Is(err, store.ErrUserNotFound) {
						batch.Addf("delete of user %q: %w", c.UserID, ErrSyncInconsistent)
						return errAbort
					}
					batch.Combine(st)
					continue
				}
				deleted++

			default:
				batch.Addf("change %s for user %q has unknown type %d", c.ID, c.UserID, c.Type)
			}
		}

		if batch.HasErrors() {
			return errAbort
		}
		return nil
	})
	if err != nil && !errors.Is(err, errAbort) {
		batch.AddError(err)
	}

	if batch.HasErrors() {
		s.logger.WarnContext(ctx, "sync apply failed",
			slog.Int("changes", len(changes)),
			slog.String("errors", batch.ErrorText()),
		)
		return batch
	}

	batch.SetMessage("created %d, updated %d, deleted %d, unchanged %d",
		created, updated, deleted, unchanged)
	s.logger.InfoContext(ctx, "sync apply complete", slog.String("summary", batch.Message()))
	return batch
}

// tenantNamesByID maps tenant IDs to full names so change entries can carry
// the admin-facing tenant name instead of the internal ID.
func (s *Service) tenantNamesByID(ctx context.Context) (map[int64]string, error) {
	tenants, err := s.store.Tenants(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(tenants))
	for _, tn := range tenants {
		out[tn.ID] = tn.Name
	}
	return out, nil
}
