package usersync

import (
	"context"

	"github.com/google/uuid"
)

// Provider lists the active users of an external identity provider. The
// listing must be idempotent and return the full current population.
type Provider interface {
	ActiveUsers(ctx context.Context) ([]ExternalUser, error)
}

// ExternalUser is one identity-provider record. Email and UserName are
// optional display fields; UserID is the opaque stable identifier shared
// with the local user store.
type ExternalUser struct {
	UserID   string
	Email    string
	UserName string
}

// ChangeType classifies the comparison of one external user against the
// local store. Classification is single-pass and terminal; a change never
// transitions between types within one sync run.
type ChangeType uint8

const (
	ChangeNone ChangeType = iota
	ChangeCreate
	ChangeUpdate
	ChangeDelete
)

// String implements fmt.Stringer.
func (c ChangeType) String() string {
	switch c {
	case ChangeNone:
		return "no_change"
	case ChangeCreate:
		return "create"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one reviewable entry of a computed change set. For updates the
// previous display fields are kept in OldEmail/OldUserName, and RoleNames
// and TenantName carry the user's current assignments forward as editable
// defaults. Creates start with no roles and no tenant; an administrator
// may fill them in before applying.
type Change struct {
	ID          uuid.UUID
	Type        ChangeType
	UserID      string
	Email       string
	UserName    string
	OldEmail    string
	OldUserName string
	RoleNames   []string
	TenantName  string
}
