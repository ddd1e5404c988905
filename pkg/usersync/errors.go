package usersync

import "errors"

var (
	// ErrProviderNotConfigured is returned by New when the host never
	// registered an identity provider implementation.
	ErrProviderNotConfigured = errors.New("usersync: identity provider is not configured")

	// ErrSyncInconsistent is reported when a change set no longer matches
	// the store it was computed from, e.g. a delete for a user that has
	// already disappeared. The whole apply is aborted.
	ErrSyncInconsistent = errors.New("usersync: change set is inconsistent with the current store state")
)
