package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/dmitrymomot/authzkit/pkg/status"
	"github.com/dmitrymomot/authzkit/pkg/store"
)

// errAbort signals InTx to roll back after validation errors were already
// collected into the operation's status. It never escapes the package.
var errAbort = errors.New("admin: abort transaction")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runTx executes fn in a transaction, rolling back when fn's status
// collects errors, and surfaces commit failures (constraint violations)
// on the returned status.
func runTx(ctx context.Context, st store.Store, fn func(tx store.Tx) *status.Status) *status.Status {
	var result *status.Status
	err := st.InTx(ctx, func(tx store.Tx) error {
		result = fn(tx)
		if result.HasErrors() {
			return errAbort
		}
		return nil
	})
	if result == nil {
		result = status.New()
	}
	if err != nil && !errors.Is(err, errAbort) {
		result.AddError(err)
	}
	return result
}

// sameRoleSet reports whether two role-name lists contain the same names,
// ignoring order and duplicates.
func sameRoleSet(a, b []string) bool {
	return equalSorted(uniqueSorted(a), uniqueSorted(b))
}

func uniqueSorted(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func equalSorted(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
