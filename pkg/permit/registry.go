package permit

import (
	"fmt"
	"strings"
)

// packBase is the first rune used for packed permission indexes. Starting
// above the ASCII range keeps packed values free of JSON-special characters.
const packBase rune = 0x0100

// Registry holds the application's full permission universe. It is built
// once at startup and is immutable afterwards, which makes it safe for
// concurrent use without locking.
//
// Registration order assigns every permission a compact index used by Pack
// and Unpack. Appending new permissions keeps old packed values valid;
// removing or reordering them does not, so treat the registration list as
// append-only across releases.
type Registry struct {
	codes []Permission
	index map[Permission]int
}

// NewRegistry builds a registry from the application's permission codes.
// At least one code is required and duplicates are rejected.
func NewRegistry(permissions ...Permission) (*Registry, error) {
	if len(permissions) == 0 {
		return nil, ErrNoPermissions
	}

	index := make(map[Permission]int, len(permissions))
	codes := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		p = Permission(strings.TrimSpace(string(p)))
		if p == "" {
			return nil, ErrNoPermissions
		}
		if _, exists := index[p]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePermission, p)
		}
		index[p] = len(codes)
		codes = append(codes, p)
	}

	return &Registry{codes: codes, index: index}, nil
}

// Contains reports whether the permission code is registered.
func (r *Registry) Contains(p Permission) bool {
	_, ok := r.index[p]
	return ok
}

// Permissions returns all registered codes in registration order.
func (r *Registry) Permissions() []Permission {
	out := make([]Permission, len(r.codes))
	copy(out, r.codes)
	return out
}

// Pack encodes a permission set into a compact string: one rune per
// permission, deduplicated, ordered by registration index so the result is
// deterministic regardless of input order. Unregistered codes are skipped.
func (r *Registry) Pack(permissions []Permission) string {
	if len(permissions) == 0 {
		return ""
	}

	seen := make(map[int]bool, len(permissions))
	for _, p := range permissions {
		if i, ok := r.index[p]; ok {
			seen[i] = true
		}
	}

	var b strings.Builder
	b.Grow(len(seen))
	for i := range r.codes {
		if seen[i] {
			b.WriteRune(packBase + rune(i))
		}
	}
	return b.String()
}

// Unpack decodes a packed permission string back into permission codes.
// Runes that do not map to a registered permission are ignored, so packed
// values from an older release with since-retired permissions still decode.
func (r *Registry) Unpack(packed string) []Permission {
	if packed == "" {
		return nil
	}

	out := make([]Permission, 0, len(packed))
	for _, c := range packed {
		i := int(c - packBase)
		if i >= 0 && i < len(r.codes) {
			out = append(out, r.codes[i])
		}
	}
	return out
}
