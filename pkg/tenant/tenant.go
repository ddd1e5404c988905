package tenant

import (
	"strconv"
	"strings"
)

const (
	// NameSeparator joins tenant base names into the full hierarchical name,
	// e.g. "Acme|West|Store 42".
	NameSeparator = "|"

	// DataKeySeparator terminates every tenant ID inside a data key,
	// e.g. "7.12.". The terminator is what makes prefix scoping exact:
	// "7." never matches rows keyed under tenant 70.
	DataKeySeparator = "."
)

// Tenant is an isolated data scope, optionally part of a hierarchy.
type Tenant struct {
	// ID is a stable numeric identifier assigned by the store. IDs are
	// never reused; data keys are derived from them.
	ID int64

	// Name is the full hierarchical name, ancestry segments joined with
	// NameSeparator. Unique across all tenants.
	Name string

	// ParentID references the parent tenant, 0 for root tenants.
	ParentID int64

	// DataKey scopes storage rows to this tenant and its descendants via
	// string-prefix matching. Derived from the ancestry ID chain, so it
	// survives renames.
	DataKey string

	// Roles lists the role names this tenant is allowed to grant to its
	// users (relevant for tenant-admin-add roles).
	Roles []string
}

// BaseName returns the tenant's own display segment, i.e. the part of the
// full name after the last separator.
func (t *Tenant) BaseName() string {
	if i := strings.LastIndex(t.Name, NameSeparator); i >= 0 {
		return t.Name[i+len(NameSeparator):]
	}
	return t.Name
}

// HasRole reports whether the tenant lists the role among its allowed roles.
func (t *Tenant) HasRole(roleName string) bool {
	for _, r := range t.Roles {
		if r == roleName {
			return true
		}
	}
	return false
}

// DataKeyFor derives a tenant's data key from its parent's data key and its
// own ID. Root tenants pass an empty parent key.
func DataKeyFor(parentKey string, id int64) string {
	return parentKey + strconv.FormatInt(id, 10) + DataKeySeparator
}

// FullNameFor derives a tenant's full name from its parent's full name and
// its own base name. Root tenants pass an empty parent name.
func FullNameFor(parentName, baseName string) string {
	if parentName == "" {
		return baseName
	}
	return parentName + NameSeparator + baseName
}

// WithinScope reports whether a row tagged with rowKey belongs to the scope
// of the tenant owning scopeKey, i.e. to that tenant or any descendant.
func WithinScope(scopeKey, rowKey string) bool {
	return scopeKey != "" && strings.HasPrefix(rowKey, scopeKey)
}
