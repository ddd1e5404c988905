package claims

// Claim keys as they appear in the host's session or token representation.
const (
	KeyPermissions = "permissions"
	KeyDataKey     = "datakey"
)

// Claims is the consolidated authorization payload for one principal.
type Claims struct {
	// Permissions is the packed permission set (see permit.Registry.Pack).
	Permissions string `json:"permissions,omitempty"`

	// DataKey is the tenant scope key, empty for app-level users or when
	// multi-tenancy is disabled.
	DataKey string `json:"datakey,omitempty"`
}

// IsEmpty reports whether the claims grant nothing at all.
func (c Claims) IsEmpty() bool {
	return c.Permissions == "" && c.DataKey == ""
}

// AsMap returns the claims as key/value pairs ready to merge into a token
// payload. Empty values are omitted.
func (c Claims) AsMap() map[string]string {
	out := make(map[string]string, 2)
	if c.Permissions != "" {
		out[KeyPermissions] = c.Permissions
	}
	if c.DataKey != "" {
		out[KeyDataKey] = c.DataKey
	}
	return out
}
