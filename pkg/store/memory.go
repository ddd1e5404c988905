package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

// MemoryStore is a mutex-guarded in-memory Store. Transactions mutate a
// deep copy of the state and swap it in on commit, so a failed closure
// leaves the store untouched and a successful one applies as a single
// atomic batch.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memState
}

type memState struct {
	users        map[string]AuthUser
	roles        map[string]permit.Role
	tenants      map[int64]tenant.Tenant
	tenantByName map[string]int64
	nextTenantID int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memState{
			users:        make(map[string]AuthUser),
			roles:        make(map[string]permit.Role),
			tenants:      make(map[int64]tenant.Tenant),
			tenantByName: make(map[string]int64),
			nextTenantID: 1,
		},
	}
}

func (s *MemoryStore) UserByID(ctx context.Context, userID string) (AuthUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.userByID(userID)
}

func (s *MemoryStore) Users(ctx context.Context) ([]AuthUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.allUsers(), nil
}

func (s *MemoryStore) RoleByName(ctx context.Context, name string) (permit.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.roleByName(name)
}

func (s *MemoryStore) Roles(ctx context.Context) ([]permit.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.allRoles(), nil
}

func (s *MemoryStore) TenantByID(ctx context.Context, id int64) (tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.tenantByID(id)
}

func (s *MemoryStore) TenantByName(ctx context.Context, name string) (tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.lookupTenantByName(name)
}

func (s *MemoryStore) Tenants(ctx context.Context) ([]tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.allTenants(), nil
}

// InTx runs fn against a deep copy of the current state under an exclusive
// lock. The copy replaces the live state only when fn returns nil.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&memTx{state: next}); err != nil {
		return err
	}

	s.state = next
	return nil
}

// memTx implements Tx over the transaction's private state copy.
type memTx struct {
	state *memState
}

func (t *memTx) UserByID(ctx context.Context, userID string) (AuthUser, error) {
	return t.state.userByID(userID)
}

func (t *memTx) Users(ctx context.Context) ([]AuthUser, error) {
	return t.state.allUsers(), nil
}

func (t *memTx) RoleByName(ctx context.Context, name string) (permit.Role, error) {
	return t.state.roleByName(name)
}

func (t *memTx) Roles(ctx context.Context) ([]permit.Role, error) {
	return t.state.allRoles(), nil
}

func (t *memTx) TenantByID(ctx context.Context, id int64) (tenant.Tenant, error) {
	return t.state.tenantByID(id)
}

func (t *memTx) TenantByName(ctx context.Context, name string) (tenant.Tenant, error) {
	return t.state.lookupTenantByName(name)
}

func (t *memTx) Tenants(ctx context.Context) ([]tenant.Tenant, error) {
	return t.state.allTenants(), nil
}

func (t *memTx) CreateUser(ctx context.Context, user AuthUser) error {
	if _, exists := t.state.users[user.UserID]; exists {
		return fmt.Errorf("user %q: %w", user.UserID, ErrDuplicate)
	}
	t.state.users[user.UserID] = user.Clone()
	return nil
}

func (t *memTx) UpdateUser(ctx context.Context, user AuthUser) error {
	if _, exists := t.state.users[user.UserID]; !exists {
		return fmt.Errorf("user %q: %w", user.UserID, ErrUserNotFound)
	}
	t.state.users[user.UserID] = user.Clone()
	return nil
}

func (t *memTx) DeleteUser(ctx context.Context, userID string) error {
	if _, exists := t.state.users[userID]; !exists {
		return fmt.Errorf("user %q: %w", userID, ErrUserNotFound)
	}
	delete(t.state.users, userID)
	return nil
}

func (t *memTx) CreateRole(ctx context.Context, role permit.Role) error {
	if _, exists := t.state.roles[role.Name]; exists {
		return fmt.Errorf("role %q: %w", role.Name, ErrDuplicate)
	}
	t.state.roles[role.Name] = cloneRole(role)
	return nil
}

func (t *memTx) UpdateRole(ctx context.Context, role permit.Role) error {
	if _, exists := t.state.roles[role.Name]; !exists {
		return fmt.Errorf("role %q: %w", role.Name, ErrRoleNotFound)
	}
	t.state.roles[role.Name] = cloneRole(role)
	return nil
}

func (t *memTx) DeleteRole(ctx context.Context, name string) error {
	if _, exists := t.state.roles[name]; !exists {
		return fmt.Errorf("role %q: %w", name, ErrRoleNotFound)
	}
	delete(t.state.roles, name)
	return nil
}

func (t *memTx) NextTenantID(ctx context.Context) (int64, error) {
	id := t.state.nextTenantID
	t.state.nextTenantID++
	return id, nil
}

func (t *memTx) UpsertTenant(ctx context.Context, tn tenant.Tenant) error {
	if otherID, exists := t.state.tenantByName[tn.Name]; exists && otherID != tn.ID {
		return fmt.Errorf("tenant %q: %w", tn.Name, ErrDuplicate)
	}

	if old, exists := t.state.tenants[tn.ID]; exists && old.Name != tn.Name {
		delete(t.state.tenantByName, old.Name)
	}
	t.state.tenants[tn.ID] = cloneTenant(tn)
	t.state.tenantByName[tn.Name] = tn.ID

	if tn.ID >= t.state.nextTenantID {
		t.state.nextTenantID = tn.ID + 1
	}
	return nil
}

func (t *memTx) DeleteTenant(ctx context.Context, id int64) error {
	tn, exists := t.state.tenants[id]
	if !exists {
		return fmt.Errorf("tenant %d: %w", id, ErrTenantNotFound)
	}
	delete(t.state.tenantByName, tn.Name)
	delete(t.state.tenants, id)
	return nil
}

func (st *memState) userByID(userID string) (AuthUser, error) {
	user, ok := st.users[userID]
	if !ok {
		return AuthUser{}, fmt.Errorf("user %q: %w", userID, ErrUserNotFound)
	}
	return user.Clone(), nil
}

func (st *memState) allUsers() []AuthUser {
	out := make([]AuthUser, 0, len(st.users))
	for _, u := range st.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (st *memState) roleByName(name string) (permit.Role, error) {
	role, ok := st.roles[name]
	if !ok {
		return permit.Role{}, fmt.Errorf("role %q: %w", name, ErrRoleNotFound)
	}
	return cloneRole(role), nil
}

func (st *memState) allRoles() []permit.Role {
	out := make([]permit.Role, 0, len(st.roles))
	for _, r := range st.roles {
		out = append(out, cloneRole(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (st *memState) tenantByID(id int64) (tenant.Tenant, error) {
	tn, ok := st.tenants[id]
	if !ok {
		return tenant.Tenant{}, fmt.Errorf("tenant %d: %w", id, ErrTenantNotFound)
	}
	return cloneTenant(tn), nil
}

func (st *memState) lookupTenantByName(name string) (tenant.Tenant, error) {
	id, ok := st.tenantByName[name]
	if !ok {
		return tenant.Tenant{}, fmt.Errorf("tenant %q: %w", name, ErrTenantNotFound)
	}
	return cloneTenant(st.tenants[id]), nil
}

func (st *memState) allTenants() []tenant.Tenant {
	out := make([]tenant.Tenant, 0, len(st.tenants))
	for _, tn := range st.tenants {
		out = append(out, cloneTenant(tn))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (st *memState) clone() *memState {
	next := &memState{
		users:        make(map[string]AuthUser, len(st.users)),
		roles:        make(map[string]permit.Role, len(st.roles)),
		tenants:      make(map[int64]tenant.Tenant, len(st.tenants)),
		tenantByName: make(map[string]int64, len(st.tenantByName)),
		nextTenantID: st.nextTenantID,
	}
	for k, v := range st.users {
		next.users[k] = v.Clone()
	}
	for k, v := range st.roles {
		next.roles[k] = cloneRole(v)
	}
	for k, v := range st.tenants {
		next.tenants[k] = cloneTenant(v)
	}
	for k, v := range st.tenantByName {
		next.tenantByName[k] = v
	}
	return next
}

func cloneRole(r permit.Role) permit.Role {
	out := r
	out.Permissions = append([]permit.Permission(nil), r.Permissions...)
	return out
}

func cloneTenant(tn tenant.Tenant) tenant.Tenant {
	out := tn
	out.Roles = append([]string(nil), tn.Roles...)
	return out
}

// Compile-time interface assertions
var (
	_ Store = (*MemoryStore)(nil)
	_ Tx    = (*memTx)(nil)
)
