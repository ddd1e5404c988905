package tenant

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Tree is an in-memory index over the persisted tenant set: an arena of
// nodes keyed by ID plus name and parent-child indexes. Structural changes
// (insert, rename, move) recompute the derived full names and data keys for
// the affected subtree and report every changed tenant so the caller can
// persist them in the same transaction.
//
// Tree is not safe for concurrent mutation; build it, mutate it, and
// persist the result within one logical operation.
type Tree struct {
	nodes    map[int64]*Tenant
	byName   map[string]int64
	children map[int64][]int64
}

// NewTree builds a tree from the flat persisted tenant list. It validates
// ID and name uniqueness and that every parent reference resolves.
func NewTree(tenants []Tenant) (*Tree, error) {
	t := &Tree{
		nodes:    make(map[int64]*Tenant, len(tenants)),
		byName:   make(map[string]int64, len(tenants)),
		children: make(map[int64][]int64),
	}

	for _, tn := range tenants {
		if _, exists := t.nodes[tn.ID]; exists {
			return nil, fmt.Errorf("tenant id %d: duplicate", tn.ID)
		}
		if _, exists := t.byName[tn.Name]; exists {
			return nil, fmt.Errorf("tenant %q: %w", tn.Name, ErrDuplicateName)
		}
		node := tn
		node.Roles = slices.Clone(tn.Roles)
		t.nodes[tn.ID] = &node
		t.byName[tn.Name] = tn.ID
	}

	for _, node := range t.nodes {
		if node.ParentID != 0 {
			if _, ok := t.nodes[node.ParentID]; !ok {
				return nil, fmt.Errorf("tenant %q parent %d: %w", node.Name, node.ParentID, ErrParentNotFound)
			}
		}
		t.children[node.ParentID] = append(t.children[node.ParentID], node.ID)
	}
	for _, ids := range t.children {
		slices.Sort(ids)
	}

	return t, nil
}

// Len returns the number of tenants in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get returns a copy of the tenant with the given ID.
func (t *Tree) Get(id int64) (Tenant, error) {
	node, ok := t.nodes[id]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	return t.copyOf(node), nil
}

// GetByName returns a copy of the tenant with the given full name.
func (t *Tree) GetByName(fullName string) (Tenant, error) {
	id, ok := t.byName[fullName]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	return t.copyOf(t.nodes[id]), nil
}

// Names returns all full tenant names, sorted.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descendants returns copies of every tenant below the given one, in
// depth-first order. The tenant itself is not included.
func (t *Tree) Descendants(id int64) []Tenant {
	var out []Tenant
	t.walk(id, func(node *Tenant) {
		if node.ID != id {
			out = append(out, t.copyOf(node))
		}
	})
	return out
}

// HasChildren reports whether the tenant has any direct children.
func (t *Tree) HasChildren(id int64) bool {
	return len(t.children[id]) > 0
}

// Insert adds a tenant with a store-assigned ID under the given parent
// (0 for a root tenant). The base name must be non-empty and free of the
// hierarchy separator; the resulting full name must be unused.
func (t *Tree) Insert(id int64, baseName string, parentID int64, roles []string) (Tenant, error) {
	baseName = strings.TrimSpace(baseName)
	if baseName == "" || strings.Contains(baseName, NameSeparator) {
		return Tenant{}, fmt.Errorf("%w: %q", ErrInvalidName, baseName)
	}
	if _, exists := t.nodes[id]; exists {
		return Tenant{}, fmt.Errorf("tenant id %d: duplicate", id)
	}

	var parentName, parentKey string
	if parentID != 0 {
		parent, ok := t.nodes[parentID]
		if !ok {
			return Tenant{}, ErrParentNotFound
		}
		parentName = parent.Name
		parentKey = parent.DataKey
	}

	fullName := FullNameFor(parentName, baseName)
	if _, exists := t.byName[fullName]; exists {
		return Tenant{}, fmt.Errorf("tenant %q: %w", fullName, ErrDuplicateName)
	}

	node := &Tenant{
		ID:       id,
		Name:     fullName,
		ParentID: parentID,
		DataKey:  DataKeyFor(parentKey, id),
		Roles:    slices.Clone(roles),
	}
	t.nodes[id] = node
	t.byName[fullName] = id
	t.children[parentID] = append(t.children[parentID], id)

	return t.copyOf(node), nil
}

// Rename changes a tenant's display segment and rewrites the full names of
// the tenant and all its descendants. Data keys never change on rename, so
// historical rows stay correctly scoped. Returns copies of every changed
// tenant for persistence.
func (t *Tree) Rename(id int64, newBaseName string) ([]Tenant, error) {
	newBaseName = strings.TrimSpace(newBaseName)
	if newBaseName == "" || strings.Contains(newBaseName, NameSeparator) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, newBaseName)
	}

	node, ok := t.nodes[id]
	if !ok {
		return nil, ErrTenantNotFound
	}

	var parentName string
	if node.ParentID != 0 {
		parentName = t.nodes[node.ParentID].Name
	}
	newName := FullNameFor(parentName, newBaseName)
	if newName == node.Name {
		return nil, nil
	}
	if other, exists := t.byName[newName]; exists && other != id {
		return nil, fmt.Errorf("tenant %q: %w", newName, ErrDuplicateName)
	}

	t.renameSubtree(node, newName)
	return t.collectSubtree(id), nil
}

// Move reparents a tenant (newParentID 0 makes it a root). The full names
// and data keys of the moved subtree are recomputed. Moving a tenant under
// itself or one of its descendants is rejected. Returns copies of every
// changed tenant for persistence.
func (t *Tree) Move(id, newParentID int64) ([]Tenant, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	if newParentID == node.ParentID {
		return nil, nil
	}

	var parentName, parentKey string
	if newParentID != 0 {
		parent, ok := t.nodes[newParentID]
		if !ok {
			return nil, ErrParentNotFound
		}
		if newParentID == id || t.isDescendant(id, newParentID) {
			return nil, ErrMoveIntoSubtree
		}
		parentName = parent.Name
		parentKey = parent.DataKey
	}

	newName := FullNameFor(parentName, node.BaseName())
	if other, exists := t.byName[newName]; exists && other != id {
		return nil, fmt.Errorf("tenant %q: %w", newName, ErrDuplicateName)
	}

	t.detachChild(node.ParentID, id)
	node.ParentID = newParentID
	t.children[newParentID] = append(t.children[newParentID], id)

	t.renameSubtree(node, newName)
	t.rekeySubtree(node, DataKeyFor(parentKey, id))

	return t.collectSubtree(id), nil
}

// Delete removes a leaf tenant. Tenants with children cannot be deleted.
func (t *Tree) Delete(id int64) error {
	node, ok := t.nodes[id]
	if !ok {
		return ErrTenantNotFound
	}
	if len(t.children[id]) > 0 {
		return fmt.Errorf("tenant %q has child tenants", node.Name)
	}

	t.detachChild(node.ParentID, id)
	delete(t.children, id)
	delete(t.byName, node.Name)
	delete(t.nodes, id)
	return nil
}

// SetRoles replaces the tenant's allowed-role list.
func (t *Tree) SetRoles(id int64, roles []string) (Tenant, error) {
	node, ok := t.nodes[id]
	if !ok {
		return Tenant{}, ErrTenantNotFound
	}
	node.Roles = slices.Clone(roles)
	return t.copyOf(node), nil
}

// renameSubtree rewrites the full name of the node and cascades the new
// prefix to every descendant, keeping the name index in sync.
func (t *Tree) renameSubtree(node *Tenant, newName string) {
	oldPrefix := node.Name + NameSeparator
	newPrefix := newName + NameSeparator

	delete(t.byName, node.Name)
	node.Name = newName
	t.byName[newName] = node.ID

	for _, desc := range t.descendantNodes(node.ID) {
		delete(t.byName, desc.Name)
		desc.Name = newPrefix + strings.TrimPrefix(desc.Name, oldPrefix)
		t.byName[desc.Name] = desc.ID
	}
}

// rekeySubtree rewrites the node's data key and re-derives every
// descendant's key from its parent chain.
func (t *Tree) rekeySubtree(node *Tenant, newKey string) {
	node.DataKey = newKey
	t.walk(node.ID, func(n *Tenant) {
		if n.ID != node.ID {
			n.DataKey = DataKeyFor(t.nodes[n.ParentID].DataKey, n.ID)
		}
	})
}

// walk visits the subtree rooted at id in depth-first order, parents before
// children, so derived values can be recomputed top-down.
func (t *Tree) walk(id int64, fn func(*Tenant)) {
	node, ok := t.nodes[id]
	if !ok {
		return
	}
	fn(node)
	for _, childID := range t.children[id] {
		t.walk(childID, fn)
	}
}

func (t *Tree) descendantNodes(id int64) []*Tenant {
	var out []*Tenant
	t.walk(id, func(n *Tenant) {
		if n.ID != id {
			out = append(out, n)
		}
	})
	return out
}

func (t *Tree) collectSubtree(id int64) []Tenant {
	var out []Tenant
	t.walk(id, func(n *Tenant) {
		out = append(out, t.copyOf(n))
	})
	return out
}

func (t *Tree) isDescendant(rootID, id int64) bool {
	for _, desc := range t.descendantNodes(rootID) {
		if desc.ID == id {
			return true
		}
	}
	return false
}

func (t *Tree) detachChild(parentID, id int64) {
	siblings := t.children[parentID]
	if i := slices.Index(siblings, id); i >= 0 {
		t.children[parentID] = slices.Delete(siblings, i, i+1)
	}
}

func (t *Tree) copyOf(node *Tenant) Tenant {
	out := *node
	out.Roles = slices.Clone(node.Roles)
	return out
}
