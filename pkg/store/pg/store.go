package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authzkit/pkg/permit"
	"github.com/dmitrymomot/authzkit/pkg/store"
	"github.com/dmitrymomot/authzkit/pkg/tenant"
)

// dbtx is the query surface shared by the pool and an open transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Store on a pgx connection pool.
type Store struct {
	queries
	pool *pgxpool.Pool
}

// New wraps an established connection pool. Run Migrate before first use.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		queries: queries{db: pool},
		pool:    pool,
	}
}

// InTx runs fn inside one PostgreSQL transaction, committing only when fn
// returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{queries: queries{db: tx}})
	})
}

// pgTx implements store.Tx over an open pgx transaction.
type pgTx struct {
	queries
}

// queries implements the read side against either the pool or a transaction.
type queries struct {
	db dbtx
}

func (q queries) UserByID(ctx context.Context, userID string) (store.AuthUser, error) {
	row := q.db.QueryRow(ctx,
		`SELECT user_id, email, user_name, role_names, tenant_id FROM authz_users WHERE user_id = $1`,
		userID)

	user, err := scanUser(row)
	if err != nil {
		if isNotFound(err) {
			return store.AuthUser{}, fmt.Errorf("user %q: %w", userID, store.ErrUserNotFound)
		}
		return store.AuthUser{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

func (q queries) Users(ctx context.Context) ([]store.AuthUser, error) {
	rows, err := q.db.Query(ctx,
		`SELECT user_id, email, user_name, role_names, tenant_id FROM authz_users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []store.AuthUser
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (q queries) RoleByName(ctx context.Context, name string) (permit.Role, error) {
	row := q.db.QueryRow(ctx,
		`SELECT name, role_type, permissions FROM authz_roles WHERE name = $1`, name)

	role, err := scanRole(row)
	if err != nil {
		if isNotFound(err) {
			return permit.Role{}, fmt.Errorf("role %q: %w", name, store.ErrRoleNotFound)
		}
		return permit.Role{}, fmt.Errorf("query role: %w", err)
	}
	return role, nil
}

func (q queries) Roles(ctx context.Context) ([]permit.Role, error) {
	rows, err := q.db.Query(ctx,
		`SELECT name, role_type, permissions FROM authz_roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var roles []permit.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (q queries) TenantByID(ctx context.Context, id int64) (tenant.Tenant, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, name, parent_id, data_key, roles FROM authz_tenants WHERE id = $1`, id)

	tn, err := scanTenant(row)
	if err != nil {
		if isNotFound(err) {
			return tenant.Tenant{}, fmt.Errorf("tenant %d: %w", id, store.ErrTenantNotFound)
		}
		return tenant.Tenant{}, fmt.Errorf("query tenant: %w", err)
	}
	return tn, nil
}

func (q queries) TenantByName(ctx context.Context, name string) (tenant.Tenant, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, name, parent_id, data_key, roles FROM authz_tenants WHERE name = $1`, name)

	tn, err := scanTenant(row)
	if err != nil {
		if isNotFound(err) {
			return tenant.Tenant{}, fmt.Errorf("tenant %q: %w", name, store.ErrTenantNotFound)
		}
		return tenant.Tenant{}, fmt.Errorf("query tenant: %w", err)
	}
	return tn, nil
}

func (q queries) Tenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, name, parent_id, data_key, roles FROM authz_tenants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		tn, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, tn)
	}
	return tenants, rows.Err()
}

func (q queries) CreateUser(ctx context.Context, user store.AuthUser) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO authz_users (user_id, email, user_name, role_names, tenant_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.UserID, user.Email, user.UserName, textArray(user.RoleNames), user.TenantID)
	if isDuplicateKey(err) {
		return fmt.Errorf("user %q: %w", user.UserID, store.ErrDuplicate)
	}
	return err
}

func (q queries) UpdateUser(ctx context.Context, user store.AuthUser) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE authz_users SET email = $2, user_name = $3, role_names = $4, tenant_id = $5
		 WHERE user_id = $1`,
		user.UserID, user.Email, user.UserName, textArray(user.RoleNames), user.TenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", user.UserID, store.ErrUserNotFound)
	}
	return nil
}

func (q queries) DeleteUser(ctx context.Context, userID string) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM authz_users WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", userID, store.ErrUserNotFound)
	}
	return nil
}

func (q queries) CreateRole(ctx context.Context, role permit.Role) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO authz_roles (name, role_type, permissions) VALUES ($1, $2, $3)`,
		role.Name, role.Type.String(), permissionStrings(role.Permissions))
	if isDuplicateKey(err) {
		return fmt.Errorf("role %q: %w", role.Name, store.ErrDuplicate)
	}
	return err
}

func (q queries) UpdateRole(ctx context.Context, role permit.Role) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE authz_roles SET role_type = $2, permissions = $3 WHERE name = $1`,
		role.Name, role.Type.String(), permissionStrings(role.Permissions))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("role %q: %w", role.Name, store.ErrRoleNotFound)
	}
	return nil
}

func (q queries) DeleteRole(ctx context.Context, name string) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM authz_roles WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("role %q: %w", name, store.ErrRoleNotFound)
	}
	return nil
}

func (q queries) NextTenantID(ctx context.Context) (int64, error) {
	var id int64
	if err := q.db.QueryRow(ctx, `SELECT nextval('authz_tenant_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate tenant id: %w", err)
	}
	return id, nil
}

func (q queries) UpsertTenant(ctx context.Context, tn tenant.Tenant) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO authz_tenants (id, name, parent_id, data_key, roles)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		     name = EXCLUDED.name,
		     parent_id = EXCLUDED.parent_id,
		     data_key = EXCLUDED.data_key,
		     roles = EXCLUDED.roles`,
		tn.ID, tn.Name, tn.ParentID, tn.DataKey, textArray(tn.Roles))
	if isDuplicateKey(err) {
		return fmt.Errorf("tenant %q: %w", tn.Name, store.ErrDuplicate)
	}
	return err
}

func (q queries) DeleteTenant(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM authz_tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tenant %d: %w", id, store.ErrTenantNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (store.AuthUser, error) {
	var user store.AuthUser
	if err := row.Scan(&user.UserID, &user.Email, &user.UserName, &user.RoleNames, &user.TenantID); err != nil {
		return store.AuthUser{}, err
	}
	return user, nil
}

func scanRole(row pgx.Row) (permit.Role, error) {
	var (
		role     permit.Role
		typeStr  string
		permSlcs []string
	)
	if err := row.Scan(&role.Name, &typeStr, &permSlcs); err != nil {
		return permit.Role{}, err
	}

	roleType, err := permit.ParseRoleType(typeStr)
	if err != nil {
		return permit.Role{}, err
	}
	role.Type = roleType

	role.Permissions = make([]permit.Permission, len(permSlcs))
	for i, p := range permSlcs {
		role.Permissions[i] = permit.Permission(p)
	}
	return role, nil
}

func scanTenant(row pgx.Row) (tenant.Tenant, error) {
	var tn tenant.Tenant
	if err := row.Scan(&tn.ID, &tn.Name, &tn.ParentID, &tn.DataKey, &tn.Roles); err != nil {
		return tenant.Tenant{}, err
	}
	return tn, nil
}

// textArray normalizes nil slices to empty arrays so NOT NULL columns
// accept them.
func textArray(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func permissionStrings(in []permit.Permission) []string {
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = string(p)
	}
	return out
}

// Compile-time interface assertions
var (
	_ store.Store = (*Store)(nil)
	_ store.Tx    = (*pgTx)(nil)
)
