// Package pg implements the store.Store interface on PostgreSQL using the
// pgx/v5 driver, with schema migrations embedded and applied via goose/v3.
//
// Connection settings come from environment variables (see Config). A
// typical bootstrap:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil { ... }
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, slog.Default()); err != nil { ... }
//
//	st := pg.New(pool) // satisfies store.Store
//
// All mutating operations run inside InTx, which maps onto a single
// PostgreSQL transaction: the whole batch commits or none of it does.
// Unique-constraint violations are translated to store.ErrDuplicate and
// missing rows to the store's not-found sentinels, so callers never depend
// on pgx error types.
package pg
