package profilefields

import "embed"

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// Root files (data/sql/migrations/*.sql) target PostgreSQL and the
// data/sql/migrations/sqlite directory carries the SQLite variants. The
// go-persistence-bun loader picks the right set for the active dialect.
//
// Usage:
//
//	migrationsFS, _ := fs.Sub(profilefields.GetMigrationsFS(), "data/sql/migrations")
//	client.RegisterDialectMigrations(
//	    migrationsFS,
//	    persistence.WithDialectSourceLabel("."),
//	    persistence.WithValidationTargets("postgres", "sqlite"),
//	)
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var MigrationsFS embed.FS

// GetMigrationsFS exposes the SQL migration files so host applications can
// register them with go-persistence-bun (or another migration runner).
func GetMigrationsFS() embed.FS {
	return MigrationsFS
}
