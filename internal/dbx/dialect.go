package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/microblog/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect names a supported storage backend.
type Dialect string

const (
	// DialectSQLite is the embedded, file-based backend.
	DialectSQLite Dialect = "sqlite"
	// DialectPostgres is the client/server backend.
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configuration value onto a Dialect.
// "sqlite3" and "pgx"/"postgresql" are accepted as aliases.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// Open opens and pings a database for the given dialect.
// For SQLite the parent directory of a file DSN is created first, every
// connection gets foreign keys and WAL enabled, and the pool is limited to
// a single open connection.
func Open(ctx context.Context, d Dialect, dsn string) (*sql.DB, error) {
	if d == DialectSQLite {
		if path, ok := filex.SQLitePath(dsn); ok {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, fmt.Errorf("prepare database dir: %w", err)
			}
		}
	}

	if d == DialectSQLite {
		dsn = withSQLitePragmas(dsn)
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if d == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// sqlitePragmas are applied by the driver to each new connection.
var sqlitePragmas = []string{"foreign_keys(1)", "journal_mode(WAL)", "busy_timeout(5000)"}

func withSQLitePragmas(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		name := p[:strings.IndexByte(p, '(')]
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		b.WriteString(sep + "_pragma=" + p)
		sep = "&"
	}
	return b.String()
}
