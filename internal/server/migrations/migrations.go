// Package migrations embeds the goose SQL migrations for every supported
// dialect and runs them through a goose Provider.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// FS returns the migration files of one dialect.
func FS(d dbx.Dialect) (fs.FS, error) {
	switch d {
	case dbx.DialectPostgres, dbx.DialectSQLite:
		return fs.Sub(Migrations, string(d))
	}
	return nil, fmt.Errorf("no migrations for dialect %q", d)
}

func gooseDialect(d dbx.Dialect) goose.Dialect {
	if d == dbx.DialectPostgres {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}

// NewProvider returns a goose Provider bound to db and the dialect's files.
func NewProvider(d dbx.Dialect, db *sql.DB) (*goose.Provider, error) {
	fsys, err := FS(d)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(gooseDialect(d), db, fsys)
}

// Status is a flattened view of one migration's state.
type Status struct {
	Version int64
	Source  string
	Applied bool
}

// StatusReporter is the part of *goose.Provider used by Statuses.
type StatusReporter interface {
	Status(ctx context.Context) ([]*goose.MigrationStatus, error)
}

// Statuses lists every known migration and whether it has been applied.
func Statuses(ctx context.Context, p StatusReporter) ([]Status, error) {
	ss, err := p.Status(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(ss))
	for _, s := range ss {
		out = append(out, Status{
			Version: s.Source.Version,
			Source:  s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}
