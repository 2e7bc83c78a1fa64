// Package repomanager vends dialect-specific repositories and owns the
// operations that differ per backend: schema migrations and table truncation.
package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/migrations"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(ctx context.Context, db *sql.DB) error
	RollbackMigration(ctx context.Context, db *sql.DB) error
	MigrationStatus(ctx context.Context, db *sql.DB) ([]migrations.Status, error)
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
	// TruncateTable removes every row of table and resets its identity
	// counter, so the next insert gets id 1. Rows of dependent tables go
	// with it.
	TruncateTable(ctx context.Context, db dbx.DBTX, table models.Table) error
}

// New returns the RepositoryManager for dialect d.
func New(d dbx.Dialect, log logging.Logger) (RepositoryManager, error) {
	switch d {
	case dbx.DialectPostgres:
		return NewPostgresRepositoryManager(log), nil
	case dbx.DialectSQLite:
		return NewSQLiteRepositoryManager(log), nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", d)
}

// migrator is the subset of *goose.Provider we drive.
type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
	Down(ctx context.Context) (*goose.MigrationResult, error)
	Status(ctx context.Context) ([]*goose.MigrationStatus, error)
}

// newMigrator is a seam for testing goose.NewProvider.
var newMigrator = func(d dbx.Dialect, db *sql.DB) (migrator, error) {
	return migrations.NewProvider(d, db)
}

// migrationRunner implements the migration half of RepositoryManager for
// one dialect.
type migrationRunner struct {
	dialect dbx.Dialect
	log     logging.Logger
}

func (m migrationRunner) Dialect() dbx.Dialect {
	return m.dialect
}

// RunMigrations applies every pending migration.
func (m migrationRunner) RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := newMigrator(m.dialect, db)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	for _, r := range results {
		m.log.Info(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}

// RollbackMigration reverts the most recently applied migration.
func (m migrationRunner) RollbackMigration(ctx context.Context, db *sql.DB) error {
	p, err := newMigrator(m.dialect, db)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	r, err := p.Down(ctx)
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			m.log.Info(ctx, "no migration to roll back")
			return nil
		}
		return fmt.Errorf("migrate down: %w", err)
	}
	m.log.Info(ctx, "migration rolled back", "version", r.Source.Version)
	return nil
}

func (m migrationRunner) MigrationStatus(ctx context.Context, db *sql.DB) ([]migrations.Status, error) {
	p, err := newMigrator(m.dialect, db)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	return migrations.Statuses(ctx, p)
}
