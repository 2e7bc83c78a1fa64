package repomanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
)

// ErrNoSequence means the database has no sqlite_sequence table, which
// happens until some AUTOINCREMENT table has been created.
var ErrNoSequence = errors.New("sqlite_sequence table not present")

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct {
	migrationRunner
}

func NewSQLiteRepositoryManager(log logging.Logger) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{
		migrationRunner: migrationRunner{dialect: dbx.DialectSQLite, log: log.With("module", "repomanager")},
	}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Posts(db dbx.DBTX) posts.Repository {
	return posts.NewSQLiteRepository(db)
}

// TruncateTable deletes every row of table and drops its sqlite_sequence
// entry. Dependent tables lose their rows through ON DELETE CASCADE, and
// their counters are reset too. A missing sqlite_sequence table is logged
// and skipped; any other failure aborts.
func (m *SQLiteRepositoryManager) TruncateTable(ctx context.Context, db dbx.DBTX, table models.Table) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM `+table.Quoted()); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}

	err := resetSequences(ctx, db, append([]models.Table{table}, table.Dependents()...))
	switch {
	case errors.Is(err, ErrNoSequence):
		m.log.Warn(ctx, "identity counter not reset", "table", table, "error", err)
	case err != nil:
		return err
	}

	m.log.Info(ctx, "table truncated", "table", table)
	return nil
}

func resetSequences(ctx context.Context, db dbx.DBTX, tables []models.Table) error {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("look up sqlite_sequence: %w", err)
	}
	if n == 0 {
		return ErrNoSequence
	}

	for _, t := range tables {
		if _, err := db.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = ?`, string(t)); err != nil {
			return fmt.Errorf("reset sequence of %s: %w", t, err)
		}
	}
	return nil
}
