package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct {
	migrationRunner
}

func NewPostgresRepositoryManager(log logging.Logger) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		migrationRunner: migrationRunner{dialect: dbx.DialectPostgres, log: log.With("module", "repomanager")},
	}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Posts(db dbx.DBTX) posts.Repository {
	return posts.NewPostgresRepository(db)
}

// TruncateTable empties table, restarts its identity sequence and cascades
// to referencing tables in a single statement.
func (m *PostgresRepositoryManager) TruncateTable(ctx context.Context, db dbx.DBTX, table models.Table) error {
	if _, err := db.ExecContext(ctx, `TRUNCATE TABLE `+table.Quoted()+` RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	m.log.Info(ctx, "table truncated", "table", table)
	return nil
}
