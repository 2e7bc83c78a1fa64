package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		BcryptCost:                  4,
	}
}

// newSQLite returns a migrated temp-file database and its manager.
func newSQLite(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DialectSQLite, filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.New(dbx.DialectSQLite, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))
	return db, rm
}
