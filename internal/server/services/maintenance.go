package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/archive"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
)

// Archiver stores an exported snapshot under key.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte) error
}

// MaintenanceService bundles operator-only operations on whole tables.
type MaintenanceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archiver    Archiver
	log         logging.Logger
}

func NewMaintenanceService(db *sql.DB, m repomanager.RepositoryManager, a Archiver, log logging.Logger) *MaintenanceService {
	return &MaintenanceService{db: db, repomanager: m, archiver: a, log: log.With("module", "maintenance")}
}

// Truncate empties table and resets its identity counter. The change is
// committed before Truncate returns.
func (s *MaintenanceService) Truncate(ctx context.Context, table models.Table) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.TruncateTable(ctx, tx, table)
	})
	if err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}

// ExportPosts writes every post as one JSON document to the archive and
// returns its object key and the number of posts written.
func (s *MaintenanceService) ExportPosts(ctx context.Context) (string, int, error) {
	if s.archiver == nil {
		return "", 0, fmt.Errorf("export posts: no archive configured")
	}

	doc := archive.NewDocument(models.TablePost)
	for p, err := range s.repomanager.Posts(s.db).ListAll(ctx) {
		if err != nil {
			return "", 0, fmt.Errorf("export posts: %w", err)
		}
		doc.AddPost(p)
	}

	body, err := doc.Marshal()
	if err != nil {
		return "", 0, fmt.Errorf("export posts: %w", err)
	}

	key := archive.NewKey(models.TablePost)
	if err := s.archiver.Put(ctx, key, body); err != nil {
		return "", 0, fmt.Errorf("export posts: %w", err)
	}

	s.log.Info(ctx, "posts exported", "key", key, "count", len(doc.Posts))
	return key, len(doc.Posts), nil
}
