package services

import (
	"context"
	"database/sql"
	"iter"

	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
)

const defaultRecentLimit = 20

// PostService publishes and lists posts.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

// Create stores a post by userID. Bodies over 140 characters are rejected
// with common.ErrInvalidInput; an unknown author yields common.ErrNotFound.
func (s *PostService) Create(ctx context.Context, userID int64, body string, language *string) (*models.Post, error) {
	return s.repomanager.Posts(s.db).Create(ctx, &models.Post{Body: body, Language: language, UserID: userID})
}

// ListForUser yields the user's posts, newest first.
func (s *PostService) ListForUser(ctx context.Context, userID int64) iter.Seq2[models.Post, error] {
	return s.repomanager.Posts(s.db).ListByUser(ctx, userID)
}

// Recent returns the newest posts across all users. A non-positive limit
// means the default of 20.
func (s *PostService) Recent(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repomanager.Posts(s.db).ListRecent(ctx, limit)
}
