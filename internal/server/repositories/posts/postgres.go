package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO post (body, timestamp, language, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	ts := timestampOrNow(post)
	err := r.db.QueryRowContext(ctx, query, post.Body, ts, dbx.NullString(post.Language), post.UserID).Scan(&post.ID)
	if err != nil {
		return nil, translateWriteError(err)
	}

	post.Timestamp = ts
	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) iter.Seq2[models.Post, error] {
	return querySeq(ctx, r.db, selectPost+` WHERE user_id = $1 ORDER BY timestamp DESC, id DESC`, userID)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	return collect(querySeq(ctx, r.db, selectPost+` ORDER BY timestamp DESC, id DESC LIMIT $1`, limit))
}

func (r *PostgresRepository) ListAll(ctx context.Context) iter.Seq2[models.Post, error] {
	return querySeq(ctx, r.db, selectPost+` ORDER BY id`)
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
