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

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	ts := timestampOrNow(post)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO post (body, timestamp, language, user_id) VALUES (?, ?, ?, ?)`,
		post.Body, ts, dbx.NullString(post.Language), post.UserID)
	if err != nil {
		return nil, translateWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	post.ID = id
	post.Timestamp = ts
	return post, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) iter.Seq2[models.Post, error] {
	return querySeq(ctx, r.db, selectPost+` WHERE user_id = ? ORDER BY timestamp DESC, id DESC`, userID)
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	return collect(querySeq(ctx, r.db, selectPost+` ORDER BY timestamp DESC, id DESC LIMIT ?`, limit))
}

func (r *SQLiteRepository) ListAll(ctx context.Context) iter.Seq2[models.Post, error] {
	return querySeq(ctx, r.db, selectPost+` ORDER BY id`)
}

func (r *SQLiteRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
