// Package posts persists models.Post records.
package posts

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	// ListByUser yields the user's posts, newest first. The query runs when
	// iteration starts and again on every new range, and holds a connection
	// until iteration stops.
	ListByUser(ctx context.Context, userID int64) iter.Seq2[models.Post, error]
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)
	// ListAll yields every post in id order.
	ListAll(ctx context.Context) iter.Seq2[models.Post, error]
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

const selectPost = `SELECT id, body, timestamp, language, user_id FROM post`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var (
		p    models.Post
		lang sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Body, &p.Timestamp, &lang, &p.UserID); err != nil {
		return models.Post{}, err
	}
	p.Timestamp = p.Timestamp.UTC()
	p.Language = dbx.StringPtr(lang)
	return p, nil
}

// querySeq runs query lazily and yields one post per row. A failure ends
// the sequence with a single (zero, err) pair.
func querySeq(ctx context.Context, db dbx.DBTX, query string, args ...any) iter.Seq2[models.Post, error] {
	return func(yield func(models.Post, error) bool) {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(models.Post{}, fmt.Errorf("db error: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPost(rows)
			if err != nil {
				yield(models.Post{}, fmt.Errorf("scan post: %w", err))
				return
			}
			if !yield(p, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Post{}, fmt.Errorf("db error: %w", err))
		}
	}
}

func collect(seq iter.Seq2[models.Post, error]) ([]models.Post, error) {
	var out []models.Post
	for p, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func translateWriteError(err error) error {
	switch {
	case dbx.ForeignKeyViolation(err):
		return fmt.Errorf("author %w", common.ErrNotFound)
	case dbx.CheckViolation(err):
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return fmt.Errorf("db error: %w", err)
}

func timestampOrNow(p *models.Post) time.Time {
	if p.Timestamp.IsZero() {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return p.Timestamp.UTC()
}
