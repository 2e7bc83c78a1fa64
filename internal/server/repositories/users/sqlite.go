package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

const liteSelectUser = `SELECT id, username, email, password_hash, about_me, last_seen FROM "user"`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	lastSeen := lastSeenOrNow(user)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO "user" (username, email, password_hash, about_me, last_seen) VALUES (?, ?, ?, ?, ?)`,
		user.Username, user.Email, dbx.NullString(user.PasswordHash), dbx.NullString(user.AboutMe), lastSeen,
	)
	if err != nil {
		return nil, translateWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.LastSeen = lastSeen
	return user, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, liteSelectUser+` WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, liteSelectUser+` WHERE username = ?`, username)
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, liteSelectUser+` WHERE email = ?`, email)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE "user" SET username = ?, email = ?, password_hash = ?, about_me = ? WHERE id = ?`,
		user.Username, user.Email, dbx.NullString(user.PasswordHash), dbx.NullString(user.AboutMe), user.ID)
	if err != nil {
		return translateWriteError(err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) TouchLastSeen(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE "user" SET last_seen = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}
