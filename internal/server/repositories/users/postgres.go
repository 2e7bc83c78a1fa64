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

const pgSelectUser = `SELECT id, username, email, password_hash, about_me, last_seen FROM "user"`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO "user" (username, email, password_hash, about_me, last_seen)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	lastSeen := lastSeenOrNow(user)
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, dbx.NullString(user.PasswordHash), dbx.NullString(user.AboutMe), lastSeen,
	).Scan(&user.ID)
	if err != nil {
		return nil, translateWriteError(err)
	}

	user.LastSeen = lastSeen
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, pgSelectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, pgSelectUser+` WHERE username = $1`, username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, pgSelectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE "user" SET username = $1, email = $2, password_hash = $3, about_me = $4
		 WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, dbx.NullString(user.PasswordHash), dbx.NullString(user.AboutMe), user.ID)
	if err != nil {
		return translateWriteError(err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) TouchLastSeen(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE "user" SET last_seen = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}
