// Package users persists models.User records. Each backend gets its own
// implementation of Repository; both translate constraint failures into
// the sentinel errors of package common.
package users

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastSeen(ctx context.Context, id int64, at time.Time) error
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user     models.User
		hash     sql.NullString
		aboutMe  sql.NullString
		lastSeen sql.NullTime
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &hash, &aboutMe, &lastSeen); err != nil {
		return nil, err
	}
	user.PasswordHash = dbx.StringPtr(hash)
	user.AboutMe = dbx.StringPtr(aboutMe)
	user.LastSeen = dbx.TimeOrZero(lastSeen)
	return &user, nil
}

// translateWriteError maps constraint failures to common errors.
func translateWriteError(err error) error {
	if constraint, ok := dbx.UniqueViolation(err); ok {
		switch {
		case dbx.DetailMentions(constraint, "username"):
			return common.ErrDuplicateUsername
		case dbx.DetailMentions(constraint, "email"):
			return common.ErrDuplicateEmail
		}
		return common.ErrAlreadyExists
	}
	if dbx.CheckViolation(err) {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return fmt.Errorf("db error: %w", err)
}

func lastSeenOrNow(u *models.User) time.Time {
	if u.LastSeen.IsZero() {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return u.LastSeen.UTC()
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
