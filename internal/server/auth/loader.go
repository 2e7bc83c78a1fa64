package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// UserGetter is the lookup the loader needs from the users repository.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionLoader rehydrates the user behind a stored session identifier.
type SessionLoader struct {
	users UserGetter
}

func NewSessionLoader(users UserGetter) *SessionLoader {
	return &SessionLoader{users: users}
}

// LoadUser returns the user whose id is the decimal string id.
// Non-numeric and unknown ids both yield common.ErrNotFound.
func (l *SessionLoader) LoadUser(ctx context.Context, id string) (*models.User, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, common.ErrNotFound
	}

	u, err := l.users.GetByID(ctx, n)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", n, err)
	}
	return u, nil
}

// Principal wraps LoadUser for the authentication layer. Absent users map
// to Anonymous with a nil error.
func (l *SessionLoader) Principal(ctx context.Context, id string) (Principal, error) {
	u, err := l.LoadUser(ctx, id)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return Anonymous, nil
	case err != nil:
		return Anonymous, err
	}
	return NewPrincipal(u), nil
}
