// Package services contains server-side business logic. This file implements
// UserService: registration, login with JWT issuance, and profile upkeep.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
)

// UserService provides account operations:
// - Register: create users with a hashed password
// - Login: verify credentials and mint an access token
// - UpdateProfile / ChangePassword / TouchLastSeen: profile upkeep
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

// Register creates a user. Taken usernames or emails yield
// common.ErrDuplicateUsername / common.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	user := &models.User{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email)}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	}
	if err := user.SetPasswordWithCost(password, s.bcryptCost); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password and returns a signed access token whose
// subject is the user id. Unknown users and wrong passwords both yield
// common.ErrUnauthorized. The username is trimmed as in Register.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}
	if !user.CheckPassword(password) {
		return "", common.ErrUnauthorized
	}

	if err := repo.TouchLastSeen(ctx, user.ID, time.Now()); err != nil {
		return "", common.ErrInternal
	}

	token, err := auth.GenerateToken(strconv.FormatInt(user.ID, 10), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, strings.TrimSpace(username))
}

// UpdateProfile changes the username and about-me text of user id.
// A nil aboutMe clears it.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, username string, aboutMe *string) (*models.User, error) {
	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		u.Username = strings.TrimSpace(username)
		u.AboutMe = aboutMe
		if err := u.Validate(); err != nil {
			return err
		}
		if err := repo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangePassword replaces the password of user id after checking the
// current one.
func (s *UserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !u.CheckPassword(oldPassword) {
			return common.ErrUnauthorized
		}
		if err := u.SetPasswordWithCost(newPassword, s.bcryptCost); err != nil {
			return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
		}
		return repo.Update(ctx, u)
	})
}

func (s *UserService) TouchLastSeen(ctx context.Context, id int64) error {
	return s.repomanager.Users(s.db).TouchLastSeen(ctx, id, time.Now())
}
