// Package models holds the persisted records of the microblog: users, their
// posts, and the closed set of tables the maintenance tooling may touch.
package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const gravatarURL = "https://www.gravatar.com/avatar/%s?d=identicon&s=%d"

// User is a registered account. PasswordHash and AboutMe are optional.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash *string
	AboutMe      *string
	LastSeen     time.Time
}

// SetPassword stores a salted bcrypt hash of plaintext using the default cost.
func (u *User) SetPassword(plaintext string) error {
	return u.SetPasswordWithCost(plaintext, bcrypt.DefaultCost)
}

// SetPasswordWithCost is SetPassword with an explicit bcrypt work factor.
// Passwords longer than 72 bytes are rejected by bcrypt.
func (u *User) SetPasswordWithCost(plaintext string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	h := string(hash)
	u.PasswordHash = &h
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash.
// A user without a hash never matches.
func (u *User) CheckPassword(plaintext string) bool {
	if u.PasswordHash == nil || *u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(plaintext)) == nil
}

// Avatar returns the gravatar identicon URL for the user's email at the
// requested pixel size. Nothing is fetched.
func (u *User) Avatar(size int) string {
	digest := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf(gravatarURL, hex.EncodeToString(digest[:]), size)
}

// Validate checks field lengths against the schema limits.
func (u *User) Validate() error {
	switch {
	case strings.TrimSpace(u.Username) == "":
		return fmt.Errorf("%w: username is required", common.ErrInvalidInput)
	case len(u.Username) > common.MaxUsernameLength:
		return fmt.Errorf("%w: username longer than %d", common.ErrInvalidInput, common.MaxUsernameLength)
	case strings.TrimSpace(u.Email) == "":
		return fmt.Errorf("%w: email is required", common.ErrInvalidInput)
	case len(u.Email) > common.MaxEmailLength:
		return fmt.Errorf("%w: email longer than %d", common.ErrInvalidInput, common.MaxEmailLength)
	case u.AboutMe != nil && runeLen(*u.AboutMe) > common.MaxAboutMeLength:
		return fmt.Errorf("%w: about me longer than %d", common.ErrInvalidInput, common.MaxAboutMeLength)
	}
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("<User %s - last seen %s>", u.Username, u.LastSeen.Format(time.RFC3339))
}
