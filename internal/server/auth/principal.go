package auth

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// Principal is what the authentication layer needs to know about the
// caller of a request.
type Principal interface {
	GetID() string
	IsAuthenticated() bool
	IsActive() bool
	IsAnonymous() bool
	// User returns the wrapped record, or nil for the anonymous principal.
	User() *models.User
}

// UserPrincipal adapts a stored user to Principal.
type UserPrincipal struct {
	user *models.User
}

func NewPrincipal(u *models.User) *UserPrincipal {
	return &UserPrincipal{user: u}
}

func (p *UserPrincipal) GetID() string         { return strconv.FormatInt(p.user.ID, 10) }
func (p *UserPrincipal) IsAuthenticated() bool { return true }
func (p *UserPrincipal) IsActive() bool        { return true }
func (p *UserPrincipal) IsAnonymous() bool     { return false }
func (p *UserPrincipal) User() *models.User    { return p.user }

type anonymousPrincipal struct{}

func (anonymousPrincipal) GetID() string         { return "" }
func (anonymousPrincipal) IsAuthenticated() bool { return false }
func (anonymousPrincipal) IsActive() bool        { return false }
func (anonymousPrincipal) IsAnonymous() bool     { return true }
func (anonymousPrincipal) User() *models.User    { return nil }

// Anonymous is the principal of an unauthenticated request.
var Anonymous Principal = anonymousPrincipal{}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the request's principal, Anonymous if none is set.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok && p != nil {
		return p
	}
	return Anonymous
}
