package grpc

import (
	"time"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

const avatarSize = 128

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User *User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type MeRequest struct{}

type UpdateProfileRequest struct {
	Username string  `json:"username"`
	AboutMe  *string `json:"about_me,omitempty"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type CreatePostRequest struct {
	Body     string  `json:"body"`
	Language *string `json:"language,omitempty"`
}

type CreatePostResponse struct {
	Post *Post `json:"post"`
}

type ListUserPostsRequest struct {
	Username string `json:"username"`
	// Limit caps the number of posts returned; zero means all.
	Limit int `json:"limit,omitempty"`
}

type ListUserPostsResponse struct {
	User  *User   `json:"user"`
	Posts []*Post `json:"posts"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// User is the public view of models.User. The password hash never leaves
// the server.
type User struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	AboutMe  *string   `json:"about_me,omitempty"`
	LastSeen time.Time `json:"last_seen"`
	Avatar   string    `json:"avatar"`
}

type Post struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Language  *string   `json:"language,omitempty"`
	UserID    int64     `json:"user_id"`
}

func userFromModel(u *models.User) *User {
	return &User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		AboutMe:  u.AboutMe,
		LastSeen: u.LastSeen,
		Avatar:   u.Avatar(avatarSize),
	}
}

func postFromModel(p *models.Post) *Post {
	return &Post{
		ID:        p.ID,
		Body:      p.Body,
		Timestamp: p.Timestamp,
		Language:  p.Language,
		UserID:    p.UserID,
	}
}
