package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	}
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	u, err := s.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "username", req.Username, "error", err)
		return nil, toStatus(err)
	}

	s.metrics.UserRegistered()
	s.logger.Info(ctx, "Registered", "username", u.Username, "id", u.ID)
	return &RegisterResponse{User: userFromModel(u)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {

	token, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			s.metrics.LoginResult(false, "bad_credentials")
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		s.metrics.LoginResult(false, "internal")
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.metrics.LoginResult(true, "")
	return &LoginResponse{AccessToken: token}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *MeRequest) (*UserResponse, error) {
	return &UserResponse{User: userFromModel(auth.FromContext(ctx).User())}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*UserResponse, error) {
	me := auth.FromContext(ctx).User()

	u, err := s.users.UpdateProfile(ctx, me.ID, req.Username, req.AboutMe)
	if err != nil {
		return nil, toStatus(err)
	}
	return &UserResponse{User: userFromModel(u)}, nil
}

func (s *GRPCServer) CreatePost(ctx context.Context, req *CreatePostRequest) (*CreatePostResponse, error) {
	me := auth.FromContext(ctx).User()

	p, err := s.posts.Create(ctx, me.ID, req.Body, req.Language)
	if err != nil {
		return nil, toStatus(err)
	}

	s.metrics.PostCreated()
	return &CreatePostResponse{Post: postFromModel(p)}, nil
}

func (s *GRPCServer) ListUserPosts(ctx context.Context, req *ListUserPostsRequest) (*ListUserPostsResponse, error) {
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "negative limit")
	}

	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ListUserPostsResponse{User: userFromModel(u), Posts: []*Post{}}
	for p, err := range s.posts.ListForUser(ctx, u.ID) {
		if err != nil {
			return nil, toStatus(err)
		}
		resp.Posts = append(resp.Posts, postFromModel(&p))
		if req.Limit > 0 && len(resp.Posts) == req.Limit {
			break
		}
	}
	return resp, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *PingRequest) (*PingResponse, error) {

	return &PingResponse{Status: "OK"}, nil

}
