package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// protectedMethods need an authenticated principal.
var protectedMethods = map[string]bool{
	fullMethod("Me"):            true,
	fullMethod("UpdateProfile"): true,
	fullMethod("CreatePost"):    true,
}

func accessTokenFrom(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// accessTokenInterceptor resolves the access token of protected methods
// through the session loader and stores the principal in the context.
// Other methods run with the anonymous principal.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(auth.WithPrincipal(ctx, auth.Anonymous), req)
	}

	accessToken := accessTokenFrom(ctx)
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	p, err := s.loader.Principal(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "session load failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	if p.IsAnonymous() {
		return nil, status.Error(codes.Unauthenticated, "unknown user")
	}

	if err := s.users.TouchLastSeen(ctx, p.User().ID); err != nil {
		s.logger.Warn(ctx, "last seen not updated", "user_id", p.GetID(), "error", err)
	}

	return handler(auth.WithPrincipal(ctx, p), req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.metrics.ObserveRequest(info.FullMethod, status.Code(err).String(), time.Since(start))
	return resp, err
}
