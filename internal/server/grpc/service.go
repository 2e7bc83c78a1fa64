package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "microblog.Microblog"

// MicroblogServer is the server API of the Microblog service.
type MicroblogServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Me(context.Context, *MeRequest) (*UserResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*UserResponse, error)
	CreatePost(context.Context, *CreatePostRequest) (*CreatePostResponse, error)
	ListUserPosts(context.Context, *ListUserPostsRequest) (*ListUserPostsResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the MethodDesc for one request/response method.
func unary[Req, Resp any](name string, call func(MicroblogServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MicroblogServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MicroblogServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the Microblog service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MicroblogServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", MicroblogServer.Register),
		unary("Login", MicroblogServer.Login),
		unary("Me", MicroblogServer.Me),
		unary("UpdateProfile", MicroblogServer.UpdateProfile),
		unary("CreatePost", MicroblogServer.CreatePost),
		unary("ListUserPosts", MicroblogServer.ListUserPosts),
		unary("Ping", MicroblogServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "microblog",
}

func RegisterMicroblogServer(s grpc.ServiceRegistrar, srv MicroblogServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the Microblog service over a connection that carries the
// JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, name string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c, "Register", in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, "Login", in, opts...)
}

func (c *Client) Me(ctx context.Context, in *MeRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c, "Me", in, opts...)
}

func (c *Client) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c, "UpdateProfile", in, opts...)
}

func (c *Client) CreatePost(ctx context.Context, in *CreatePostRequest, opts ...grpc.CallOption) (*CreatePostResponse, error) {
	return invoke[CreatePostResponse](ctx, c, "CreatePost", in, opts...)
}

func (c *Client) ListUserPosts(ctx context.Context, in *ListUserPostsRequest, opts ...grpc.CallOption) (*ListUserPostsResponse, error) {
	return invoke[ListUserPostsResponse](ctx, c, "ListUserPosts", in, opts...)
}

func (c *Client) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c, "Ping", in, opts...)
}
