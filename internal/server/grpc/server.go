package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Observer receives request and business counters. ops.Metrics implements it.
type Observer interface {
	ObserveRequest(method, code string, d time.Duration)
	LoginResult(ok bool, reason string)
	UserRegistered()
	PostCreated()
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, string, time.Duration) {}
func (nopObserver) LoginResult(bool, string)                     {}
func (nopObserver) UserRegistered()                              {}
func (nopObserver) PostCreated()                                 {}

type GRPCServer struct {
	address   string
	users     *services.UserService
	posts     *services.PostService
	loader    *auth.SessionLoader
	logger    logging.Logger
	metrics   Observer
	health    *health.Server
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, ps *services.PostService,
	loader *auth.SessionLoader, metrics Observer, secretKey string) *GRPCServer {
	if metrics == nil {
		metrics = nopObserver{}
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		posts:     ps,
		loader:    loader,
		metrics:   metrics,
		health:    health.NewServer(),
		jwtSecret: []byte(secretKey),
	}
}

// NewServer returns a grpc.Server with the Microblog and health services
// registered and the interceptor chain installed.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)

	RegisterMicroblogServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
