package grpc

import (
	"context"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/microblog/internal/server/services"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "super-secret"

type countingObserver struct {
	mu         sync.Mutex
	requests   map[string]int
	logins     map[bool]int
	registered int
	posts      int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{requests: map[string]int{}, logins: map[bool]int{}}
}

func (o *countingObserver) ObserveRequest(method, code string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests[method+" "+code]++
}

func (o *countingObserver) LoginResult(ok bool, _ string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logins[ok]++
}

func (o *countingObserver) UserRegistered() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.registered++
}

func (o *countingObserver) PostCreated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.posts++
}

// newTestServer builds a GRPCServer over a migrated temp-file SQLite
// database.
func newTestServer(t *testing.T, obs Observer) *GRPCServer {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.DialectSQLite, filepath.Join(t.TempDir(), "grpc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.New(dbx.DialectSQLite, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	cfg := &config.Config{SecretKey: testSecret, AccessTokenValidityDuration: time.Hour, BcryptCost: 4}
	us := services.NewUserService(db, rm, cfg)
	ps := services.NewPostService(db, rm)
	loader := auth.NewSessionLoader(rm.Users(db))

	return NewGRPCServer("127.0.0.1:0", logging.Nop(), us, ps, loader, obs, testSecret)
}

// dial starts s on an in-memory listener and returns a connected client.
func dial(t *testing.T, s *GRPCServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := s.NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
