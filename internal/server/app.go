// Package server wires the microblog server together: it opens the
// database, applies migrations, builds the services, and runs the gRPC API
// next to the ops HTTP endpoint until a signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/ops"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/microblog/internal/server/services"

	gs "github.com/dmitrijs2005/microblog/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	metrics     *ops.Metrics
	userService *services.UserService
	postService *services.PostService
	loader      *auth.SessionLoader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(os.Stdout, "json", c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.New(dialect, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		metrics:     ops.NewMetrics(),
		userService: services.NewUserService(db, rm, c),
		postService: services.NewPostService(db, rm),
		loader:      auth.NewSessionLoader(rm.Users(db)),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.postService,
		app.loader, app.metrics, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startOpsServer(ctx context.Context, cancelFunc context.CancelFunc) {

	h := ops.NewRouter(app.metrics, app.db.PingContext)
	s := ops.NewHTTPServer(app.config.EndpointAddrHTTP, h, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives, or one
// of the servers fails. The database is closed before Run returns.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startOpsServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
