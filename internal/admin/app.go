// Package admin implements the operator command line: schema migrations,
// table truncation, account creation and post archive export.
package admin

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/archive"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/microblog/internal/server/services"
)

// newArchiver builds the export target; replaced in tests.
var newArchiver = func(s archive.Settings) services.Archiver {
	return archive.NewS3Store(s)
}

// ErrUsage is returned for unknown subcommands or bad arguments.
var ErrUsage = errors.New("usage error")

const usage = `Usage: microblog-admin [flags] <command> [args]

Commands:
  migrate up|down|status          apply, roll back one, or list migrations
  truncate [-yes] [-export] TABLE empty TABLE (user or post) and reset its ids
  create-user USERNAME EMAIL      create an account, password read from the terminal
  export                          write all posts as one JSON object to S3
  help                            show this text
`

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       *services.UserService
	maintenance *services.MaintenanceService
	out         io.Writer
	reader      *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {

	logger, err := logging.New(os.Stderr, "text", c.LogLevel)
	if err != nil {
		return nil, err
	}

	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	rm, err := repomanager.New(dialect, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	store := newArchiver(archive.Settings{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		users:       services.NewUserService(db, rm, c),
		maintenance: services.NewMaintenanceService(db, rm, store, logger),
		out:         out,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run executes one command. args are the positional arguments left after
// the configuration flags have been removed.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, args := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	case "migrate":
		return a.migrate(ctx, args)
	case "truncate":
		return a.truncate(ctx, args)
	case "create-user":
		return a.createUser(ctx, args)
	case "export":
		return a.export(ctx)
	}

	fmt.Fprintf(a.out, "Unknown command: %s\n\n%s", cmd, usage)
	return ErrUsage
}

func (a *App) migrate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: migrate up|down|status", ErrUsage)
	}

	switch args[0] {
	case "up":
		if err := a.repomanager.RunMigrations(ctx, a.db); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Migrations applied")
		return nil
	case "down":
		if err := a.repomanager.RollbackMigration(ctx, a.db); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Rolled back one migration")
		return nil
	case "status":
		ss, err := a.repomanager.MigrationStatus(ctx, a.db)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tSTATE\tSOURCE")
		for _, s := range ss {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, state, s.Source)
		}
		return tw.Flush()
	}
	return fmt.Errorf("%w: unknown migrate action %q", ErrUsage, args[0])
}

func (a *App) truncate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("truncate", flag.ContinueOnError)
	fs.SetOutput(a.out)
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	export := fs.Bool("export", false, "export posts to the archive first")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: truncate [-yes] [-export] TABLE", ErrUsage)
	}

	table, err := models.ParseTable(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if !*yes {
		ok, err := Confirm(a.reader, a.out, fmt.Sprintf("Delete every row of %q and reset its ids?", table))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Aborted")
			return nil
		}
	}

	if *export {
		if err := a.export(ctx); err != nil {
			return err
		}
	}

	if err := a.maintenance.Truncate(ctx, table); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Table %s truncated\n", table)
	return nil
}

func (a *App) createUser(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: create-user USERNAME EMAIL", ErrUsage)
	}

	pw, err := GetPassword(a.out, "Enter password: ")
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}
	defer common.WipeByteArray(pw)

	confirm, err := GetPassword(a.out, "Repeat password: ")
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}
	defer common.WipeByteArray(confirm)

	if string(pw) != string(confirm) {
		return fmt.Errorf("%w: passwords do not match", common.ErrInvalidInput)
	}

	u, err := a.users.Register(ctx, args[0], args[1], string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created user %s (id=%d)\n", u.Username, u.ID)
	return nil
}

func (a *App) export(ctx context.Context) error {
	key, n, err := a.maintenance.ExportPosts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d posts to s3://%s/%s\n", n, a.config.S3Bucket, key)
	return nil
}
