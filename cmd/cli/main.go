package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/microblog/internal/admin"
	"github.com/dmitrijs2005/microblog/internal/flagx"
	"github.com/dmitrijs2005/microblog/internal/server/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	cfg := config.Load(args)

	app, err := admin.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(ctx, flagx.Rest(args, config.KnownFlags()))
	app.Close()

	if errors.Is(err, admin.ErrUsage) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}
