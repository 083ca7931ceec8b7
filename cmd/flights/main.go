// Package main provides the interactive flight booking command loop.  It
// opens the configured store, optionally clears users and reservations,
// and reads commands from stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iliyamo/flight-reservation/internal/app"
	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/database"
	"github.com/iliyamo/flight-reservation/internal/shell"
)

func main() {
	var reset, verbose bool
	flag.BoolVar(&reset, "reset", false, "delete all users and reservations before starting")
	flag.BoolVar(&verbose, "v", false, "log engine activity to stderr")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := app.NewLogger(cfg.LogDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !verbose {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if reset {
		if err := database.ClearTables(ctx, a.DB); err != nil {
			fmt.Fprintf(os.Stderr, "Error: clear tables: %v\n", err)
			os.Exit(1)
		}
	}

	if err := shell.New(a.Engine).Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
