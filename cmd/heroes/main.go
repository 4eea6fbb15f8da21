package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/tour-of-heroes/internal/app"
	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "heroes: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// stdout carries command output.
	log, err := logger.InitWriter(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(cfg, func(ctx context.Context, cfg *config.Config) (*app.Client, error) {
		return app.NewClient(ctx, cfg, log)
	})
	return root.ExecuteContext(ctx)
}
