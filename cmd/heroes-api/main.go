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
		fmt.Fprintf(os.Stderr, "heroes-api start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("heroes-api starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := app.NewAPI(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize heroes-api", "error", err)
		return err
	}

	return api.Run(ctx)
}
