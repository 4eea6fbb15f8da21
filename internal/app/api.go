package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"github.com/Adda-Baaj/tour-of-heroes/internal/heroapi"
	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/internal/storage"
)

// API is the dev backend runtime: the hero store behind the chi router and HTTP server.
type API struct {
	cfg     *config.Config
	store   storage.Store
	handler http.Handler
	server  *heroapi.Server
	log     *logger.ZapLogger
}

// NewAPI builds the dev backend from config, seeding the store from seed_file.
func NewAPI(cfg *config.Config, log *logger.ZapLogger) (*API, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.New(nil)
	}

	seed, err := storage.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, seed)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":        cfg.StorageType,
		"path":        cfg.BBoltPath,
		"seed_file":   cfg.SeedFile,
		"seed_heroes": len(seed),
	})

	handler := heroapi.NewRouter(store, cfg.HeroesPath, log.Zap())
	return &API{
		cfg:     cfg,
		store:   store,
		handler: handler,
		server:  heroapi.NewServer(cfg.APIAddr, handler, log.Zap()),
		log:     log,
	}, nil
}

// Handler exposes the router, e.g. for httptest.
func (a *API) Handler() http.Handler { return a.handler }

// Run serves until ctx is cancelled, then closes the store.
func (a *API) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("api is not initialized")
	}
	defer a.closeStore()

	if err := a.server.Run(ctx); err != nil {
		return fmt.Errorf("hero api run: %w", err)
	}
	return nil
}

// Close releases the store without serving.
func (a *API) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *API) closeStore() {
	if err := a.Close(); err != nil {
		a.log.ErrorObj("storage close failed", "error", err)
	}
}
