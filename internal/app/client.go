package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"github.com/Adda-Baaj/tour-of-heroes/internal/heroes"
	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/internal/messages"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/publishers"
)

const defaultDrainTimeout = 5 * time.Second

// Client is the hero client runtime: the HeroService, the message log it writes to, and the
// publishers that mirror every message downstream.
type Client struct {
	Heroes   *heroes.Service
	Messages *messages.Log

	fanout       *publishers.Fanout
	dispatcher   *publishers.Dispatcher
	drainTimeout time.Duration
	log          logger.Logger
}

// NewClient builds a client runtime from config. Publishers are optional; when
// publishers_file is unset the message log stays local.
func NewClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	drainTimeout := cfg.PublishTimeout
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	var (
		dispatcher *publishers.Dispatcher
		observers  []messages.Observer
	)
	if fanout.Size() > 0 {
		dispatcher = publishers.NewDispatcher(fanout, publishers.DispatcherOptions{
			DeliveryTimeout: cfg.PublishTimeout,
			Log:             log,
		})
		observers = append(observers, &publishObserver{source: cfg.AppName, queue: dispatcher})
	}
	msgLog := messages.New(observers...)

	httpClient := httpclient.NewRestyClientWithOptions(httpclient.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	svc := heroes.NewService(httpClient, msgLog,
		heroes.WithHeroesURL(cfg.HeroesPath),
		heroes.WithLogger(log),
	)

	log.InfoObj("hero client ready", "client_meta", map[string]any{
		"api_base_url":     cfg.APIBaseURL,
		"heroes_url":       svc.HeroesURL(),
		"publishers_count": fanout.Size(),
	})

	return &Client{
		Heroes:   svc,
		Messages: msgLog,

		fanout:       fanout,
		dispatcher:   dispatcher,
		drainTimeout: drainTimeout,
		log:          log,
	}, nil
}

// Close waits up to the publish timeout for queued messages to reach the publishers, then
// releases them.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	var drainErr error
	if c.dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.drainTimeout)
		defer cancel()
		drainErr = c.dispatcher.Close(ctx)
	}
	return errors.Join(drainErr, c.fanout.Close())
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		log.WarnObj("no publishers enabled; messages stay local", "publishers_file", cfg.PublishersFile)
		return publishers.NewFanout(nil), nil
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	return publishers.NewFanout(pubClients), nil
}
