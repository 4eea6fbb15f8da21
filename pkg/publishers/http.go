package publishers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
)

const maxErrorSnippet = 512

// httpPublisher posts each event as JSON to a webhook.
type httpPublisher struct {
	id     string
	method string
	url    string
	client httpclient.Client
	log    logger.Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	return &httpPublisher{
		id:     cfg.ID,
		method: cfg.HTTP.Method,
		url:    cfg.HTTP.URL,
		client: httpclient.NewRestyClientWithOptions(httpclient.Options{
			Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
			Headers: cfg.HTTP.Headers,
		}),
		log: logger.Ensure(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }
func (h *httpPublisher) Close() error { return nil }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.Execute(ctx, h.method, h.url, evt, nil)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook answered %q (request %s): %s", resp.Status(), resp.RequestID(), snippet(resp.Body()))
	}
	h.log.DebugObj("webhook accepted event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"sequence":     evt.Sequence,
		"request_id":   resp.RequestID(),
	})
	return nil
}

func snippet(body []byte) string {
	if len(body) > maxErrorSnippet {
		body = body[:maxErrorSnippet]
	}
	return strings.TrimSpace(string(body))
}
