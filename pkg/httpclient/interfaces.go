package httpclient

import "context"

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// Status is the raw status line, e.g. "404 Not Found".
	Status() string
	RequestID() string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	// Execute issues method against url. A non-nil body is sent as JSON.
	Execute(ctx context.Context, method, url string, body any, headers map[string]string) (Response, error)
}
