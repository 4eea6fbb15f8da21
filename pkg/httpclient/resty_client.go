package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Options configures a RestyClient.
type Options struct {
	// BaseURL resolves relative request urls such as "api/heroes".
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return NewRestyClientWithOptions(Options{Timeout: timeout})
}

// NewRestyClientWithOptions creates a RestyClient with a base url and default headers.
func NewRestyClientWithOptions(opts Options) *RestyClient {
	c := newRestyBaseClient(opts.Timeout)
	if opts.BaseURL != "" {
		c.SetBaseURL(opts.BaseURL)
	}
	if len(opts.Headers) > 0 {
		c.SetHeaders(opts.Headers)
	}
	return &RestyClient{client: c}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetHeader("Accept", "application/json")
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.Execute(ctx, http.MethodGet, url, nil, headers)
}

// Execute performs an HTTP request with the given method. Non-2xx statuses are not errors;
// callers inspect StatusCode.
func (r *RestyClient) Execute(ctx context.Context, method, url string, body any, headers map[string]string) (Response, error) {
	requestID := uuid.NewString()
	req := r.client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, &RequestError{RequestID: requestID, Err: err}
	}
	return &restyResponseAdapter{resp: resp, requestID: requestID}, nil
}

// RequestError is returned when no response was received at all.
type RequestError struct {
	RequestID string
	Err       error
}

func (e *RequestError) Error() string { return e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp      *resty.Response
	requestID string
}

func (r *restyResponseAdapter) Body() []byte      { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int   { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Status() string    { return r.resp.Status() }
func (r *restyResponseAdapter) RequestID() string { return r.requestID }
