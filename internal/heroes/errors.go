package heroes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/pkg/httpclient"
)

const unknownStatusText = "Unknown Error"

var errNoHeroRef = errors.New("no hero id given")

// TransportFailure is the only failure kind the service observes: the call produced no
// response, a non-2xx response, or a 2xx body that could not be decoded.
type TransportFailure struct {
	Method     string
	URL        string
	Status     int
	StatusText string
	RequestID  string
	// Parse is set when the response arrived but its body could not be decoded.
	Parse bool
	Err   error
}

func (f *TransportFailure) Error() string {
	if f.Parse {
		return fmt.Sprintf("Http failure during parsing for %s", f.URL)
	}
	return fmt.Sprintf("Http failure response for %s: %d %s", f.URL, f.Status, f.StatusText)
}

func (f *TransportFailure) Unwrap() error { return f.Err }

func requestFailure(method, url string, err error) *TransportFailure {
	failure := &TransportFailure{
		Method:     method,
		URL:        url,
		StatusText: unknownStatusText,
		Err:        err,
	}
	var reqErr *httpclient.RequestError
	if errors.As(err, &reqErr) {
		failure.RequestID = reqErr.RequestID
	}
	return failure
}

func responseFailure(method, url string, resp httpclient.Response) *TransportFailure {
	return &TransportFailure{
		Method:     method,
		URL:        url,
		Status:     resp.StatusCode(),
		StatusText: statusText(resp),
		RequestID:  resp.RequestID(),
	}
}

// statusText extracts the reason phrase from the status line, e.g. "Bad Request" from
// "404 Bad Request".
func statusText(resp httpclient.Response) string {
	code := resp.StatusCode()
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(resp.Status()), strconv.Itoa(code)))
	if text != "" {
		return text
	}
	if text = http.StatusText(code); text != "" {
		return text
	}
	return unknownStatusText
}

// handleError is the shared normalization policy: one diagnostic emission, one message,
// and the caller returns its fallback value.
func (s *Service) handleError(operation string, err error) {
	fields := map[string]any{
		"service":   s.name,
		"operation": operation,
		"error":     err.Error(),
	}
	var failure *TransportFailure
	if errors.As(err, &failure) {
		fields["method"] = failure.Method
		fields["url"] = failure.URL
		fields["status"] = failure.Status
		fields["status_text"] = failure.StatusText
		fields["request_id"] = failure.RequestID
		if failure.Err != nil {
			fields["cause"] = failure.Err.Error()
		}
	}
	s.diag.ErrorObj("hero request failed", "http_failure", fields)

	s.log(fmt.Sprintf("%s failed: %v", operation, err))
}
