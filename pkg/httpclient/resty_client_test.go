package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRestyClientResolvesRelativeURLAgainstBase(t *testing.T) {
	var gotPath, gotQuery, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotRequestID = r.Header.Get(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewRestyClientWithOptions(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	resp, err := client.Get(context.Background(), "api/heroes/?name=r", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "/api/heroes/" || gotQuery != "name=r" {
		t.Fatalf("unexpected request target %q ? %q", gotPath, gotQuery)
	}
	if gotRequestID == "" || gotRequestID != resp.RequestID() {
		t.Fatalf("request id mismatch: server %q, response %q", gotRequestID, resp.RequestID())
	}
	if resp.StatusCode() != http.StatusOK || string(resp.Body()) != "[]" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode(), resp.Body())
	}
}

func TestRestyClientExecuteSendsJSONBody(t *testing.T) {
	var gotMethod, gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = strings.TrimSpace(string(raw))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewRestyClientWithOptions(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	body := map[string]string{"name": "Thor"}
	resp, err := client.Execute(context.Background(), http.MethodPost, "api/heroes", body, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotBody != `{"name":"Thor"}` {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
}

func TestRestyClientNon2xxIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRestyClientWithOptions(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	resp, err := client.Get(context.Background(), "api/heroes/99", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusNotFound || resp.Status() != "404 Not Found" {
		t.Fatalf("unexpected status %d %q", resp.StatusCode(), resp.Status())
	}
}

func TestRestyClientTransportErrorCarriesRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewRestyClientWithOptions(Options{BaseURL: base, Timeout: time.Second})
	_, err := client.Get(context.Background(), "api/heroes", nil)
	if err == nil {
		t.Fatalf("expected error against closed server")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.RequestID == "" {
		t.Fatalf("expected RequestError with id, got %v", err)
	}
}
