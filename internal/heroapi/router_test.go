package heroapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/Adda-Baaj/tour-of-heroes/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T, seed []domain.Hero) *httptest.Server {
	t.Helper()
	store, err := storage.NewStore("memory", "", seed)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	srv := httptest.NewServer(NewRouter(store, DefaultHeroesPath, nil))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func decodeHeroes(t *testing.T, raw []byte) []domain.Hero {
	t.Helper()
	var heroes []domain.Hero
	if err := json.Unmarshal(raw, &heroes); err != nil {
		t.Fatalf("decode heroes %q: %v", raw, err)
	}
	return heroes
}

var seed = []domain.Hero{
	{ID: 1, Name: "Hulk"},
	{ID: 2, Name: "Thor"},
	{ID: 3, Name: "Iron Man"},
}

func TestListAndFilters(t *testing.T) {
	srv := newTestServer(t, seed)

	for _, path := range []string{"/api/heroes", "/api/heroes/"} {
		status, raw := do(t, http.MethodGet, srv.URL+path, "")
		if status != http.StatusOK || len(decodeHeroes(t, raw)) != 3 {
			t.Fatalf("GET %s = %d %s", path, status, raw)
		}
	}

	status, raw := do(t, http.MethodGet, srv.URL+"/api/heroes/?id=2", "")
	heroes := decodeHeroes(t, raw)
	if status != http.StatusOK || len(heroes) != 1 || heroes[0].Name != "Thor" {
		t.Fatalf("id filter = %d %v", status, heroes)
	}

	status, raw = do(t, http.MethodGet, srv.URL+"/api/heroes/?id=42", "")
	if status != http.StatusOK || strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("id filter miss = %d %s", status, raw)
	}

	status, raw = do(t, http.MethodGet, srv.URL+"/api/heroes/?name=R", "")
	heroes = decodeHeroes(t, raw)
	if status != http.StatusOK || len(heroes) != 2 || heroes[0].Name != "Thor" || heroes[1].Name != "Iron Man" {
		t.Fatalf("name filter = %d %v", status, heroes)
	}

	status, _ = do(t, http.MethodGet, srv.URL+"/api/heroes/?id=abc", "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id filter, got %d", status)
	}
}

func TestGetByID(t *testing.T) {
	srv := newTestServer(t, seed)

	status, raw := do(t, http.MethodGet, srv.URL+"/api/heroes/1", "")
	var hero domain.Hero
	if err := json.Unmarshal(raw, &hero); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status != http.StatusOK || hero != (domain.Hero{ID: 1, Name: "Hulk"}) {
		t.Fatalf("GET /1 = %d %v", status, hero)
	}

	if status, _ := do(t, http.MethodGet, srv.URL+"/api/heroes/99", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status, _ := do(t, http.MethodGet, srv.URL+"/api/heroes/x", ""); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestCreateAssignsID(t *testing.T) {
	srv := newTestServer(t, seed)

	status, raw := do(t, http.MethodPost, srv.URL+"/api/heroes", `{"name":"Vision"}`)
	var hero domain.Hero
	if err := json.Unmarshal(raw, &hero); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status != http.StatusCreated || hero != (domain.Hero{ID: 4, Name: "Vision"}) {
		t.Fatalf("POST = %d %v", status, hero)
	}

	if status, _ := do(t, http.MethodPost, srv.URL+"/api/heroes", `{"id":1,"name":"Hulk again"}`); status != http.StatusConflict {
		t.Fatalf("expected 409 for taken id, got %d", status)
	}
	if status, _ := do(t, http.MethodPost, srv.URL+"/api/heroes", `{"id":-3,"name":"Negative"}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative id, got %d", status)
	}
	if status, _ := do(t, http.MethodPost, srv.URL+"/api/heroes", `{nope`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", status)
	}
}

func TestUpdate(t *testing.T) {
	srv := newTestServer(t, seed)

	status, raw := do(t, http.MethodPut, srv.URL+"/api/heroes", `{"id":2,"name":"Thor Odinson"}`)
	if status != http.StatusNoContent || len(raw) != 0 {
		t.Fatalf("PUT collection = %d %q", status, raw)
	}
	_, raw = do(t, http.MethodGet, srv.URL+"/api/heroes/2", "")
	if !strings.Contains(string(raw), "Thor Odinson") {
		t.Fatalf("update not applied: %s", raw)
	}

	if status, _ := do(t, http.MethodPut, srv.URL+"/api/heroes/3", `{"name":"Tony"}`); status != http.StatusNoContent {
		t.Fatalf("PUT item = %d", status)
	}
	_, raw = do(t, http.MethodGet, srv.URL+"/api/heroes/3", "")
	if !strings.Contains(string(raw), "Tony") {
		t.Fatalf("path id update not applied: %s", raw)
	}

	if status, _ := do(t, http.MethodPut, srv.URL+"/api/heroes", `{"id":99,"name":"Nobody"}`); status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing hero, got %d", status)
	}
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t, seed)

	if status, _ := do(t, http.MethodDelete, srv.URL+"/api/heroes/1", ""); status != http.StatusNoContent {
		t.Fatalf("DELETE = %d", status)
	}
	if status, _ := do(t, http.MethodDelete, srv.URL+"/api/heroes/1", ""); status != http.StatusNotFound {
		t.Fatalf("second DELETE = %d", status)
	}
	_, raw := do(t, http.MethodGet, srv.URL+"/api/heroes", "")
	if heroes := decodeHeroes(t, raw); len(heroes) != 2 {
		t.Fatalf("expected 2 heroes left, got %v", heroes)
	}
}

func TestCustomMountPath(t *testing.T) {
	store, _ := storage.NewStore("memory", "", seed)
	srv := httptest.NewServer(NewRouter(store, "v2/people/", nil))
	defer srv.Close()

	if status, _ := do(t, http.MethodGet, srv.URL+"/v2/people/2", ""); status != http.StatusOK {
		t.Fatalf("expected custom mount to serve, got %d", status)
	}
	if status, _ := do(t, http.MethodGet, srv.URL+"/api/heroes/2", ""); status != http.StatusNotFound {
		t.Fatalf("expected default mount absent, got %d", status)
	}
}

func TestRequestLoggerRecordsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store, _ := storage.NewStore("memory", "", seed)
	srv := httptest.NewServer(NewRouter(store, DefaultHeroesPath, zap.New(core)))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/heroes/99", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-123" || fields["status"] != int64(http.StatusNotFound) {
		t.Fatalf("unexpected log fields %v", fields)
	}
}
