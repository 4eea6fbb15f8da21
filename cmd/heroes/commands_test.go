package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/tour-of-heroes/internal/app"
	"github.com/Adda-Baaj/tour-of-heroes/internal/config"
	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/Adda-Baaj/tour-of-heroes/internal/heroapi"
	"github.com/Adda-Baaj/tour-of-heroes/internal/storage"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	store, err := storage.NewStore("memory", "", []domain.Hero{
		{ID: 1, Name: "Hulk"},
		{ID: 2, Name: "Thor"},
		{ID: 3, Name: "Iron Man"},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	srv := httptest.NewServer(heroapi.NewRouter(store, heroapi.DefaultHeroesPath, nil))
	defer srv.Close()

	cfg := &config.Config{
		AppName:        "heroes-test",
		HeroesPath:     "api/heroes",
		HTTPTimeout:    2 * time.Second,
		PublishTimeout: time.Second,
	}
	root := newRootCmd(cfg, func(ctx context.Context, cfg *config.Config) (*app.Client, error) {
		return app.NewClient(ctx, cfg, nil)
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--api", srv.URL + "/"}, args...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("heroes %v: %v", args, err)
	}
	return out.String()
}

func TestSearchPrintsResultThenMessages(t *testing.T) {
	out := execute(t, "search", "r")

	if !strings.Contains(out, `"name": "Thor"`) || !strings.Contains(out, `"name": "Iron Man"`) || strings.Contains(out, "Hulk") {
		t.Fatalf("unexpected search output:\n%s", out)
	}
	if !strings.HasSuffix(out, "HeroService: found heroes matching \"r\"\n") {
		t.Fatalf("expected message log last, got:\n%s", out)
	}
}

func TestGetMissingPrintsNullAndFailure(t *testing.T) {
	out := execute(t, "get", "42")
	if !strings.HasPrefix(out, "null\n") {
		t.Fatalf("expected null result, got:\n%s", out)
	}
	if !strings.Contains(out, "HeroService: getHero id=42 failed: Http failure response for api/heroes/42: 404 Not Found") {
		t.Fatalf("missing failure message:\n%s", out)
	}

	out = execute(t, "get", "--lenient", "42")
	if !strings.Contains(out, "HeroService: did not find hero id=42") {
		t.Fatalf("missing lenient message:\n%s", out)
	}
}

func TestAddUpdateDelete(t *testing.T) {
	if out := execute(t, "add", "Black", "Widow"); !strings.Contains(out, `"id": 4`) || !strings.Contains(out, "added hero w/ id=4") {
		t.Fatalf("unexpected add output:\n%s", out)
	}
	if out := execute(t, "update", "2", "Thor", "Odinson"); !strings.Contains(out, "HeroService: updated hero id=2") {
		t.Fatalf("unexpected update output:\n%s", out)
	}
	if out := execute(t, "delete", "3"); !strings.Contains(out, `"deleted": 3`) {
		t.Fatalf("unexpected delete output:\n%s", out)
	}
}

func TestInvalidIDIsRejected(t *testing.T) {
	root := newRootCmd(&config.Config{}, func(context.Context, *config.Config) (*app.Client, error) {
		t.Fatalf("client must not be built for invalid input")
		return nil, nil
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"get", "abc"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}
