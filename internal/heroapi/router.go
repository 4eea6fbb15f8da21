package heroapi

import (
	"net/http"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultHeroesPath is where the collection is mounted.
const DefaultHeroesPath = "/api/heroes"

// NewRouter mounts the heroes routes under heroesPath.
func NewRouter(store storage.Store, heroesPath string, log *zap.Logger) chi.Router {
	if log == nil {
		log = zap.NewNop()
	}
	heroesPath = "/" + strings.Trim(strings.TrimSpace(heroesPath), "/")
	if heroesPath == "/" {
		heroesPath = DefaultHeroesPath
	}

	h := NewHandler(store, log)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route(heroesPath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/", h.Update)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
