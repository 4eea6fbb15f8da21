package heroapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/Adda-Baaj/tour-of-heroes/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Handler serves the heroes collection over JSON.
type Handler struct {
	store storage.Store
	log   *zap.Logger
}

func NewHandler(store storage.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, log: log}
}

type errorResponse struct {
	Error string `json:"error"`
}

// List returns the collection, optionally narrowed by an exact id and a case-insensitive
// name fragment.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.store.List()
	if err != nil {
		h.storeFailure(w, "list", err)
		return
	}

	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("id")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
			return
		}
		heroes = lo.Filter(heroes, func(hero domain.Hero, _ int) bool { return hero.ID == id })
	}
	if name := strings.ToLower(query.Get("name")); name != "" {
		heroes = lo.Filter(heroes, func(hero domain.Hero, _ int) bool {
			return strings.Contains(strings.ToLower(hero.Name), name)
		})
	}

	writeJSON(w, http.StatusOK, heroes)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	hero, found, err := h.store.Get(id)
	if err != nil {
		h.storeFailure(w, "get", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "hero " + strconv.Itoa(id) + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, hero)
}

// Create stores the posted hero and answers 201 with the id assigned.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	hero, ok := decodeHero(w, r)
	if !ok {
		return
	}
	stored, err := h.store.Create(hero)
	if errors.Is(err, storage.ErrConflict) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, storage.ErrInvalidID) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.storeFailure(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// Update replaces a hero. The id comes from the path when present, otherwise from the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	hero, ok := decodeHero(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "id") != "" {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		hero.ID = id
	}

	found, err := h.store.Update(hero)
	if err != nil {
		h.storeFailure(w, "update", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "hero " + strconv.Itoa(hero.ID) + " not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	found, err := h.store.Delete(id)
	if err != nil {
		h.storeFailure(w, "delete", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "hero " + strconv.Itoa(id) + " not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) storeFailure(w http.ResponseWriter, op string, err error) {
	h.log.Error("hero store failed", zap.String("operation", op), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage failure"})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func decodeHero(w http.ResponseWriter, r *http.Request) (domain.Hero, bool) {
	var hero domain.Hero
	if err := json.NewDecoder(r.Body).Decode(&hero); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid hero body"})
		return domain.Hero{}, false
	}
	return hero, true
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
