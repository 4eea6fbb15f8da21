package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/samber/lo"
)

// Package storage holds the hero collection served by the dev backend.

// ErrConflict is returned by Create when the hero carries an id that is already taken.
var ErrConflict = errors.New("hero id already exists")

// ErrInvalidID is returned for negative hero ids. Zero means "assign one".
var ErrInvalidID = errors.New("hero id must not be negative")

// firstGeneratedID is the id handed out when the collection is empty.
const firstGeneratedID = 11

// Store keeps the hero collection. Implementations are safe for concurrent use.
type Store interface {
	Close() error
	List() ([]domain.Hero, error)
	Get(id int) (domain.Hero, bool, error)
	// Create stores hero, generating an id when it has none.
	Create(hero domain.Hero) (domain.Hero, error)
	// Update replaces the hero with the same id and reports whether it existed.
	Update(hero domain.Hero) (bool, error)
	Delete(id int) (bool, error)
}

// NewStore creates the configured storage backend, seeding it when it is empty.
func NewStore(typ, path string, seed []domain.Hero) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	if err := validateSeed(seed); err != nil {
		return nil, err
	}
	seed = assignSeedIDs(seed)

	switch typ {
	case "", "memory":
		return newMemoryStore(seed), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, seed)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// validateSeed applies the same rules to every backend: ids are not negative and explicit
// ids are unique.
func validateSeed(seed []domain.Hero) error {
	seen := make(map[int]int, len(seed))
	for i, h := range seed {
		if h.ID < 0 {
			return fmt.Errorf("seed hero[%d] id=%d: %w", i, h.ID, ErrInvalidID)
		}
		if h.ID == 0 {
			continue
		}
		if first, dup := seen[h.ID]; dup {
			return fmt.Errorf("seed hero[%d] id=%d duplicates hero[%d]: %w", i, h.ID, first, ErrConflict)
		}
		seen[h.ID] = i
	}
	return nil
}

// assignSeedIDs gives id-less seed heroes ids above every explicit one.
func assignSeedIDs(seed []domain.Hero) []domain.Hero {
	ids := heroIDs(lo.Filter(seed, func(h domain.Hero, _ int) bool { return h.ID != 0 }))
	out := make([]domain.Hero, len(seed))
	for i, h := range seed {
		if h.ID == 0 {
			h.ID = nextID(ids)
			ids = append(ids, h.ID)
		}
		out[i] = h
	}
	return out
}

// nextID returns max(id)+1, or firstGeneratedID for an empty collection.
func nextID(ids []int) int {
	if len(ids) == 0 {
		return firstGeneratedID
	}
	return lo.Max(ids) + 1
}
