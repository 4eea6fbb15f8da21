package storage

import (
	"fmt"
	"sync"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"github.com/samber/lo"
)

// memoryStore implements Store on a slice guarded by a mutex.
type memoryStore struct {
	mu     sync.RWMutex
	heroes []domain.Hero
}

func newMemoryStore(seed []domain.Hero) *memoryStore {
	heroes := make([]domain.Hero, len(seed))
	copy(heroes, seed)
	return &memoryStore{heroes: heroes}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) List() ([]domain.Hero, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Hero, len(m.heroes))
	copy(out, m.heroes)
	return out, nil
}

func (m *memoryStore) Get(id int) (domain.Hero, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hero, ok := lo.Find(m.heroes, func(h domain.Hero) bool { return h.ID == id })
	return hero, ok, nil
}

func (m *memoryStore) Create(hero domain.Hero) (domain.Hero, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hero.ID < 0 {
		return domain.Hero{}, fmt.Errorf("create hero id=%d: %w", hero.ID, ErrInvalidID)
	}
	if hero.ID == 0 {
		hero.ID = nextID(heroIDs(m.heroes))
	} else if lo.ContainsBy(m.heroes, func(h domain.Hero) bool { return h.ID == hero.ID }) {
		return domain.Hero{}, fmt.Errorf("create hero id=%d: %w", hero.ID, ErrConflict)
	}
	m.heroes = append(m.heroes, hero)
	return hero, nil
}

func (m *memoryStore) Update(hero domain.Hero) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(m.heroes, func(h domain.Hero) bool { return h.ID == hero.ID })
	if !ok {
		return false, nil
	}
	m.heroes[idx] = hero
	return true, nil
}

func (m *memoryStore) Delete(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.heroes)
	m.heroes = lo.Reject(m.heroes, func(h domain.Hero, _ int) bool { return h.ID == id })
	return len(m.heroes) < before, nil
}

func heroIDs(heroes []domain.Hero) []int {
	return lo.Map(heroes, func(h domain.Hero, _ int) int { return h.ID })
}
