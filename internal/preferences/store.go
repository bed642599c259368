// Package preferences persists the theme preference record.
//
// A Store reads through to a Backend on every Get, so writes from other processes
// sharing the database are observed. When the backend fails the store switches to
// an in-memory copy, seeded with the last value it saw, for the rest of the
// process lifetime instead of surfacing errors.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/patrickmn/go-cache"

	"worldmandia-web/internal/models"
)

// Store is the persisted ThemePreference record
type Store struct {
	mu       sync.Mutex
	key      string
	backend  Backend
	fallback *MemoryBackend
	cache    *cache.Cache
	degraded bool
}

// NewStore creates a store keeping its record under key in backend.
// A nil backend keeps the record in memory only.
func NewStore(backend Backend, key string) *Store {
	if key == "" {
		key = models.DefaultPreferenceKey
	}
	fallback := NewMemoryBackend()
	if backend == nil {
		backend = fallback
	}
	return &Store{
		key:      key,
		backend:  backend,
		fallback: fallback,
		// Last observed value, used to seed the fallback; never served in place of a read
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Key returns the storage key of the record
func (s *Store) Key() string {
	return s.key
}

// Degraded reports whether the store has fallen back to memory
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Get returns the persisted preference, or the default if none exists.
// The only error is a canceled or expired ctx; backend failures degrade the store instead.
func (s *Store) Get(ctx context.Context) (models.ThemePreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.active().Load(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.cache.Delete(s.key)
		return models.ThemePreference{}, nil
	case isContextErr(err):
		return models.ThemePreference{}, err
	case err != nil:
		s.degrade(err)
		if raw, err = s.fallback.Load(ctx, s.key); err != nil {
			return models.ThemePreference{}, nil
		}
	}

	pref := s.decode(raw)
	s.cache.SetDefault(s.key, pref)
	return pref, nil
}

// Update atomically applies fn to the stored preference and returns the new value.
// A canceled ctx leaves the record untouched and returns the last value this store observed.
func (s *Store) Update(ctx context.Context, fn func(models.ThemePreference) models.ThemePreference) models.ThemePreference {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.apply(ctx, s.active(), fn)
	if isContextErr(err) {
		log.Printf("Preference update for %q abandoned: %v", s.key, err)
		if cached, ok := s.cache.Get(s.key); ok {
			return cached.(models.ThemePreference)
		}
		return models.ThemePreference{}
	}
	if err != nil {
		s.degrade(err)
		next, _ = s.apply(ctx, s.fallback, fn)
	}

	s.cache.SetDefault(s.key, next)
	return next
}

func (s *Store) apply(ctx context.Context, backend Backend, fn func(models.ThemePreference) models.ThemePreference) (models.ThemePreference, error) {
	var next models.ThemePreference
	_, err := backend.Update(ctx, s.key, func(current []byte, found bool) ([]byte, error) {
		pref := models.ThemePreference{}
		if found {
			pref = s.decode(current)
		}
		next = fn(pref)
		return json.Marshal(next)
	})
	return next, err
}

func (s *Store) active() Backend {
	if s.degraded {
		return s.fallback
	}
	return s.backend
}

// degrade switches to the in-memory fallback, seeding it with the last known value
func (s *Store) degrade(err error) {
	if s.degraded {
		return
	}
	log.Printf("Preference backend unavailable, using in-memory defaults for this session: %v", err)
	s.degraded = true

	if cached, ok := s.cache.Get(s.key); ok {
		raw, _ := json.Marshal(cached.(models.ThemePreference))
		s.fallback.Update(context.Background(), s.key, func([]byte, bool) ([]byte, error) {
			return raw, nil
		})
	}
}

func (s *Store) decode(raw []byte) models.ThemePreference {
	var pref models.ThemePreference
	if err := json.Unmarshal(raw, &pref); err != nil {
		log.Printf("Ignoring malformed preference record %q: %v", s.key, err)
		return models.ThemePreference{}
	}
	return pref
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
