// Package theme holds the observable theme state of an application session.
package theme

import (
	"context"
	"sync"

	"worldmandia-web/internal/models"
	"worldmandia-web/internal/preferences"
)

// State is a snapshot of the session's theme
type State struct {
	Selection   models.ThemeSelection `json:"selection"`
	IsDarkTheme bool                  `json:"isDarkTheme"`
	ColorScheme string                `json:"colorScheme"`
}

func newState(selection models.ThemeSelection) State {
	pref := models.ThemePreference{IsDarkTheme: selection == models.ThemeSelectionDark}
	return State{
		Selection:   selection,
		IsDarkTheme: pref.IsDarkTheme,
		ColorScheme: pref.ColorScheme(),
	}
}

// Session is the theme state scoped to one application session.
// State changes are applied in memory immediately; persistence happens in the background.
type Session struct {
	store *preferences.Store

	mu          sync.Mutex
	state       State
	subscribers map[int]chan State
	nextID      int
	seq         int
	lastDone    chan struct{}

	// writeMu guards written; older writes finishing late are skipped
	writeMu sync.Mutex
	written int
	pending sync.WaitGroup
}

// NewSession creates a session whose selection is not yet resolved from storage
func NewSession(store *preferences.Store) *Session {
	return &Session{
		store:       store,
		state:       newState(models.ThemeSelectionLocal),
		subscribers: make(map[int]chan State),
	}
}

// Current returns the current state
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load resolves the selection from the stored preference if it is still local.
// If ctx ends before the store answers the state is left unchanged.
func (s *Session) Load(ctx context.Context) State {
	s.mu.Lock()
	if s.state.Selection != models.ThemeSelectionLocal {
		defer s.mu.Unlock()
		return s.state
	}
	s.mu.Unlock()

	return s.advance(ctx)
}

// Toggle flips between light and dark, resolving from storage first if needed
func (s *Session) Toggle(ctx context.Context) State {
	return s.advance(ctx)
}

// Set selects dark or light explicitly
func (s *Session) Set(dark bool) State {
	selection := models.ThemeSelectionLight
	if dark {
		selection = models.ThemeSelectionDark
	}
	return s.transition(func(models.ThemeSelection) models.ThemeSelection { return selection })
}

func (s *Session) advance(ctx context.Context) State {
	// Reading storage happens outside the state lock; the store has its own
	stored, err := s.store.Get(ctx)
	if err != nil {
		// Nothing known about the stored value, so nothing may be written back
		return s.Current()
	}

	return s.transition(func(current models.ThemeSelection) models.ThemeSelection {
		switch current {
		case models.ThemeSelectionLight:
			return models.ThemeSelectionDark
		case models.ThemeSelectionDark:
			return models.ThemeSelectionLight
		default:
			if stored.IsDarkTheme {
				return models.ThemeSelectionDark
			}
			return models.ThemeSelectionLight
		}
	})
}

func (s *Session) transition(next func(models.ThemeSelection) models.ThemeSelection) State {
	s.mu.Lock()
	s.state = newState(next(s.state.Selection))
	s.seq++
	state, seq := s.state, s.seq
	done := make(chan struct{})
	s.lastDone = done
	s.pending.Add(1)
	s.notify(state)
	s.mu.Unlock()

	go s.persist(seq, state, done)

	return state
}

func (s *Session) persist(seq int, state State, done chan struct{}) {
	defer s.pending.Done()
	defer close(done)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if seq <= s.written {
		return
	}
	s.store.Update(context.Background(), func(models.ThemePreference) models.ThemePreference {
		return models.ThemePreference{IsDarkTheme: state.IsDarkTheme}
	})
	s.written = seq
}

// Wait blocks until all background writes have completed
func (s *Session) Wait() {
	s.pending.Wait()
}

// Sync blocks until the latest state change has been written to the store
func (s *Session) Sync(ctx context.Context) error {
	s.mu.Lock()
	done := s.lastDone
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns a channel receiving every state change and a function to stop.
// Slow subscribers skip intermediate states but always get the latest one.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

// notify must be called with s.mu held
func (s *Session) notify(state State) {
	for _, ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			// Replace the stale value
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
