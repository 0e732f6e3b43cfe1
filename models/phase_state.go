package models

import (
	"sync"
)

// PhaseListener is invoked after every phase change with the old and new
// phase. Listeners run outside the state lock and in no particular order;
// a panicking listener is recovered and does not abort the transition.
type PhaseListener func(old, new SeasonPhase)

// PhaseState is the single in-memory source of truth for the current
// phase and season year. Mutations are serialized by an internal lock.
// Listener registration is safe from any goroutine; phase mutation is
// expected from the owning controller only.
type PhaseState struct {
	mu         sync.Mutex
	phase      SeasonPhase
	seasonYear int
	listeners  map[int]PhaseListener
	nextHandle int
}

// NewPhaseState creates a PhaseState with the given initial phase and year
func NewPhaseState(initial SeasonPhase, seasonYear int) *PhaseState {
	return &PhaseState{
		phase:      initial,
		seasonYear: seasonYear,
		listeners:  make(map[int]PhaseListener),
	}
}

// Phase returns the current phase
func (s *PhaseState) Phase() SeasonPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SeasonYear returns the current season year
func (s *PhaseState) SeasonYear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seasonYear
}

// Snapshot returns the phase and season year as one consistent read
func (s *PhaseState) Snapshot() (SeasonPhase, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase, s.seasonYear
}

// SetSeasonYear updates the season year without notifying listeners
func (s *PhaseState) SetSeasonYear(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasonYear = year
}

// SetPhase updates the phase and notifies all registered listeners.
// The listener set is copied under the lock and invoked outside it.
func (s *PhaseState) SetPhase(phase SeasonPhase) {
	s.mu.Lock()
	old := s.phase
	s.phase = phase
	snapshot := make([]PhaseListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		snapshot = append(snapshot, l)
	}
	s.mu.Unlock()

	if old == phase {
		return
	}
	for _, listener := range snapshot {
		s.notify(listener, old, phase)
	}
}

// notify invokes one listener, swallowing any panic
func (s *PhaseState) notify(listener PhaseListener, old, new SeasonPhase) {
	defer func() {
		// A broken listener must not break a correct transition.
		_ = recover()
	}()
	listener(old, new)
}

// AddListener registers a phase-change listener and returns a handle
// usable with RemoveListener
func (s *PhaseState) AddListener(listener PhaseListener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	handle := s.nextHandle
	s.nextHandle++
	s.listeners[handle] = listener
	return handle
}

// RemoveListener unregisters a listener by its handle
func (s *PhaseState) RemoveListener(handle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, handle)
}

// ListenerCount returns the number of registered listeners
func (s *PhaseState) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
