package services

import (
	"context"
	"fmt"
	"sync"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// YearSubscriber receives the new season year after it has been durably
// persisted
type YearSubscriber func(year int)

// SeasonYearSynchronizer propagates a season-year change to every
// component that caches the year. The write order is fixed: database
// first, then subscribers in registration order, then the in-memory
// state last. A database failure leaves all memory untouched.
type SeasonYearSynchronizer struct {
	phaseState  *models.PhaseState
	persistYear func(ctx context.Context, year int) error

	mu          sync.Mutex
	order       []string
	subscribers map[string]YearSubscriber

	logger *logging.Logger
}

// NewSeasonYearSynchronizer creates a synchronizer. persistYear performs
// the durable write of the year.
func NewSeasonYearSynchronizer(phaseState *models.PhaseState, persistYear func(ctx context.Context, year int) error) *SeasonYearSynchronizer {
	return &SeasonYearSynchronizer{
		phaseState:  phaseState,
		persistYear: persistYear,
		subscribers: make(map[string]YearSubscriber),
		logger:      logging.WithPrefix("year_sync"),
	}
}

// Register adds a named subscriber. Re-registering a key replaces the
// subscriber but keeps its original position.
func (s *SeasonYearSynchronizer) Register(key string, subscriber YearSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subscribers[key]; !exists {
		s.order = append(s.order, key)
	}
	s.subscribers[key] = subscriber
}

// RegistryStatus returns the subscriber keys in notification order
func (s *SeasonYearSynchronizer) RegistryStatus() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// CurrentYear returns the in-memory season year
func (s *SeasonYearSynchronizer) CurrentYear() int {
	_, year := s.phaseState.Snapshot()
	return year
}

// SynchronizeYear sets the season year everywhere. The database write
// happens first so a failure cannot leave memory ahead of disk.
func (s *SeasonYearSynchronizer) SynchronizeYear(ctx context.Context, newYear int, reason string) error {
	if newYear < 1920 || newYear > 9999 {
		return &CalendarStateError{Reason: fmt.Sprintf("implausible season year %d", newYear)}
	}

	if err := s.persistYear(ctx, newYear); err != nil {
		return &SyncPersistenceError{Op: "year synchronization", Err: err}
	}

	s.mu.Lock()
	type entry struct {
		key string
		fn  YearSubscriber
	}
	notify := make([]entry, 0, len(s.order))
	for _, key := range s.order {
		notify = append(notify, entry{key, s.subscribers[key]})
	}
	s.mu.Unlock()

	for _, e := range notify {
		e.fn(newYear)
		s.logger.Debugf("Year %d pushed to %s", newYear, e.key)
	}

	s.phaseState.SetSeasonYear(newYear)

	s.logger.Infof("Season year synchronized to %d (%s)", newYear, reason)
	return nil
}

// IncrementYear advances the year by one; the rollover path
func (s *SeasonYearSynchronizer) IncrementYear(ctx context.Context, reason string) (int, error) {
	newYear := s.CurrentYear() + 1
	if err := s.SynchronizeYear(ctx, newYear, reason); err != nil {
		return 0, err
	}
	return newYear, nil
}
