package services

import (
	"context"
	"fmt"
	"sync"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// PhaseBoundaryDetector derives season boundary dates from the scheduled
// events so the phase state machine is event-driven rather than
// hard-coded to calendar dates. Lookups are memoized until the schedule
// changes.
type PhaseBoundaryDetector struct {
	events    *database.EventStore
	dynastyID string

	mu    sync.Mutex
	cache map[string]models.Date

	logger *logging.Logger
}

// NewPhaseBoundaryDetector creates a detector for one dynasty
func NewPhaseBoundaryDetector(events *database.EventStore, dynastyID string) *PhaseBoundaryDetector {
	return &PhaseBoundaryDetector{
		events:    events,
		dynastyID: dynastyID,
		cache:     make(map[string]models.Date),
		logger:    logging.WithPrefix("phase_boundary"),
	}
}

// InvalidateCache drops all memoized boundary dates; call after any
// schedule generation.
func (d *PhaseBoundaryDetector) InvalidateCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = make(map[string]models.Date)
}

func (d *PhaseBoundaryDetector) cached(key string) (models.Date, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	date, ok := d.cache[key]
	return date, ok
}

func (d *PhaseBoundaryDetector) store(key string, date models.Date) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache[key] = date
}

func seasonTypeForPhase(phase models.SeasonPhase) (string, error) {
	switch phase {
	case models.PhasePreseason:
		return models.SeasonTypePreseason, nil
	case models.PhaseRegularSeason:
		return models.SeasonTypeRegular, nil
	case models.PhasePlayoffs:
		return models.SeasonTypePlayoffs, nil
	default:
		return "", fmt.Errorf("phase %s has no scheduled games", phase)
	}
}

// FirstGameDate returns the earliest scheduled game date of a phase;
// found is false when no games exist.
func (d *PhaseBoundaryDetector) FirstGameDate(ctx context.Context, phase models.SeasonPhase, season int) (models.Date, bool, error) {
	seasonType, err := seasonTypeForPhase(phase)
	if err != nil {
		return models.Date{}, false, err
	}

	key := fmt.Sprintf("first:%s:%d", seasonType, season)
	if date, ok := d.cached(key); ok {
		return date, true, nil
	}

	minMS, _, found, err := d.events.GameDateRange(ctx, d.dynastyID, season, seasonType)
	if err != nil || !found {
		return models.Date{}, false, err
	}
	date := models.DateFromMillis(minMS)
	d.store(key, date)
	return date, true, nil
}

// LastGameDate returns the latest scheduled game date of a phase; found
// is false when no games exist.
func (d *PhaseBoundaryDetector) LastGameDate(ctx context.Context, phase models.SeasonPhase, season int) (models.Date, bool, error) {
	seasonType, err := seasonTypeForPhase(phase)
	if err != nil {
		return models.Date{}, false, err
	}

	key := fmt.Sprintf("last:%s:%d", seasonType, season)
	if date, ok := d.cached(key); ok {
		return date, true, nil
	}

	_, maxMS, found, err := d.events.GameDateRange(ctx, d.dynastyID, season, seasonType)
	if err != nil || !found {
		return models.Date{}, false, err
	}
	date := models.DateFromMillis(maxMS)
	d.store(key, date)
	return date, true, nil
}

// PhaseStartDate returns the first game date of a phase. For the
// preseason with no games scheduled yet it falls back to the computed
// first Thursday of August.
func (d *PhaseBoundaryDetector) PhaseStartDate(ctx context.Context, phase models.SeasonPhase, season int) (models.Date, error) {
	date, found, err := d.FirstGameDate(ctx, phase, season)
	if err != nil {
		if phase != models.PhasePreseason {
			return models.Date{}, err
		}
	}
	if found {
		return date, nil
	}
	if phase == models.PhasePreseason {
		fallback := models.FirstThursdayOfAugust(season)
		d.logger.Debugf("No preseason games for %d; falling back to %s", season, fallback)
		return fallback, nil
	}
	return models.Date{}, fmt.Errorf("no games scheduled for phase %s season %d", phase, season)
}

// PlayoffStartDate returns the week after the last regular-season game
func (d *PhaseBoundaryDetector) PlayoffStartDate(ctx context.Context, season int) (models.Date, error) {
	last, found, err := d.LastGameDate(ctx, models.PhaseRegularSeason, season)
	if err != nil {
		return models.Date{}, err
	}
	if !found {
		return models.Date{}, fmt.Errorf("no regular-season games for season %d", season)
	}
	return last.AddDays(7), nil
}

// DeriveSeasonYear maps a date to its season year (Aug 1 boundary)
func (d *PhaseBoundaryDetector) DeriveSeasonYear(date models.Date) int {
	return models.DeriveSeasonYear(date)
}
