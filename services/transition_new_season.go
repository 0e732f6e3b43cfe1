package services

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// NewSeasonDeps are the capabilities the OFFSEASON -> PRESEASON edge
// needs from its owner. Schedule generation is idempotent, so retrying
// the edge after a partial failure is safe once phase and year are
// restored.
type NewSeasonDeps struct {
	CurrentDate         func() models.Date
	GeneratePreseason   func(newYear int) ([]*models.Event, error)
	GenerateRegular     func(newYear int, startDate models.Date) ([]*models.Event, error)
	ResetStandings      func(newYear int, seasonType string) error
	InitializeState     func(newYear int, date models.Date) error
	RestorePriorState   func(priorYear int, priorPhase models.SeasonPhase) error
	DeleteNewSchedule   func(newYear int) error
	ExecuteYearRollover func(newYear int) (*models.YearTransitionResult, error)
	TouchDynasty        func() error
}

// OffseasonToPreseasonHandler executes the OFFSEASON -> PRESEASON edge:
// the season rollover. It generates both schedules for the new year,
// zeroes standings, creates the new-year state row, and runs the year
// transition service (contracts + draft class). Each substep is tracked
// so rollback undoes exactly what succeeded.
type OffseasonToPreseasonHandler struct {
	deps NewSeasonDeps

	steps    []string
	newYear  int
	rollover *models.YearTransitionResult

	logger *logging.Logger
}

// NewOffseasonToPreseasonHandler creates the handler
func NewOffseasonToPreseasonHandler(deps NewSeasonDeps) *OffseasonToPreseasonHandler {
	return &OffseasonToPreseasonHandler{
		deps:   deps,
		logger: logging.WithPrefix("transition:offseason_to_preseason"),
	}
}

func (h *OffseasonToPreseasonHandler) Name() string {
	return "offseason_to_preseason"
}

// RolloverResult returns the year-transition outcome of the last
// successful Execute, or nil
func (h *OffseasonToPreseasonHandler) RolloverResult() *models.YearTransitionResult {
	return h.rollover
}

func (h *OffseasonToPreseasonHandler) Execute(t *models.Transition) error {
	h.steps = nil
	h.rollover = nil
	h.newYear = t.Season + 1

	// Step 1: rollback snapshot is the transition itself (prior year,
	// prior phase); nothing to persist.
	h.steps = append(h.steps, "snapshot_saved")

	// Step 2: boundary for the new season.
	preseasonStart := models.FirstThursdayOfAugust(h.newYear)
	regularStart := models.FirstThursdayOfSeptember(h.newYear)

	// Steps 3-4: both schedules, with hard count checks.
	preseason, err := h.deps.GeneratePreseason(h.newYear)
	if err != nil {
		return fmt.Errorf("failed to generate preseason schedule: %w", err)
	}
	if len(preseason) != PreseasonGameCount {
		return &CalendarStateError{
			Reason: fmt.Sprintf("preseason schedule has %d games, want %d", len(preseason), PreseasonGameCount),
		}
	}
	h.steps = append(h.steps, "preseason_generated")

	regular, err := h.deps.GenerateRegular(h.newYear, regularStart)
	if err != nil {
		return fmt.Errorf("failed to generate regular-season schedule: %w", err)
	}
	if len(regular) != RegularSeasonGameCount {
		return &CalendarStateError{
			Reason: fmt.Sprintf("regular-season schedule has %d games, want %d", len(regular), RegularSeasonGameCount),
		}
	}
	h.steps = append(h.steps, "regular_generated")

	// Step 5: fresh 0-0-0 standings for the new year.
	for _, seasonType := range []string{models.SeasonTypePreseason, models.SeasonTypeRegular} {
		if err := h.deps.ResetStandings(h.newYear, seasonType); err != nil {
			return fmt.Errorf("failed to reset %s standings: %w", seasonType, err)
		}
	}
	h.steps = append(h.steps, "standings_reset")

	// Step 6: new dynasty_state row carries the new year and phase.
	if err := h.deps.InitializeState(h.newYear, h.deps.CurrentDate()); err != nil {
		return fmt.Errorf("failed to initialize new-season state: %w", err)
	}
	h.steps = append(h.steps, "state_initialized")

	// Step 7: contracts roll forward and the draft class is prepared;
	// synchronous and the slowest part of the edge.
	rollover, err := h.deps.ExecuteYearRollover(h.newYear)
	if err != nil {
		return fmt.Errorf("year rollover service failed: %w", err)
	}
	h.rollover = rollover
	h.steps = append(h.steps, "year_rollover_executed")

	if err := h.deps.TouchDynasty(); err != nil {
		// Bookkeeping only; the season is already rolled over.
		h.logger.Warnf("Failed to update dynasty registry: %v", err)
	}

	h.logger.Infof("Season %d begins: preseason starts %s, regular season starts %s",
		h.newYear, preseasonStart, regularStart)
	return nil
}

// Rollback undoes the recorded substeps in reverse. Standings resets have
// no inverse (prior-year rows are untouched); new-year schedule deletion
// is handed to the event layer as a compensating operation. Best-effort:
// failures are aggregated and reported, never escalated past the manager.
func (h *OffseasonToPreseasonHandler) Rollback(t *models.Transition) error {
	var result *multierror.Error
	var stateRestored, scheduleDeleted bool

	for i := len(h.steps) - 1; i >= 0; i-- {
		switch h.steps[i] {
		case "state_initialized", "year_rollover_executed":
			if stateRestored {
				continue
			}
			stateRestored = true
			if err := h.deps.RestorePriorState(t.Season, t.FromPhase); err != nil {
				result = multierror.Append(result, fmt.Errorf("restore prior state: %w", err))
			}
		case "preseason_generated", "regular_generated":
			if scheduleDeleted {
				continue
			}
			scheduleDeleted = true
			if err := h.deps.DeleteNewSchedule(h.newYear); err != nil {
				result = multierror.Append(result, fmt.Errorf("delete new schedule: %w", err))
			}
		}
	}
	h.rollover = nil
	return result.ErrorOrNil()
}
