package services

import (
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// Game-count bounds per season year
const (
	PreseasonGameCount     = 48
	RegularSeasonGameCount = 272
	PlayoffGameCount       = 13
)

// CompletionDeps are the injected nullary data callables the completion
// predicates read from. Date callables return ok=false when the schedule
// does not define the date yet.
type CompletionDeps struct {
	// GamesPlayed returns the phase-specific completed-game count:
	// completed preseason games, completed regular-season games, or 0
	// for other phases.
	GamesPlayed func() int
	CurrentDate func() models.Date

	LastRegularSeasonGameDate func() (models.Date, bool)
	LastPreseasonGameDate     func() (models.Date, bool)
	IsSuperBowlComplete       func() bool
	PreseasonStartDate        func() (models.Date, bool)
}

// PhaseCompletionChecker holds the pure predicates that decide whether a
// phase is complete. All data access is through the injected callables.
type PhaseCompletionChecker struct {
	deps   CompletionDeps
	logger *logging.Logger
}

// NewPhaseCompletionChecker creates a checker over the given callables
func NewPhaseCompletionChecker(deps CompletionDeps) *PhaseCompletionChecker {
	return &PhaseCompletionChecker{
		deps:   deps,
		logger: logging.WithPrefix("phase_completion"),
	}
}

// IsPreseasonComplete is true once 48 preseason games are done or the
// calendar has passed the last preseason game date
func (c *PhaseCompletionChecker) IsPreseasonComplete() bool {
	if c.deps.GamesPlayed() >= PreseasonGameCount {
		return true
	}
	last, ok := c.deps.LastPreseasonGameDate()
	if !ok {
		return false
	}
	return c.deps.CurrentDate().After(last)
}

// IsRegularSeasonComplete is true once 272 regular-season games are done
// or the calendar has passed the last regular-season game date
func (c *PhaseCompletionChecker) IsRegularSeasonComplete() bool {
	if c.deps.GamesPlayed() >= RegularSeasonGameCount {
		return true
	}
	last, ok := c.deps.LastRegularSeasonGameDate()
	if !ok {
		return false
	}
	return c.deps.CurrentDate().After(last)
}

// IsPlayoffsComplete is true once the Super Bowl has a winner
func (c *PhaseCompletionChecker) IsPlayoffsComplete() bool {
	return c.deps.IsSuperBowlComplete()
}

// IsOffseasonComplete is true once the calendar reaches the next
// preseason start date
func (c *PhaseCompletionChecker) IsOffseasonComplete() bool {
	start, ok := c.deps.PreseasonStartDate()
	if !ok {
		return false
	}
	current := c.deps.CurrentDate()
	return current.Equal(start) || current.After(start)
}

// IsPhaseComplete dispatches to the predicate for the given phase
func (c *PhaseCompletionChecker) IsPhaseComplete(phase models.SeasonPhase) bool {
	switch phase {
	case models.PhasePreseason:
		return c.IsPreseasonComplete()
	case models.PhaseRegularSeason:
		return c.IsRegularSeasonComplete()
	case models.PhasePlayoffs:
		return c.IsPlayoffsComplete()
	case models.PhaseOffseason:
		return c.IsOffseasonComplete()
	default:
		return false
	}
}
