// Package interfaces declares the contracts of the season cycle engine's
// external collaborators. The engine never depends on their concrete
// implementations; the services package ships demo implementations and
// production callers inject their own.
package interfaces

import (
	"context"

	"nfl-dynasty-go/models"
)

// SimulatedGame is the raw outcome handed back by a game simulator
type SimulatedGame struct {
	HomeScore   int
	AwayScore   int
	PlayerStats []models.PlayerStatLine
}

// GameSimulator produces an outcome for one matchup. Calls are
// synchronous and are the engine's main latency source.
type GameSimulator interface {
	SimulateGame(homeTeamID, awayTeamID int) (*SimulatedGame, error)
}

// ScheduleGenerator builds game events for a dynasty's season. Both
// methods are idempotent: when the schedule already exists the existing
// events are returned unchanged.
type ScheduleGenerator interface {
	// GeneratePreseason returns exactly 48 preseason game events.
	GeneratePreseason(ctx context.Context, dynastyID string, season int) ([]*models.Event, error)
	// GenerateRegularSeason returns exactly 272 regular-season game
	// events beginning no earlier than startDate.
	GenerateRegularSeason(ctx context.Context, dynastyID string, season int, startDate models.Date) ([]*models.Event, error)
}

// PlayoffController is the live bracket for one postseason. Construction
// and reconstruction go through PlayoffProvider.
type PlayoffController interface {
	// AdvanceBracket schedules the next round once the current one is
	// complete; idempotent per day.
	AdvanceBracket(ctx context.Context, date models.Date) error
	IsSuperBowlComplete(ctx context.Context) bool
	SuperBowlWinner(ctx context.Context) (int, error)
	SuperBowlDate(ctx context.Context) (models.Date, error)
}

// PlayoffProvider seeds brackets and builds controllers over them
type PlayoffProvider interface {
	SeedPlayoffs(ctx context.Context, season int, standings []*models.TeamStanding) (*models.PlayoffSeeding, error)
	// CreateController schedules the wildcard round and returns the
	// bracket controller.
	CreateController(ctx context.Context, dynastyID string, seeding *models.PlayoffSeeding, startDate models.Date) (PlayoffController, error)
	// ReconstructController rebuilds a controller from existing bracket
	// events without rescheduling any games.
	ReconstructController(ctx context.Context, dynastyID string, season int) (PlayoffController, error)
}

// TradeWindowValidator decides whether trades are legal on a date
type TradeWindowValidator interface {
	IsTradeAllowed(date models.Date, phase models.SeasonPhase, week int) (bool, string)
}

// TradeAI proposes and executes daily transactions for every team
type TradeAI interface {
	EvaluateDailyForAllTeams(ctx context.Context, phase models.SeasonPhase, week int) ([]models.Trade, error)
}

// CapService is the salary-cap/contract collaborator
type CapService interface {
	// IncrementAllContracts advances every contract one year, expiring
	// terminated deals.
	IncrementAllContracts(ctx context.Context, newSeason int) (*models.ContractRollover, error)
}

// DraftService generates draft classes
type DraftService interface {
	// PrepareClass synchronously generates a class of roughly size
	// prospects for the season.
	PrepareClass(ctx context.Context, season, size int) (*models.DraftClass, error)
}

// OffseasonScheduler produces the milestone events of an offseason keyed
// to the Super Bowl date. The caller inserts them so it can track the
// inserts for rollback.
type OffseasonScheduler interface {
	ScheduleEvents(ctx context.Context, dynastyID string, season int, superBowlDate models.Date) ([]*models.Event, error)
}
