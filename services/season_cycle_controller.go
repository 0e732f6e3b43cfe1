package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/interfaces"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// MaxSimulationDays bounds the open-ended simulation loops
const MaxSimulationDays = 400

// Collaborators are the pluggable domain services behind the controller.
// Any nil field falls back to the demo implementation.
type Collaborators struct {
	Simulator      interfaces.GameSimulator
	Playoffs       interfaces.PlayoffProvider
	TradeValidator interfaces.TradeWindowValidator
	TradeAI        interfaces.TradeAI
	Cap            interfaces.CapService
	Draft          interfaces.DraftService
	Offseason      interfaces.OffseasonScheduler
	Schedule       ScheduleBuilder
}

// ControllerOptions configure controller construction
type ControllerOptions struct {
	// StartSeason is the season year for a brand-new dynasty; 0 derives
	// it from the wall clock.
	StartSeason int
	Settings    models.SimulationSettings
	// Seed drives the demo simulator when no simulator is injected.
	Seed int64
}

// SeasonCycleController owns the per-dynasty advancement loop: the
// in-memory calendar, the phase state machine, per-day simulation, and
// the end-of-day calendar/database sync contract.
type SeasonCycleController struct {
	dynastyID string
	db        *database.DB
	settings  models.SimulationSettings

	events      *database.EventStore
	stateRepo   *database.DynastyStateRepository
	dynastyRepo *database.DynastyRepository
	standings   *database.StandingsRepository

	phaseState    *models.PhaseState
	boundary      *PhaseBoundaryDetector
	schedule      *ScheduleService
	executor      *SimulationExecutor
	checker       *PhaseCompletionChecker
	transitions   *PhaseTransitionManager
	validator     *SyncValidator
	yearSync      *SeasonYearSynchronizer
	rollover      *SeasonTransitionService
	handlers      map[models.SeasonPhase]PhaseHandler

	simulator       interfaces.GameSimulator
	playoffs        interfaces.PlayoffProvider
	tradeWindow     interfaces.TradeWindowValidator
	tradeAI         interfaces.TradeAI
	cap             interfaces.CapService
	draft           interfaces.DraftService
	offseasonSvc    interfaces.OffseasonScheduler
	scheduleBuilder ScheduleBuilder

	mu                sync.Mutex
	currentDate       models.Date
	currentWeek       int
	lastGameID        string
	playoffController interfaces.PlayoffController
	initialized       bool

	logger *logging.Logger
}

// NewSeasonCycleController restores a dynasty's calendar from its latest
// persisted state, or initializes a new dynasty on August 1 of the start
// season. The returned controller is ready to advance.
func NewSeasonCycleController(ctx context.Context, db *database.DB, dynastyID, dynastyName string, opts ControllerOptions, collab Collaborators) (*SeasonCycleController, error) {
	if dynastyID == "" {
		return nil, &CalendarStateError{Reason: "dynasty id is required"}
	}

	c := &SeasonCycleController{
		dynastyID:   dynastyID,
		db:          db,
		settings:    opts.Settings,
		events:      database.NewEventStore(db),
		stateRepo:   database.NewDynastyStateRepository(db),
		dynastyRepo: database.NewDynastyRepository(db),
		standings:   database.NewStandingsRepository(db),
		handlers:    make(map[models.SeasonPhase]PhaseHandler),
		logger:      logging.WithPrefix("season_cycle"),
	}
	c.applyCollaborators(collab, opts.Seed)

	if err := c.dynastyRepo.EnsureDynasty(ctx, dynastyID, dynastyName); err != nil {
		return nil, err
	}

	state, err := c.stateRepo.GetLatest(ctx, dynastyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dynasty state: %w", err)
	}
	if state == nil {
		state, err = c.initializeNewDynasty(ctx, opts)
		if err != nil {
			return nil, err
		}
	} else {
		c.logger.Infof("Restored dynasty %s: season %d, %s, %s",
			dynastyID, state.Season, state.CurrentPhase, state.CurrentDate)
	}

	c.currentDate = state.CurrentDate
	c.currentWeek = state.CurrentWeek
	c.lastGameID = state.LastSimulatedGameID
	c.phaseState = models.NewPhaseState(state.CurrentPhase, state.Season)
	c.initialized = true

	c.boundary = NewPhaseBoundaryDetector(c.events, dynastyID)
	c.schedule = NewScheduleService(dynastyID, c.events, c.boundary, c.scheduleBuilder)
	c.executor = NewSimulationExecutor(dynastyID, state.Season, db,
		c.events, database.NewGameRepository(db), database.NewPlayerStatsRepository(db),
		c.standings, c.simulator, opts.Settings)
	c.checker = NewPhaseCompletionChecker(c.completionDeps())
	c.validator = NewSyncValidator(c.stateRepo, c)
	c.yearSync = NewSeasonYearSynchronizer(c.phaseState, func(ctx context.Context, year int) error {
		return c.stateRepo.UpdateSeason(ctx, nil, dynastyID, year)
	})
	c.rollover = NewSeasonTransitionService(c.yearSync, c.cap, c.draft)

	c.yearSync.Register("simulation_executor", c.executor.SetSeason)
	c.yearSync.Register("phase_boundary", func(int) { c.boundary.InvalidateCache() })

	c.registerPhaseHandlers()
	c.transitions = NewPhaseTransitionManager(c.phaseState, c.checker)
	c.registerTransitionHandlers()
	if err := c.transitions.ValidateHandlers(); err != nil {
		return nil, err
	}

	if err := c.restorePlayoffController(ctx, state); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SeasonCycleController) applyCollaborators(collab Collaborators, seed int64) {
	c.simulator = collab.Simulator
	if c.simulator == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		c.simulator = NewDemoGameSimulator(seed)
	}
	c.playoffs = collab.Playoffs
	if c.playoffs == nil {
		c.playoffs = NewDemoPlayoffProvider(c.events)
	}
	c.tradeWindow = collab.TradeValidator
	if c.tradeWindow == nil {
		c.tradeWindow = NewDemoTradeWindowValidator()
	}
	c.tradeAI = collab.TradeAI
	if c.tradeAI == nil {
		c.tradeAI = NewDemoTradeAI()
	}
	c.cap = collab.Cap
	if c.cap == nil {
		c.cap = NewDemoCapService()
	}
	c.draft = collab.Draft
	if c.draft == nil {
		c.draft = NewDemoDraftService()
	}
	c.offseasonSvc = collab.Offseason
	if c.offseasonSvc == nil {
		c.offseasonSvc = NewDemoOffseasonScheduler()
	}
	c.scheduleBuilder = collab.Schedule
	if c.scheduleBuilder == nil {
		c.scheduleBuilder = NewDemoScheduleBuilder()
	}
}

func (c *SeasonCycleController) initializeNewDynasty(ctx context.Context, opts ControllerOptions) (*models.DynastyState, error) {
	season := opts.StartSeason
	if season == 0 {
		season = models.DeriveSeasonYear(models.DateFromTime(time.Now()))
	}
	startDate := models.NewDate(season, 8, 1)

	state, err := c.stateRepo.Initialize(ctx, nil, c.dynastyID, season, startDate, 0, models.PhasePreseason)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dynasty: %w", err)
	}
	if err := c.standings.ResetStandings(ctx, nil, c.dynastyID, season, models.SeasonTypePreseason); err != nil {
		return nil, err
	}
	if err := c.standings.ResetStandings(ctx, nil, c.dynastyID, season, models.SeasonTypeRegular); err != nil {
		return nil, err
	}
	if _, err := c.draft.PrepareClass(ctx, season, DraftClassSize); err != nil {
		c.logger.Warnf("First draft class generation failed: %v", err)
	}

	c.logger.Infof("New dynasty %s starts season %d on %s", c.dynastyID, season, startDate)
	return state, nil
}

func (c *SeasonCycleController) restorePlayoffController(ctx context.Context, state *models.DynastyState) error {
	switch state.CurrentPhase {
	case models.PhasePlayoffs:
		controller, err := c.playoffs.ReconstructController(ctx, c.dynastyID, state.Season)
		if err != nil {
			return fmt.Errorf("failed to reconstruct playoff bracket: %w", err)
		}
		c.setPlayoffController(controller)
	case models.PhaseOffseason:
		// Best-effort: the bracket is only informational once the season
		// summary has been recorded.
		controller, err := c.playoffs.ReconstructController(ctx, c.dynastyID, state.Season)
		if err != nil {
			c.logger.Warnf("No playoff bracket to reconstruct for season %d: %v", state.Season, err)
			return nil
		}
		c.setPlayoffController(controller)
	}
	return nil
}

func (c *SeasonCycleController) completionDeps() CompletionDeps {
	bg := context.Background()
	return CompletionDeps{
		GamesPlayed: func() int {
			phase, season := c.phaseState.Snapshot()
			var seasonType string
			switch phase {
			case models.PhasePreseason:
				seasonType = models.SeasonTypePreseason
			case models.PhaseRegularSeason:
				seasonType = models.SeasonTypeRegular
			default:
				return 0
			}
			count, err := c.events.CountCompletedGames(bg, c.dynastyID, season, seasonType)
			if err != nil {
				c.logger.Errorf("Failed to count completed games: %v", err)
				return 0
			}
			return count
		},
		CurrentDate: c.CurrentDate,
		LastRegularSeasonGameDate: func() (models.Date, bool) {
			_, season := c.phaseState.Snapshot()
			date, found, err := c.boundary.LastGameDate(bg, models.PhaseRegularSeason, season)
			return date, found && err == nil
		},
		LastPreseasonGameDate: func() (models.Date, bool) {
			_, season := c.phaseState.Snapshot()
			date, found, err := c.boundary.LastGameDate(bg, models.PhasePreseason, season)
			return date, found && err == nil
		},
		IsSuperBowlComplete: func() bool {
			controller := c.getPlayoffController()
			if controller == nil {
				return false
			}
			return controller.IsSuperBowlComplete(bg)
		},
		PreseasonStartDate: func() (models.Date, bool) {
			_, season := c.phaseState.Snapshot()
			date, err := c.boundary.PhaseStartDate(bg, models.PhasePreseason, season+1)
			return date, err == nil
		},
	}
}

func (c *SeasonCycleController) registerPhaseHandlers() {
	for _, phase := range []models.SeasonPhase{models.PhasePreseason, models.PhaseRegularSeason, models.PhasePlayoffs} {
		c.handlers[phase] = NewGamePhaseHandler(phase, c.executor, c.getPlayoffController)
	}

	offseason := NewOffseasonPhaseHandler(c.dynastyID, c.events, c.settings)
	offseason.RegisterRunner(models.EventTypeDraftDay, func(ctx context.Context, tx *database.TxContext, event *models.Event) (map[string]interface{}, error) {
		_, season := c.phaseState.Snapshot()
		if err := c.stateRepo.UpdateDraftProgress(ctx, tx, c.dynastyID, season, models.MaxDraftPick, false); err != nil {
			return nil, err
		}
		return map[string]interface{}{"picks_made": models.MaxDraftPick}, nil
	})
	c.handlers[models.PhaseOffseason] = offseason
}

func (c *SeasonCycleController) registerTransitionHandlers() {
	ctx := context.Background()
	persistPhase := func(phase models.SeasonPhase) error {
		_, season := c.phaseState.Snapshot()
		return c.stateRepo.Update(ctx, nil, c.dynastyID, season, c.CurrentDate(), phase, 0, "")
	}

	c.transitions.RegisterHandler(EdgePreseasonToRegular, NewPreseasonToRegularHandler(persistPhase))

	c.transitions.RegisterHandler(EdgeRegularToPlayoffs, NewRegularToPlayoffsHandler(RegularToPlayoffsDeps{
		GetFinalStandings: func(season int) ([]*models.TeamStanding, error) {
			return c.standings.GetStandings(ctx, c.dynastyID, season, models.SeasonTypeRegular)
		},
		SeedPlayoffs: func(season int, standings []*models.TeamStanding) (*models.PlayoffSeeding, error) {
			return c.playoffs.SeedPlayoffs(ctx, season, standings)
		},
		CreateController: func(seeding *models.PlayoffSeeding) (interfaces.PlayoffController, error) {
			start, err := c.boundary.PlayoffStartDate(ctx, seeding.Season)
			if err != nil {
				return nil, err
			}
			return c.playoffs.CreateController(ctx, c.dynastyID, seeding, start)
		},
		SetController: c.setPlayoffController,
		PersistPhase:  persistPhase,
	}))

	c.transitions.RegisterHandler(EdgePlayoffsToOffseason, NewPlayoffsToOffseasonHandler(c.dynastyID, PlayoffsToOffseasonDeps{
		SuperBowlWinner: func() (int, error) {
			controller := c.getPlayoffController()
			if controller == nil {
				return 0, &CalendarStateError{Reason: "no playoff controller at playoffs end"}
			}
			return controller.SuperBowlWinner(ctx)
		},
		SuperBowlDate: func() (models.Date, error) {
			controller := c.getPlayoffController()
			if controller == nil {
				return models.Date{}, &CalendarStateError{Reason: "no playoff controller at playoffs end"}
			}
			return controller.SuperBowlDate(ctx)
		},
		ScheduleMilestones: func(season int, superBowlDate models.Date) ([]*models.Event, error) {
			return c.offseasonSvc.ScheduleEvents(ctx, c.dynastyID, season, superBowlDate)
		},
		InsertEvents: func(events []*models.Event) error {
			return c.events.InsertBatch(ctx, nil, events)
		},
		DeleteEvent: func(eventID string) error {
			_, err := c.events.Delete(ctx, nil, eventID)
			return err
		},
		BuildSummaryEvent: func(summary *models.SeasonSummary) *models.Event {
			return models.NewMilestoneEvent(c.dynastyID, models.EventTypeSeasonSummary,
				summary.SuperBowlDate, summary.Season, map[string]interface{}{
					"champion_team_id": summary.ChampionTeamID,
				})
		},
		BuildDraftOrder: c.buildDraftOrder,
		PersistPhase:    persistPhase,
	}))

	c.transitions.RegisterHandler(EdgeOffseasonToPreseason, NewOffseasonToPreseasonHandler(NewSeasonDeps{
		CurrentDate: c.CurrentDate,
		GeneratePreseason: func(newYear int) ([]*models.Event, error) {
			return c.schedule.GeneratePreseason(ctx, c.dynastyID, newYear)
		},
		GenerateRegular: func(newYear int, startDate models.Date) ([]*models.Event, error) {
			return c.schedule.GenerateRegularSeason(ctx, c.dynastyID, newYear, startDate)
		},
		ResetStandings: func(newYear int, seasonType string) error {
			return c.standings.ResetStandings(ctx, nil, c.dynastyID, newYear, seasonType)
		},
		InitializeState: func(newYear int, date models.Date) error {
			_, err := c.stateRepo.Initialize(ctx, nil, c.dynastyID, newYear, date, 0, models.PhasePreseason)
			return err
		},
		RestorePriorState: func(priorYear int, priorPhase models.SeasonPhase) error {
			// The prior-year row was never modified; dropping the new row
			// makes it the latest state again.
			_, err := c.stateRepo.Delete(ctx, nil, c.dynastyID, priorYear+1)
			return err
		},
		DeleteNewSchedule: func(newYear int) error {
			_, err := c.schedule.DeleteScheduleEvents(ctx, newYear)
			return err
		},
		ExecuteYearRollover: func(newYear int) (*models.YearTransitionResult, error) {
			result, err := c.rollover.ExecuteYearRollover(ctx, newYear)
			if err != nil {
				return nil, err
			}
			c.setPlayoffController(nil)
			return result, nil
		},
		TouchDynasty: func() error {
			return c.dynastyRepo.TouchLastPlayed(ctx, nil, c.dynastyID, true)
		},
	}))
}

// buildDraftOrder orders next year's draft worst-to-first with the
// champion picking last
func (c *SeasonCycleController) buildDraftOrder(season, championTeamID int) (*models.Event, error) {
	ctx := context.Background()
	standings, err := c.standings.GetStandings(ctx, c.dynastyID, season, models.SeasonTypeRegular)
	if err != nil {
		return nil, err
	}
	if len(standings) == 0 {
		return nil, &CalendarStateError{Reason: fmt.Sprintf("no standings to order the %d draft", season+1)}
	}

	order := make([]interface{}, 0, len(standings))
	for i := len(standings) - 1; i >= 0; i-- {
		if standings[i].TeamID == championTeamID {
			continue
		}
		order = append(order, standings[i].TeamID)
	}
	order = append(order, championTeamID)

	return models.NewMilestoneEvent(c.dynastyID, models.EventTypeDraftOrder,
		c.CurrentDate(), season+1, map[string]interface{}{"order": order}), nil
}

// CalendarView implementation for the sync validator

func (c *SeasonCycleController) IsInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// CurrentDate returns the in-memory calendar date
func (c *SeasonCycleController) CurrentDate() models.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentDate
}

// CurrentPhase returns the in-memory phase
func (c *SeasonCycleController) CurrentPhase() models.SeasonPhase {
	return c.phaseState.Phase()
}

// SeasonYear returns the in-memory season year
func (c *SeasonCycleController) SeasonYear() int {
	return c.phaseState.SeasonYear()
}

// CurrentWeek returns the most recent simulated week
func (c *SeasonCycleController) CurrentWeek() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentWeek
}

func (c *SeasonCycleController) setPlayoffController(controller interfaces.PlayoffController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playoffController = controller
}

func (c *SeasonCycleController) getPlayoffController() interfaces.PlayoffController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playoffController
}

// RecoverYearFromDatabase re-reads the persisted season year and pushes
// it through the synchronizer; the database value always wins.
func (c *SeasonCycleController) RecoverYearFromDatabase(ctx context.Context) (int, error) {
	state, err := c.stateRepo.GetLatest(ctx, c.dynastyID)
	if err != nil {
		return 0, &SyncPersistenceError{Op: "year recovery", Err: err}
	}
	if state == nil {
		return 0, &SyncInitializationError{Reason: "no persisted state to recover from"}
	}
	if state.Season != c.phaseState.SeasonYear() {
		c.logger.Warnf("Season year drift: memory %d, database %d; recovering from database",
			c.phaseState.SeasonYear(), state.Season)
		if err := c.yearSync.SynchronizeYear(ctx, state.Season, "recovered from database"); err != nil {
			return 0, err
		}
	}
	return state.Season, nil
}

// AdvanceDay moves the calendar forward one day: transitions are checked
// before and after the phase handler runs, and the day's game results,
// stats, standings, and the dynasty state row commit in one IMMEDIATE
// transaction that is verified against the database before the call
// returns.
func (c *SeasonCycleController) AdvanceDay(ctx context.Context) (*models.AdvanceDayResult, error) {
	if _, err := c.RecoverYearFromDatabase(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	newDate := c.currentDate.AddDays(1)
	c.currentDate = newDate
	c.mu.Unlock()

	result := &models.AdvanceDayResult{Date: newDate}

	if t := c.transitions.CheckTransitionNeeded(); t != nil {
		if err := c.transitions.ExecuteTransition(t); err != nil {
			return nil, err
		}
		c.noteTransition(result, t)
	}

	phase, season := c.phaseState.Snapshot()
	if phase == models.PhasePreseason {
		if err := c.schedule.EnsureSeasonSchedules(ctx, season); err != nil {
			return nil, err
		}
	}

	handler, ok := c.handlers[phase]
	if !ok {
		return nil, &CalendarStateError{Reason: fmt.Sprintf("no handler for phase %s", phase)}
	}

	if _, err := c.validator.ValidatePreSync(ctx, c.dynastyID, season); err != nil {
		return nil, err
	}

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, &SyncPersistenceError{Op: "connection acquire", Err: err}
	}
	txErr := database.WithTransaction(ctx, conn, database.TxImmediate, func(tx *database.TxContext) error {
		day, err := handler.SimulateDay(ctx, tx, newDate)
		if err != nil {
			return err
		}
		c.recordDay(result, day)

		c.mu.Lock()
		week, lastGameID := c.currentWeek, c.lastGameID
		c.mu.Unlock()
		if err := c.stateRepo.Update(ctx, tx, c.dynastyID, season, newDate, phase, week, lastGameID); err != nil {
			return &SyncPersistenceError{Op: "advance_day write", Err: err}
		}
		if err := c.dynastyRepo.TouchLastPlayed(ctx, tx, c.dynastyID, false); err != nil {
			return &SyncPersistenceError{Op: "advance_day write", Err: err}
		}
		return nil
	})
	conn.Close()
	if txErr != nil {
		return nil, txErr
	}

	if err := handler.FinalizeDay(ctx, newDate); err != nil {
		return nil, err
	}

	if !c.settings.SkipTransactionAI {
		if allowed, _ := c.tradeWindow.IsTradeAllowed(newDate, phase, c.CurrentWeek()); allowed {
			trades, err := c.tradeAI.EvaluateDailyForAllTeams(ctx, phase, c.CurrentWeek())
			if err != nil {
				c.logger.Errorf("Trade AI failed on %s: %v", newDate, err)
			} else {
				result.TransactionsExecuted = trades
			}
		}
	}

	if t := c.transitions.CheckTransitionNeeded(); t != nil {
		if err := c.transitions.ExecuteTransition(t); err != nil {
			return nil, err
		}
		c.noteTransition(result, t)
	}

	phase, season = c.phaseState.Snapshot()
	if err := c.validator.VerifyPostSync(ctx, c.dynastyID, season, newDate, phase); err != nil {
		return nil, err
	}
	result.CurrentPhase = phase
	result.SeasonYear = season
	result.Success = true
	result.Message = fmt.Sprintf("%s: %d games, phase %s", newDate, result.GamesPlayed, phase)
	return result, nil
}

func (c *SeasonCycleController) noteTransition(result *models.AdvanceDayResult, t *models.Transition) {
	result.PhaseTransition = t
	c.mu.Lock()
	c.currentWeek = 0
	c.mu.Unlock()
	c.logger.Infof("Phase transition on %s: %s -> %s", result.Date, t.FromPhase, t.ToPhase)
}

func (c *SeasonCycleController) recordDay(result *models.AdvanceDayResult, day *models.DayResult) {
	result.GamesPlayed += day.GamesPlayed
	result.Results = append(result.Results, day.Results...)
	result.EventsTriggered = append(result.EventsTriggered, day.EventsTriggered...)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, game := range day.Results {
		if game.Week > c.currentWeek {
			c.currentWeek = game.Week
		}
		c.lastGameID = game.GameID
	}
}

// DayCheckpoint runs between days of a multi-day loop; a non-nil error
// halts the loop.
type DayCheckpoint func(day *models.AdvanceDayResult) error

// AdvanceDays advances up to n days, stopping at the first error, at a
// phase transition, or when a checkpoint rejects a day.
func (c *SeasonCycleController) AdvanceDays(ctx context.Context, n int, checkpoints ...DayCheckpoint) ([]*models.AdvanceDayResult, error) {
	var results []*models.AdvanceDayResult
	for i := 0; i < n; i++ {
		result, err := c.AdvanceDay(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		for _, checkpoint := range checkpoints {
			if err := checkpoint(result); err != nil {
				return results, fmt.Errorf("checkpoint failed on %s: %w", result.Date, err)
			}
		}
		if result.PhaseTransition != nil {
			break
		}
	}
	return results, nil
}

// AdvanceWeek advances up to seven days, stopping early at a phase
// transition or when a checkpoint rejects a day.
func (c *SeasonCycleController) AdvanceWeek(ctx context.Context, checkpoints ...DayCheckpoint) (*models.WeekResult, error) {
	week := &models.WeekResult{}
	for i := 0; i < 7; i++ {
		day, err := c.AdvanceDay(ctx)
		if err != nil {
			return week, err
		}
		week.Days = append(week.Days, day)
		week.DaysSimulated++
		week.TotalGames += day.GamesPlayed
		for _, checkpoint := range checkpoints {
			if err := checkpoint(day); err != nil {
				return week, fmt.Errorf("checkpoint failed on %s: %w", day.Date, err)
			}
		}
		if day.PhaseTransition != nil {
			week.PhaseTransition = day.PhaseTransition
			week.StoppedEarly = i < 6
			break
		}
	}
	week.Message = fmt.Sprintf("%d days, %d games", week.DaysSimulated, week.TotalGames)
	return week, nil
}

// SimulateToPhaseEnd advances until the phase changes, bounded by
// MaxSimulationDays
func (c *SeasonCycleController) SimulateToPhaseEnd(ctx context.Context) (*models.WeekResult, error) {
	startPhase := c.CurrentPhase()
	result := &models.WeekResult{}
	for i := 0; i < MaxSimulationDays; i++ {
		day, err := c.AdvanceDay(ctx)
		if err != nil {
			return result, err
		}
		result.Days = append(result.Days, day)
		result.DaysSimulated++
		result.TotalGames += day.GamesPlayed
		if day.PhaseTransition != nil {
			result.PhaseTransition = day.PhaseTransition
			result.Message = fmt.Sprintf("%s ended after %d days", startPhase, result.DaysSimulated)
			return result, nil
		}
	}
	return result, &CalendarStateError{
		Reason: fmt.Sprintf("phase %s did not end within %d days", startPhase, MaxSimulationDays),
	}
}

// SimulateToNextOffseasonMilestone advances through the offseason until a
// milestone fires or the phase changes
func (c *SeasonCycleController) SimulateToNextOffseasonMilestone(ctx context.Context) (*models.AdvanceDayResult, error) {
	if c.CurrentPhase() != models.PhaseOffseason {
		return nil, &CalendarStateError{Reason: "not in the offseason"}
	}
	for i := 0; i < MaxSimulationDays; i++ {
		day, err := c.AdvanceDay(ctx)
		if err != nil {
			return nil, err
		}
		if len(day.EventsTriggered) > 0 || day.PhaseTransition != nil {
			return day, nil
		}
	}
	return nil, &CalendarStateError{
		Reason: fmt.Sprintf("no offseason milestone within %d days", MaxSimulationDays),
	}
}
