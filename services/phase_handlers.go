package services

import (
	"context"
	"fmt"
	"time"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/interfaces"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// PhaseHandler simulates one calendar day within a specific phase. All of
// SimulateDay's writes go through the caller's transaction; FinalizeDay
// runs after that transaction has committed.
type PhaseHandler interface {
	Phase() models.SeasonPhase
	SimulateDay(ctx context.Context, tx *database.TxContext, date models.Date) (*models.DayResult, error)
	FinalizeDay(ctx context.Context, date models.Date) error
}

// GamePhaseHandler drives the three game-playing phases. Preseason and
// regular season just simulate the day's games; playoffs additionally
// advance the bracket so the next round gets scheduled.
type GamePhaseHandler struct {
	phase    models.SeasonPhase
	executor *SimulationExecutor

	// playoffController returns the live bracket, or nil outside the
	// playoffs. A getter because the controller is replaced each season.
	playoffController func() interfaces.PlayoffController

	logger *logging.Logger
}

// NewGamePhaseHandler creates a handler for one game-playing phase
func NewGamePhaseHandler(phase models.SeasonPhase, executor *SimulationExecutor, playoffController func() interfaces.PlayoffController) *GamePhaseHandler {
	return &GamePhaseHandler{
		phase:             phase,
		executor:          executor,
		playoffController: playoffController,
		logger:            logging.WithPrefix("phase:" + string(phase)),
	}
}

func (h *GamePhaseHandler) Phase() models.SeasonPhase {
	return h.phase
}

func (h *GamePhaseHandler) SimulateDay(ctx context.Context, tx *database.TxContext, date models.Date) (*models.DayResult, error) {
	if h.phase == models.PhasePlayoffs && h.playoffController() == nil {
		return nil, &CalendarStateError{Reason: "no playoff controller during playoffs"}
	}

	result, err := h.executor.SimulateDayTx(ctx, tx, date)
	if err != nil {
		return nil, err
	}
	result.CurrentPhase = h.phase
	return result, nil
}

// FinalizeDay advances the playoff bracket once the day's results are
// committed; the next round's inserts run in their own transaction.
func (h *GamePhaseHandler) FinalizeDay(ctx context.Context, date models.Date) error {
	if h.phase != models.PhasePlayoffs {
		return nil
	}
	controller := h.playoffController()
	if controller == nil {
		return &CalendarStateError{Reason: "no playoff controller during playoffs"}
	}
	if err := controller.AdvanceBracket(ctx, date); err != nil {
		return fmt.Errorf("failed to advance playoff bracket: %w", err)
	}
	return nil
}

// MilestoneRunner executes the side effects of one milestone event inside
// the day's transaction and returns results to record on the event
type MilestoneRunner func(ctx context.Context, tx *database.TxContext, event *models.Event) (map[string]interface{}, error)

// OffseasonPhaseHandler fires the milestone events that fall on the
// current day. Runners are registered per event type; a milestone with no
// runner is still marked fired so it never re-triggers.
type OffseasonPhaseHandler struct {
	dynastyID string
	events    *database.EventStore
	settings  models.SimulationSettings
	runners   map[string]MilestoneRunner
	logger    *logging.Logger
}

// NewOffseasonPhaseHandler creates the handler with no runners registered
func NewOffseasonPhaseHandler(dynastyID string, events *database.EventStore, settings models.SimulationSettings) *OffseasonPhaseHandler {
	return &OffseasonPhaseHandler{
		dynastyID: dynastyID,
		events:    events,
		settings:  settings,
		runners:   make(map[string]MilestoneRunner),
		logger:    logging.WithPrefix("phase:offseason"),
	}
}

// RegisterRunner binds a runner to a milestone event type
func (h *OffseasonPhaseHandler) RegisterRunner(eventType string, runner MilestoneRunner) {
	h.runners[eventType] = runner
}

func (h *OffseasonPhaseHandler) Phase() models.SeasonPhase {
	return models.PhaseOffseason
}

func (h *OffseasonPhaseHandler) SimulateDay(ctx context.Context, tx *database.TxContext, date models.Date) (*models.DayResult, error) {
	events, err := h.events.GetByDynastyAndTimestamp(ctx, h.dynastyID,
		date.StartOfDayMillis(), date.EndOfDayMillis(), "")
	if err != nil {
		return nil, fmt.Errorf("failed to load events for %s: %w", date, err)
	}

	var triggered []*models.Event
	for _, event := range events {
		if event.IsGame() || event.HasResults() {
			continue
		}

		results := map[string]interface{}{}
		if h.settings.SkipOffseasonEvents {
			results["skipped"] = true
		} else if runner, ok := h.runners[event.EventType]; ok {
			results, err = runner(ctx, tx, event)
			if err != nil {
				return nil, fmt.Errorf("milestone %s (%s) failed: %w", event.EventType, event.EventID, err)
			}
		}

		event.MarkFired(time.Now(), results)
		updated, err := h.events.Update(ctx, tx, event)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, &CalendarStateError{
				Reason: fmt.Sprintf("milestone event %s vanished while firing", event.EventID),
			}
		}
		triggered = append(triggered, event)
		h.logger.Infof("Fired %s on %s", event.EventType, date)
	}

	return &models.DayResult{
		EventsTriggered: triggered,
		Success:         true,
		CurrentPhase:    models.PhaseOffseason,
	}, nil
}

func (h *OffseasonPhaseHandler) FinalizeDay(ctx context.Context, date models.Date) error {
	return nil
}
