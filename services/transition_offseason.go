package services

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// PlayoffsToOffseasonDeps are the narrow capabilities the
// PLAYOFFS -> OFFSEASON edge needs from its owner
type PlayoffsToOffseasonDeps struct {
	SuperBowlWinner    func() (int, error)
	SuperBowlDate      func() (models.Date, error)
	ScheduleMilestones func(season int, superBowlDate models.Date) ([]*models.Event, error)
	InsertEvents       func(events []*models.Event) error
	DeleteEvent        func(eventID string) error
	BuildSummaryEvent  func(summary *models.SeasonSummary) *models.Event
	BuildDraftOrder    func(season, championTeamID int) (*models.Event, error)
	PersistPhase       func(phase models.SeasonPhase) error
}

// PlayoffsToOffseasonHandler executes the PLAYOFFS -> OFFSEASON edge:
// read the Super Bowl winner, schedule the offseason milestones keyed to
// the Super Bowl date, record the season summary, persist the next
// draft order, and flip the persisted phase.
type PlayoffsToOffseasonHandler struct {
	dynastyID string
	deps      PlayoffsToOffseasonDeps

	steps          []string
	insertedEvents []string
	summary        *models.SeasonSummary

	logger *logging.Logger
}

// NewPlayoffsToOffseasonHandler creates the handler
func NewPlayoffsToOffseasonHandler(dynastyID string, deps PlayoffsToOffseasonDeps) *PlayoffsToOffseasonHandler {
	return &PlayoffsToOffseasonHandler{
		dynastyID: dynastyID,
		deps:      deps,
		logger:    logging.WithPrefix("transition:playoffs_to_offseason"),
	}
}

func (h *PlayoffsToOffseasonHandler) Name() string {
	return "playoffs_to_offseason"
}

// SeasonSummary returns the summary generated by the last successful
// Execute, or nil
func (h *PlayoffsToOffseasonHandler) SeasonSummary() *models.SeasonSummary {
	return h.summary
}

func (h *PlayoffsToOffseasonHandler) Execute(t *models.Transition) error {
	h.steps = nil
	h.insertedEvents = nil
	h.summary = nil

	champion, err := h.deps.SuperBowlWinner()
	if err != nil {
		return fmt.Errorf("failed to read Super Bowl winner: %w", err)
	}
	superBowlDate, err := h.deps.SuperBowlDate()
	if err != nil {
		return fmt.Errorf("failed to read Super Bowl date: %w", err)
	}
	h.steps = append(h.steps, "super_bowl_read")

	milestones, err := h.deps.ScheduleMilestones(t.Season, superBowlDate)
	if err != nil {
		return fmt.Errorf("failed to schedule offseason milestones: %w", err)
	}
	if err := h.deps.InsertEvents(milestones); err != nil {
		return fmt.Errorf("failed to insert offseason milestones: %w", err)
	}
	for _, e := range milestones {
		h.insertedEvents = append(h.insertedEvents, e.EventID)
	}
	h.steps = append(h.steps, "milestones_scheduled")

	summary := &models.SeasonSummary{
		DynastyID:      h.dynastyID,
		Season:         t.Season,
		ChampionTeamID: champion,
		SuperBowlDate:  superBowlDate,
	}
	summaryEvent := h.deps.BuildSummaryEvent(summary)
	if err := h.deps.InsertEvents([]*models.Event{summaryEvent}); err != nil {
		return fmt.Errorf("failed to persist season summary: %w", err)
	}
	h.insertedEvents = append(h.insertedEvents, summaryEvent.EventID)
	h.summary = summary
	h.steps = append(h.steps, "summary_persisted")

	draftOrder, err := h.deps.BuildDraftOrder(t.Season, champion)
	if err != nil {
		return fmt.Errorf("failed to compute draft order: %w", err)
	}
	if err := h.deps.InsertEvents([]*models.Event{draftOrder}); err != nil {
		return fmt.Errorf("failed to persist draft order: %w", err)
	}
	h.insertedEvents = append(h.insertedEvents, draftOrder.EventID)
	h.steps = append(h.steps, "draft_order_persisted")

	if err := h.deps.PersistPhase(models.PhaseOffseason); err != nil {
		return fmt.Errorf("failed to persist offseason phase: %w", err)
	}
	h.steps = append(h.steps, "phase_persisted")

	h.logger.Infof("Season %d champion: team %d; %d offseason milestones scheduled",
		t.Season, champion, len(milestones))
	return nil
}

// Rollback restores the previous persisted phase and cancels the
// milestone inserts performed in this handler, best-effort.
func (h *PlayoffsToOffseasonHandler) Rollback(t *models.Transition) error {
	var result *multierror.Error

	for i := len(h.steps) - 1; i >= 0; i-- {
		if h.steps[i] == "phase_persisted" {
			if err := h.deps.PersistPhase(t.FromPhase); err != nil {
				result = multierror.Append(result, fmt.Errorf("restore phase: %w", err))
			}
		}
	}
	for _, eventID := range h.insertedEvents {
		if err := h.deps.DeleteEvent(eventID); err != nil {
			result = multierror.Append(result, fmt.Errorf("delete event %s: %w", eventID, err))
		}
	}
	h.summary = nil
	return result.ErrorOrNil()
}
