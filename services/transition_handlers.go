package services

import (
	"fmt"

	"nfl-dynasty-go/interfaces"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// PreseasonToRegularHandler executes the PRESEASON -> REGULAR_SEASON
// edge. Schedules already exist; the only work is flipping the persisted
// phase.
type PreseasonToRegularHandler struct {
	persistPhase func(phase models.SeasonPhase) error
	logger       *logging.Logger
}

// NewPreseasonToRegularHandler creates the handler
func NewPreseasonToRegularHandler(persistPhase func(models.SeasonPhase) error) *PreseasonToRegularHandler {
	return &PreseasonToRegularHandler{
		persistPhase: persistPhase,
		logger:       logging.WithPrefix("transition:pre_to_regular"),
	}
}

func (h *PreseasonToRegularHandler) Name() string {
	return "preseason_to_regular_season"
}

func (h *PreseasonToRegularHandler) Execute(t *models.Transition) error {
	if err := h.persistPhase(models.PhaseRegularSeason); err != nil {
		return fmt.Errorf("failed to persist regular-season phase: %w", err)
	}
	h.logger.Infof("Season %d regular season begins", t.Season)
	return nil
}

func (h *PreseasonToRegularHandler) Rollback(t *models.Transition) error {
	return h.persistPhase(t.FromPhase)
}

// RegularToPlayoffsDeps are the narrow capabilities the
// REGULAR_SEASON -> PLAYOFFS edge needs from its owner
type RegularToPlayoffsDeps struct {
	GetFinalStandings func(season int) ([]*models.TeamStanding, error)
	SeedPlayoffs      func(season int, standings []*models.TeamStanding) (*models.PlayoffSeeding, error)
	CreateController  func(seeding *models.PlayoffSeeding) (interfaces.PlayoffController, error)
	SetController     func(controller interfaces.PlayoffController)
	PersistPhase      func(phase models.SeasonPhase) error
}

// RegularToPlayoffsHandler executes the REGULAR_SEASON -> PLAYOFFS edge:
// fetch final standings, seed the field, build the bracket controller,
// and flip the persisted phase.
type RegularToPlayoffsHandler struct {
	deps   RegularToPlayoffsDeps
	steps  []string
	logger *logging.Logger
}

// NewRegularToPlayoffsHandler creates the handler
func NewRegularToPlayoffsHandler(deps RegularToPlayoffsDeps) *RegularToPlayoffsHandler {
	return &RegularToPlayoffsHandler{
		deps:   deps,
		logger: logging.WithPrefix("transition:regular_to_playoffs"),
	}
}

func (h *RegularToPlayoffsHandler) Name() string {
	return "regular_season_to_playoffs"
}

func (h *RegularToPlayoffsHandler) Execute(t *models.Transition) error {
	h.steps = nil

	standings, err := h.deps.GetFinalStandings(t.Season)
	if err != nil {
		return fmt.Errorf("failed to load final standings: %w", err)
	}
	if len(standings) == 0 {
		return &CalendarStateError{Reason: fmt.Sprintf("no standings for season %d", t.Season)}
	}
	h.steps = append(h.steps, "standings_loaded")

	seeding, err := h.deps.SeedPlayoffs(t.Season, standings)
	if err != nil {
		return fmt.Errorf("failed to seed playoffs: %w", err)
	}
	if seeding.IsEmpty() {
		return &CalendarStateError{Reason: "playoff seeding is empty"}
	}
	h.steps = append(h.steps, "playoffs_seeded")

	controller, err := h.deps.CreateController(seeding)
	if err != nil {
		return fmt.Errorf("failed to create playoff controller: %w", err)
	}
	if controller == nil {
		return &CalendarStateError{Reason: "playoff controller factory returned nil"}
	}
	h.deps.SetController(controller)
	h.steps = append(h.steps, "controller_created")

	if err := h.deps.PersistPhase(models.PhasePlayoffs); err != nil {
		return fmt.Errorf("failed to persist playoffs phase: %w", err)
	}
	h.steps = append(h.steps, "phase_persisted")

	h.logger.Infof("Season %d playoffs seeded: %d AFC, %d NFC",
		t.Season, len(seeding.AFC), len(seeding.NFC))
	return nil
}

// Rollback restores the previous persisted phase; bracket state owned by
// the playoff controller is left to that controller's own idempotency.
func (h *RegularToPlayoffsHandler) Rollback(t *models.Transition) error {
	for i := len(h.steps) - 1; i >= 0; i-- {
		switch h.steps[i] {
		case "phase_persisted":
			if err := h.deps.PersistPhase(t.FromPhase); err != nil {
				return err
			}
		case "controller_created":
			h.deps.SetController(nil)
		}
	}
	return nil
}
