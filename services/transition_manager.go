package services

import (
	"fmt"
	"sync"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// TransitionKey identifies one edge of the phase state machine
type TransitionKey struct {
	From models.SeasonPhase
	To   models.SeasonPhase
}

// The four legal edges
var (
	EdgePreseasonToRegular   = TransitionKey{models.PhasePreseason, models.PhaseRegularSeason}
	EdgeRegularToPlayoffs    = TransitionKey{models.PhaseRegularSeason, models.PhasePlayoffs}
	EdgePlayoffsToOffseason  = TransitionKey{models.PhasePlayoffs, models.PhaseOffseason}
	EdgeOffseasonToPreseason = TransitionKey{models.PhaseOffseason, models.PhasePreseason}
)

// AllEdges lists the legal edges in cycle order
func AllEdges() []TransitionKey {
	return []TransitionKey{
		EdgePreseasonToRegular,
		EdgeRegularToPlayoffs,
		EdgePlayoffsToOffseason,
		EdgeOffseasonToPreseason,
	}
}

// TransitionHandler performs the bookkeeping for one edge. The handler
// owns all side effects; the manager owns only phase bookkeeping.
// Rollback is invoked best-effort when the manager unwinds a failed
// execution, and must only undo the substeps that succeeded.
type TransitionHandler interface {
	Name() string
	Execute(t *models.Transition) error
	Rollback(t *models.Transition) error
}

// PhaseTransitionManager drives the four-edge phase state machine.
// CheckTransitionNeeded is pure; ExecuteTransition performs the edge and
// rolls the phase back on failure. Transitions are serialized and never
// nest.
type PhaseTransitionManager struct {
	phaseState *models.PhaseState
	checker    *PhaseCompletionChecker

	mu        sync.Mutex
	executing bool
	handlers  map[TransitionKey]TransitionHandler

	logger *logging.Logger
}

// NewPhaseTransitionManager creates a manager with no handlers registered
func NewPhaseTransitionManager(phaseState *models.PhaseState, checker *PhaseCompletionChecker) *PhaseTransitionManager {
	return &PhaseTransitionManager{
		phaseState: phaseState,
		checker:    checker,
		handlers:   make(map[TransitionKey]TransitionHandler),
		logger:     logging.WithPrefix("transition_manager"),
	}
}

// RegisterHandler binds a handler to an edge
func (m *PhaseTransitionManager) RegisterHandler(key TransitionKey, handler TransitionHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[key] = handler
}

// HasHandler reports whether an edge has a handler
func (m *PhaseTransitionManager) HasHandler(key TransitionKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.handlers[key]
	return ok
}

// RegisteredHandlers returns the edges with handlers, in cycle order
func (m *PhaseTransitionManager) RegisteredHandlers() []TransitionKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []TransitionKey
	for _, edge := range AllEdges() {
		if _, ok := m.handlers[edge]; ok {
			keys = append(keys, edge)
		}
	}
	return keys
}

// ValidateHandlers confirms all four edges are covered; called at
// construction so a missing edge fails fast rather than mid-season.
func (m *PhaseTransitionManager) ValidateHandlers() error {
	for _, edge := range AllEdges() {
		if !m.HasHandler(edge) {
			return fmt.Errorf("no handler registered for edge %s -> %s", edge.From, edge.To)
		}
	}
	return nil
}

// CheckTransitionNeeded inspects the current phase and the completion
// checker and returns the pending transition, or nil. Pure: no side
// effects.
func (m *PhaseTransitionManager) CheckTransitionNeeded() *models.Transition {
	phase, season := m.phaseState.Snapshot()
	if !m.checker.IsPhaseComplete(phase) {
		return nil
	}

	return &models.Transition{
		FromPhase: phase,
		ToPhase:   phase.Next(),
		Season:    season,
		Reason:    fmt.Sprintf("%s complete", phase),
	}
}

// ExecuteTransition performs one edge: validates the from-phase, runs the
// handler, and on success flips PhaseState. On handler failure the
// handler's rollback runs best-effort, the phase stays at its previous
// value, and a TransitionError wrapping the cause is returned.
func (m *PhaseTransitionManager) ExecuteTransition(t *models.Transition) error {
	m.mu.Lock()
	if m.executing {
		m.mu.Unlock()
		return &CalendarStateError{Reason: "nested phase transitions are not allowed"}
	}
	m.executing = true
	handler, ok := m.handlers[TransitionKey{From: t.FromPhase, To: t.ToPhase}]
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.executing = false
		m.mu.Unlock()
	}()

	current := m.phaseState.Phase()
	if current != t.FromPhase {
		return &CalendarStateError{
			Reason: fmt.Sprintf("transition expects phase %s but current phase is %s", t.FromPhase, current),
		}
	}
	if !ok {
		return &CalendarStateError{
			Reason: fmt.Sprintf("no handler for edge %s -> %s", t.FromPhase, t.ToPhase),
		}
	}

	m.logger.Infof("Executing transition %s -> %s (%s)", t.FromPhase, t.ToPhase, t.Reason)

	if err := handler.Execute(t); err != nil {
		m.logger.Errorf("Handler %s failed: %v; rolling back", handler.Name(), err)
		if rbErr := handler.Rollback(t); rbErr != nil {
			m.logger.Errorf("Rollback of %s reported: %v", handler.Name(), rbErr)
		}
		// The phase was never flipped, so in-memory state is already the
		// previous phase.
		return &TransitionError{From: t.FromPhase, To: t.ToPhase, Err: err}
	}

	m.phaseState.SetPhase(t.ToPhase)
	m.logger.Infof("Transition complete: now in %s", t.ToPhase)
	return nil
}
