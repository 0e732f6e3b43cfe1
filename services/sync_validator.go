package services

import (
	"context"
	"fmt"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// DefaultMaxAcceptableDrift is the pre-sync drift threshold in days
const DefaultMaxAcceptableDrift = 3

// CalendarView is the narrow read-only view of the controller's calendar
// that the validator compares against the database.
type CalendarView interface {
	IsInitialized() bool
	CurrentDate() models.Date
	CurrentPhase() models.SeasonPhase
}

// SyncValidator detects drift between the in-memory calendar and the
// persisted DynastyState. It only observes and classifies; it never
// mutates state.
type SyncValidator struct {
	stateRepo          *database.DynastyStateRepository
	calendar           CalendarView
	maxAcceptableDrift int
	logger             *logging.Logger
}

// NewSyncValidator creates a validator with the default drift threshold
func NewSyncValidator(stateRepo *database.DynastyStateRepository, calendar CalendarView) *SyncValidator {
	return &SyncValidator{
		stateRepo:          stateRepo,
		calendar:           calendar,
		maxAcceptableDrift: DefaultMaxAcceptableDrift,
		logger:             logging.WithPrefix("sync_validator"),
	}
}

// SetMaxAcceptableDrift overrides the pre-sync drift threshold
func (v *SyncValidator) SetMaxAcceptableDrift(days int) {
	v.maxAcceptableDrift = days
}

// ValidatePreSync runs the ordered pre-write checks and returns the first
// issue found: calendar readiness, state existence, drift threshold, and
// best-effort phase parity. On success the returned DriftInfo has
// severity none.
func (v *SyncValidator) ValidatePreSync(ctx context.Context, dynastyID string, season int) (*DriftInfo, error) {
	if v.calendar == nil || !v.calendar.IsInitialized() {
		return nil, &SyncInitializationError{Reason: "calendar is not initialized"}
	}
	calendarDate := v.calendar.CurrentDate()
	if calendarDate.IsZero() {
		return nil, &SyncInitializationError{Reason: "calendar yields no valid date"}
	}

	state, err := v.stateRepo.GetCurrent(ctx, dynastyID, season)
	if err != nil {
		return nil, &SyncInitializationError{Reason: fmt.Sprintf("failed to load dynasty state: %v", err)}
	}
	if state == nil {
		return nil, &SyncInitializationError{
			Reason: fmt.Sprintf("no dynasty state for %s season %d", dynastyID, season),
		}
	}
	if state.CurrentDate.IsZero() {
		return nil, &SyncInitializationError{Reason: "dynasty state has no current_date"}
	}

	drift := NewDriftInfo(calendarDate, state.CurrentDate)
	if abs(drift.DriftDays) > v.maxAcceptableDrift {
		v.logger.Errorf("Pre-sync drift beyond threshold: %s", drift.Description)
		return &drift, &SyncDriftError{Drift: drift}
	}

	if calendarPhase := v.calendar.CurrentPhase(); calendarPhase != state.CurrentPhase {
		return &drift, &SyncPhaseError{
			CalendarPhase: calendarPhase,
			StoredPhase:   state.CurrentPhase,
		}
	}

	return &drift, nil
}

// VerifyPostSync re-reads the state and the calendar after a write and
// confirms both match what was just written. Any non-zero drift raises a
// drift fault; a phase disagreement raises a phase fault.
func (v *SyncValidator) VerifyPostSync(ctx context.Context, dynastyID string, season int, expectedDate models.Date, expectedPhase models.SeasonPhase) error {
	state, err := v.stateRepo.GetCurrent(ctx, dynastyID, season)
	if err != nil {
		return &SyncPersistenceError{Op: "post_sync_read", Err: err}
	}
	if state == nil {
		return &SyncPersistenceError{
			Op:  "post_sync_read",
			Err: fmt.Errorf("no dynasty state for %s season %d", dynastyID, season),
		}
	}

	calendarDate := v.calendar.CurrentDate()

	if !state.CurrentDate.Equal(expectedDate) {
		drift := NewDriftInfo(expectedDate, state.CurrentDate)
		v.logger.Errorf("Post-sync database date mismatch: %s", drift.Description)
		return &SyncDriftError{Drift: drift}
	}
	if !calendarDate.Equal(expectedDate) {
		drift := NewDriftInfo(calendarDate, expectedDate)
		v.logger.Errorf("Post-sync calendar date mismatch: %s", drift.Description)
		return &SyncDriftError{Drift: drift}
	}
	if drift := NewDriftInfo(calendarDate, state.CurrentDate); drift.DriftDays != 0 {
		return &SyncDriftError{Drift: drift}
	}

	if state.CurrentPhase != expectedPhase {
		return &SyncPhaseError{CalendarPhase: expectedPhase, StoredPhase: state.CurrentPhase}
	}
	if calendarPhase := v.calendar.CurrentPhase(); calendarPhase != expectedPhase {
		return &SyncPhaseError{CalendarPhase: calendarPhase, StoredPhase: expectedPhase}
	}

	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
