package services

import (
	"fmt"

	"nfl-dynasty-go/models"
)

// DriftSeverity classifies calendar/database drift
type DriftSeverity string

const (
	DriftNone   DriftSeverity = "none"
	DriftMinor  DriftSeverity = "minor"  // 1..3 days
	DriftMajor  DriftSeverity = "major"  // 4..20 days
	DriftSevere DriftSeverity = "severe" // > 20 days
)

// RecoveryRecommendation maps severity to the options a caller may offer
func (s DriftSeverity) RecoveryRecommendation() string {
	switch s {
	case DriftNone:
		return "none"
	case DriftMinor:
		return "retry or reload from database"
	case DriftMajor:
		return "reload from database"
	case DriftSevere:
		return "abort"
	default:
		return "unknown"
	}
}

// ClassifyDrift maps a signed drift in days to its severity
func ClassifyDrift(driftDays int) DriftSeverity {
	abs := driftDays
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs == 0:
		return DriftNone
	case abs <= 3:
		return DriftMinor
	case abs <= 20:
		return DriftMajor
	default:
		return DriftSevere
	}
}

// DriftInfo describes one observed disagreement between the in-memory
// calendar and the persisted state. DriftDays is calendar minus database.
type DriftInfo struct {
	DriftDays              int
	CalendarDate           models.Date
	DBDate                 models.Date
	Severity               DriftSeverity
	Description            string
	RecoveryRecommendation string
}

// NewDriftInfo computes the drift between two dates
func NewDriftInfo(calendarDate, dbDate models.Date) DriftInfo {
	days := calendarDate.DaysBetween(dbDate)
	severity := ClassifyDrift(days)
	return DriftInfo{
		DriftDays:              days,
		CalendarDate:           calendarDate,
		DBDate:                 dbDate,
		Severity:               severity,
		Description:            fmt.Sprintf("calendar %s vs database %s (%d days)", calendarDate, dbDate, days),
		RecoveryRecommendation: severity.RecoveryRecommendation(),
	}
}

// SyncInitializationError: state could not be loaded or the calendar is
// not ready.
type SyncInitializationError struct {
	Reason string
}

func (e *SyncInitializationError) Error() string {
	return "calendar sync initialization failed: " + e.Reason
}

// SyncDriftError: observed drift beyond the acceptable threshold, or any
// non-zero drift during post-write verification.
type SyncDriftError struct {
	Drift DriftInfo
}

func (e *SyncDriftError) Error() string {
	return fmt.Sprintf("calendar drift detected (%s): %s", e.Drift.Severity, e.Drift.Description)
}

// SyncPersistenceError: a state write failed or affected zero rows
type SyncPersistenceError struct {
	Op  string
	Err error
}

func (e *SyncPersistenceError) Error() string {
	return fmt.Sprintf("state persistence failed during %s: %v", e.Op, e.Err)
}

func (e *SyncPersistenceError) Unwrap() error {
	return e.Err
}

// SyncPhaseError: stored phase disagrees with the in-memory phase
type SyncPhaseError struct {
	CalendarPhase models.SeasonPhase
	StoredPhase   models.SeasonPhase
}

func (e *SyncPhaseError) Error() string {
	return fmt.Sprintf("phase mismatch: calendar has %s, database has %s",
		e.CalendarPhase, e.StoredPhase)
}

// CalendarStateError: an invalid event or violated domain precondition
type CalendarStateError struct {
	Reason string
}

func (e *CalendarStateError) Error() string {
	return "calendar state error: " + e.Reason
}

// TransitionError wraps a handler failure during a phase transition
type TransitionError struct {
	From models.SeasonPhase
	To   models.SeasonPhase
	Err  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s failed: %v", e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
