package services

import (
	"context"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// Milestone offsets in days after the Super Bowl
const (
	offsetFranchiseTag    = 22
	offsetFreeAgency      = 32
	offsetDraftDay        = 81
	offsetScheduleRelease = 95
)

// DemoOffseasonScheduler lays out the standard offseason milestones
// keyed to the Super Bowl date. Events are returned unsaved; the
// transition handler inserts them so the inserts are tracked for
// rollback.
type DemoOffseasonScheduler struct {
	logger *logging.Logger
}

// NewDemoOffseasonScheduler creates the scheduler
func NewDemoOffseasonScheduler() *DemoOffseasonScheduler {
	return &DemoOffseasonScheduler{logger: logging.WithPrefix("demo_offseason")}
}

// ScheduleEvents produces the milestone events of one offseason
func (s *DemoOffseasonScheduler) ScheduleEvents(ctx context.Context, dynastyID string, season int, superBowlDate models.Date) ([]*models.Event, error) {
	milestones := []struct {
		eventType string
		offset    int
	}{
		{models.EventTypeFranchiseTagDeadline, offsetFranchiseTag},
		{models.EventTypeFreeAgencyOpen, offsetFreeAgency},
		{models.EventTypeDraftDay, offsetDraftDay},
		{models.EventTypeScheduleRelease, offsetScheduleRelease},
	}

	events := make([]*models.Event, 0, len(milestones))
	for _, m := range milestones {
		date := superBowlDate.AddDays(m.offset)
		events = append(events, models.NewMilestoneEvent(dynastyID, m.eventType, date, season, nil))
		s.logger.Debugf("Milestone %s on %s", m.eventType, date)
	}
	return events, nil
}
