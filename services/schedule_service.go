package services

import (
	"context"
	"fmt"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// ScheduleBuilder produces the raw game events of one season. Builders
// are pure: they never touch storage.
type ScheduleBuilder interface {
	BuildPreseason(dynastyID string, season int, startDate models.Date) []*models.Event
	BuildRegularSeason(dynastyID string, season int, startDate models.Date) []*models.Event
}

// ScheduleService makes schedule generation idempotent and durable. A
// complete schedule is returned as-is, an absent one is built and
// inserted atomically, and a partial one fails loud because it means an
// earlier batch insert was interrupted.
type ScheduleService struct {
	dynastyID string
	events    *database.EventStore
	boundary  *PhaseBoundaryDetector
	builder   ScheduleBuilder
	logger    *logging.Logger
}

// NewScheduleService creates the service
func NewScheduleService(dynastyID string, events *database.EventStore, boundary *PhaseBoundaryDetector, builder ScheduleBuilder) *ScheduleService {
	return &ScheduleService{
		dynastyID: dynastyID,
		events:    events,
		boundary:  boundary,
		builder:   builder,
		logger:    logging.WithPrefix("schedule_service"),
	}
}

// GeneratePreseason ensures the 48-game preseason schedule exists
func (s *ScheduleService) GeneratePreseason(ctx context.Context, dynastyID string, season int) ([]*models.Event, error) {
	start := models.FirstThursdayOfAugust(season)
	return s.ensure(ctx, dynastyID, season, models.SeasonTypePreseason, PreseasonGameCount,
		func() []*models.Event { return s.builder.BuildPreseason(dynastyID, season, start) })
}

// GenerateRegularSeason ensures the 272-game regular-season schedule exists
func (s *ScheduleService) GenerateRegularSeason(ctx context.Context, dynastyID string, season int, startDate models.Date) ([]*models.Event, error) {
	return s.ensure(ctx, dynastyID, season, models.SeasonTypeRegular, RegularSeasonGameCount,
		func() []*models.Event { return s.builder.BuildRegularSeason(dynastyID, season, startDate) })
}

func (s *ScheduleService) ensure(ctx context.Context, dynastyID string, season int, seasonType string, expected int, build func() []*models.Event) ([]*models.Event, error) {
	count, err := s.events.CountGames(ctx, dynastyID, season, seasonType)
	if err != nil {
		return nil, err
	}

	switch {
	case count == expected:
		s.logger.Debugf("%s schedule for %d already exists (%d games)", seasonType, season, count)
		return s.existingGames(ctx, dynastyID, season, seasonType)

	case count == 0:
		events := build()
		if len(events) != expected {
			return nil, &CalendarStateError{
				Reason: fmt.Sprintf("%s builder produced %d games, want %d", seasonType, len(events), expected),
			}
		}
		if err := s.events.InsertBatch(ctx, nil, events); err != nil {
			return nil, fmt.Errorf("failed to insert %s schedule for %d: %w", seasonType, season, err)
		}
		s.boundary.InvalidateCache()
		s.logger.Infof("Generated %s schedule for %d: %d games", seasonType, season, expected)
		return events, nil

	default:
		return nil, &CalendarStateError{
			Reason: fmt.Sprintf("%s schedule for %d is partial: %d of %d games", seasonType, season, count, expected),
		}
	}
}

func (s *ScheduleService) existingGames(ctx context.Context, dynastyID string, season int, seasonType string) ([]*models.Event, error) {
	minMS, maxMS, found, err := s.events.GameDateRange(ctx, dynastyID, season, seasonType)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	all, err := s.events.GetByDynastyAndTimestamp(ctx, dynastyID, minMS, maxMS, models.EventTypeGame)
	if err != nil {
		return nil, err
	}
	var games []*models.Event
	for _, event := range all {
		if event.Season() == season && event.SeasonType() == seasonType {
			games = append(games, event)
		}
	}
	return games, nil
}

// EnsureSeasonSchedules guarantees both preseason and regular-season
// schedules exist for a season; the lazy path for brand-new dynasties.
func (s *ScheduleService) EnsureSeasonSchedules(ctx context.Context, season int) error {
	if _, err := s.GeneratePreseason(ctx, s.dynastyID, season); err != nil {
		return err
	}
	regularStart := models.FirstThursdayOfSeptember(season)
	if _, err := s.GenerateRegularSeason(ctx, s.dynastyID, season, regularStart); err != nil {
		return err
	}
	return nil
}

// DeleteScheduleEvents removes every game event of a season; the
// compensating operation for a failed rollover.
func (s *ScheduleService) DeleteScheduleEvents(ctx context.Context, season int) (int64, error) {
	deleted, err := s.events.DeleteSeasonSchedule(ctx, nil, s.dynastyID, season)
	if err != nil {
		return 0, err
	}
	s.boundary.InvalidateCache()
	s.logger.Infof("Deleted %d schedule events for season %d", deleted, season)
	return deleted, nil
}
