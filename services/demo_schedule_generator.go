package services

import (
	"fmt"
	"time"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// Schedule shape constants. 3 preseason weeks and 17 regular-season
// weeks of 16 games each give the 48/272 totals the completion
// predicates count against.
const (
	preseasonWeeks    = 3
	regularWeeks      = 17
	gamesPerWeek      = models.TeamCount / 2
	regularRoundShift = 10 // keeps preseason and regular pairings distinct
)

// Kickoff offsets into the day, in local time
const (
	kickoffEarly = 13 * time.Hour
	kickoffLate  = 17 * time.Hour
	kickoffPrime = 20 * time.Hour
)

// DemoScheduleBuilder builds deterministic round-robin schedules. Real
// deployments replace it with a generator that honors bye weeks and
// strength-of-schedule rules.
type DemoScheduleBuilder struct {
	logger *logging.Logger
}

// NewDemoScheduleBuilder creates the builder
func NewDemoScheduleBuilder() *DemoScheduleBuilder {
	return &DemoScheduleBuilder{logger: logging.WithPrefix("demo_schedule")}
}

// BuildPreseason produces 48 games across 3 weeks. Week 1 falls a week
// after startDate so a dynasty created on the phase start date has a
// quiet first few days.
func (b *DemoScheduleBuilder) BuildPreseason(dynastyID string, season int, startDate models.Date) []*models.Event {
	var events []*models.Event
	for week := 1; week <= preseasonWeeks; week++ {
		weekStart := startDate.AddDays(7 * week)
		for i, pair := range roundPairings(week - 1) {
			// Split each slate between Thursday and Saturday.
			gameDate := weekStart
			kickoff := kickoffLate
			if i >= gamesPerWeek/2 {
				gameDate = weekStart.AddDays(2)
				kickoff = kickoffEarly
			}
			gameID := fmt.Sprintf("%s%d_w%d_g%02d", models.GameIDPrefixPreseason, season, week, i+1)
			events = append(events, models.NewGameEvent(dynastyID, gameID, gameDate, kickoff,
				week, models.GameTypePreseason, season, pair[0], pair[1]))
		}
	}
	b.logger.Debugf("Built %d preseason games for %d", len(events), season)
	return events
}

// BuildRegularSeason produces 272 games across 17 weeks starting on
// startDate: one Thursday game, fourteen Sunday games, one Monday game
// per week.
func (b *DemoScheduleBuilder) BuildRegularSeason(dynastyID string, season int, startDate models.Date) []*models.Event {
	var events []*models.Event
	for week := 1; week <= regularWeeks; week++ {
		thursday := startDate.AddDays(7 * (week - 1))
		for i, pair := range roundPairings(week - 1 + regularRoundShift) {
			var gameDate models.Date
			var kickoff time.Duration
			switch {
			case i == 0:
				gameDate, kickoff = thursday, kickoffPrime
			case i == gamesPerWeek-1:
				gameDate, kickoff = thursday.AddDays(4), kickoffPrime
			case i <= gamesPerWeek/2:
				gameDate, kickoff = thursday.AddDays(3), kickoffEarly
			default:
				gameDate, kickoff = thursday.AddDays(3), kickoffLate
			}
			gameID := fmt.Sprintf("regular_%d_w%d_g%02d", season, week, i+1)
			events = append(events, models.NewGameEvent(dynastyID, gameID, gameDate, kickoff,
				week, models.GameTypeRegular, season, pair[0], pair[1]))
		}
	}
	b.logger.Debugf("Built %d regular-season games for %d", len(events), season)
	return events
}

// roundPairings generates 16 matchups by the circle method: team 32 is
// fixed, teams 1..31 rotate by round. Home advantage alternates with the
// round parity.
func roundPairings(round int) [][2]int {
	const n = models.TeamCount
	rot := make([]int, n-1)
	for i := range rot {
		rot[i] = ((i + round) % (n - 1)) + 1
	}

	pairs := make([][2]int, 0, n/2)
	if round%2 == 0 {
		pairs = append(pairs, [2]int{n, rot[0]})
	} else {
		pairs = append(pairs, [2]int{rot[0], n})
	}
	for i := 1; i < n/2; i++ {
		a, b := rot[i], rot[n-1-i]
		if (round+i)%2 == 0 {
			pairs = append(pairs, [2]int{a, b})
		} else {
			pairs = append(pairs, [2]int{b, a})
		}
	}
	return pairs
}
