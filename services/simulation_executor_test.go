package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/models"
)

func newFastExecutor(t *testing.T, db *database.DB) (*SimulationExecutor, *database.EventStore) {
	t.Helper()
	events := database.NewEventStore(db)
	executor := NewSimulationExecutor("dyn1", 2024, db,
		events, database.NewGameRepository(db), database.NewPlayerStatsRepository(db),
		database.NewStandingsRepository(db), NewDemoGameSimulator(1),
		models.SimulationSettings{SkipGameSimulation: true})
	return executor, events
}

func TestSimulateDayIdempotent(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	executor, events := newFastExecutor(t, db)
	ctx := context.Background()

	standings := database.NewStandingsRepository(db)
	if err := standings.ResetStandings(ctx, nil, "dyn1", 2024, models.SeasonTypeRegular); err != nil {
		t.Fatalf("ResetStandings: %v", err)
	}

	gameDay := models.NewDate(2024, 9, 8)
	for i, matchup := range [][2]int{{1, 2}, {3, 4}} {
		ev := models.NewGameEvent("dyn1", fmt.Sprintf("regular_2024_w1_g%02d", i+1),
			gameDay, 13*time.Hour, 1, models.GameTypeRegular, 2024, matchup[0], matchup[1])
		if err := events.Insert(ctx, nil, ev); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	day, err := executor.SimulateDay(ctx, gameDay)
	if err != nil {
		t.Fatalf("SimulateDay: %v", err)
	}
	if day.GamesPlayed != 2 || len(day.Results) != 2 {
		t.Fatalf("games played = %d", day.GamesPlayed)
	}

	completed, err := events.CountCompletedGames(ctx, "dyn1", 2024, models.SeasonTypeRegular)
	if err != nil || completed != 2 {
		t.Fatalf("completed = %d, err = %v", completed, err)
	}

	// Replaying the same day does nothing.
	day, err = executor.SimulateDay(ctx, gameDay)
	if err != nil {
		t.Fatalf("replay SimulateDay: %v", err)
	}
	if day.GamesPlayed != 0 {
		t.Errorf("replay simulated %d games", day.GamesPlayed)
	}

	// Standings absorbed exactly one result per team.
	rows, err := standings.GetStandings(ctx, "dyn1", 2024, models.SeasonTypeRegular)
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}
	for _, s := range rows {
		games := s.Wins + s.Losses + s.Ties
		switch s.TeamID {
		case 1, 2, 3, 4:
			if games != 1 {
				t.Errorf("team %d games = %d", s.TeamID, games)
			}
		default:
			if games != 0 {
				t.Errorf("idle team %d games = %d", s.TeamID, games)
			}
		}
	}
}

func TestSimulateDayRollsBackOnFailure(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	executor, events := newFastExecutor(t, db)
	ctx := context.Background()

	// No standings rows exist, so the standings write must fail and take
	// the whole day's transaction with it.
	gameDay := models.NewDate(2024, 9, 8)
	ev := models.NewGameEvent("dyn1", "regular_2024_w1_g01",
		gameDay, 13*time.Hour, 1, models.GameTypeRegular, 2024, 1, 2)
	if err := events.Insert(ctx, nil, ev); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if _, err := executor.SimulateDay(ctx, gameDay); err == nil {
		t.Fatal("SimulateDay should fail without standings rows")
	}

	completed, err := events.CountCompletedGames(ctx, "dyn1", 2024, models.SeasonTypeRegular)
	if err != nil || completed != 0 {
		t.Errorf("completed = %d after rollback, err = %v", completed, err)
	}
}

func TestSimulateDayInvalidMatchup(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	executor, events := newFastExecutor(t, db)
	ctx := context.Background()

	gameDay := models.NewDate(2024, 9, 8)
	ev := models.NewGameEvent("dyn1", "regular_2024_w1_g01",
		gameDay, 13*time.Hour, 1, models.GameTypeRegular, 2024, 5, 5)
	if err := events.Insert(ctx, nil, ev); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if _, err := executor.SimulateDay(ctx, gameDay); err == nil {
		t.Error("a team cannot play itself")
	}
}

func TestFastOutcomeDeterministic(t *testing.T) {
	a := fastOutcome("regular_2024_w1_g01", 1, 2, false)
	b := fastOutcome("regular_2024_w1_g01", 1, 2, false)
	if a.HomeScore != b.HomeScore || a.AwayScore != b.AwayScore {
		t.Errorf("outcomes differ: %d-%d vs %d-%d", a.HomeScore, a.AwayScore, b.HomeScore, b.AwayScore)
	}

	playoff := fastOutcome("playoff_2024_wildcard_1", 1, 2, true)
	if playoff.HomeScore == playoff.AwayScore {
		t.Error("playoff fast outcome tied")
	}
}
