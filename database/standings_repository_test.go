package database

import (
	"context"
	"errors"
	"testing"

	"nfl-dynasty-go/models"
)

func TestResetStandingsCreates32Rows(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewStandingsRepository(db)
	ctx := context.Background()

	if err := repo.ResetStandings(ctx, nil, "dyn1", 2024, models.SeasonTypeRegular); err != nil {
		t.Fatalf("ResetStandings: %v", err)
	}

	standings, err := repo.GetStandings(ctx, "dyn1", 2024, models.SeasonTypeRegular)
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}
	if len(standings) != models.TeamCount {
		t.Fatalf("rows = %d, want %d", len(standings), models.TeamCount)
	}
	for _, s := range standings {
		if s.Wins != 0 || s.Losses != 0 || s.Ties != 0 {
			t.Fatalf("team %d not zeroed: %+v", s.TeamID, s)
		}
	}

	// Reset again is a clean replace, not an accumulation.
	if err := repo.ResetStandings(ctx, nil, "dyn1", 2024, models.SeasonTypeRegular); err != nil {
		t.Fatalf("second ResetStandings: %v", err)
	}
	standings, _ = repo.GetStandings(ctx, "dyn1", 2024, models.SeasonTypeRegular)
	if len(standings) != models.TeamCount {
		t.Errorf("rows after second reset = %d", len(standings))
	}
}

func TestRecordGameResultSplits(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewStandingsRepository(db)
	ctx := context.Background()

	if err := repo.ResetStandings(ctx, nil, "dyn1", 2024, models.SeasonTypeRegular); err != nil {
		t.Fatalf("ResetStandings: %v", err)
	}

	// Teams 1 (BUF) and 2 (MIA) are AFC East rivals.
	winner := 1
	result := &models.GameResult{
		GameID: "g1", HomeTeamID: 1, AwayTeamID: 2,
		HomeScore: 27, AwayScore: 20, WinnerTeamID: &winner,
		Week: 1, GameType: models.GameTypeRegular,
	}
	if err := repo.RecordGameResult(ctx, nil, "dyn1", 2024, models.SeasonTypeRegular, result); err != nil {
		t.Fatalf("RecordGameResult: %v", err)
	}

	standings, _ := repo.GetStandings(ctx, "dyn1", 2024, models.SeasonTypeRegular)
	byTeam := map[int]*models.TeamStanding{}
	for _, s := range standings {
		byTeam[s.TeamID] = s
	}

	home := byTeam[1]
	if home.Wins != 1 || home.DivisionWins != 1 || home.ConferenceWins != 1 || home.HomeWins != 1 {
		t.Errorf("home splits: %+v", home)
	}
	if home.PointsFor != 27 || home.PointsAgainst != 20 {
		t.Errorf("home points: %d-%d", home.PointsFor, home.PointsAgainst)
	}

	away := byTeam[2]
	if away.Losses != 1 || away.DivisionLosses != 1 || away.AwayLosses != 1 {
		t.Errorf("away splits: %+v", away)
	}

	// Winner sorts first.
	if standings[0].TeamID != 1 {
		t.Errorf("leader = team %d", standings[0].TeamID)
	}
}

func TestRecordGameResultTie(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewStandingsRepository(db)
	ctx := context.Background()

	if err := repo.ResetStandings(ctx, nil, "dyn1", 2024, models.SeasonTypeRegular); err != nil {
		t.Fatalf("ResetStandings: %v", err)
	}

	// Teams 1 (AFC) and 17 (NFC): no division or conference split.
	result := &models.GameResult{
		GameID: "g1", HomeTeamID: 1, AwayTeamID: 17,
		HomeScore: 20, AwayScore: 20, WinnerTeamID: nil,
		Week: 1, GameType: models.GameTypeRegular,
	}
	if err := repo.RecordGameResult(ctx, nil, "dyn1", 2024, models.SeasonTypeRegular, result); err != nil {
		t.Fatalf("RecordGameResult: %v", err)
	}

	standings, _ := repo.GetStandings(ctx, "dyn1", 2024, models.SeasonTypeRegular)
	for _, s := range standings {
		if s.TeamID == 1 {
			if s.Ties != 1 || s.HomeTies != 1 || s.ConferenceTies != 0 || s.DivisionTies != 0 {
				t.Errorf("home tie splits: %+v", s)
			}
		}
		if s.TeamID == 17 && (s.Ties != 1 || s.AwayTies != 1) {
			t.Errorf("away tie splits: %+v", s)
		}
	}
}

func TestRecordGameResultMissingRow(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewStandingsRepository(db)
	ctx := context.Background()

	winner := 1
	result := &models.GameResult{
		GameID: "g1", HomeTeamID: 1, AwayTeamID: 2,
		HomeScore: 21, AwayScore: 14, WinnerTeamID: &winner,
		Week: 1, GameType: models.GameTypeRegular,
	}
	err := repo.RecordGameResult(ctx, nil, "dyn1", 2024, models.SeasonTypeRegular, result)
	if !errors.Is(err, ErrNoRowsAffected) {
		t.Errorf("err = %v, want ErrNoRowsAffected without a reset", err)
	}
}
