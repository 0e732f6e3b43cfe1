package services

import (
	"context"
	"testing"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/models"
)

// orderedStandings fabricates final standings with team 1 as the best
// AFC team and team 17 as the best NFC team.
func orderedStandings() []*models.TeamStanding {
	var standings []*models.TeamStanding
	for teamID := 1; teamID <= models.TeamCount; teamID++ {
		standings = append(standings, &models.TeamStanding{TeamID: teamID})
	}
	return standings
}

func playoffGames(t *testing.T, events *database.EventStore, gameType string) []*models.Event {
	t.Helper()
	all, err := events.GetByDynasty(context.Background(), "dyn1", models.EventTypeGame, 0)
	if err != nil {
		t.Fatalf("GetByDynasty: %v", err)
	}
	var games []*models.Event
	for _, ev := range all {
		if ev.IsPlayoffGame() && ev.GameType() == gameType {
			games = append(games, ev)
		}
	}
	return games
}

// winHome records a home win on every game of a round
func winHome(t *testing.T, events *database.EventStore, games []*models.Event) {
	t.Helper()
	for _, game := range games {
		home := game.HomeTeamID()
		game.SetGameResults(24, 10, &home)
		updated, err := events.Update(context.Background(), nil, game)
		if err != nil || !updated {
			t.Fatalf("record result for %s: updated=%v err=%v", game.GameID, updated, err)
		}
	}
}

func TestPlayoffBracketFullRun(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	events := database.NewEventStore(db)
	provider := NewDemoPlayoffProvider(events)
	ctx := context.Background()

	seeding, err := provider.SeedPlayoffs(ctx, 2024, orderedStandings())
	if err != nil {
		t.Fatalf("SeedPlayoffs: %v", err)
	}
	if seeding.AFC[0].TeamID != 1 || seeding.NFC[0].TeamID != 17 {
		t.Fatalf("top seeds = AFC %d, NFC %d", seeding.AFC[0].TeamID, seeding.NFC[0].TeamID)
	}

	wildcardStart := models.NewDate(2025, 1, 6)
	controller, err := provider.CreateController(ctx, "dyn1", seeding, wildcardStart)
	if err != nil {
		t.Fatalf("CreateController: %v", err)
	}

	wildcard := playoffGames(t, events, models.GameTypeWildcard)
	if len(wildcard) != 6 {
		t.Fatalf("wildcard games = %d", len(wildcard))
	}
	for _, game := range wildcard {
		if game.HomeTeamID() == 1 || game.AwayTeamID() == 1 ||
			game.HomeTeamID() == 17 || game.AwayTeamID() == 17 {
			t.Errorf("bye team plays in the wildcard round: %s", game.GameID)
		}
	}

	// Wildcard: home (better) seeds win, so seeds 2, 3, 4 survive.
	winHome(t, events, wildcard)
	if err := controller.AdvanceBracket(ctx, wildcardStart.AddDays(1)); err != nil {
		t.Fatalf("AdvanceBracket after wildcard: %v", err)
	}
	divisional := playoffGames(t, events, models.GameTypeDivisional)
	if len(divisional) != 4 {
		t.Fatalf("divisional games = %d", len(divisional))
	}
	seedOneHosts := 0
	for _, game := range divisional {
		if game.Date().Before(wildcardStart.AddDays(7)) {
			t.Errorf("divisional game %s too early: %s", game.GameID, game.Date())
		}
		if game.HomeTeamID() == 1 || game.HomeTeamID() == 17 {
			seedOneHosts++
		}
	}
	if seedOneHosts != 2 {
		t.Errorf("bye teams host %d divisional games, want 2", seedOneHosts)
	}

	// Advancing again before results is a no-op.
	if err := controller.AdvanceBracket(ctx, wildcardStart.AddDays(8)); err != nil {
		t.Fatalf("idempotent AdvanceBracket: %v", err)
	}
	if got := playoffGames(t, events, models.GameTypeDivisional); len(got) != 4 {
		t.Fatalf("divisional rebuilt: %d games", len(got))
	}

	winHome(t, events, playoffGames(t, events, models.GameTypeDivisional))
	if err := controller.AdvanceBracket(ctx, wildcardStart.AddDays(8)); err != nil {
		t.Fatalf("AdvanceBracket after divisional: %v", err)
	}
	conference := playoffGames(t, events, models.GameTypeConference)
	if len(conference) != 2 {
		t.Fatalf("conference games = %d", len(conference))
	}

	winHome(t, events, conference)
	if err := controller.AdvanceBracket(ctx, wildcardStart.AddDays(15)); err != nil {
		t.Fatalf("AdvanceBracket after conference: %v", err)
	}
	superBowl := playoffGames(t, events, models.GameTypeSuperBowl)
	if len(superBowl) != 1 {
		t.Fatalf("super bowls = %d", len(superBowl))
	}
	// Seed 1 teams met in the championship games and won at home.
	if superBowl[0].HomeTeamID() != 1 || superBowl[0].AwayTeamID() != 17 {
		t.Errorf("super bowl matchup: %d vs %d", superBowl[0].HomeTeamID(), superBowl[0].AwayTeamID())
	}
	if controller.IsSuperBowlComplete(ctx) {
		t.Error("unplayed Super Bowl reads complete")
	}

	winHome(t, events, superBowl)
	if !controller.IsSuperBowlComplete(ctx) {
		t.Error("Super Bowl result not visible")
	}
	winner, err := controller.SuperBowlWinner(ctx)
	if err != nil || winner != 1 {
		t.Errorf("winner = %d, err = %v", winner, err)
	}
	date, err := controller.SuperBowlDate(ctx)
	if err != nil {
		t.Fatalf("SuperBowlDate: %v", err)
	}
	if !date.Equal(conference[0].Date().AddDays(14)) {
		t.Errorf("super bowl date = %s", date)
	}

	// Thirteen games in total across the bracket.
	total := 0
	for _, gt := range []string{models.GameTypeWildcard, models.GameTypeDivisional, models.GameTypeConference, models.GameTypeSuperBowl} {
		total += len(playoffGames(t, events, gt))
	}
	if total != PlayoffGameCount {
		t.Errorf("bracket games = %d", total)
	}
}

func TestReconstructController(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	events := database.NewEventStore(db)
	provider := NewDemoPlayoffProvider(events)
	ctx := context.Background()

	if _, err := provider.ReconstructController(ctx, "dyn1", 2024); err == nil {
		t.Error("reconstruction without playoff events should fail")
	}

	seeding, err := provider.SeedPlayoffs(ctx, 2024, orderedStandings())
	if err != nil {
		t.Fatalf("SeedPlayoffs: %v", err)
	}
	if _, err := provider.CreateController(ctx, "dyn1", seeding, models.NewDate(2025, 1, 6)); err != nil {
		t.Fatalf("CreateController: %v", err)
	}

	controller, err := provider.ReconstructController(ctx, "dyn1", 2024)
	if err != nil {
		t.Fatalf("ReconstructController: %v", err)
	}
	if controller.IsSuperBowlComplete(ctx) {
		t.Error("fresh bracket reads complete")
	}
}
