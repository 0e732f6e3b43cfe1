package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/interfaces"
	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// PlayoffTeamCount is the field size: seven seeds per conference
const PlayoffTeamCount = 14

// Playoff week numbers continue the regular-season count
const (
	weekWildcard   = 18
	weekDivisional = 19
	weekConference = 20
	weekSuperBowl  = 21
)

// DemoPlayoffProvider seeds brackets from final standings and builds
// event-backed controllers over them
type DemoPlayoffProvider struct {
	events *database.EventStore
	logger *logging.Logger
}

// NewDemoPlayoffProvider creates the provider
func NewDemoPlayoffProvider(events *database.EventStore) *DemoPlayoffProvider {
	return &DemoPlayoffProvider{
		events: events,
		logger: logging.WithPrefix("demo_playoffs"),
	}
}

// SeedPlayoffs takes the top seven of each conference from standings
// already ordered best-to-worst
func (p *DemoPlayoffProvider) SeedPlayoffs(ctx context.Context, season int, standings []*models.TeamStanding) (*models.PlayoffSeeding, error) {
	seeding := &models.PlayoffSeeding{Season: season}
	for _, s := range standings {
		team, ok := models.TeamByID(s.TeamID)
		if !ok {
			return nil, &CalendarStateError{Reason: fmt.Sprintf("standings carry unknown team %d", s.TeamID)}
		}
		switch team.Conference {
		case models.ConferenceAFC:
			if len(seeding.AFC) < PlayoffTeamCount/2 {
				seeding.AFC = append(seeding.AFC, models.PlayoffSeed{Seed: len(seeding.AFC) + 1, TeamID: s.TeamID})
			}
		case models.ConferenceNFC:
			if len(seeding.NFC) < PlayoffTeamCount/2 {
				seeding.NFC = append(seeding.NFC, models.PlayoffSeed{Seed: len(seeding.NFC) + 1, TeamID: s.TeamID})
			}
		}
	}
	if len(seeding.AFC) != PlayoffTeamCount/2 || len(seeding.NFC) != PlayoffTeamCount/2 {
		return nil, &CalendarStateError{
			Reason: fmt.Sprintf("seeding incomplete: %d AFC, %d NFC", len(seeding.AFC), len(seeding.NFC)),
		}
	}
	p.logger.Infof("Season %d playoff field seeded", season)
	return seeding, nil
}

// CreateController schedules the wildcard round and returns the live
// bracket controller
func (p *DemoPlayoffProvider) CreateController(ctx context.Context, dynastyID string, seeding *models.PlayoffSeeding, startDate models.Date) (interfaces.PlayoffController, error) {
	if seeding.IsEmpty() {
		return nil, &CalendarStateError{Reason: "cannot create playoff controller from empty seeding"}
	}

	var wildcard []*models.Event
	idx := 1
	for _, conf := range []struct {
		name  string
		seeds []models.PlayoffSeed
	}{
		{models.ConferenceAFC, seeding.AFC},
		{models.ConferenceNFC, seeding.NFC},
	} {
		// Seed 1 has the bye; 2v7, 3v6, 4v5 play.
		byeTeam := conf.seeds[0].TeamID
		matchups := [][2]models.PlayoffSeed{
			{conf.seeds[1], conf.seeds[6]},
			{conf.seeds[2], conf.seeds[5]},
			{conf.seeds[3], conf.seeds[4]},
		}
		for i, m := range matchups {
			gameDate := startDate
			kickoff := kickoffEarly
			if i%2 == 1 {
				gameDate = startDate.AddDays(1)
				kickoff = kickoffLate
			}
			gameID := fmt.Sprintf("%s%d_%s_%d", models.GameIDPrefixPlayoff, seeding.Season, models.GameTypeWildcard, idx)
			event := models.NewGameEvent(dynastyID, gameID, gameDate, kickoff,
				weekWildcard, models.GameTypeWildcard, seeding.Season, m[0].TeamID, m[1].TeamID)
			event.Data.Metadata = map[string]interface{}{
				"conference":  conf.name,
				"home_seed":   m[0].Seed,
				"away_seed":   m[1].Seed,
				"bye_team_id": byeTeam,
			}
			wildcard = append(wildcard, event)
			idx++
		}
	}

	if err := p.events.InsertBatch(ctx, nil, wildcard); err != nil {
		return nil, fmt.Errorf("failed to schedule wildcard round: %w", err)
	}
	p.logger.Infof("Wildcard round scheduled for %s", startDate)
	return newDemoPlayoffController(dynastyID, seeding.Season, p.events), nil
}

// ReconstructController rebuilds a controller over existing bracket
// events; nothing is rescheduled. Fails when no playoff events exist.
func (p *DemoPlayoffProvider) ReconstructController(ctx context.Context, dynastyID string, season int) (interfaces.PlayoffController, error) {
	controller := newDemoPlayoffController(dynastyID, season, p.events)
	events, err := controller.bracketEvents(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, &CalendarStateError{
			Reason: fmt.Sprintf("no playoff events to reconstruct for season %d", season),
		}
	}
	return controller, nil
}

// demoPlayoffController is stateless: every decision is derived from the
// playoff events in the store, so restarts need no recovery beyond
// ReconstructController's existence check.
type demoPlayoffController struct {
	dynastyID string
	season    int
	events    *database.EventStore
	logger    *logging.Logger
}

func newDemoPlayoffController(dynastyID string, season int, events *database.EventStore) *demoPlayoffController {
	return &demoPlayoffController{
		dynastyID: dynastyID,
		season:    season,
		events:    events,
		logger:    logging.WithPrefix("playoff_bracket"),
	}
}

func (c *demoPlayoffController) bracketEvents(ctx context.Context) (map[string][]*models.Event, error) {
	all, err := c.events.GetByDynasty(ctx, c.dynastyID, models.EventTypeGame, 0)
	if err != nil {
		return nil, err
	}
	rounds := make(map[string][]*models.Event)
	for _, event := range all {
		if event.IsPlayoffGame() && event.Season() == c.season {
			rounds[event.GameType()] = append(rounds[event.GameType()], event)
		}
	}
	return rounds, nil
}

// AdvanceBracket schedules the next round once the current one is fully
// simulated. Idempotent: an already scheduled round is never rebuilt.
func (c *demoPlayoffController) AdvanceBracket(ctx context.Context, date models.Date) error {
	rounds, err := c.bracketEvents(ctx)
	if err != nil {
		return err
	}

	switch {
	case roundComplete(rounds[models.GameTypeWildcard], 6) && len(rounds[models.GameTypeDivisional]) == 0:
		return c.scheduleDivisional(ctx, rounds[models.GameTypeWildcard])
	case roundComplete(rounds[models.GameTypeDivisional], 4) && len(rounds[models.GameTypeConference]) == 0:
		return c.scheduleConference(ctx, rounds[models.GameTypeDivisional])
	case roundComplete(rounds[models.GameTypeConference], 2) && len(rounds[models.GameTypeSuperBowl]) == 0:
		return c.scheduleSuperBowl(ctx, rounds[models.GameTypeConference])
	}
	return nil
}

func (c *demoPlayoffController) scheduleDivisional(ctx context.Context, wildcard []*models.Event) error {
	gameDate := latestDate(wildcard).AddDays(7)
	var games []*models.Event
	idx := 1
	for _, conf := range []string{models.ConferenceAFC, models.ConferenceNFC} {
		winners, byeTeam := confWinners(wildcard, conf)
		if len(winners) != 3 {
			return &CalendarStateError{
				Reason: fmt.Sprintf("%s wildcard produced %d winners, want 3", conf, len(winners)),
			}
		}
		// Seed 1 hosts the lowest surviving seed; the other two winners
		// meet with the better seed at home.
		sort.Slice(winners, func(i, j int) bool { return winners[i].Seed < winners[j].Seed })
		matchups := [][2]seededTeam{
			{{Seed: 1, TeamID: byeTeam}, winners[2]},
			{winners[0], winners[1]},
		}
		for i, m := range matchups {
			games = append(games, c.roundGame(models.GameTypeDivisional, weekDivisional,
				gameDate.AddDays(i%2), conf, m[0], m[1], idx))
			idx++
		}
	}
	if err := c.events.InsertBatch(ctx, nil, games); err != nil {
		return fmt.Errorf("failed to schedule divisional round: %w", err)
	}
	c.logger.Infof("Divisional round scheduled for %s", gameDate)
	return nil
}

func (c *demoPlayoffController) scheduleConference(ctx context.Context, divisional []*models.Event) error {
	gameDate := latestDate(divisional).AddDays(7)
	var games []*models.Event
	idx := 1
	for _, conf := range []string{models.ConferenceAFC, models.ConferenceNFC} {
		winners, _ := confWinners(divisional, conf)
		if len(winners) != 2 {
			return &CalendarStateError{
				Reason: fmt.Sprintf("%s divisional produced %d winners, want 2", conf, len(winners)),
			}
		}
		sort.Slice(winners, func(i, j int) bool { return winners[i].Seed < winners[j].Seed })
		games = append(games, c.roundGame(models.GameTypeConference, weekConference,
			gameDate, conf, winners[0], winners[1], idx))
		idx++
	}
	if err := c.events.InsertBatch(ctx, nil, games); err != nil {
		return fmt.Errorf("failed to schedule conference championships: %w", err)
	}
	c.logger.Infof("Conference championships scheduled for %s", gameDate)
	return nil
}

func (c *demoPlayoffController) scheduleSuperBowl(ctx context.Context, conference []*models.Event) error {
	gameDate := latestDate(conference).AddDays(14)
	afc, _ := confWinners(conference, models.ConferenceAFC)
	nfc, _ := confWinners(conference, models.ConferenceNFC)
	if len(afc) != 1 || len(nfc) != 1 {
		return &CalendarStateError{Reason: "conference round did not produce two champions"}
	}

	// Neutral site; the AFC champion is listed as home.
	game := c.roundGame(models.GameTypeSuperBowl, weekSuperBowl, gameDate, "", afc[0], nfc[0], 1)
	if err := c.events.Insert(ctx, nil, game); err != nil {
		return fmt.Errorf("failed to schedule Super Bowl: %w", err)
	}
	c.logger.Infof("Super Bowl scheduled for %s", gameDate)
	return nil
}

func (c *demoPlayoffController) roundGame(gameType string, week int, date models.Date, conference string, home, away seededTeam, idx int) *models.Event {
	gameID := fmt.Sprintf("%s%d_%s_%d", models.GameIDPrefixPlayoff, c.season, gameType, idx)
	event := models.NewGameEvent(c.dynastyID, gameID, date, kickoffLate,
		week, gameType, c.season, home.TeamID, away.TeamID)
	event.Data.Metadata = map[string]interface{}{
		"home_seed": home.Seed,
		"away_seed": away.Seed,
	}
	if conference != "" {
		event.Data.Metadata["conference"] = conference
	}
	return event
}

func (c *demoPlayoffController) superBowl(ctx context.Context) (*models.Event, error) {
	rounds, err := c.bracketEvents(ctx)
	if err != nil {
		return nil, err
	}
	games := rounds[models.GameTypeSuperBowl]
	if len(games) == 0 {
		return nil, nil
	}
	return games[0], nil
}

func (c *demoPlayoffController) IsSuperBowlComplete(ctx context.Context) bool {
	game, err := c.superBowl(ctx)
	if err != nil || game == nil {
		return false
	}
	return game.HasResults()
}

func (c *demoPlayoffController) SuperBowlWinner(ctx context.Context) (int, error) {
	game, err := c.superBowl(ctx)
	if err != nil {
		return 0, err
	}
	if game == nil || !game.HasResults() {
		return 0, &CalendarStateError{Reason: "Super Bowl has not been played"}
	}
	winner := game.WinnerTeamID()
	if winner == nil {
		return 0, &CalendarStateError{Reason: "Super Bowl has no winner recorded"}
	}
	return *winner, nil
}

func (c *demoPlayoffController) SuperBowlDate(ctx context.Context) (models.Date, error) {
	game, err := c.superBowl(ctx)
	if err != nil {
		return models.Date{}, err
	}
	if game == nil {
		return models.Date{}, &CalendarStateError{Reason: "Super Bowl is not scheduled"}
	}
	return game.Date(), nil
}

type seededTeam struct {
	Seed   int
	TeamID int
}

func roundComplete(games []*models.Event, want int) bool {
	if len(games) != want {
		return false
	}
	for _, game := range games {
		if !game.HasResults() {
			return false
		}
	}
	return true
}

func latestDate(games []*models.Event) models.Date {
	var latest models.Date
	for _, game := range games {
		if d := game.Date(); latest.IsZero() || d.After(latest) {
			latest = d
		}
	}
	return latest
}

// confWinners returns the winners of a conference's games with their
// seeds, plus the bye team recorded on that conference's events. The
// Super Bowl has no conference tag; passing a conference name matches
// the champion by the conference of its team id.
func confWinners(games []*models.Event, conference string) ([]seededTeam, int) {
	var winners []seededTeam
	byeTeam := 0
	for _, game := range games {
		tagged := metaString(game, "conference")
		if tagged != "" && tagged != conference {
			continue
		}
		winner := game.WinnerTeamID()
		if winner == nil {
			continue
		}
		if tagged == "" {
			team, ok := models.TeamByID(*winner)
			if !ok || team.Conference != conference {
				continue
			}
		}
		seed := metaInt(game, "home_seed")
		if *winner == game.AwayTeamID() {
			seed = metaInt(game, "away_seed")
		}
		winners = append(winners, seededTeam{Seed: seed, TeamID: *winner})
		if bye := metaInt(game, "bye_team_id"); bye != 0 {
			byeTeam = bye
		}
	}
	return winners, byeTeam
}

func metaInt(event *models.Event, key string) int {
	if event.Data.Metadata == nil {
		return 0
	}
	switch v := event.Data.Metadata[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

func metaString(event *models.Event, key string) string {
	if event.Data.Metadata == nil {
		return ""
	}
	s, _ := event.Data.Metadata[key].(string)
	return s
}
