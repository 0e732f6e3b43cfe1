package models

import (
	"testing"
	"time"
)

func TestGameEventLifecycle(t *testing.T) {
	date := NewDate(2024, 9, 8)
	event := NewGameEvent("dyn1", "regular_2024_w1_g01", date, 13*time.Hour,
		1, GameTypeRegular, 2024, 5, 14)

	if !event.IsGame() || event.IsMilestone() {
		t.Error("game event misclassified")
	}
	if event.HasResults() {
		t.Error("fresh event should be scheduled, not completed")
	}
	if !event.Date().Equal(date) {
		t.Errorf("event date = %s, want %s", event.Date(), date)
	}
	if event.Season() != 2024 || event.Week() != 1 {
		t.Errorf("season/week = %d/%d", event.Season(), event.Week())
	}
	if event.HomeTeamID() != 5 || event.AwayTeamID() != 14 {
		t.Errorf("matchup = %d vs %d", event.HomeTeamID(), event.AwayTeamID())
	}
	if event.WinnerTeamID() != nil {
		t.Error("unsimulated game has no winner")
	}

	winner := 14
	event.SetGameResults(17, 24, &winner)
	if !event.HasResults() {
		t.Error("results not recorded")
	}
	if got := event.WinnerTeamID(); got == nil || *got != 14 {
		t.Errorf("winner = %v", got)
	}
	if event.HomeScore() != 17 || event.AwayScore() != 24 {
		t.Errorf("score = %d-%d", event.HomeScore(), event.AwayScore())
	}
}

func TestGameEventTie(t *testing.T) {
	event := NewGameEvent("dyn1", "regular_2024_w2_g03", NewDate(2024, 9, 15),
		13*time.Hour, 2, GameTypeRegular, 2024, 1, 2)
	event.SetGameResults(20, 20, nil)

	if got := event.WinnerTeamID(); got != nil {
		t.Errorf("tie should have nil winner, got %v", got)
	}
	if !event.HasResults() {
		t.Error("tie is still a completed game")
	}
}

func TestEventDataRoundTripAfterJSON(t *testing.T) {
	winner := 7
	event := NewGameEvent("dyn1", "playoff_2024_wildcard_1", NewDate(2025, 1, 11),
		17*time.Hour, 18, GameTypeWildcard, 2024, 7, 12)
	event.SetGameResults(31, 17, &winner)

	raw, err := event.MarshalData()
	if err != nil {
		t.Fatalf("MarshalData failed: %v", err)
	}

	decoded := &Event{EventID: event.EventID, EventType: event.EventType, GameID: event.GameID}
	if err := decoded.UnmarshalData(raw); err != nil {
		t.Fatalf("UnmarshalData failed: %v", err)
	}

	// Numbers become float64 after a JSON round trip; accessors must cope.
	if decoded.Season() != 2024 || decoded.Week() != 18 {
		t.Errorf("season/week = %d/%d", decoded.Season(), decoded.Week())
	}
	if got := decoded.WinnerTeamID(); got == nil || *got != 7 {
		t.Errorf("winner after round trip = %v", got)
	}
	if !decoded.IsPlayoffGame() {
		t.Error("playoff prefix lost")
	}
}

func TestUnmarshalDataNormalizesLegacySeasonType(t *testing.T) {
	event := &Event{EventID: "e1"}
	raw := []byte(`{"parameters":{"season":2024,"season_type":"regular"},"results":null}`)
	if err := event.UnmarshalData(raw); err != nil {
		t.Fatalf("UnmarshalData failed: %v", err)
	}
	if got := event.SeasonType(); got != SeasonTypeRegular {
		t.Errorf("legacy season_type decoded as %q", got)
	}
}

func TestMilestoneMarkFired(t *testing.T) {
	event := NewMilestoneEvent("dyn1", EventTypeFreeAgencyOpen, NewDate(2025, 3, 12), 2024, nil)
	if !event.IsMilestone() || event.HasResults() {
		t.Fatal("fresh milestone misclassified")
	}
	if event.EventType != EventTypeFreeAgencyOpen {
		t.Errorf("event type = %s", event.EventType)
	}

	event.MarkFired(time.Now(), map[string]interface{}{"signings": 3})
	if !event.HasResults() {
		t.Error("fired milestone should carry results")
	}
	if intParam(event.Data.Results, "signings") != 3 {
		t.Error("runner results not recorded")
	}
}
