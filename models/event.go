package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventTypeGame marks game events in the polymorphic event table.
// Milestone events carry their milestone type directly as the event type
// (e.g. EventTypeFreeAgencyOpen), so type-filtered queries work for both.
const EventTypeGame = "GAME"

// Milestone event types scheduled during the offseason
const (
	EventTypeFranchiseTagDeadline = "FRANCHISE_TAG_DEADLINE"
	EventTypeFreeAgencyOpen       = "FREE_AGENCY_OPEN"
	EventTypeDraftDay             = "DRAFT_DAY"
	EventTypeScheduleRelease      = "SCHEDULE_RELEASE"
	EventTypeSeasonSummary        = "SEASON_SUMMARY"
	EventTypeDraftOrder           = "DRAFT_ORDER"
)

// Game-id prefixes are significant: completion predicates and playoff
// cleanup filter on them.
const (
	GameIDPrefixPreseason = "preseason_"
	GameIDPrefixPlayoff   = "playoff_"
)

// EventData is the JSON payload of an event. Parameters describe the
// scheduled event; Results is nil until the event has been executed.
type EventData struct {
	Parameters map[string]interface{} `json:"parameters"`
	Results    map[string]interface{} `json:"results"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Event is one row of the polymorphic event store: a game or a milestone
// pinned to a timestamp within a dynasty.
type Event struct {
	EventID   string
	EventType string
	Timestamp int64 // Unix milliseconds
	GameID    string
	DynastyID string
	Data      EventData
}

// NewGameEvent creates a scheduled (not yet simulated) game event
func NewGameEvent(dynastyID, gameID string, date Date, kickoff time.Duration, week int, gameType string, season, homeTeamID, awayTeamID int) *Event {
	return &Event{
		EventID:   uuid.NewString(),
		EventType: EventTypeGame,
		Timestamp: date.UnixMillis() + kickoff.Milliseconds(),
		GameID:    gameID,
		DynastyID: dynastyID,
		Data: EventData{
			Parameters: map[string]interface{}{
				"season":       season,
				"season_type":  SeasonTypeForGameType(gameType),
				"game_type":    gameType,
				"week":         week,
				"home_team_id": homeTeamID,
				"away_team_id": awayTeamID,
			},
		},
	}
}

// NewMilestoneEvent creates a non-game event tied to a date
func NewMilestoneEvent(dynastyID, milestoneType string, date Date, season int, params map[string]interface{}) *Event {
	parameters := map[string]interface{}{"season": season}
	for k, v := range params {
		parameters[k] = v
	}
	return &Event{
		EventID:   uuid.NewString(),
		EventType: milestoneType,
		DynastyID: dynastyID,
		Timestamp: date.UnixMillis(),
		Data: EventData{
			Parameters: parameters,
		},
	}
}

// MarshalData serializes the payload for storage
func (e *Event) MarshalData() ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s data: %w", e.EventID, err)
	}
	return data, nil
}

// UnmarshalData deserializes a stored payload into the event
func (e *Event) UnmarshalData(raw []byte) error {
	if len(raw) == 0 {
		e.Data = EventData{}
		return nil
	}
	if err := json.Unmarshal(raw, &e.Data); err != nil {
		return fmt.Errorf("failed to unmarshal event %s data: %w", e.EventID, err)
	}
	if st, ok := e.Data.Parameters["season_type"].(string); ok {
		e.Data.Parameters["season_type"] = NormalizeSeasonType(st)
	}
	return nil
}

// IsGame reports whether the event is a game event
func (e *Event) IsGame() bool {
	return e.EventType == EventTypeGame
}

// IsMilestone reports whether the event is a non-game milestone
func (e *Event) IsMilestone() bool {
	return e.EventType != EventTypeGame
}

// HasResults reports whether the event has been executed. Absence or null
// of results means scheduled, not yet simulated.
func (e *Event) HasResults() bool {
	return len(e.Data.Results) > 0
}

// Date returns the calendar day the event falls on
func (e *Event) Date() Date {
	return DateFromMillis(e.Timestamp)
}

// Season returns the season year from the parameters
func (e *Event) Season() int {
	return intParam(e.Data.Parameters, "season")
}

// Week returns the week number from the parameters
func (e *Event) Week() int {
	return intParam(e.Data.Parameters, "week")
}

// SeasonType returns the normalized season type from the parameters
func (e *Event) SeasonType() string {
	if st, ok := e.Data.Parameters["season_type"].(string); ok {
		return NormalizeSeasonType(st)
	}
	return ""
}

// GameType returns the game type from the parameters
func (e *Event) GameType() string {
	if gt, ok := e.Data.Parameters["game_type"].(string); ok {
		return gt
	}
	return ""
}

// HomeTeamID returns the home team id from the parameters
func (e *Event) HomeTeamID() int {
	return intParam(e.Data.Parameters, "home_team_id")
}

// AwayTeamID returns the away team id from the parameters
func (e *Event) AwayTeamID() int {
	return intParam(e.Data.Parameters, "away_team_id")
}

// HomeScore returns the home score from the results
func (e *Event) HomeScore() int {
	return intParam(e.Data.Results, "home_score")
}

// AwayScore returns the away score from the results
func (e *Event) AwayScore() int {
	return intParam(e.Data.Results, "away_score")
}

// WinnerTeamID returns the winning team id, or nil for a tie or an
// unsimulated game
func (e *Event) WinnerTeamID() *int {
	if e.Data.Results == nil {
		return nil
	}
	if _, present := e.Data.Results["winner_team_id"]; !present {
		return nil
	}
	if e.Data.Results["winner_team_id"] == nil {
		return nil
	}
	winner := intParam(e.Data.Results, "winner_team_id")
	return &winner
}

// SetGameResults appends simulation results to the payload. winner is nil
// for a tie.
func (e *Event) SetGameResults(homeScore, awayScore int, winner *int) {
	results := map[string]interface{}{
		"home_score": homeScore,
		"away_score": awayScore,
	}
	if winner != nil {
		results["winner_team_id"] = *winner
	} else {
		results["winner_team_id"] = nil
	}
	e.Data.Results = results
}

// MarkFired records that a milestone event has been executed
func (e *Event) MarkFired(at time.Time, results map[string]interface{}) {
	fired := map[string]interface{}{"fired_at": at.UnixMilli()}
	for k, v := range results {
		fired[k] = v
	}
	e.Data.Results = fired
}

// IsPreseasonGame reports whether the game id carries the preseason prefix
func (e *Event) IsPreseasonGame() bool {
	return strings.HasPrefix(e.GameID, GameIDPrefixPreseason)
}

// IsPlayoffGame reports whether the game id carries the playoff prefix
func (e *Event) IsPlayoffGame() bool {
	return strings.HasPrefix(e.GameID, GameIDPrefixPlayoff)
}

// intParam reads an int-valued key from a JSON-decoded map. Numbers
// arrive as float64 after a JSON round trip.
func intParam(m map[string]interface{}, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
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
