package models

import "time"

// MaxDraftPick bounds dynasty_state.current_draft_pick (7 rounds plus
// compensatory selections)
const MaxDraftPick = 262

// DynastyState is the durable counterpart to PhaseState: one row per
// (dynasty, season) recording where the simulated calendar stands.
type DynastyState struct {
	ID                  int64
	DynastyID           string
	Season              int
	CurrentDate         Date
	CurrentPhase        SeasonPhase
	CurrentWeek         int
	LastSimulatedGameID string
	CurrentDraftPick    int
	DraftInProgress     bool
	UpdatedAt           time.Time
}

// Dynasty is a persistent save-game identity; the isolation key on every
// durable row
type Dynasty struct {
	DynastyID    string
	DynastyName  string
	OwnerName    string
	TeamID       int
	CreatedAt    time.Time
	LastPlayed   time.Time
	TotalSeasons int
	IsActive     bool
}
