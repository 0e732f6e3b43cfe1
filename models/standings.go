package models

import "fmt"

// TeamStanding is the per-team aggregated record for one
// (dynasty, season, season_type)
type TeamStanding struct {
	DynastyID  string
	TeamID     int
	Season     int
	SeasonType string

	Wins   int
	Losses int
	Ties   int

	DivisionWins   int
	DivisionLosses int
	DivisionTies   int

	ConferenceWins   int
	ConferenceLosses int
	ConferenceTies   int

	HomeWins   int
	HomeLosses int
	HomeTies   int

	AwayWins   int
	AwayLosses int
	AwayTies   int

	PointsFor     int
	PointsAgainst int
}

// Record returns the overall record as "W-L-T"
func (s *TeamStanding) Record() string {
	return fmt.Sprintf("%d-%d-%d", s.Wins, s.Losses, s.Ties)
}

// GamesPlayed returns the total games reflected in the record
func (s *TeamStanding) GamesPlayed() int {
	return s.Wins + s.Losses + s.Ties
}

// PointDifferential returns points for minus points against
func (s *TeamStanding) PointDifferential() int {
	return s.PointsFor - s.PointsAgainst
}

// WinPercentage returns the NFL-style win percentage with ties as half wins
func (s *TeamStanding) WinPercentage() float64 {
	games := s.GamesPlayed()
	if games == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Ties)) / float64(games)
}
