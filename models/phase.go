package models

import (
	"fmt"
	"strings"
)

// SeasonPhase represents one of the four phases of a season cycle
type SeasonPhase string

const (
	PhasePreseason     SeasonPhase = "preseason"
	PhaseRegularSeason SeasonPhase = "regular_season"
	PhasePlayoffs      SeasonPhase = "playoffs"
	PhaseOffseason     SeasonPhase = "offseason"
)

// AllPhases lists the four phases in cycle order
func AllPhases() []SeasonPhase {
	return []SeasonPhase{PhasePreseason, PhaseRegularSeason, PhasePlayoffs, PhaseOffseason}
}

// ParseSeasonPhase parses a phase from its canonical or display form.
// Matching is case-insensitive; the returned value is always canonical.
func ParseSeasonPhase(s string) (SeasonPhase, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	switch normalized {
	case "preseason":
		return PhasePreseason, nil
	case "regular_season":
		return PhaseRegularSeason, nil
	case "playoffs":
		return PhasePlayoffs, nil
	case "offseason":
		return PhaseOffseason, nil
	default:
		return "", fmt.Errorf("unknown season phase: %q", s)
	}
}

// IsValid reports whether the phase is one of the four canonical values
func (p SeasonPhase) IsValid() bool {
	switch p {
	case PhasePreseason, PhaseRegularSeason, PhasePlayoffs, PhaseOffseason:
		return true
	}
	return false
}

// String returns the canonical lowercase serialization
func (p SeasonPhase) String() string {
	return string(p)
}

// Display returns the human-readable form of the phase
func (p SeasonPhase) Display() string {
	switch p {
	case PhasePreseason:
		return "Preseason"
	case PhaseRegularSeason:
		return "Regular Season"
	case PhasePlayoffs:
		return "Playoffs"
	case PhaseOffseason:
		return "Offseason"
	default:
		return string(p)
	}
}

// Next returns the phase that follows in the season cycle
func (p SeasonPhase) Next() SeasonPhase {
	switch p {
	case PhasePreseason:
		return PhaseRegularSeason
	case PhaseRegularSeason:
		return PhasePlayoffs
	case PhasePlayoffs:
		return PhaseOffseason
	case PhaseOffseason:
		return PhasePreseason
	default:
		return p
	}
}

// Season types distinguish standings and schedule partitions. The source
// data mixed "regular" and "regular_season"; "regular_season" is canonical
// at the persistence boundary and NormalizeSeasonType maps the legacy form.
const (
	SeasonTypePreseason = "preseason"
	SeasonTypeRegular   = "regular_season"
	SeasonTypePlayoffs  = "playoffs"
)

// NormalizeSeasonType maps any accepted season-type spelling to canonical
func NormalizeSeasonType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular", "regular_season":
		return SeasonTypeRegular
	case "preseason":
		return SeasonTypePreseason
	case "playoffs", "playoff", "postseason":
		return SeasonTypePlayoffs
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

// Game types, from preseason through the Super Bowl
const (
	GameTypePreseason  = "preseason"
	GameTypeRegular    = "regular"
	GameTypeWildcard   = "wildcard"
	GameTypeDivisional = "divisional"
	GameTypeConference = "conference"
	GameTypeSuperBowl  = "super_bowl"
)

// SeasonTypeForGameType maps a game type to the season type it counts under
func SeasonTypeForGameType(gameType string) string {
	switch gameType {
	case GameTypePreseason:
		return SeasonTypePreseason
	case GameTypeRegular:
		return SeasonTypeRegular
	case GameTypeWildcard, GameTypeDivisional, GameTypeConference, GameTypeSuperBowl:
		return SeasonTypePlayoffs
	default:
		return SeasonTypeRegular
	}
}
