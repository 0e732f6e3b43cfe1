package models

// PlayerStatLine is one player's compact stat row for a simulated game
type PlayerStatLine struct {
	PlayerID   int
	TeamID     int
	Position   string
	PassYards  int
	RushYards  int
	RecYards   int
	Touchdowns int
}

// GameResult is the outcome of one simulated game
type GameResult struct {
	GameID       string
	HomeTeamID   int
	AwayTeamID   int
	HomeScore    int
	AwayScore    int
	WinnerTeamID *int // nil on a tie
	Week         int
	GameType     string
	PlayerStats  []PlayerStatLine
}

// IsTie reports whether the game ended level
func (r *GameResult) IsTie() bool {
	return r.WinnerTeamID == nil
}

// DayResult is what a phase handler produces for one simulated day
type DayResult struct {
	GamesPlayed     int
	Results         []GameResult
	EventsTriggered []*Event
	Success         bool
	CurrentPhase    SeasonPhase
}

// Transition describes one edge of the phase state machine
type Transition struct {
	FromPhase SeasonPhase
	ToPhase   SeasonPhase
	Season    int
	Reason    string
}

// Trade is a completed transaction proposed by the trade AI
type Trade struct {
	TeamA       int
	TeamB       int
	Description string
}

// AdvanceDayResult is the structured result of one controller advance_day
type AdvanceDayResult struct {
	Date                 Date
	CurrentPhase         SeasonPhase
	SeasonYear           int
	GamesPlayed          int
	Results              []GameResult
	PhaseTransition      *Transition
	TransactionsExecuted []Trade
	EventsTriggered      []*Event
	Success              bool
	Message              string
}

// WeekResult aggregates up to seven advance_day results
type WeekResult struct {
	DaysSimulated   int
	TotalGames      int
	Days            []*AdvanceDayResult
	PhaseTransition *Transition
	StoppedEarly    bool
	Message         string
}

// SimulationSettings is the single value object controlling simulation speed
type SimulationSettings struct {
	SkipGameSimulation  bool
	SkipTransactionAI   bool
	SkipOffseasonEvents bool
}

// ContractRollover summarizes a league-wide contract year increment
type ContractRollover struct {
	Total   int
	Active  int
	Expired int
}

// DraftClass describes a generated draft class
type DraftClass struct {
	ID           string
	Season       int
	TotalPlayers int
	ElapsedMS    int64
}

// YearTransitionResult is the outcome of the season transition service
type YearTransitionResult struct {
	NewYear    int
	Contracts  *ContractRollover
	DraftClass *DraftClass
}

// PlayoffSeed is one team's seed within its conference bracket
type PlayoffSeed struct {
	Seed   int
	TeamID int
}

// PlayoffSeeding is the 14-team field produced from final regular-season
// standings
type PlayoffSeeding struct {
	Season int
	AFC    []PlayoffSeed
	NFC    []PlayoffSeed
}

// IsEmpty reports whether the seeding carries no teams
func (s *PlayoffSeeding) IsEmpty() bool {
	return s == nil || (len(s.AFC) == 0 && len(s.NFC) == 0)
}

// SeasonSummary is the minimal end-of-season record
type SeasonSummary struct {
	DynastyID      string
	Season         int
	ChampionTeamID int
	SuperBowlDate  Date
}
