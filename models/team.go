package models

// Conference names
const (
	ConferenceAFC = "AFC"
	ConferenceNFC = "NFC"
)

// TeamCount is the league size; standings resets create exactly this many rows
const TeamCount = 32

// Team identifies one franchise with its division placement
type Team struct {
	ID         int
	Abbr       string
	Conference string
	Division   string
}

// allTeams is ordered by id 1..32, grouped AFC then NFC, East/North/South/West
var allTeams = []Team{
	{1, "BUF", ConferenceAFC, "East"},
	{2, "MIA", ConferenceAFC, "East"},
	{3, "NE", ConferenceAFC, "East"},
	{4, "NYJ", ConferenceAFC, "East"},
	{5, "BAL", ConferenceAFC, "North"},
	{6, "CIN", ConferenceAFC, "North"},
	{7, "CLE", ConferenceAFC, "North"},
	{8, "PIT", ConferenceAFC, "North"},
	{9, "HOU", ConferenceAFC, "South"},
	{10, "IND", ConferenceAFC, "South"},
	{11, "JAX", ConferenceAFC, "South"},
	{12, "TEN", ConferenceAFC, "South"},
	{13, "DEN", ConferenceAFC, "West"},
	{14, "KC", ConferenceAFC, "West"},
	{15, "LV", ConferenceAFC, "West"},
	{16, "LAC", ConferenceAFC, "West"},
	{17, "DAL", ConferenceNFC, "East"},
	{18, "NYG", ConferenceNFC, "East"},
	{19, "PHI", ConferenceNFC, "East"},
	{20, "WAS", ConferenceNFC, "East"},
	{21, "CHI", ConferenceNFC, "North"},
	{22, "DET", ConferenceNFC, "North"},
	{23, "GB", ConferenceNFC, "North"},
	{24, "MIN", ConferenceNFC, "North"},
	{25, "ATL", ConferenceNFC, "South"},
	{26, "CAR", ConferenceNFC, "South"},
	{27, "NO", ConferenceNFC, "South"},
	{28, "TB", ConferenceNFC, "South"},
	{29, "ARI", ConferenceNFC, "West"},
	{30, "LAR", ConferenceNFC, "West"},
	{31, "SF", ConferenceNFC, "West"},
	{32, "SEA", ConferenceNFC, "West"},
}

// AllTeams returns the 32 teams ordered by id
func AllTeams() []Team {
	teams := make([]Team, len(allTeams))
	copy(teams, allTeams)
	return teams
}

// TeamByID looks up a team; ok is false for ids outside 1..32
func TeamByID(id int) (Team, bool) {
	if id < 1 || id > len(allTeams) {
		return Team{}, false
	}
	return allTeams[id-1], true
}

// SameDivision reports whether two team ids are division rivals
func SameDivision(a, b int) bool {
	ta, okA := TeamByID(a)
	tb, okB := TeamByID(b)
	return okA && okB && ta.Conference == tb.Conference && ta.Division == tb.Division
}

// SameConference reports whether two team ids share a conference
func SameConference(a, b int) bool {
	ta, okA := TeamByID(a)
	tb, okB := TeamByID(b)
	return okA && okB && ta.Conference == tb.Conference
}
