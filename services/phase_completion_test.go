package services

import (
	"testing"

	"nfl-dynasty-go/models"
)

type completionFixture struct {
	gamesPlayed       int
	currentDate       models.Date
	lastRegular       models.Date
	lastRegularOK     bool
	lastPreseason     models.Date
	lastPreseasonOK   bool
	superBowlComplete bool
	preseasonStart    models.Date
	preseasonStartOK  bool
}

func (f *completionFixture) deps() CompletionDeps {
	return CompletionDeps{
		GamesPlayed: func() int { return f.gamesPlayed },
		CurrentDate: func() models.Date { return f.currentDate },
		LastRegularSeasonGameDate: func() (models.Date, bool) {
			return f.lastRegular, f.lastRegularOK
		},
		LastPreseasonGameDate: func() (models.Date, bool) {
			return f.lastPreseason, f.lastPreseasonOK
		},
		IsSuperBowlComplete: func() bool { return f.superBowlComplete },
		PreseasonStartDate: func() (models.Date, bool) {
			return f.preseasonStart, f.preseasonStartOK
		},
	}
}

func TestPreseasonCompletion(t *testing.T) {
	f := &completionFixture{
		currentDate:     models.NewDate(2024, 8, 20),
		lastPreseason:   models.NewDate(2024, 8, 24),
		lastPreseasonOK: true,
	}
	checker := NewPhaseCompletionChecker(f.deps())

	if checker.IsPreseasonComplete() {
		t.Error("mid-preseason should not be complete")
	}

	f.gamesPlayed = PreseasonGameCount
	if !checker.IsPreseasonComplete() {
		t.Error("48 games played should complete the preseason")
	}

	f.gamesPlayed = 40
	f.currentDate = models.NewDate(2024, 8, 25)
	if !checker.IsPreseasonComplete() {
		t.Error("passing the last game date should complete the preseason")
	}

	// No schedule, no completion.
	f.lastPreseasonOK = false
	f.currentDate = models.NewDate(2024, 12, 1)
	if checker.IsPreseasonComplete() {
		t.Error("no schedule should never read as complete")
	}
}

func TestRegularSeasonCompletion(t *testing.T) {
	f := &completionFixture{
		currentDate:   models.NewDate(2024, 12, 1),
		lastRegular:   models.NewDate(2024, 12, 30),
		lastRegularOK: true,
	}
	checker := NewPhaseCompletionChecker(f.deps())

	if checker.IsRegularSeasonComplete() {
		t.Error("mid-season should not be complete")
	}
	f.gamesPlayed = RegularSeasonGameCount
	if !checker.IsRegularSeasonComplete() {
		t.Error("272 games should complete the regular season")
	}
	f.gamesPlayed = 0
	f.currentDate = models.NewDate(2024, 12, 31)
	if !checker.IsRegularSeasonComplete() {
		t.Error("passing the last game date should complete the regular season")
	}
}

func TestPlayoffsCompletion(t *testing.T) {
	f := &completionFixture{}
	checker := NewPhaseCompletionChecker(f.deps())

	if checker.IsPlayoffsComplete() {
		t.Error("playoffs incomplete without a Super Bowl result")
	}
	f.superBowlComplete = true
	if !checker.IsPlayoffsComplete() {
		t.Error("Super Bowl result completes the playoffs")
	}
}

func TestOffseasonCompletion(t *testing.T) {
	f := &completionFixture{
		currentDate:      models.NewDate(2025, 8, 6),
		preseasonStart:   models.NewDate(2025, 8, 7),
		preseasonStartOK: true,
	}
	checker := NewPhaseCompletionChecker(f.deps())

	if checker.IsOffseasonComplete() {
		t.Error("the day before preseason start is still offseason")
	}
	f.currentDate = models.NewDate(2025, 8, 7)
	if !checker.IsOffseasonComplete() {
		t.Error("reaching the preseason start completes the offseason")
	}
	f.preseasonStartOK = false
	if checker.IsOffseasonComplete() {
		t.Error("unknown preseason start should never read as complete")
	}
}

func TestIsPhaseCompleteDispatch(t *testing.T) {
	f := &completionFixture{superBowlComplete: true}
	checker := NewPhaseCompletionChecker(f.deps())

	if !checker.IsPhaseComplete(models.PhasePlayoffs) {
		t.Error("dispatch to playoffs predicate failed")
	}
	if checker.IsPhaseComplete(models.PhasePreseason) {
		t.Error("dispatch to preseason predicate failed")
	}
	if checker.IsPhaseComplete(models.SeasonPhase("unknown")) {
		t.Error("unknown phase should never be complete")
	}
}
