package models

import (
	"sync"
	"testing"
)

func TestPhaseStateListeners(t *testing.T) {
	state := NewPhaseState(PhasePreseason, 2024)

	var mu sync.Mutex
	var seen [][2]SeasonPhase
	state.AddListener(func(old, new SeasonPhase) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, [2]SeasonPhase{old, new})
	})

	state.SetPhase(PhaseRegularSeason)
	if state.Phase() != PhaseRegularSeason {
		t.Fatalf("phase = %s", state.Phase())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != [2]SeasonPhase{PhasePreseason, PhaseRegularSeason} {
		t.Errorf("listener saw %v", seen)
	}
}

func TestPhaseStateNoNotifyOnSamePhase(t *testing.T) {
	state := NewPhaseState(PhasePlayoffs, 2024)
	calls := 0
	state.AddListener(func(old, new SeasonPhase) { calls++ })

	state.SetPhase(PhasePlayoffs)
	if calls != 0 {
		t.Errorf("listener invoked %d times for a no-op set", calls)
	}
}

func TestPhaseStatePanickingListener(t *testing.T) {
	state := NewPhaseState(PhasePreseason, 2024)
	state.AddListener(func(old, new SeasonPhase) { panic("broken listener") })
	ok := false
	state.AddListener(func(old, new SeasonPhase) { ok = true })

	state.SetPhase(PhaseRegularSeason)

	if state.Phase() != PhaseRegularSeason {
		t.Error("panicking listener aborted the transition")
	}
	if !ok {
		t.Error("other listeners should still run")
	}
}

func TestPhaseStateRemoveListener(t *testing.T) {
	state := NewPhaseState(PhasePreseason, 2024)
	calls := 0
	handle := state.AddListener(func(old, new SeasonPhase) { calls++ })
	if state.ListenerCount() != 1 {
		t.Fatalf("listener count = %d", state.ListenerCount())
	}

	state.RemoveListener(handle)
	state.SetPhase(PhaseRegularSeason)
	if calls != 0 {
		t.Errorf("removed listener invoked %d times", calls)
	}
}

func TestPhaseStateSnapshot(t *testing.T) {
	state := NewPhaseState(PhaseOffseason, 2024)
	state.SetSeasonYear(2025)
	phase, year := state.Snapshot()
	if phase != PhaseOffseason || year != 2025 {
		t.Errorf("snapshot = %s/%d", phase, year)
	}
}
