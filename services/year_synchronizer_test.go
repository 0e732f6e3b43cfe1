package services

import (
	"context"
	"errors"
	"testing"

	"nfl-dynasty-go/models"
)

func TestSynchronizeYearOrdering(t *testing.T) {
	state := models.NewPhaseState(models.PhaseOffseason, 2024)

	var calls []string
	persist := func(ctx context.Context, year int) error {
		calls = append(calls, "persist")
		return nil
	}
	sync := NewSeasonYearSynchronizer(state, persist)
	yearDuringNotify := 0
	sync.Register("simulation_executor", func(year int) { calls = append(calls, "simulation_executor") })
	sync.Register("phase_boundary", func(year int) {
		calls = append(calls, "phase_boundary")
		yearDuringNotify = sync.CurrentYear()
	})

	if err := sync.SynchronizeYear(context.Background(), 2025, "season rollover"); err != nil {
		t.Fatalf("SynchronizeYear: %v", err)
	}

	want := []string{"persist", "simulation_executor", "phase_boundary"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
	// The in-memory year is written after subscriber fan-out.
	if yearDuringNotify != 2024 {
		t.Errorf("in-memory year was %d during notification, want 2024", yearDuringNotify)
	}
	if sync.CurrentYear() != 2025 {
		t.Errorf("year = %d", sync.CurrentYear())
	}
}

func TestSynchronizeYearPersistFailure(t *testing.T) {
	state := models.NewPhaseState(models.PhaseOffseason, 2024)

	boom := errors.New("disk full")
	notified := false
	sync := NewSeasonYearSynchronizer(state, func(ctx context.Context, year int) error {
		return boom
	})
	sync.Register("simulation_executor", func(year int) { notified = true })

	err := sync.SynchronizeYear(context.Background(), 2025, "season rollover")
	var perr *SyncPersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want SyncPersistenceError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("cause not wrapped")
	}
	if sync.CurrentYear() != 2024 {
		t.Errorf("memory year moved to %d despite persist failure", sync.CurrentYear())
	}
	if notified {
		t.Error("subscriber notified despite persist failure")
	}
}

func TestSynchronizeYearBounds(t *testing.T) {
	state := models.NewPhaseState(models.PhaseOffseason, 2024)
	sync := NewSeasonYearSynchronizer(state, func(ctx context.Context, year int) error {
		t.Fatal("persist called for implausible year")
		return nil
	})

	for _, year := range []int{1919, 10000, -3} {
		err := sync.SynchronizeYear(context.Background(), year, "test")
		var cse *CalendarStateError
		if !errors.As(err, &cse) {
			t.Errorf("year %d: err = %v, want CalendarStateError", year, err)
		}
	}
}

func TestRegisterKeepsPosition(t *testing.T) {
	state := models.NewPhaseState(models.PhaseOffseason, 2024)
	sync := NewSeasonYearSynchronizer(state, func(ctx context.Context, year int) error { return nil })

	sync.Register("a", func(int) {})
	sync.Register("b", func(int) {})
	sync.Register("a", func(int) {}) // replacement, not a move

	keys := sync.RegistryStatus()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("registry order = %v", keys)
	}
}

func TestIncrementYear(t *testing.T) {
	state := models.NewPhaseState(models.PhaseOffseason, 2024)
	var persisted int
	sync := NewSeasonYearSynchronizer(state, func(ctx context.Context, year int) error {
		persisted = year
		return nil
	})

	year, err := sync.IncrementYear(context.Background(), "rollover")
	if err != nil {
		t.Fatalf("IncrementYear: %v", err)
	}
	if year != 2025 || persisted != 2025 || sync.CurrentYear() != 2025 {
		t.Errorf("year=%d persisted=%d memory=%d", year, persisted, sync.CurrentYear())
	}
}
