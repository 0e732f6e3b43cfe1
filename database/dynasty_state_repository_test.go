package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"nfl-dynasty-go/models"
)

func TestInitializeAndGetLatest(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewDynastyStateRepository(db)
	ctx := context.Background()

	start := models.NewDate(2024, 8, 1)
	state, err := repo.Initialize(ctx, nil, "dyn1", 2024, start, 0, models.PhasePreseason)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !state.CurrentDate.Equal(start) || state.CurrentPhase != models.PhasePreseason {
		t.Errorf("state = %+v", state)
	}

	latest, err := repo.GetLatest(ctx, "dyn1")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest == nil || latest.Season != 2024 {
		t.Fatalf("latest = %+v", latest)
	}

	// A second season becomes the latest.
	if _, err := repo.Initialize(ctx, nil, "dyn1", 2025, models.NewDate(2025, 8, 1), 0, models.PhasePreseason); err != nil {
		t.Fatalf("Initialize 2025: %v", err)
	}
	latest, _ = repo.GetLatest(ctx, "dyn1")
	if latest.Season != 2025 {
		t.Errorf("latest season = %d, want 2025", latest.Season)
	}
}

func TestInitializeCorrectsSeasonToDerivedYear(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewDynastyStateRepository(db)
	ctx := context.Background()

	// January 2025 belongs to season 2024.
	state, err := repo.Initialize(ctx, nil, "dyn1", 2025, models.NewDate(2025, 1, 15), 18, models.PhasePlayoffs)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if state.Season != 2024 {
		t.Errorf("season = %d, want derived 2024", state.Season)
	}
}

func TestReadsReturnStoredSimulatedDate(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewDynastyStateRepository(db)
	ctx := context.Background()

	// current_date is a reserved keyword in SQLite; an unquoted select
	// would return today's wall-clock date instead of the column.
	stored := models.NewDate(2024, 8, 1)
	if _, err := repo.Initialize(ctx, nil, "dyn1", 2024, stored, 0, models.PhasePreseason); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	now := time.Now()
	today := models.NewDate(now.Year(), int(now.Month()), now.Day())
	reads := map[string]func() (*models.DynastyState, error){
		"GetCurrent": func() (*models.DynastyState, error) { return repo.GetCurrent(ctx, "dyn1", 2024) },
		"GetLatest":  func() (*models.DynastyState, error) { return repo.GetLatest(ctx, "dyn1") },
	}
	for name, read := range reads {
		state, err := read()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if state == nil || !state.CurrentDate.Equal(stored) {
			t.Errorf("%s date = %+v, want %s", name, state, stored)
		}
		if !today.Equal(stored) && state != nil && state.CurrentDate.Equal(today) {
			t.Errorf("%s returned the wall-clock date", name)
		}
	}
}

func TestUpdateFailsLoudOnMissingRow(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewDynastyStateRepository(db)
	ctx := context.Background()

	err := repo.Update(ctx, nil, "dyn1", 2024, models.NewDate(2024, 8, 2), models.PhasePreseason, 0, "")
	if !errors.Is(err, ErrNoRowsAffected) {
		t.Errorf("err = %v, want ErrNoRowsAffected", err)
	}
}

func TestUpdatePreservesOptionalColumns(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewDynastyStateRepository(db)
	ctx := context.Background()

	if _, err := repo.Initialize(ctx, nil, "dyn1", 2024, models.NewDate(2024, 9, 8), 0, models.PhaseRegularSeason); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := repo.Update(ctx, nil, "dyn1", 2024, models.NewDate(2024, 9, 9), models.PhaseRegularSeason, 1, "g1"); err != nil {
		t.Fatalf("Update with week: %v", err)
	}

	// week 0 and empty game id leave the stored values alone.
	if err := repo.Update(ctx, nil, "dyn1", 2024, models.NewDate(2024, 9, 10), models.PhaseRegularSeason, 0, ""); err != nil {
		t.Fatalf("Update without week: %v", err)
	}

	state, err := repo.GetCurrent(ctx, "dyn1", 2024)
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if state.CurrentWeek != 1 || state.LastSimulatedGameID != "g1" {
		t.Errorf("optional columns clobbered: week=%d game=%q", state.CurrentWeek, state.LastSimulatedGameID)
	}
	if !state.CurrentDate.Equal(models.NewDate(2024, 9, 10)) {
		t.Errorf("date = %s", state.CurrentDate)
	}
}

func TestUpdateSeason(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewDynastyStateRepository(db)
	ctx := context.Background()

	if err := repo.UpdateSeason(ctx, nil, "dyn1", 2025); !errors.Is(err, ErrNoRowsAffected) {
		t.Errorf("UpdateSeason with no rows = %v", err)
	}

	if _, err := repo.Initialize(ctx, nil, "dyn1", 2024, models.NewDate(2024, 8, 1), 0, models.PhasePreseason); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := repo.UpdateSeason(ctx, nil, "dyn1", 2024); err != nil {
		t.Fatalf("idempotent UpdateSeason: %v", err)
	}
	state, _ := repo.GetLatest(ctx, "dyn1")
	if state.Season != 2024 {
		t.Errorf("season = %d", state.Season)
	}
}

func TestUpdateDraftProgressBounds(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	repo := NewDynastyStateRepository(db)
	ctx := context.Background()

	if _, err := repo.Initialize(ctx, nil, "dyn1", 2024, models.NewDate(2024, 8, 1), 0, models.PhasePreseason); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := repo.UpdateDraftProgress(ctx, nil, "dyn1", 2024, models.MaxDraftPick+1, true); !errors.Is(err, ErrDraftPickOutOfRange) {
		t.Errorf("over-range pick err = %v", err)
	}
	if err := repo.UpdateDraftProgress(ctx, nil, "dyn1", 2024, -1, true); !errors.Is(err, ErrDraftPickOutOfRange) {
		t.Errorf("negative pick err = %v", err)
	}
	if err := repo.UpdateDraftProgress(ctx, nil, "dyn1", 2024, models.MaxDraftPick, false); err != nil {
		t.Fatalf("valid pick: %v", err)
	}

	state, _ := repo.GetCurrent(ctx, "dyn1", 2024)
	if state.CurrentDraftPick != models.MaxDraftPick || state.DraftInProgress {
		t.Errorf("draft progress = %d/%t", state.CurrentDraftPick, state.DraftInProgress)
	}
}

func TestDeriveSeasonFromDate(t *testing.T) {
	season, err := DeriveSeasonFromDate("2025-02-09")
	if err != nil || season != 2024 {
		t.Errorf("DeriveSeasonFromDate = (%d, %v), want 2024", season, err)
	}
	if _, err := DeriveSeasonFromDate("garbage"); err == nil {
		t.Error("invalid date should fail")
	}
}
