package services

import (
	"context"
	"testing"
	"time"

	"nfl-dynasty-go/database"
	"nfl-dynasty-go/models"
)

func insertGame(t *testing.T, events *database.EventStore, gameID string, date models.Date, gameType string) {
	t.Helper()
	ev := models.NewGameEvent("dyn1", gameID, date, 13*time.Hour, 1, gameType, 2024, 1, 2)
	if err := events.Insert(context.Background(), nil, ev); err != nil {
		t.Fatalf("insert %s: %v", gameID, err)
	}
}

func TestBoundaryFirstAndLastGameDate(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	events := database.NewEventStore(db)
	detector := NewPhaseBoundaryDetector(events, "dyn1")
	ctx := context.Background()

	insertGame(t, events, "regular_2024_w1_g01", models.NewDate(2024, 9, 5), models.GameTypeRegular)
	insertGame(t, events, "regular_2024_w1_g02", models.NewDate(2024, 9, 8), models.GameTypeRegular)
	insertGame(t, events, "regular_2024_w17_g01", models.NewDate(2024, 12, 30), models.GameTypeRegular)

	first, found, err := detector.FirstGameDate(ctx, models.PhaseRegularSeason, 2024)
	if err != nil || !found {
		t.Fatalf("FirstGameDate: found=%v err=%v", found, err)
	}
	if !first.Equal(models.NewDate(2024, 9, 5)) {
		t.Errorf("first = %s", first)
	}

	last, found, err := detector.LastGameDate(ctx, models.PhaseRegularSeason, 2024)
	if err != nil || !found {
		t.Fatalf("LastGameDate: found=%v err=%v", found, err)
	}
	if !last.Equal(models.NewDate(2024, 12, 30)) {
		t.Errorf("last = %s", last)
	}

	start, err := detector.PlayoffStartDate(ctx, 2024)
	if err != nil {
		t.Fatalf("PlayoffStartDate: %v", err)
	}
	if !start.Equal(models.NewDate(2025, 1, 6)) {
		t.Errorf("playoff start = %s", start)
	}
}

func TestBoundaryEmptySchedule(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	detector := NewPhaseBoundaryDetector(database.NewEventStore(db), "dyn1")
	ctx := context.Background()

	_, found, err := detector.FirstGameDate(ctx, models.PhaseRegularSeason, 2024)
	if err != nil {
		t.Fatalf("FirstGameDate: %v", err)
	}
	if found {
		t.Error("found a game date in an empty schedule")
	}

	if _, err := detector.PlayoffStartDate(ctx, 2024); err == nil {
		t.Error("PlayoffStartDate should fail with no regular-season games")
	}

	if _, _, err := detector.FirstGameDate(ctx, models.PhaseOffseason, 2024); err == nil {
		t.Error("offseason has no scheduled games")
	}
}

func TestBoundaryPreseasonFallback(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	detector := NewPhaseBoundaryDetector(database.NewEventStore(db), "dyn1")
	ctx := context.Background()

	start, err := detector.PhaseStartDate(ctx, models.PhasePreseason, 2025)
	if err != nil {
		t.Fatalf("PhaseStartDate: %v", err)
	}
	if !start.Equal(models.FirstThursdayOfAugust(2025)) {
		t.Errorf("fallback start = %s", start)
	}
}

func TestBoundaryCacheInvalidation(t *testing.T) {
	db := openTestDB(t)
	seedDynasty(t, db, "dyn1")
	events := database.NewEventStore(db)
	detector := NewPhaseBoundaryDetector(events, "dyn1")
	ctx := context.Background()

	insertGame(t, events, "regular_2024_w1_g01", models.NewDate(2024, 9, 8), models.GameTypeRegular)
	last, _, err := detector.LastGameDate(ctx, models.PhaseRegularSeason, 2024)
	if err != nil {
		t.Fatalf("LastGameDate: %v", err)
	}
	if !last.Equal(models.NewDate(2024, 9, 8)) {
		t.Fatalf("last = %s", last)
	}

	// A later game lands; the stale memoized date survives until the
	// cache is dropped.
	insertGame(t, events, "regular_2024_w2_g01", models.NewDate(2024, 9, 15), models.GameTypeRegular)
	last, _, _ = detector.LastGameDate(ctx, models.PhaseRegularSeason, 2024)
	if !last.Equal(models.NewDate(2024, 9, 8)) {
		t.Errorf("memoized last = %s", last)
	}

	detector.InvalidateCache()
	last, _, _ = detector.LastGameDate(ctx, models.PhaseRegularSeason, 2024)
	if !last.Equal(models.NewDate(2024, 9, 15)) {
		t.Errorf("last after invalidation = %s", last)
	}
}
