package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// DynastyRepository manages the dynasty registry. Every other table hangs
// off a dynasty row via foreign key.
type DynastyRepository struct {
	db     *DB
	logger *logging.Logger
}

// NewDynastyRepository creates the repository
func NewDynastyRepository(db *DB) *DynastyRepository {
	return &DynastyRepository{
		db:     db,
		logger: logging.WithPrefix("dynasty_repo"),
	}
}

// EnsureDynasty creates the dynasty row if it does not exist yet
func (r *DynastyRepository) EnsureDynasty(ctx context.Context, dynastyID, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dynasties (dynasty_id, dynasty_name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(dynasty_id) DO NOTHING`,
		dynastyID, name, time.Now())
	if err != nil {
		return fmt.Errorf("failed to ensure dynasty %s: %w", dynastyID, err)
	}
	return nil
}

// Get fetches a dynasty row; returns nil when not found
func (r *DynastyRepository) Get(ctx context.Context, dynastyID string) (*models.Dynasty, error) {
	var d models.Dynasty
	var teamID sql.NullInt64
	var lastPlayed sql.NullTime
	var isActive int
	err := r.db.QueryRowContext(ctx, `
		SELECT dynasty_id, dynasty_name, owner_name, team_id, created_at, last_played, total_seasons, is_active
		FROM dynasties WHERE dynasty_id = ?`, dynastyID).
		Scan(&d.DynastyID, &d.DynastyName, &d.OwnerName, &teamID, &d.CreatedAt, &lastPlayed, &d.TotalSeasons, &isActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dynasty %s: %w", dynastyID, err)
	}
	d.TeamID = int(teamID.Int64)
	d.LastPlayed = lastPlayed.Time
	d.IsActive = isActive != 0
	return &d, nil
}

// TouchLastPlayed stamps last_played and optionally bumps total_seasons;
// called on every advance and at season rollover.
func (r *DynastyRepository) TouchLastPlayed(ctx context.Context, exec Executor, dynastyID string, incrementSeasons bool) error {
	e := Executor(r.db)
	if exec != nil {
		e = exec
	}
	query := "UPDATE dynasties SET last_played = ?"
	if incrementSeasons {
		query += ", total_seasons = total_seasons + 1"
	}
	query += " WHERE dynasty_id = ?"
	if _, err := e.ExecContext(ctx, query, time.Now(), dynastyID); err != nil {
		return fmt.Errorf("failed to touch dynasty %s: %w", dynastyID, err)
	}
	return nil
}
