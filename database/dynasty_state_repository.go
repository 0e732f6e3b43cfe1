package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// Repository errors
var (
	// ErrNoRowsAffected is the fail-loud signal for an update that
	// silently matched nothing.
	ErrNoRowsAffected = errors.New("update affected zero rows")
	// ErrStateVerification is returned when a post-write read does not
	// match what was written.
	ErrStateVerification = errors.New("post-write state verification failed")
	// ErrDraftPickOutOfRange guards dynasty_state.current_draft_pick.
	ErrDraftPickOutOfRange = errors.New("draft pick out of range")
)

// DynastyStateRepository persists DynastyState rows: the durable
// counterpart to the in-memory PhaseState.
type DynastyStateRepository struct {
	db     *DB
	logger *logging.Logger
}

// NewDynastyStateRepository creates the repository
func NewDynastyStateRepository(db *DB) *DynastyStateRepository {
	return &DynastyStateRepository{
		db:     db,
		logger: logging.WithPrefix("dynasty_state_repo"),
	}
}

func (r *DynastyStateRepository) exec(exec Executor) Executor {
	if exec == nil {
		return r.db
	}
	return exec
}

// DeriveSeasonFromDate maps a YYYY-MM-DD string to its NFL season year:
// months 8-12 map to the calendar year, months 1-7 to the year before.
func DeriveSeasonFromDate(dateStr string) (int, error) {
	date, err := models.ParseDate(dateStr)
	if err != nil {
		return 0, err
	}
	return models.DeriveSeasonYear(date), nil
}

// GetCurrent fetches the state row for an exact (dynasty, season);
// returns nil when none exists
func (r *DynastyStateRepository) GetCurrent(ctx context.Context, dynastyID string, season int) (*models.DynastyState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, dynasty_id, season, "current_date", current_phase, current_week,
		       last_simulated_game_id, current_draft_pick, draft_in_progress, updated_at
		FROM dynasty_state WHERE dynasty_id = ? AND season = ?`, dynastyID, season)
	return scanDynastyState(row)
}

// GetLatest fetches the row with the highest season_year; persisted
// season_year is the single source of truth when restoring a dynasty.
func (r *DynastyStateRepository) GetLatest(ctx context.Context, dynastyID string) (*models.DynastyState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, dynasty_id, season, "current_date", current_phase, current_week,
		       last_simulated_game_id, current_draft_pick, draft_in_progress, updated_at
		FROM dynasty_state WHERE dynasty_id = ?
		ORDER BY season DESC LIMIT 1`, dynastyID)
	return scanDynastyState(row)
}

// Initialize replaces any existing row for (dynasty, season) with a fresh
// one and verifies the written date reads back correctly. A season that
// disagrees with the date's derived year is corrected to the derived
// value.
func (r *DynastyStateRepository) Initialize(ctx context.Context, exec Executor, dynastyID string, season int, startDate models.Date, startWeek int, startPhase models.SeasonPhase) (*models.DynastyState, error) {
	if derived := models.DeriveSeasonYear(startDate); derived != season {
		r.logger.Warnf("Season %d does not match derived year %d for date %s; using derived",
			season, derived, startDate)
		season = derived
	}

	e := r.exec(exec)
	if _, err := e.ExecContext(ctx,
		"DELETE FROM dynasty_state WHERE dynasty_id = ? AND season = ?", dynastyID, season); err != nil {
		return nil, fmt.Errorf("failed to clear existing state: %w", err)
	}

	if _, err := e.ExecContext(ctx, `
		INSERT INTO dynasty_state
			(dynasty_id, season, current_date, current_phase, current_week,
			 current_draft_pick, draft_in_progress, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
		dynastyID, season, startDate.String(), startPhase.String(), startWeek, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to insert dynasty state: %w", err)
	}

	// Read back through the same executor so an enclosing transaction
	// sees its own write.
	row := e.QueryRowContext(ctx, `
		SELECT id, dynasty_id, season, "current_date", current_phase, current_week,
		       last_simulated_game_id, current_draft_pick, draft_in_progress, updated_at
		FROM dynasty_state WHERE dynasty_id = ? AND season = ?`, dynastyID, season)
	state, err := scanDynastyState(row)
	if err != nil {
		return nil, err
	}
	if state == nil || !state.CurrentDate.Equal(startDate) {
		return nil, fmt.Errorf("%w: expected current_date %s", ErrStateVerification, startDate)
	}

	r.logger.Infof("Initialized dynasty %s season %d at %s (%s)",
		dynastyID, season, startDate, startPhase)
	return state, nil
}

// Update upserts-by-key the state for (dynasty, season) and fails loud
// when zero rows are affected. week <= 0 and lastGameID "" leave those
// columns untouched. Season/date disagreement is corrected to the
// derived year.
func (r *DynastyStateRepository) Update(ctx context.Context, exec Executor, dynastyID string, season int, currentDate models.Date, currentPhase models.SeasonPhase, week int, lastGameID string) error {
	if derived := models.DeriveSeasonYear(currentDate); derived != season {
		r.logger.Warnf("Season %d does not match derived year %d for date %s; using derived",
			season, derived, currentDate)
		season = derived
	}

	query := "UPDATE dynasty_state SET current_date = ?, current_phase = ?, updated_at = ?"
	args := []interface{}{currentDate.String(), currentPhase.String(), time.Now()}
	if week > 0 {
		query += ", current_week = ?"
		args = append(args, week)
	}
	if lastGameID != "" {
		query += ", last_simulated_game_id = ?"
		args = append(args, lastGameID)
	}
	query += " WHERE dynasty_id = ? AND season = ?"
	args = append(args, dynastyID, season)

	res, err := r.exec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update dynasty state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: dynasty %s season %d", ErrNoRowsAffected, dynastyID, season)
	}
	return nil
}

// UpdateSeason rewrites the season_year of the most recent row; used only
// by the season year synchronizer.
func (r *DynastyStateRepository) UpdateSeason(ctx context.Context, exec Executor, dynastyID string, newSeason int) error {
	res, err := r.exec(exec).ExecContext(ctx, `
		UPDATE dynasty_state SET season = ?, updated_at = ?
		WHERE id = (SELECT id FROM dynasty_state WHERE dynasty_id = ? ORDER BY season DESC LIMIT 1)`,
		newSeason, time.Now(), dynastyID)
	if err != nil {
		return fmt.Errorf("failed to update season for dynasty %s: %w", dynastyID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: no state rows for dynasty %s", ErrNoRowsAffected, dynastyID)
	}
	r.logger.Infof("Updated dynasty %s season to %d", dynastyID, newSeason)
	return nil
}

// UpdateDraftProgress records draft position; pick must be within
// [0, MaxDraftPick].
func (r *DynastyStateRepository) UpdateDraftProgress(ctx context.Context, exec Executor, dynastyID string, season, currentPick int, inProgress bool) error {
	if currentPick < 0 || currentPick > models.MaxDraftPick {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrDraftPickOutOfRange, currentPick, models.MaxDraftPick)
	}

	res, err := r.exec(exec).ExecContext(ctx, `
		UPDATE dynasty_state SET current_draft_pick = ?, draft_in_progress = ?, updated_at = ?
		WHERE dynasty_id = ? AND season = ?`,
		currentPick, boolToInt(inProgress), time.Now(), dynastyID, season)
	if err != nil {
		return fmt.Errorf("failed to update draft progress: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: dynasty %s season %d", ErrNoRowsAffected, dynastyID, season)
	}
	return nil
}

// Delete removes the state row for (dynasty, season) and returns the row
// count removed
func (r *DynastyStateRepository) Delete(ctx context.Context, exec Executor, dynastyID string, season int) (int64, error) {
	res, err := r.exec(exec).ExecContext(ctx,
		"DELETE FROM dynasty_state WHERE dynasty_id = ? AND season = ?", dynastyID, season)
	if err != nil {
		return 0, fmt.Errorf("failed to delete dynasty state: %w", err)
	}
	return res.RowsAffected()
}

func scanDynastyState(row *sql.Row) (*models.DynastyState, error) {
	var state models.DynastyState
	var dateStr, phaseStr string
	var week sql.NullInt64
	var lastGame sql.NullString
	var draftInProgress int

	err := row.Scan(&state.ID, &state.DynastyID, &state.Season, &dateStr, &phaseStr,
		&week, &lastGame, &state.CurrentDraftPick, &draftInProgress, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan dynasty state: %w", err)
	}

	date, err := models.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("stored current_date is invalid: %w", err)
	}
	phase, err := models.ParseSeasonPhase(phaseStr)
	if err != nil {
		return nil, fmt.Errorf("stored current_phase is invalid: %w", err)
	}

	state.CurrentDate = date
	state.CurrentPhase = phase
	state.CurrentWeek = int(week.Int64)
	state.LastSimulatedGameID = lastGame.String
	state.DraftInProgress = draftInProgress != 0
	return &state, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
