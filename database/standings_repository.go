package database

import (
	"context"
	"fmt"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// StandingsRepository persists per-team records split by
// (dynasty, season, season_type)
type StandingsRepository struct {
	db     *DB
	logger *logging.Logger
}

// NewStandingsRepository creates the repository
func NewStandingsRepository(db *DB) *StandingsRepository {
	return &StandingsRepository{
		db:     db,
		logger: logging.WithPrefix("standings_repo"),
	}
}

func (r *StandingsRepository) exec(exec Executor) Executor {
	if exec == nil {
		return r.db
	}
	return exec
}

// ResetStandings deletes and recreates all 32 team rows at 0-0-0 for one
// (dynasty, season, season_type)
func (r *StandingsRepository) ResetStandings(ctx context.Context, exec Executor, dynastyID string, season int, seasonType string) error {
	seasonType = models.NormalizeSeasonType(seasonType)
	e := r.exec(exec)

	if _, err := e.ExecContext(ctx, `
		DELETE FROM standings WHERE dynasty_id = ? AND season = ? AND season_type = ?`,
		dynastyID, season, seasonType); err != nil {
		return fmt.Errorf("failed to clear standings: %w", err)
	}

	for _, team := range models.AllTeams() {
		if _, err := e.ExecContext(ctx, `
			INSERT INTO standings (dynasty_id, team_id, season, season_type)
			VALUES (?, ?, ?, ?)`,
			dynastyID, team.ID, season, seasonType); err != nil {
			return fmt.Errorf("failed to insert standings row for team %d: %w", team.ID, err)
		}
	}

	r.logger.Infof("Reset standings for dynasty %s season %d type %s (%d teams)",
		dynastyID, season, seasonType, models.TeamCount)
	return nil
}

// RecordGameResult applies one completed game to both teams' rows,
// including division, conference, and home/away splits.
func (r *StandingsRepository) RecordGameResult(ctx context.Context, exec Executor, dynastyID string, season int, seasonType string, result *models.GameResult) error {
	seasonType = models.NormalizeSeasonType(seasonType)

	divisional := models.SameDivision(result.HomeTeamID, result.AwayTeamID)
	conference := models.SameConference(result.HomeTeamID, result.AwayTeamID)

	homeOutcome := outcomeFor(result, result.HomeTeamID)
	awayOutcome := outcomeFor(result, result.AwayTeamID)

	if err := r.applyOutcome(ctx, exec, dynastyID, season, seasonType, result.HomeTeamID,
		homeOutcome, true, divisional, conference, result.HomeScore, result.AwayScore); err != nil {
		return err
	}
	if err := r.applyOutcome(ctx, exec, dynastyID, season, seasonType, result.AwayTeamID,
		awayOutcome, false, divisional, conference, result.AwayScore, result.HomeScore); err != nil {
		return err
	}
	return nil
}

type gameOutcome int

const (
	outcomeWin gameOutcome = iota
	outcomeLoss
	outcomeTie
)

func outcomeFor(result *models.GameResult, teamID int) gameOutcome {
	if result.WinnerTeamID == nil {
		return outcomeTie
	}
	if *result.WinnerTeamID == teamID {
		return outcomeWin
	}
	return outcomeLoss
}

func (r *StandingsRepository) applyOutcome(ctx context.Context, exec Executor, dynastyID string, season int, seasonType string, teamID int, outcome gameOutcome, home, divisional, conference bool, pointsFor, pointsAgainst int) error {
	var col string
	switch outcome {
	case outcomeWin:
		col = "wins"
	case outcomeLoss:
		col = "losses"
	default:
		col = "ties"
	}

	query := fmt.Sprintf("UPDATE standings SET %s = %s + 1", col, col)
	if divisional {
		query += fmt.Sprintf(", division_%s = division_%s + 1", col, col)
	}
	if conference {
		query += fmt.Sprintf(", conference_%s = conference_%s + 1", col, col)
	}
	if home {
		query += fmt.Sprintf(", home_%s = home_%s + 1", col, col)
	} else {
		query += fmt.Sprintf(", away_%s = away_%s + 1", col, col)
	}
	query += `, points_for = points_for + ?, points_against = points_against + ?
		WHERE dynasty_id = ? AND team_id = ? AND season = ? AND season_type = ?`

	res, err := r.exec(exec).ExecContext(ctx, query,
		pointsFor, pointsAgainst, dynastyID, teamID, season, seasonType)
	if err != nil {
		return fmt.Errorf("failed to update standings for team %d: %w", teamID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: standings row missing for team %d season %d type %s",
			ErrNoRowsAffected, teamID, season, seasonType)
	}
	return nil
}

// GetStandings returns all team rows for one (dynasty, season,
// season_type) ordered best-to-worst
func (r *StandingsRepository) GetStandings(ctx context.Context, dynastyID string, season int, seasonType string) ([]*models.TeamStanding, error) {
	seasonType = models.NormalizeSeasonType(seasonType)
	rows, err := r.db.QueryContext(ctx, `
		SELECT dynasty_id, team_id, season, season_type,
		       wins, losses, ties,
		       division_wins, division_losses, division_ties,
		       conference_wins, conference_losses, conference_ties,
		       home_wins, home_losses, home_ties,
		       away_wins, away_losses, away_ties,
		       points_for, points_against
		FROM standings
		WHERE dynasty_id = ? AND season = ? AND season_type = ?
		ORDER BY wins DESC, ties DESC, points_for - points_against DESC, team_id ASC`,
		dynastyID, season, seasonType)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var standings []*models.TeamStanding
	for rows.Next() {
		var s models.TeamStanding
		if err := rows.Scan(&s.DynastyID, &s.TeamID, &s.Season, &s.SeasonType,
			&s.Wins, &s.Losses, &s.Ties,
			&s.DivisionWins, &s.DivisionLosses, &s.DivisionTies,
			&s.ConferenceWins, &s.ConferenceLosses, &s.ConferenceTies,
			&s.HomeWins, &s.HomeLosses, &s.HomeTies,
			&s.AwayWins, &s.AwayLosses, &s.AwayTies,
			&s.PointsFor, &s.PointsAgainst); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		standings = append(standings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate standings: %w", err)
	}
	return standings, nil
}
