package database

import (
	"context"
	"fmt"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// GameRepository maintains the relational projection of completed games
// alongside the event store, for standings-style queries.
type GameRepository struct {
	db     *DB
	logger *logging.Logger
}

// NewGameRepository creates the repository
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{
		db:     db,
		logger: logging.WithPrefix("game_repo"),
	}
}

func (r *GameRepository) exec(exec Executor) Executor {
	if exec == nil {
		return r.db
	}
	return exec
}

// UpsertResult writes or rewrites the games row for one completed game
func (r *GameRepository) UpsertResult(ctx context.Context, exec Executor, dynastyID string, season int, gameDate models.Date, result *models.GameResult) error {
	seasonType := models.SeasonTypeForGameType(result.GameType)
	_, err := r.exec(exec).ExecContext(ctx, `
		INSERT INTO games (game_id, dynasty_id, season, week, season_type, game_type,
		                   home_team_id, away_team_id, home_score, away_score, game_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			home_score = excluded.home_score,
			away_score = excluded.away_score`,
		result.GameID, dynastyID, season, result.Week, seasonType, result.GameType,
		result.HomeTeamID, result.AwayTeamID, result.HomeScore, result.AwayScore,
		gameDate.UnixMillis())
	if err != nil {
		return fmt.Errorf("failed to upsert game %s: %w", result.GameID, err)
	}
	return nil
}

// CountBySeason returns completed-game counts for one season type
func (r *GameRepository) CountBySeason(ctx context.Context, dynastyID string, season int, seasonType string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM games
		WHERE dynasty_id = ? AND season = ? AND season_type = ?`,
		dynastyID, season, models.NormalizeSeasonType(seasonType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

// PlayerStatsRepository persists per-player stat rows for simulated games
type PlayerStatsRepository struct {
	db     *DB
	logger *logging.Logger
}

// NewPlayerStatsRepository creates the repository
func NewPlayerStatsRepository(db *DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{
		db:     db,
		logger: logging.WithPrefix("player_stats_repo"),
	}
}

// InsertGameStats records the stat lines for one game
func (r *PlayerStatsRepository) InsertGameStats(ctx context.Context, exec Executor, dynastyID, gameID string, stats []models.PlayerStatLine) error {
	e := Executor(r.db)
	if exec != nil {
		e = exec
	}
	for _, line := range stats {
		if _, err := e.ExecContext(ctx, `
			INSERT INTO player_game_stats
				(dynasty_id, game_id, player_id, team_id, position,
				 pass_yards, rush_yards, rec_yards, touchdowns)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			dynastyID, gameID, line.PlayerID, line.TeamID, line.Position,
			line.PassYards, line.RushYards, line.RecYards, line.Touchdowns); err != nil {
			return fmt.Errorf("failed to insert stats for player %d game %s: %w",
				line.PlayerID, gameID, err)
		}
	}
	return nil
}
