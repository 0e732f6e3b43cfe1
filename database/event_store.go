package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nfl-dynasty-go/logging"
	"nfl-dynasty-go/models"
)

// ErrDynastyRequired is returned when an event is inserted without a
// dynasty id; every durable row is dynasty-isolated.
var ErrDynastyRequired = errors.New("event requires a dynasty_id")

// EventStore is the generic polymorphic store for all scheduled and
// completed events: games and milestones alike. The store treats
// timestamps as opaque Unix-ms values and never interprets date semantics.
type EventStore struct {
	db     *DB
	logger *logging.Logger
}

// NewEventStore creates an event store over the given database
func NewEventStore(db *DB) *EventStore {
	return &EventStore{
		db:     db,
		logger: logging.WithPrefix("event_store"),
	}
}

func (s *EventStore) exec(exec Executor) Executor {
	if exec == nil {
		return s.db
	}
	return exec
}

// Insert stores one event. A nil exec uses the store's own pool; pass a
// TxContext to participate in a caller-owned transaction.
func (s *EventStore) Insert(ctx context.Context, exec Executor, event *models.Event) error {
	if event.DynastyID == "" {
		return ErrDynastyRequired
	}
	data, err := event.MarshalData()
	if err != nil {
		return err
	}

	_, err = s.exec(exec).ExecContext(ctx, `
		INSERT INTO events (event_id, event_type, timestamp, game_id, dynasty_id, data)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.EventID, event.EventType, event.Timestamp, nullString(event.GameID), event.DynastyID, string(data))
	if err != nil {
		return fmt.Errorf("failed to insert event %s: %w", event.EventID, err)
	}
	return nil
}

// InsertBatch stores all events in a single transaction: all or none.
// When exec is non-nil the caller's transaction provides atomicity.
func (s *EventStore) InsertBatch(ctx context.Context, exec Executor, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	if exec != nil {
		for _, event := range events {
			if err := s.Insert(ctx, exec, event); err != nil {
				return err
			}
		}
		return nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for batch insert: %w", err)
	}
	defer conn.Close()

	return WithTransaction(ctx, conn, TxImmediate, func(tx *TxContext) error {
		for _, event := range events {
			if err := s.Insert(ctx, tx, event); err != nil {
				return err
			}
		}
		s.logger.Debugf("Inserted batch of %d events", len(events))
		return nil
	})
}

// GetByID fetches a single event; returns nil when not found
func (s *EventStore) GetByID(ctx context.Context, eventID string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT event_id, event_type, timestamp, game_id, dynasty_id, data
		FROM events WHERE event_id = ?`, eventID)
	return scanEvent(row)
}

// GetByGameID fetches all events for a game id, chronological ascending
func (s *EventStore) GetByGameID(ctx context.Context, gameID string) ([]*models.Event, error) {
	return s.queryEvents(ctx, `
		SELECT event_id, event_type, timestamp, game_id, dynasty_id, data
		FROM events WHERE game_id = ? ORDER BY timestamp ASC`, gameID)
}

// GetByGameIDAndDynasty fetches events for a game within one dynasty,
// chronological ascending
func (s *EventStore) GetByGameIDAndDynasty(ctx context.Context, gameID, dynastyID string) ([]*models.Event, error) {
	return s.queryEvents(ctx, `
		SELECT event_id, event_type, timestamp, game_id, dynasty_id, data
		FROM events WHERE game_id = ? AND dynasty_id = ? ORDER BY timestamp ASC`, gameID, dynastyID)
}

// GetByDynasty fetches a dynasty's events, newest first. eventType ""
// means all types; limit <= 0 means no limit.
func (s *EventStore) GetByDynasty(ctx context.Context, dynastyID, eventType string, limit int) ([]*models.Event, error) {
	query := `
		SELECT event_id, event_type, timestamp, game_id, dynasty_id, data
		FROM events WHERE dynasty_id = ?`
	args := []interface{}{dynastyID}
	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}
	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryEvents(ctx, query, args...)
}

// GetByDynastyAndTimestamp fetches events in [startMS, endMS] ascending;
// this is the per-day advancement query. eventType "" means all types.
func (s *EventStore) GetByDynastyAndTimestamp(ctx context.Context, dynastyID string, startMS, endMS int64, eventType string) ([]*models.Event, error) {
	query := `
		SELECT event_id, event_type, timestamp, game_id, dynasty_id, data
		FROM events WHERE dynasty_id = ? AND timestamp >= ? AND timestamp <= ?`
	args := []interface{}{dynastyID, startMS, endMS}
	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}
	query += " ORDER BY timestamp ASC"
	return s.queryEvents(ctx, query, args...)
}

// Update rewrites a single event's payload and timestamp; used to append
// results after simulation. Returns whether a row was affected.
func (s *EventStore) Update(ctx context.Context, exec Executor, event *models.Event) (bool, error) {
	data, err := event.MarshalData()
	if err != nil {
		return false, err
	}

	res, err := s.exec(exec).ExecContext(ctx, `
		UPDATE events SET event_type = ?, timestamp = ?, game_id = ?, data = ?
		WHERE event_id = ?`,
		event.EventType, event.Timestamp, nullString(event.GameID), string(data), event.EventID)
	if err != nil {
		return false, fmt.Errorf("failed to update event %s: %w", event.EventID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a single event by id
func (s *EventStore) Delete(ctx context.Context, exec Executor, eventID string) (bool, error) {
	res, err := s.exec(exec).ExecContext(ctx, "DELETE FROM events WHERE event_id = ?", eventID)
	if err != nil {
		return false, fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeletePlayoffEvents removes all playoff game events for a season; used
// by playoff reset
func (s *EventStore) DeletePlayoffEvents(ctx context.Context, exec Executor, dynastyID string, season int) (int64, error) {
	res, err := s.exec(exec).ExecContext(ctx, `
		DELETE FROM events
		WHERE dynasty_id = ? AND event_type = ? AND game_id LIKE ?
		  AND CAST(json_extract(data, '$.parameters.season') AS INTEGER) = ?`,
		dynastyID, models.EventTypeGame, models.GameIDPrefixPlayoff+"%", season)
	if err != nil {
		return 0, fmt.Errorf("failed to delete playoff events: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	s.logger.Infof("Deleted %d playoff events for dynasty %s season %d", deleted, dynastyID, season)
	return deleted, nil
}

// DeleteSeasonSchedule removes every game event of a season; the
// compensating operation for a failed season rollover.
func (s *EventStore) DeleteSeasonSchedule(ctx context.Context, exec Executor, dynastyID string, season int) (int64, error) {
	res, err := s.exec(exec).ExecContext(ctx, `
		DELETE FROM events
		WHERE dynasty_id = ? AND event_type = ?
		  AND CAST(json_extract(data, '$.parameters.season') AS INTEGER) = ?`,
		dynastyID, models.EventTypeGame, season)
	if err != nil {
		return 0, fmt.Errorf("failed to delete season %d schedule: %w", season, err)
	}
	return res.RowsAffected()
}

// CountGames counts game events of a season type within a season,
// scheduled or completed
func (s *EventStore) CountGames(ctx context.Context, dynastyID string, season int, seasonType string) (int, error) {
	return s.countGames(ctx, dynastyID, season, seasonType, false)
}

// CountCompletedGames counts game events whose payload carries results
func (s *EventStore) CountCompletedGames(ctx context.Context, dynastyID string, season int, seasonType string) (int, error) {
	return s.countGames(ctx, dynastyID, season, seasonType, true)
}

func (s *EventStore) countGames(ctx context.Context, dynastyID string, season int, seasonType string, completedOnly bool) (int, error) {
	query := `
		SELECT COUNT(*) FROM events
		WHERE dynasty_id = ? AND event_type = ?
		  AND CAST(json_extract(data, '$.parameters.season') AS INTEGER) = ?
		  AND json_extract(data, '$.parameters.season_type') IN (?, ?)`
	// Legacy rows may carry "regular" where canonical is "regular_season".
	alias := seasonType
	if seasonType == models.SeasonTypeRegular {
		alias = "regular"
	}
	args := []interface{}{dynastyID, models.EventTypeGame, season, seasonType, alias}
	if completedOnly {
		query += " AND json_extract(data, '$.results') IS NOT NULL"
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

// GameDateRange returns the earliest and latest game timestamps of a
// season type within a season, and how many games exist. found is false
// when no games are scheduled.
func (s *EventStore) GameDateRange(ctx context.Context, dynastyID string, season int, seasonType string) (minMS, maxMS int64, found bool, err error) {
	alias := seasonType
	if seasonType == models.SeasonTypeRegular {
		alias = "regular"
	}
	var minNull, maxNull sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT MIN(timestamp), MAX(timestamp) FROM events
		WHERE dynasty_id = ? AND event_type = ?
		  AND CAST(json_extract(data, '$.parameters.season') AS INTEGER) = ?
		  AND json_extract(data, '$.parameters.season_type') IN (?, ?)`,
		dynastyID, models.EventTypeGame, season, seasonType, alias).Scan(&minNull, &maxNull)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to query game date range: %w", err)
	}
	if !minNull.Valid || !maxNull.Valid {
		return 0, 0, false, nil
	}
	return minNull.Int64, maxNull.Int64, true, nil
}

func (s *EventStore) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(row *sql.Row) (*models.Event, error) {
	var event models.Event
	var gameID sql.NullString
	var data string
	err := row.Scan(&event.EventID, &event.EventType, &event.Timestamp, &gameID, &event.DynastyID, &data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	event.GameID = gameID.String
	if err := event.UnmarshalData([]byte(data)); err != nil {
		return nil, err
	}
	return &event, nil
}

func scanEventRow(rows *sql.Rows) (*models.Event, error) {
	var event models.Event
	var gameID sql.NullString
	var data string
	if err := rows.Scan(&event.EventID, &event.EventType, &event.Timestamp, &gameID, &event.DynastyID, &data); err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}
	event.GameID = gameID.String
	if err := event.UnmarshalData([]byte(data)); err != nil {
		return nil, err
	}
	return &event, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
