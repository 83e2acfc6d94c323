// FILE: internal/server/storage/game.go
package storage

import (
	"database/sql"
	"fmt"
)

// RecordNewGame queues the insert of a new game
func (s *Store) RecordNewGame(record GameRecord) error {
	return s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (
			game_id, initial_position,
			white_player_id, white_name, white_user_id,
			black_player_id, black_name, black_user_id,
			start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.InitialPosition,
			record.WhitePlayerID, record.WhiteName, record.WhiteUserID,
			record.BlackPlayerID, record.BlackName, record.BlackUserID,
			record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove queues the insert of a played move
func (s *Store) RecordMove(record MoveRecord) error {
	return s.enqueue("move record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO moves (
			game_id, move_number, move_text, position_after_move, player_color, state, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.MoveNumber, record.MoveText,
			record.Position, record.PlayerColor, record.State, record.MoveTimeUTC,
		)
		return err
	})
}

// DeleteUndoneMoves queues removal of moves numbered above afterMoveNumber
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) error {
	return s.enqueue("undo", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber)
		return err
	})
}

// QueryGames lists games, newest first. Empty or "*" filters match everything;
// userID matches either side.
func (s *Store) QueryGames(gameID, userID string) ([]GameRecord, error) {
	query := `SELECT game_id, initial_position,
		white_player_id, white_name, white_user_id,
		black_player_id, black_name, black_user_id,
		start_time_utc
	FROM games WHERE 1=1`
	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	if userID != "" && userID != "*" {
		query += " AND (white_user_id = ? OR black_user_id = ?)"
		args = append(args, userID, userID)
	}
	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(
			&g.GameID, &g.InitialPosition,
			&g.WhitePlayerID, &g.WhiteName, &g.WhiteUserID,
			&g.BlackPlayerID, &g.BlackName, &g.BlackUserID,
			&g.StartTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// QueryMoves returns the recorded moves of a game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT move_id, game_id, move_number, move_text,
		position_after_move, player_color, state, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(&m.MoveID, &m.GameID, &m.MoveNumber, &m.MoveText,
			&m.Position, &m.PlayerColor, &m.State, &m.MoveTimeUTC); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// DeleteGameRecord queues removal of a game; its moves cascade
func (s *Store) DeleteGameRecord(gameID string) error {
	return s.enqueue("game deletion", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM games WHERE game_id = ?`, gameID)
		return err
	})
}
