package storage

import (
	"context"
	"database/sql"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

type Storage struct {
	Connection *sql.DB
}

func NewSQLiteStorage(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

func (that *Storage) Init(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			room_code TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP NOT NULL,
			winner_player_name TEXT NOT NULL,
			total_players INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS game_players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL REFERENCES games(id),
			player_name TEXT NOT NULL,
			submitted_word TEXT NOT NULL,
			final_family_leader_name TEXT NOT NULL,
			was_winner INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS game_guesses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL REFERENCES games(id),
			guesser_player_name TEXT NOT NULL,
			guessed_player_name TEXT NOT NULL,
			guessed_word TEXT NOT NULL,
			was_correct INTEGER NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := that.Connection.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("can't create table: %w", err)
		}
	}

	return nil
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}
