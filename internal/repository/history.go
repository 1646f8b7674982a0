package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/familyword-backend/internal/entity"
	"github.com/rocketscienceinc/familyword-backend/internal/repository/storage"
)

var ErrGameNotFound = errors.New("game not found")

type GameSummary struct {
	ID               string    `json:"id"`
	RoomCode         string    `json:"roomCode"`
	CreatedAt        time.Time `json:"createdAt"`
	EndedAt          time.Time `json:"endedAt"`
	WinnerPlayerName string    `json:"winnerPlayerName"`
	TotalPlayers     int       `json:"totalPlayers"`
	DurationSeconds  int       `json:"durationSeconds"`
	TotalGuesses     int       `json:"totalGuesses"`
	CorrectPercent   int       `json:"correctPercent"`
}

type GamePlayerRecord struct {
	PlayerName            string `json:"playerName"`
	SubmittedWord         string `json:"submittedWord"`
	FinalFamilyLeaderName string `json:"finalFamilyLeaderName"`
	WasWinner             bool   `json:"wasWinner"`
}

type GameGuessRecord struct {
	GuesserPlayerName string    `json:"guesserPlayerName"`
	GuessedPlayerName string    `json:"guessedPlayerName"`
	GuessedWord       string    `json:"guessedWord"`
	WasCorrect        bool      `json:"wasCorrect"`
	Timestamp         time.Time `json:"timestamp"`
}

type GameDetail struct {
	GameSummary
	Players []GamePlayerRecord `json:"players"`
	Guesses []GameGuessRecord  `json:"guesses"`
}

type HistoryRepository interface {
	SaveEndedGame(ctx context.Context, room *entity.Room, winnerLeaderID string) (string, error)
	ListGames(ctx context.Context, limit int) ([]GameSummary, error)
	GetGameByID(ctx context.Context, id string) (*GameDetail, error)
}

type dbHistory struct {
	conn *sql.DB
}

func NewHistoryRepository(store *storage.Storage) HistoryRepository {
	return &dbHistory{
		conn: store.Connection,
	}
}

// SaveEndedGame - durably records a finished room. Session ids are not
// stable beyond a room's life, so every id is resolved to a player name
// here, at hand-off time.
func (that *dbHistory) SaveEndedGame(ctx context.Context, room *entity.Room, winnerLeaderID string) (string, error) {
	winnerName := that.playerName(room, winnerLeaderID)

	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck // rollback after commit is a no-op

	gameID := uuid.NewString()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, room_code, created_at, ended_at, winner_player_name, total_players)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gameID, room.Code, room.CreatedAt, time.Now(), winnerName, len(room.Players))
	if err != nil {
		return "", fmt.Errorf("failed to insert game: %w", err)
	}

	for _, player := range room.Players {
		leaderID := player.ID
		for _, family := range room.Families {
			for _, memberID := range family.MemberIDs {
				if memberID == player.ID {
					leaderID = family.LeaderID
				}
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, player_name, submitted_word, final_family_leader_name, was_winner)
			 VALUES (?, ?, ?, ?, ?)`,
			gameID, player.Name, room.Words[player.ID], that.playerName(room, leaderID), leaderID == winnerLeaderID)
		if err != nil {
			return "", fmt.Errorf("failed to insert game player: %w", err)
		}
	}

	for _, guess := range room.Guesses {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO game_guesses (game_id, guesser_player_name, guessed_player_name, guessed_word, was_correct, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			gameID, that.playerName(room, guess.GuesserID), that.playerName(room, guess.TargetID),
			guess.Word, guess.Correct, guess.Timestamp)
		if err != nil {
			return "", fmt.Errorf("failed to insert game guess: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return gameID, nil
}

func (that *dbHistory) ListGames(ctx context.Context, limit int) ([]GameSummary, error) {
	rows, err := that.conn.QueryContext(ctx,
		`SELECT g.id, g.room_code, g.created_at, g.ended_at, g.winner_player_name, g.total_players,
			(SELECT COUNT(*) FROM game_guesses WHERE game_id = g.id),
			(SELECT COUNT(*) FROM game_guesses WHERE game_id = g.id AND was_correct = 1)
		 FROM games g
		 ORDER BY g.ended_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	summaries := make([]GameSummary, 0, limit)

	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read games: %w", err)
	}

	return summaries, nil
}

func (that *dbHistory) GetGameByID(ctx context.Context, id string) (*GameDetail, error) {
	rows, err := that.conn.QueryContext(ctx,
		`SELECT g.id, g.room_code, g.created_at, g.ended_at, g.winner_player_name, g.total_players,
			(SELECT COUNT(*) FROM game_guesses WHERE game_id = g.id),
			(SELECT COUNT(*) FROM game_guesses WHERE game_id = g.id AND was_correct = 1)
		 FROM games g
		 WHERE g.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrGameNotFound
	}

	summary, err := scanSummary(rows)
	if err != nil {
		return nil, err
	}

	if err = rows.Close(); err != nil {
		return nil, fmt.Errorf("failed to close rows: %w", err)
	}

	detail := &GameDetail{GameSummary: summary}

	if detail.Players, err = that.gamePlayers(ctx, id); err != nil {
		return nil, err
	}

	if detail.Guesses, err = that.gameGuesses(ctx, id); err != nil {
		return nil, err
	}

	return detail, nil
}

func (that *dbHistory) gamePlayers(ctx context.Context, gameID string) ([]GamePlayerRecord, error) {
	rows, err := that.conn.QueryContext(ctx,
		`SELECT player_name, submitted_word, final_family_leader_name, was_winner
		 FROM game_players
		 WHERE game_id = ?
		 ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game players: %w", err)
	}
	defer rows.Close()

	var players []GamePlayerRecord

	for rows.Next() {
		var record GamePlayerRecord
		if err = rows.Scan(&record.PlayerName, &record.SubmittedWord, &record.FinalFamilyLeaderName, &record.WasWinner); err != nil {
			return nil, fmt.Errorf("failed to scan game player: %w", err)
		}

		players = append(players, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game players: %w", err)
	}

	return players, nil
}

func (that *dbHistory) gameGuesses(ctx context.Context, gameID string) ([]GameGuessRecord, error) {
	rows, err := that.conn.QueryContext(ctx,
		`SELECT guesser_player_name, guessed_player_name, guessed_word, was_correct, timestamp
		 FROM game_guesses
		 WHERE game_id = ?
		 ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game guesses: %w", err)
	}
	defer rows.Close()

	var guesses []GameGuessRecord

	for rows.Next() {
		var record GameGuessRecord
		if err = rows.Scan(&record.GuesserPlayerName, &record.GuessedPlayerName, &record.GuessedWord, &record.WasCorrect, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan game guess: %w", err)
		}

		guesses = append(guesses, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game guesses: %w", err)
	}

	return guesses, nil
}

func (that *dbHistory) playerName(room *entity.Room, playerID string) string {
	if player := room.PlayerByID(playerID); player != nil {
		return player.Name
	}

	return "Unknown"
}

func scanSummary(rows *sql.Rows) (GameSummary, error) {
	var (
		summary        GameSummary
		correctGuesses int
	)

	err := rows.Scan(&summary.ID, &summary.RoomCode, &summary.CreatedAt, &summary.EndedAt,
		&summary.WinnerPlayerName, &summary.TotalPlayers, &summary.TotalGuesses, &correctGuesses)
	if err != nil {
		return GameSummary{}, fmt.Errorf("failed to scan game: %w", err)
	}

	summary.DurationSeconds = int(math.Round(summary.EndedAt.Sub(summary.CreatedAt).Seconds()))

	if summary.TotalGuesses > 0 {
		summary.CorrectPercent = int(math.Round(float64(correctGuesses) / float64(summary.TotalGuesses) * 100))
	}

	return summary, nil
}
