package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/familyword-backend/internal/entity"
)

const persistTimeout = 10 * time.Second

type gameEngine interface {
	CreateRoom(hostName, sessionID string) (*entity.Room, error)
	JoinRoom(code, playerName, sessionID string) (*entity.Room, error)
	RemovePlayer(sessionID string) (*entity.Room, *entity.Player, bool)
	StartGame(sessionID string) (*entity.Room, error)
	SubmitWord(sessionID, word string) (*entity.Room, bool, error)
	ShuffledWords(sessionID string) ([]string, error)
	AdvanceFromReading(sessionID string) (*entity.Room, error)
	MakeGuess(sessionID, targetID, word string) (*entity.GuessResult, *entity.Room, error)
}

type historyRepo interface {
	SaveEndedGame(ctx context.Context, room *entity.Room, winnerLeaderID string) (string, error)
}

// GameManager sits between the transport and the engine. It forwards
// every inbound event to the engine and hands finished games to the
// history repository without ever blocking gameplay on that write.
type GameManager struct {
	logger  *slog.Logger
	engine  gameEngine
	history historyRepo
}

func NewGameManager(logger *slog.Logger, engine gameEngine, history historyRepo) *GameManager {
	return &GameManager{
		logger: logger,

		engine:  engine,
		history: history,
	}
}

func (that *GameManager) CreateRoom(hostName, sessionID string) (*entity.Room, error) {
	return that.engine.CreateRoom(hostName, sessionID)
}

func (that *GameManager) JoinRoom(code, playerName, sessionID string) (*entity.Room, error) {
	return that.engine.JoinRoom(code, playerName, sessionID)
}

func (that *GameManager) RemovePlayer(sessionID string) (*entity.Room, *entity.Player, bool) {
	return that.engine.RemovePlayer(sessionID)
}

func (that *GameManager) StartGame(sessionID string) (*entity.Room, error) {
	return that.engine.StartGame(sessionID)
}

func (that *GameManager) SubmitWord(sessionID, word string) (*entity.Room, bool, error) {
	return that.engine.SubmitWord(sessionID, word)
}

func (that *GameManager) ShuffledWords(sessionID string) ([]string, error) {
	return that.engine.ShuffledWords(sessionID)
}

func (that *GameManager) AdvanceFromReading(sessionID string) (*entity.Room, error) {
	return that.engine.AdvanceFromReading(sessionID)
}

// MakeGuess - resolves a guess; a winning guess additionally triggers
// the fire-and-forget persistence handoff. By then the room is already
// ENDED, so a failed write never affects players.
func (that *GameManager) MakeGuess(sessionID, targetID, word string) (*entity.GuessResult, *entity.Room, error) {
	result, room, err := that.engine.MakeGuess(sessionID, targetID, word)
	if err != nil {
		return nil, nil, err
	}

	if result.GameOver && result.Winner != nil {
		go that.persistEndedGame(room, result.Winner.LeaderID)
	}

	return result, room, nil
}

func (that *GameManager) persistEndedGame(room *entity.Room, winnerLeaderID string) {
	log := that.logger.With("method", "persistEndedGame")

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	gameID, err := that.history.SaveEndedGame(ctx, room, winnerLeaderID)
	if err != nil {
		log.Error("failed to persist ended game", "roomCode", room.Code, "error", err)
		return
	}

	log.Info("game persisted", "roomCode", room.Code, "gameID", gameID)
}
