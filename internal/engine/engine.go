package engine

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rocketscienceinc/familyword-backend/internal/apperror"
	"github.com/rocketscienceinc/familyword-backend/internal/entity"
)

// Engine owns every live room and the session index, and is the sole
// authority for game-state mutation. All operations run under one
// mutex, so each inbound event is an atomic unit of work. Rooms
// returned to callers are always detached snapshots taken under that
// mutex; the live room never leaves the engine, so transports may read
// and serialize results from any goroutine.
type Engine struct {
	mu       sync.Mutex
	rooms    map[string]*entity.Room
	sessions map[string]string
	rnd      entity.RandFunc
}

// New - builds an empty registry. A nil rnd falls back to math/rand;
// tests inject their own source to pin shuffle outcomes.
func New(rnd entity.RandFunc) *Engine {
	if rnd == nil {
		rnd = rand.Float64
	}

	return &Engine{
		rooms:    make(map[string]*entity.Room),
		sessions: make(map[string]string),
		rnd:      rnd,
	}
}

// CreateRoom - creates a room in the lobby state with the caller as its
// only player and host.
func (that *Engine) CreateRoom(hostName, sessionID string) (*entity.Room, error) {
	name, err := entity.ValidatePlayerName(hostName)
	if err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	code, err := that.uniqueCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate room code: %w", err)
	}

	host := &entity.Player{
		ID:   sessionID,
		Name: name,
	}

	room := entity.NewRoom(code, host)

	that.rooms[code] = room
	that.sessions[sessionID] = code

	return room.Snapshot(), nil
}

// GetRoom - pure lookup, no side effects.
func (that *Engine) GetRoom(code string) (*entity.Room, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[code]
	if !ok {
		return nil, false
	}

	return room.Snapshot(), true
}

// RoomBySession - resolves the caller's current room, if any.
func (that *Engine) RoomBySession(sessionID string) (*entity.Room, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.resolveRoom(sessionID)
	if err != nil {
		return nil, false
	}

	return room.Snapshot(), true
}

// JoinRoom - adds the caller to an existing lobby room.
func (that *Engine) JoinRoom(code, playerName, sessionID string) (*entity.Room, error) {
	name, err := entity.ValidatePlayerName(playerName)
	if err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	player := &entity.Player{
		ID:   sessionID,
		Name: name,
	}

	if err = room.Join(player); err != nil {
		return nil, err
	}

	that.sessions[sessionID] = code

	return room.Snapshot(), nil
}

// RemovePlayer - takes the caller out of its room, dropping the room
// entirely when it empties. The detached room and player are still
// returned so the transport can notify anyone remaining.
func (that *Engine) RemovePlayer(sessionID string) (*entity.Room, *entity.Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	code, ok := that.sessions[sessionID]
	if !ok {
		return nil, nil, false
	}

	delete(that.sessions, sessionID)

	room, ok := that.rooms[code]
	if !ok {
		return nil, nil, false
	}

	player := room.RemovePlayer(sessionID)
	if player == nil {
		return nil, nil, false
	}

	if len(room.Players) == 0 {
		delete(that.rooms, code)
	}

	removed := *player

	return room.Snapshot(), &removed, true
}

// StartGame - host-only transition from the lobby into word entry.
func (that *Engine) StartGame(sessionID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.resolveRoom(sessionID)
	if err != nil {
		return nil, err
	}

	if err = room.StartWordEntry(sessionID); err != nil {
		return nil, err
	}

	return room.Snapshot(), nil
}

// SubmitWord - records the caller's word; reports whether this was the
// final submission, which moves the room into reading.
func (that *Engine) SubmitWord(sessionID, word string) (*entity.Room, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.resolveRoom(sessionID)
	if err != nil {
		return nil, false, err
	}

	allSubmitted, err := room.SubmitWord(sessionID, word, that.rnd)
	if err != nil {
		return nil, false, err
	}

	return room.Snapshot(), allSubmitted, nil
}

// ShuffledWords - returns the shuffled word list for reading aloud.
func (that *Engine) ShuffledWords(sessionID string) ([]string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.resolveRoom(sessionID)
	if err != nil {
		return nil, err
	}

	words, err := room.WordsForReading()
	if err != nil {
		return nil, err
	}

	return slices.Clone(words), nil
}

// AdvanceFromReading - host-only transition from reading into play.
func (that *Engine) AdvanceFromReading(sessionID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.resolveRoom(sessionID)
	if err != nil {
		return nil, err
	}

	if err = room.BeginPlaying(sessionID, that.rnd); err != nil {
		return nil, err
	}

	return room.Snapshot(), nil
}

// MakeGuess - resolves one guess by the caller against the target.
func (that *Engine) MakeGuess(sessionID, targetID, word string) (*entity.GuessResult, *entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.resolveRoom(sessionID)
	if err != nil {
		return nil, nil, err
	}

	result, err := room.Guess(sessionID, targetID, word, time.Now())
	if err != nil {
		return nil, nil, err
	}

	return result, room.Snapshot(), nil
}

// uniqueCode - re-rolls until the code does not collide with a live
// room. Callers must hold the mutex.
func (that *Engine) uniqueCode() (string, error) {
	for {
		code, err := generateCode()
		if err != nil {
			return "", err
		}

		if _, taken := that.rooms[code]; !taken {
			return code, nil
		}
	}
}

// resolveRoom - maps a session id to its room. Callers must hold the
// mutex.
func (that *Engine) resolveRoom(sessionID string) (*entity.Room, error) {
	code, ok := that.sessions[sessionID]
	if !ok {
		return nil, apperror.ErrNotInRoom
	}

	room, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrNotInRoom
	}

	return room, nil
}
