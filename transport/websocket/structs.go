package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/familyword-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ConnectedPayload struct {
	SessionID string `json:"sessionId"`
}

type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type SubmitWordPayload struct {
	Word string `json:"word"`
}

type MakeGuessPayload struct {
	TargetPlayerID string `json:"targetPlayerId"`
	Word           string `json:"word"`
}

type WordSubmittedPayload struct {
	PlayerID     string `json:"playerId"`
	WordCount    int    `json:"wordCount"`
	TotalPlayers int    `json:"totalPlayers"`
}

type ReadingWordsPayload struct {
	Words []string `json:"words"`
}

type PlayerLeftPayload struct {
	Player PlayerView `json:"player"`
	Room   RoomView   `json:"room"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PlayerView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

// RoomView is the serialized room shape broadcast to clients. Secret
// words never appear; the shuffled list is withheld until the reading
// phase so word order cannot leak early.
type RoomView struct {
	Code          string          `json:"code"`
	State         string          `json:"state"`
	Players       []PlayerView    `json:"players"`
	HostID        string          `json:"hostId"`
	WordCount     int             `json:"wordCount"`
	Families      []entity.Family `json:"families"`
	CurrentTurnID string          `json:"currentTurnId"`
	TurnOrder     []string        `json:"turnOrder"`
	ShuffledWords []string        `json:"shuffledWords,omitempty"`
}

func newPlayerView(player *entity.Player) PlayerView {
	return PlayerView{
		ID:     player.ID,
		Name:   player.Name,
		IsHost: player.IsHost,
	}
}

func newRoomView(room *entity.Room) RoomView {
	players := make([]PlayerView, 0, len(room.Players))
	for _, player := range room.Players {
		players = append(players, newPlayerView(player))
	}

	view := RoomView{
		Code:          room.Code,
		State:         room.State,
		Players:       players,
		HostID:        room.HostID,
		WordCount:     len(room.Words),
		Families:      room.Families,
		CurrentTurnID: room.CurrentTurnID,
		TurnOrder:     room.TurnOrder,
	}

	switch room.State {
	case entity.StateReading, entity.StatePlaying, entity.StateEnded:
		view.ShuffledWords = room.ShuffledWords
	}

	return view
}
