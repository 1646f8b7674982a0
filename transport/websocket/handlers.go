package websocket

import (
	"encoding/json"
	"fmt"
)

func (that *Server) handleCreateRoom(sessionID string, payload json.RawMessage) error {
	var req CreateRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.game.CreateRoom(req.PlayerName, sessionID)
	if err != nil {
		return err
	}

	that.hub.joinRoom(room.Code, sessionID)
	that.hub.sendTo(sessionID, "room_created", newRoomView(room))

	return nil
}

func (that *Server) handleJoinRoom(sessionID string, payload json.RawMessage) error {
	var req JoinRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.game.JoinRoom(req.RoomCode, req.PlayerName, sessionID)
	if err != nil {
		return err
	}

	that.hub.joinRoom(room.Code, sessionID)
	that.hub.broadcast(room.Code, "player_joined", newRoomView(room))

	return nil
}

func (that *Server) handleStartGame(sessionID string, _ json.RawMessage) error {
	room, err := that.game.StartGame(sessionID)
	if err != nil {
		return err
	}

	that.hub.broadcast(room.Code, "state_changed", newRoomView(room))

	return nil
}

func (that *Server) handleSubmitWord(sessionID string, payload json.RawMessage) error {
	var req SubmitWordPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, allSubmitted, err := that.game.SubmitWord(sessionID, req.Word)
	if err != nil {
		return err
	}

	that.hub.broadcast(room.Code, "word_submitted", WordSubmittedPayload{
		PlayerID:     sessionID,
		WordCount:    len(room.Words),
		TotalPlayers: len(room.Players),
	})

	if allSubmitted {
		that.hub.broadcast(room.Code, "reading_words", ReadingWordsPayload{Words: room.ShuffledWords})
		that.hub.broadcast(room.Code, "state_changed", newRoomView(room))
	}

	return nil
}

// handleGetWords - re-sends the shuffled word list to one caller, for
// clients that missed the reading broadcast.
func (that *Server) handleGetWords(sessionID string, _ json.RawMessage) error {
	words, err := that.game.ShuffledWords(sessionID)
	if err != nil {
		return err
	}

	that.hub.sendTo(sessionID, "reading_words", ReadingWordsPayload{Words: words})

	return nil
}

func (that *Server) handleAdvanceReading(sessionID string, _ json.RawMessage) error {
	room, err := that.game.AdvanceFromReading(sessionID)
	if err != nil {
		return err
	}

	that.hub.broadcast(room.Code, "state_changed", newRoomView(room))

	return nil
}

func (that *Server) handleMakeGuess(sessionID string, payload json.RawMessage) error {
	var req MakeGuessPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	result, room, err := that.game.MakeGuess(sessionID, req.TargetPlayerID, req.Word)
	if err != nil {
		return err
	}

	that.hub.broadcast(room.Code, "guess_result", result)

	if result.GameOver {
		that.hub.broadcast(room.Code, "state_changed", newRoomView(room))
	}

	return nil
}
