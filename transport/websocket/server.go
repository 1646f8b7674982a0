package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/familyword-backend/internal/entity"
	"github.com/rocketscienceinc/familyword-backend/internal/pkg"
)

type gameUseCase interface {
	CreateRoom(hostName, sessionID string) (*entity.Room, error)
	JoinRoom(code, playerName, sessionID string) (*entity.Room, error)
	RemovePlayer(sessionID string) (*entity.Room, *entity.Player, bool)
	StartGame(sessionID string) (*entity.Room, error)
	SubmitWord(sessionID, word string) (*entity.Room, bool, error)
	ShuffledWords(sessionID string) ([]string, error)
	AdvanceFromReading(sessionID string) (*entity.Room, error)
	MakeGuess(sessionID, targetID, word string) (*entity.GuessResult, *entity.Room, error)
}

type Server struct {
	logger *slog.Logger
	game   gameUseCase
	hub    *hub

	upgrader websocket.Upgrader
	handlers map[string]func(sessionID string, payload json.RawMessage) error
}

func New(logger *slog.Logger, game gameUseCase) *Server {
	server := &Server{
		logger: logger,
		game:   game,
		hub:    newHub(logger),

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		handlers: make(map[string]func(string, json.RawMessage) error),
	}

	server.handlers["create_room"] = server.handleCreateRoom
	server.handlers["join_room"] = server.handleJoinRoom
	server.handlers["start_game"] = server.handleStartGame
	server.handlers["submit_word"] = server.handleSubmitWord
	server.handlers["get_words"] = server.handleGetWords
	server.handlers["advance_reading"] = server.handleAdvanceReading
	server.handlers["make_guess"] = server.handleMakeGuess

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and pumps messages until the client
// goes away.
func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	sessionID := pkg.GenerateNewSessionID()

	cl := &client{conn: conn}
	that.hub.register(sessionID, cl)

	defer that.disconnect(sessionID)

	if err = cl.send("connected", ConnectedPayload{SessionID: sessionID}); err != nil {
		log.Error("failed to send hello", "error", err)
		return
	}

	log.Info("WebSocket connection established", "sessionID", sessionID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.hub.sendTo(sessionID, "error", ErrorPayload{Message: "invalid message format"})

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.hub.sendTo(sessionID, "error", ErrorPayload{Message: "unknown action: " + message.Action})
			continue
		}

		// Rule violations are rejections, not connection errors: the
		// caller is told why and everything else stays as it was.
		if err = handler(sessionID, message.Payload); err != nil {
			that.hub.sendTo(sessionID, "error", ErrorPayload{Message: err.Error()})
		}
	}
}

// disconnect - removes the player from its room and tells whoever is
// left.
func (that *Server) disconnect(sessionID string) {
	that.hub.unregister(sessionID)

	room, player, ok := that.game.RemovePlayer(sessionID)
	if !ok {
		return
	}

	if len(room.Players) == 0 {
		return
	}

	that.hub.broadcast(room.Code, "player_left", PlayerLeftPayload{
		Player: newPlayerView(player),
		Room:   newRoomView(room),
	})
}
