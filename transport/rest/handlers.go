package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/familyword-backend/internal/repository"
)

const (
	defaultGamesLimit = 20
	maxGamesLimit     = 50
)

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) handleListGames(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := that.logger.With("method", "handleListGames")

	limit := defaultGamesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxGamesLimit)
		}
	}

	games, err := that.history.ListGames(r.Context(), limit)
	if err != nil {
		log.Error("failed to list games", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})

		return
	}

	writeJSON(w, http.StatusOK, games)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	log := that.logger.With("method", "handleGetGame")

	game, err := that.history.GetGameByID(r.Context(), params.ByName("id"))
	if errors.Is(err, repository.ErrGameNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Game not found"})
		return
	}

	if err != nil {
		log.Error("failed to get game", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})

		return
	}

	writeJSON(w, http.StatusOK, game)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
