package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/familyword-backend/internal/repository"
)

type historyService interface {
	ListGames(ctx context.Context, limit int) ([]repository.GameSummary, error)
	GetGameByID(ctx context.Context, id string) (*repository.GameDetail, error)
}

type Server struct {
	logger  *slog.Logger
	history historyService
}

func New(logger *slog.Logger, history historyService) *Server {
	return &Server{
		logger:  logger,
		history: history,
	}
}

// Start - starts the HTTP server with the history read API.
func (that *Server) Start(ctx context.Context, port string) error {
	router := httprouter.New()
	router.GET("/ping", that.handlePing)
	router.GET("/games", that.handleListGames)
	router.GET("/games/:id", that.handleGetGame)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
