package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/familyword-backend/internal/apperror"
	"github.com/rocketscienceinc/familyword-backend/internal/engine"
	"github.com/rocketscienceinc/familyword-backend/internal/entity"
)

var errHistoryDown = errors.New("history down")

type savedGame struct {
	room           *entity.Room
	winnerLeaderID string
}

type fakeHistory struct {
	saved chan savedGame
	err   error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{saved: make(chan savedGame, 1)}
}

func (that *fakeHistory) SaveEndedGame(_ context.Context, room *entity.Room, winnerLeaderID string) (string, error) {
	that.saved <- savedGame{room: room, winnerLeaderID: winnerLeaderID}

	if that.err != nil {
		return "", that.err
	}

	return "game-id", nil
}

// identityRand always picks j == i, so shuffles keep join order.
func identityRand() float64 { return 0.9999999 }

func newManager(t *testing.T, history *fakeHistory) *GameManager {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewGameManager(logger, engine.New(identityRand), history)
}

// playTo2PlayerGame drives the manager to the playing state with
// sessions s1 (Alice, "apple") and s2 (Bob, "banana"), s1 to move.
func playTo2PlayerGame(t *testing.T, manager *GameManager) {
	t.Helper()

	room, err := manager.CreateRoom("Alice", "s1")
	require.NoError(t, err)

	_, err = manager.JoinRoom(room.Code, "Bob", "s2")
	require.NoError(t, err)

	_, err = manager.StartGame("s1")
	require.NoError(t, err)

	_, _, err = manager.SubmitWord("s1", "apple")
	require.NoError(t, err)

	_, allSubmitted, err := manager.SubmitWord("s2", "banana")
	require.NoError(t, err)
	require.True(t, allSubmitted)

	_, err = manager.AdvanceFromReading("s1")
	require.NoError(t, err)
}

func TestGameManager_MakeGuess(t *testing.T) {
	t.Run("Winning guess hands the ended game to history", func(t *testing.T) {
		// Given: a 2-player game in play
		history := newFakeHistory()
		manager := newManager(t, history)
		playTo2PlayerGame(t, manager)

		// When: s1 makes the winning guess
		result, _, err := manager.MakeGuess("s1", "s2", "banana")

		// Then: the result is terminal and the snapshot reaches history
		require.NoError(t, err)
		require.True(t, result.GameOver)

		select {
		case saved := <-history.saved:
			assert.Equal(t, "s1", saved.winnerLeaderID)
			assert.Equal(t, entity.StateEnded, saved.room.State)
			assert.Len(t, saved.room.Players, 2)
		case <-time.After(2 * time.Second):
			t.Fatal("expected the ended game to be persisted")
		}
	})

	t.Run("Incorrect guess does not touch history", func(t *testing.T) {
		history := newFakeHistory()
		manager := newManager(t, history)
		playTo2PlayerGame(t, manager)

		result, _, err := manager.MakeGuess("s1", "s2", "wrong")

		require.NoError(t, err)
		assert.False(t, result.GameOver)

		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, history.saved)
	})

	t.Run("History failure never reaches the players", func(t *testing.T) {
		// Given: a history repository that is down
		history := newFakeHistory()
		history.err = errHistoryDown
		manager := newManager(t, history)
		playTo2PlayerGame(t, manager)

		// When: the game ends anyway
		result, room, err := manager.MakeGuess("s1", "s2", "banana")

		// Then: the terminal result is intact; the write was attempted
		require.NoError(t, err)
		assert.True(t, result.GameOver)
		assert.Equal(t, entity.StateEnded, room.State)

		select {
		case <-history.saved:
		case <-time.After(2 * time.Second):
			t.Fatal("expected a persistence attempt")
		}
	})

	t.Run("Rejections pass through unchanged", func(t *testing.T) {
		history := newFakeHistory()
		manager := newManager(t, history)
		playTo2PlayerGame(t, manager)

		_, _, err := manager.MakeGuess("s2", "s1", "apple")

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})
}
