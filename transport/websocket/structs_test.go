package websocket

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/familyword-backend/internal/engine"
	"github.com/rocketscienceinc/familyword-backend/internal/entity"
)

func viewRoom(state string) *entity.Room {
	return &entity.Room{
		Code:  "ABC234",
		State: state,
		Players: []*entity.Player{
			{ID: "s1", Name: "Alice", IsHost: true},
			{ID: "s2", Name: "Bob"},
		},
		HostID:        "s1",
		CreatedAt:     time.Now(),
		Words:         map[string]string{"s1": "apple"},
		ShuffledWords: []string{"banana", "apple"},
	}
}

func TestNewRoomView(t *testing.T) {
	t.Run("Withholds shuffled words before reading", func(t *testing.T) {
		// Given: rooms in the pre-reading states
		for _, state := range []string{entity.StateLobby, entity.StateWordEntry} {
			// When: serializing
			view := newRoomView(viewRoom(state))

			// Then: the word order cannot leak early
			assert.Empty(t, view.ShuffledWords, "state %s", state)
		}
	})

	t.Run("Includes shuffled words from reading onward", func(t *testing.T) {
		for _, state := range []string{entity.StateReading, entity.StatePlaying, entity.StateEnded} {
			view := newRoomView(viewRoom(state))

			assert.Equal(t, []string{"banana", "apple"}, view.ShuffledWords, "state %s", state)
		}
	})

	t.Run("Exposes players without words or room internals", func(t *testing.T) {
		// Given: a lobby room
		view := newRoomView(viewRoom(entity.StateLobby))

		// Then: only id, name and host flag per player, plus the count
		// of submitted words
		require.Len(t, view.Players, 2)
		assert.Equal(t, PlayerView{ID: "s1", Name: "Alice", IsHost: true}, view.Players[0])
		assert.Equal(t, PlayerView{ID: "s2", Name: "Bob", IsHost: false}, view.Players[1])
		assert.Equal(t, 1, view.WordCount)
		assert.Equal(t, "s1", view.HostID)

		raw, err := json.Marshal(view)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "apple")
	})

	t.Run("Serializes safely while other sessions mutate the room", func(t *testing.T) {
		// Given: an engine room another goroutine keeps churning
		eng := engine.New(identityRand)
		created, err := eng.CreateRoom("Alice", "host")
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			defer close(done)

			for i := 0; i < 200; i++ {
				session := fmt.Sprintf("churn%d", i)
				if _, joinErr := eng.JoinRoom(created.Code, fmt.Sprintf("Guest%d", i), session); joinErr != nil {
					continue
				}

				eng.RemovePlayer(session)
			}
		}()

		// When/Then: every view built from an engine-returned room
		// marshals cleanly, because the engine hands out copies
		for i := 0; i < 200; i++ {
			room, ok := eng.GetRoom(created.Code)
			require.True(t, ok)

			view := newRoomView(room)

			_, err = json.Marshal(view)
			require.NoError(t, err)
		}

		<-done
	})
}
