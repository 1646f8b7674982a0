package entity

import (
	"maps"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rocketscienceinc/familyword-backend/internal/apperror"
)

const (
	StateLobby     = "LOBBY"
	StateWordEntry = "WORD_ENTRY"
	StateReading   = "READING"
	StatePlaying   = "PLAYING"
	StateEnded     = "ENDED"
)

const (
	MaxPlayers        = 10
	MinPlayersToStart = 2
	MinNameLength     = 2
	MaxNameLength     = 20
	MaxWordLength     = 50
)

// Family is a group of players sharing one identity for turn-taking.
// The leader is always present in MemberIDs; only leaders may hold the
// active turn.
type Family struct {
	LeaderID  string   `json:"leaderId"`
	MemberIDs []string `json:"memberIds"`
}

// GuessRecord is an immutable log entry, appended once per accepted
// guess regardless of outcome.
type GuessRecord struct {
	GuesserID string    `json:"guesserId"`
	TargetID  string    `json:"targetId"`
	Word      string    `json:"word"`
	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"timestamp"`
}

type GuessResult struct {
	Correct        bool     `json:"correct"`
	GuesserID      string   `json:"guesserId"`
	TargetPlayerID string   `json:"targetPlayerId"`
	Word           string   `json:"word"`
	Families       []Family `json:"families"`
	CurrentTurnID  string   `json:"currentTurnId"`
	GameOver       bool     `json:"gameOver"`
	Winner         *Family  `json:"winner,omitempty"`
}

// Room is a single game instance. Players keeps join order, which
// drives host succession when the host leaves.
type Room struct {
	Code          string
	State         string
	Players       []*Player
	HostID        string
	CreatedAt     time.Time
	Words         map[string]string
	ShuffledWords []string
	Families      []Family
	CurrentTurnID string
	TurnOrder     []string
	Guesses       []GuessRecord
}

func NewRoom(code string, host *Player) *Room {
	host.IsHost = true
	host.RoomCode = code

	return &Room{
		Code:      code,
		State:     StateLobby,
		Players:   []*Player{host},
		HostID:    host.ID,
		CreatedAt: time.Now(),
		Words:     make(map[string]string),
	}
}

// ValidatePlayerName - trims the name and checks the length bounds.
func ValidatePlayerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)

	length := utf8.RuneCountInString(trimmed)
	if length < MinNameLength || length > MaxNameLength {
		return "", apperror.ErrInvalidPlayerName
	}

	return trimmed, nil
}

func (that *Room) IsLobby() bool {
	return that.State == StateLobby
}

func (that *Room) IsPlaying() bool {
	return that.State == StatePlaying
}

func (that *Room) IsEnded() bool {
	return that.State == StateEnded
}

func (that *Room) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

// Join - appends a non-host player to the room.
func (that *Room) Join(player *Player) error {
	if !that.IsLobby() {
		return apperror.ErrRoomNotAccepting
	}

	if len(that.Players) >= MaxPlayers {
		return apperror.ErrRoomFull
	}

	for _, existing := range that.Players {
		if strings.EqualFold(existing.Name, player.Name) {
			return apperror.ErrNameTaken
		}
	}

	player.RoomCode = that.Code
	that.Players = append(that.Players, player)

	return nil
}

// RemovePlayer - deletes the player and reassigns the host to the
// oldest remaining player by join order. Returns nil if the player is
// not in the room.
func (that *Room) RemovePlayer(id string) *Player {
	for i, player := range that.Players {
		if player.ID != id {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)

		if that.HostID == id && len(that.Players) > 0 {
			successor := that.Players[0]
			successor.IsHost = true
			that.HostID = successor.ID
		}

		return player
	}

	return nil
}

// StartWordEntry - moves the room from the lobby into word entry.
func (that *Room) StartWordEntry(callerID string) error {
	if callerID != that.HostID {
		return apperror.ErrNotHostStart
	}

	if !that.IsLobby() {
		return apperror.ErrNotInLobby
	}

	if len(that.Players) < MinPlayersToStart {
		return apperror.ErrNotEnoughPlayers
	}

	that.State = StateWordEntry
	that.Words = make(map[string]string)

	return nil
}

// SubmitWord - stores the caller's secret word. Once every player has
// submitted, the word values are shuffled (authorship discarded) and
// the room moves to reading. Reports whether that transition happened.
func (that *Room) SubmitWord(playerID, word string, rnd RandFunc) (bool, error) {
	if that.State != StateWordEntry {
		return false, apperror.ErrNotWordEntry
	}

	if _, ok := that.Words[playerID]; ok {
		return false, apperror.ErrWordAlreadySubmitted
	}

	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return false, apperror.ErrEmptyWord
	}

	if utf8.RuneCountInString(trimmed) > MaxWordLength {
		return false, apperror.ErrWordTooLong
	}

	that.Words[playerID] = trimmed

	if len(that.Words) < len(that.Players) {
		return false, nil
	}

	words := make([]string, 0, len(that.Words))
	for _, player := range that.Players {
		words = append(words, that.Words[player.ID])
	}

	ShuffleStrings(words, rnd)

	that.ShuffledWords = words
	that.State = StateReading

	return true, nil
}

// WordsForReading - returns the shuffled words once they may be shown.
func (that *Room) WordsForReading() ([]string, error) {
	switch that.State {
	case StateReading, StatePlaying, StateEnded:
		return that.ShuffledWords, nil
	default:
		return nil, apperror.ErrWordsNotAvailable
	}
}

// BeginPlaying - moves the room from reading into play: one singleton
// family per player, a shuffled turn order fixed for the whole game,
// and the first slot of that order holding the turn.
func (that *Room) BeginPlaying(callerID string, rnd RandFunc) error {
	if callerID != that.HostID {
		return apperror.ErrNotHostAdvance
	}

	if that.State != StateReading {
		return apperror.ErrNotReading
	}

	families := make([]Family, 0, len(that.Players))
	order := make([]string, 0, len(that.Players))

	for _, player := range that.Players {
		families = append(families, Family{LeaderID: player.ID, MemberIDs: []string{player.ID}})
		order = append(order, player.ID)
	}

	ShuffleStrings(order, rnd)

	that.Families = families
	that.TurnOrder = order
	that.CurrentTurnID = order[0]
	that.State = StatePlaying

	return nil
}

// Guess - resolves one guess attempt by the current turn holder.
//
// A correct guess against a family leader merges that whole family into
// the guesser's; against a non-leader member it moves only that player.
// The guesser keeps the turn after a correct guess. An incorrect guess
// changes no families and passes the turn to the next leader in the
// fixed turn order. When one family remains the room ends.
func (that *Room) Guess(guesserID, targetID, word string, now time.Time) (*GuessResult, error) {
	if !that.IsPlaying() {
		return nil, apperror.ErrNotPlaying
	}

	if that.CurrentTurnID != guesserID {
		return nil, apperror.ErrNotYourTurn
	}

	guesserIdx := that.familyIndexByLeader(guesserID)
	if guesserIdx < 0 {
		return nil, apperror.ErrNotFamilyLeader
	}

	if that.PlayerByID(targetID) == nil {
		return nil, apperror.ErrTargetNotFound
	}

	if targetID == guesserID {
		return nil, apperror.ErrGuessYourself
	}

	for _, memberID := range that.Families[guesserIdx].MemberIDs {
		if memberID == targetID {
			return nil, apperror.ErrTargetInFamily
		}
	}

	guess := strings.TrimSpace(word)
	if guess == "" {
		return nil, apperror.ErrEmptyGuess
	}

	correct := strings.EqualFold(guess, that.Words[targetID])

	// The log records every accepted attempt, whatever the outcome.
	that.Guesses = append(that.Guesses, GuessRecord{
		GuesserID: guesserID,
		TargetID:  targetID,
		Word:      guess,
		Correct:   correct,
		Timestamp: now,
	})

	result := &GuessResult{
		Correct:        correct,
		GuesserID:      guesserID,
		TargetPlayerID: targetID,
		Word:           guess,
	}

	if correct {
		that.absorb(guesserIdx, targetID)

		if len(that.Families) == 1 {
			that.State = StateEnded
			that.CurrentTurnID = ""

			winner := that.Families[0]
			winner.MemberIDs = slices.Clone(winner.MemberIDs)
			result.GameOver = true
			result.Winner = &winner
		}
	} else {
		that.advanceTurn()
	}

	result.Families = that.cloneFamilies()
	result.CurrentTurnID = that.CurrentTurnID

	return result, nil
}

// absorb - pulls the target into the guesser's family. The target may
// sit in another family as a plain member after an earlier merge, so it
// is located by membership rather than leadership.
func (that *Room) absorb(guesserIdx int, targetID string) {
	targetIdx := that.familyIndexByMember(targetID)
	target := &that.Families[targetIdx]

	if target.LeaderID == targetID {
		that.Families[guesserIdx].MemberIDs = append(that.Families[guesserIdx].MemberIDs, target.MemberIDs...)
		that.Families = append(that.Families[:targetIdx], that.Families[targetIdx+1:]...)

		return
	}

	for i, memberID := range target.MemberIDs {
		if memberID == targetID {
			target.MemberIDs = append(target.MemberIDs[:i], target.MemberIDs[i+1:]...)
			break
		}
	}

	that.Families[guesserIdx].MemberIDs = append(that.Families[guesserIdx].MemberIDs, targetID)
}

// advanceTurn - scans forward circularly through the fixed turn order
// and hands the turn to the first id that still leads a family.
func (that *Room) advanceTurn() {
	start := 0
	for i, id := range that.TurnOrder {
		if id == that.CurrentTurnID {
			start = i
			break
		}
	}

	for step := 1; step <= len(that.TurnOrder); step++ {
		next := that.TurnOrder[(start+step)%len(that.TurnOrder)]
		if that.familyIndexByLeader(next) >= 0 {
			that.CurrentTurnID = next
			return
		}
	}
}

// Snapshot - deep copy of the room. Taken under the engine lock so
// serialization, broadcasts and the persistence handoff never observe
// a room another goroutine is still mutating.
func (that *Room) Snapshot() *Room {
	snapshot := *that

	snapshot.Players = make([]*Player, len(that.Players))
	for i, player := range that.Players {
		copied := *player
		snapshot.Players[i] = &copied
	}

	snapshot.Words = maps.Clone(that.Words)
	snapshot.ShuffledWords = slices.Clone(that.ShuffledWords)
	snapshot.TurnOrder = slices.Clone(that.TurnOrder)
	snapshot.Guesses = slices.Clone(that.Guesses)
	snapshot.Families = that.cloneFamilies()

	return &snapshot
}

// cloneFamilies - detaches the family list so results and snapshots
// never alias the live member slices.
func (that *Room) cloneFamilies() []Family {
	families := make([]Family, len(that.Families))
	for i, family := range that.Families {
		families[i] = Family{LeaderID: family.LeaderID, MemberIDs: slices.Clone(family.MemberIDs)}
	}

	return families
}

func (that *Room) familyIndexByLeader(id string) int {
	for i, family := range that.Families {
		if family.LeaderID == id {
			return i
		}
	}

	return -1
}

func (that *Room) familyIndexByMember(id string) int {
	for i, family := range that.Families {
		for _, memberID := range family.MemberIDs {
			if memberID == id {
				return i
			}
		}
	}

	return -1
}
