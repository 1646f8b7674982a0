package apperror

import "errors"

// Rejection errors carry the exact reason strings shown to players,
// so they keep their user-facing capitalization.
var (
	ErrInvalidPlayerName = errors.New("Player name must be between 2 and 20 characters")
	ErrRoomNotFound      = errors.New("Room not found")
	ErrRoomNotAccepting  = errors.New("Room is not accepting new players")
	ErrRoomFull          = errors.New("Room is full")
	ErrNameTaken         = errors.New("Player name is already taken in this room")
	ErrNotInRoom         = errors.New("Player is not in a room")

	ErrNotHostStart     = errors.New("Only the host can start the game")
	ErrNotInLobby       = errors.New("Game can only be started from the lobby")
	ErrNotEnoughPlayers = errors.New("At least 2 players are required to start")

	ErrNotWordEntry         = errors.New("Words can only be submitted during word entry")
	ErrWordAlreadySubmitted = errors.New("You have already submitted a word")
	ErrEmptyWord            = errors.New("Word cannot be empty")
	ErrWordTooLong          = errors.New("Word must be 50 characters or fewer")
	ErrWordsNotAvailable    = errors.New("Words are not available in this state")

	ErrNotHostAdvance = errors.New("Only the host can advance the game")
	ErrNotReading     = errors.New("Can only advance from reading state")

	ErrNotPlaying      = errors.New("Guesses can only be made during play")
	ErrNotYourTurn     = errors.New("It is not your turn")
	ErrNotFamilyLeader = errors.New("You are not a family leader")
	ErrTargetNotFound  = errors.New("Target player does not exist")
	ErrGuessYourself   = errors.New("You cannot guess yourself")
	ErrTargetInFamily  = errors.New("Target is already in your family")
	ErrEmptyGuess      = errors.New("Guess word cannot be empty")
)
