package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Lobby errors
	ErrLobbyNotFound = errors.New("lobby not found")
	ErrNoLobby       = errors.New("player is not in a lobby")
	ErrLobbyStarted  = errors.New("lobby has already started")
	ErrInvalidLobby  = errors.New("invalid lobby id")

	// Guess errors
	ErrLengthMismatch  = errors.New("guess length does not match secret word")
	ErrEmptyGuess      = errors.New("guess is empty")
	ErrNotInDictionary = errors.New("guess is not in the dictionary")

	// Result errors
	ErrResultNotFound = errors.New("game result not found")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
	ErrNoWordOfLength      = errors.New("no dictionary word of requested length")
)
