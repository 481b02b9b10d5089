package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventPlayerJoined   EventType = "player_joined"
	EventPlayerLeft     EventType = "player_left"
	EventGuessSubmitted EventType = "guess_submitted"
	EventGameWon        EventType = "game_won"
)

// Event is published to everyone watching a lobby
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	LobbyID   LobbyID   `json:"lobby_id"`
	PlayerID  PlayerID  `json:"player_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	DisplayName string `json:"display_name"`
	MemberCount int    `json:"member_count"`
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	DisplayName string `json:"display_name"`
}

// GuessSubmittedPayload carries the colors but never the guessed word,
// so watchers can't read another player's guess off the stream
type GuessSubmittedPayload struct {
	DisplayName string      `json:"display_name"`
	Colors      []CharColor `json:"colors"`
	GuessCount  int         `json:"guess_count"`
}

// GameWonPayload is sent once, right before the lobby is torn down
type GameWonPayload struct {
	WinnerName string `json:"winner_name"`
	SecretWord string `json:"secret_word"`
}
