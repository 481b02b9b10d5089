package model

import (
	"slices"
	"time"
)

// LobbyID is the key a lobby is registered under
type LobbyID string

// Lobby is a single game instance with one secret word
type Lobby struct {
	ID         LobbyID
	GameID     string // unique per CreateLobby, even when an id is reused
	SecretWord string
	Started    bool // set by the first guess in the lobby
	Ended      bool // set when a winner is found, just before teardown
	Members    []PlayerID
	OwnerID    PlayerID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasMember returns true if the player is in the member list
func (l *Lobby) HasMember(playerID PlayerID) bool {
	return slices.Contains(l.Members, playerID)
}

// AddMember appends the player unless already present
func (l *Lobby) AddMember(playerID PlayerID) {
	if !l.HasMember(playerID) {
		l.Members = append(l.Members, playerID)
	}
}

// RemoveMember drops the player from the member list, preserving order
func (l *Lobby) RemoveMember(playerID PlayerID) bool {
	for i, m := range l.Members {
		if m == playerID {
			l.Members = slices.Delete(l.Members, i, i+1)
			return true
		}
	}
	return false
}

// GameResult is the record kept after a lobby has been won and torn down
type GameResult struct {
	LobbyID    LobbyID
	WinnerID   PlayerID
	WinnerName string
	SecretWord string
	Guesses    int // number of guesses the winner made
	EndedAt    time.Time
}
