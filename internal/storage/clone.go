package storage

import (
	"slices"

	"github.com/mcoot/wordlobby/internal/model"
)

// CloneSession returns a deep copy of a session
func CloneSession(s *model.PlayerSession) *model.PlayerSession {
	c := *s
	if s.LobbyID != nil {
		id := *s.LobbyID
		c.LobbyID = &id
	}
	if s.Guesses != nil {
		c.Guesses = make([]model.WordGuess, len(s.Guesses))
		for i, g := range s.Guesses {
			g.Colors = slices.Clone(g.Colors)
			c.Guesses[i] = g
		}
	}
	return &c
}

// CloneLobby returns a deep copy of a lobby
func CloneLobby(l *model.Lobby) *model.Lobby {
	c := *l
	c.Members = slices.Clone(l.Members)
	return &c
}
