package model

import "time"

// PlayerID is the opaque handle identifying a player session
type PlayerID string

// PlayerSession is everything the server knows about one handle
type PlayerSession struct {
	ID         PlayerID
	Name       string
	IsOwner    bool     // true if the player created their current lobby
	LobbyID    *LobbyID // nil when unaffiliated
	Guesses    []WordGuess
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// InLobby reports whether the session references the given lobby
func (p *PlayerSession) InLobby(id LobbyID) bool {
	return p.LobbyID != nil && *p.LobbyID == id
}

// LatestGuess returns the most recent guess, or nil if none were made
func (p *PlayerSession) LatestGuess() *WordGuess {
	if len(p.Guesses) == 0 {
		return nil
	}
	return &p.Guesses[len(p.Guesses)-1]
}

// DisplayName returns the player's name, falling back to the handle
func (p *PlayerSession) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return string(p.ID)
}

// ForGame returns a copy of the session whose history holds only the
// guesses made in the given lobby's current game. Guesses from earlier
// games, including a replaced lobby under the same id, stay in the stored
// history but never count toward this one.
func (p *PlayerSession) ForGame(l *Lobby) *PlayerSession {
	view := *p
	view.Guesses = nil
	for _, g := range p.Guesses {
		if g.GameID != "" && g.GameID == l.GameID {
			view.Guesses = append(view.Guesses, g)
		}
	}
	return &view
}
