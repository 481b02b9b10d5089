package model

import (
	"strings"
	"time"
)

// CharColor is the feedback for one guessed character
type CharColor string

const (
	ColorGreen  CharColor = "green"  // right character, right position
	ColorYellow CharColor = "yellow" // character present elsewhere in the word
	ColorGray   CharColor = "gray"   // character absent
)

// Short returns the compact label used in text renderings
func (c CharColor) Short() string {
	switch c {
	case ColorGreen:
		return "G"
	case ColorYellow:
		return "Y"
	case ColorGray:
		return "Gr"
	default:
		return "?"
	}
}

// WordGuess is one submitted guess and its evaluation
type WordGuess struct {
	Word        string
	Colors      []CharColor // one per rune of Word
	LobbyID     LobbyID     // lobby the guess was made in
	GameID      string      // game the guess belongs to, see Lobby.GameID
	SubmittedAt time.Time
}

// AllGreen returns true if every character matched exactly
func (g WordGuess) AllGreen() bool {
	if len(g.Colors) == 0 {
		return false
	}
	for _, c := range g.Colors {
		if c != ColorGreen {
			return false
		}
	}
	return true
}

// String renders the guess as "G:c Y:r Gr:x ..."
func (g WordGuess) String() string {
	var b strings.Builder
	i := 0
	for _, r := range g.Word {
		if i > 0 {
			b.WriteByte(' ')
		}
		label := "?"
		if i < len(g.Colors) {
			label = g.Colors[i].Short()
		}
		b.WriteString(label)
		b.WriteByte(':')
		b.WriteRune(r)
		i++
	}
	return b.String()
}
