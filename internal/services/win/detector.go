// Package win decides whether a player has won from their guess history.
package win

import (
	"fmt"

	"github.com/mcoot/wordlobby/internal/model"
)

// Rule selects which guesses count towards a win
type Rule string

const (
	// RuleLatestGuess wins as soon as the most recent guess is all green
	RuleLatestGuess Rule = "latest"
	// RuleFullHistory requires every guess ever made to be all green, so a
	// single miss rules the player out for the rest of the game
	RuleFullHistory Rule = "history"
)

// ParseRule validates a rule name; empty means RuleLatestGuess
func ParseRule(s string) (Rule, error) {
	switch Rule(s) {
	case "", RuleLatestGuess:
		return RuleLatestGuess, nil
	case RuleFullHistory:
		return RuleFullHistory, nil
	default:
		return "", fmt.Errorf("unknown win rule %q", s)
	}
}

// Detector is a pure predicate over a session's history
type Detector struct {
	rule Rule
}

// New creates a Detector for the given rule
func New(rule Rule) *Detector {
	if rule == "" {
		rule = RuleLatestGuess
	}
	return &Detector{rule: rule}
}

// Rule returns the rule in use
func (d *Detector) Rule() Rule {
	return d.rule
}

// HasWon reports whether the session satisfies the win rule.
// An empty history never wins.
func (d *Detector) HasWon(session *model.PlayerSession) bool {
	if session == nil || len(session.Guesses) == 0 {
		return false
	}

	if d.rule == RuleFullHistory {
		for _, g := range session.Guesses {
			if !g.AllGreen() {
				return false
			}
		}
		return true
	}

	return session.LatestGuess().AllGreen()
}

// FirstWinner returns the first session in order that has won, or nil
func (d *Detector) FirstWinner(sessions []*model.PlayerSession) *model.PlayerSession {
	for _, s := range sessions {
		if d.HasWon(s) {
			return s
		}
	}
	return nil
}
