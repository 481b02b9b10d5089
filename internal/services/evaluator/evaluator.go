// Package evaluator scores a guess against a secret word.
//
// Two duplicate-letter policies are available. PolicyCharacterSet marks a
// non-matching character Yellow whenever it occurs anywhere in the secret,
// so a letter guessed more often than it appears is Yellow every time.
// PolicyCounted is the usual Wordle rule: exact matches are taken first and
// each remaining occurrence in the secret can turn only one guessed
// character Yellow.
package evaluator

import (
	"errors"
	"fmt"

	"github.com/mcoot/wordlobby/internal/model"
)

// Policy selects how repeated letters are scored
type Policy string

const (
	PolicyCharacterSet Policy = "charset"
	PolicyCounted      Policy = "counted"
)

// ParsePolicy validates a policy name; empty means PolicyCharacterSet
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyCharacterSet:
		return PolicyCharacterSet, nil
	case PolicyCounted:
		return PolicyCounted, nil
	default:
		return "", fmt.Errorf("unknown evaluator policy %q", s)
	}
}

// LengthMismatchError is returned when the guess and secret differ in length.
// It matches model.ErrLengthMismatch under errors.Is.
type LengthMismatchError struct {
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: want %d characters, got %d", model.ErrLengthMismatch, e.Want, e.Got)
}

func (e *LengthMismatchError) Is(target error) bool {
	return target == model.ErrLengthMismatch
}

// Evaluator is a pure guess scorer
type Evaluator struct {
	policy Policy
}

// New creates an Evaluator using the given policy
func New(policy Policy) *Evaluator {
	if policy == "" {
		policy = PolicyCharacterSet
	}
	return &Evaluator{policy: policy}
}

// Policy returns the duplicate-letter policy in use
func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Evaluate returns one color per character of guess. Comparison is by rune
// and case-sensitive.
func (e *Evaluator) Evaluate(secret, guess string) ([]model.CharColor, error) {
	s := []rune(secret)
	g := []rune(guess)
	if len(g) == 0 {
		return nil, model.ErrEmptyGuess
	}
	if len(s) != len(g) {
		return nil, &LengthMismatchError{Want: len(s), Got: len(g)}
	}

	if e.policy == PolicyCounted {
		return counted(s, g), nil
	}
	return characterSet(s, g), nil
}

func characterSet(secret, guess []rune) []model.CharColor {
	present := make(map[rune]struct{}, len(secret))
	for _, r := range secret {
		present[r] = struct{}{}
	}

	colors := make([]model.CharColor, len(guess))
	for i, r := range guess {
		switch _, ok := present[r]; {
		case r == secret[i]:
			colors[i] = model.ColorGreen
		case ok:
			colors[i] = model.ColorYellow
		default:
			colors[i] = model.ColorGray
		}
	}
	return colors
}

func counted(secret, guess []rune) []model.CharColor {
	colors := make([]model.CharColor, len(guess))
	remaining := make(map[rune]int, len(secret))

	// First pass: exact matches, and count what is left of the secret
	for i, r := range guess {
		if r == secret[i] {
			colors[i] = model.ColorGreen
		} else {
			remaining[secret[i]]++
		}
	}

	// Second pass: spend remaining occurrences left to right
	for i, r := range guess {
		if colors[i] == model.ColorGreen {
			continue
		}
		if remaining[r] > 0 {
			colors[i] = model.ColorYellow
			remaining[r]--
		} else {
			colors[i] = model.ColorGray
		}
	}
	return colors
}

// IsLengthMismatch reports whether err came from a length check
func IsLengthMismatch(err error) bool {
	return errors.Is(err, model.ErrLengthMismatch)
}
