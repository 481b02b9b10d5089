package response

import (
	"time"

	"github.com/mcoot/wordlobby/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	IsOwner    bool    `json:"is_owner"`
	LobbyID    *string `json:"lobby_id"`
	GuessCount int     `json:"guess_count"`
}

// PlayerFromModel converts a model.PlayerSession to a response Player
func PlayerFromModel(p *model.PlayerSession) Player {
	var lobbyID *string
	if p.LobbyID != nil {
		l := string(*p.LobbyID)
		lobbyID = &l
	}
	return Player{
		ID:         string(p.ID),
		Name:       p.DisplayName(),
		IsOwner:    p.IsOwner,
		LobbyID:    lobbyID,
		GuessCount: len(p.Guesses),
	}
}

// InitResponse is returned when a player handle is issued or confirmed
type InitResponse struct {
	Player  Player `json:"player"`
	Created bool   `json:"created"`
}

// LobbyMember represents a lobby member. Guessed words are never included.
type LobbyMember struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	IsOwner    bool   `json:"is_owner"`
	GuessCount int    `json:"guess_count"`
}

// Lobby represents a lobby in API responses. The secret word is never included.
type Lobby struct {
	ID         string        `json:"id"`
	WordLength int           `json:"word_length"`
	Started    bool          `json:"started"`
	Members    []LobbyMember `json:"members"`
	CreatedAt  time.Time     `json:"created_at"`
}

// LobbyFromModel converts model.Lobby plus its member sessions
func LobbyFromModel(l *model.Lobby, members []*model.PlayerSession) Lobby {
	out := make([]LobbyMember, len(members))
	for i, m := range members {
		out[i] = LobbyMember{
			PlayerID:   string(m.ID),
			Name:       m.DisplayName(),
			IsOwner:    m.ID == l.OwnerID,
			GuessCount: len(m.Guesses),
		}
	}
	return Lobby{
		ID:         string(l.ID),
		WordLength: len([]rune(l.SecretWord)),
		Started:    l.Started,
		Members:    out,
		CreatedAt:  l.CreatedAt,
	}
}

// Guess is one evaluated guess
type Guess struct {
	Word        string            `json:"word"`
	Colors      []model.CharColor `json:"colors"`
	Rendered    string            `json:"rendered"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// GuessFromModel converts model.WordGuess
func GuessFromModel(g model.WordGuess) Guess {
	return Guess{
		Word:        g.Word,
		Colors:      g.Colors,
		Rendered:    g.String(),
		SubmittedAt: g.SubmittedAt,
	}
}

// GuessesFromModel converts a guess history, oldest first
func GuessesFromModel(gs []model.WordGuess) []Guess {
	out := make([]Guess, len(gs))
	for i, g := range gs {
		out[i] = GuessFromModel(g)
	}
	return out
}

// SubmitResponse is the response after submitting a guess
type SubmitResponse struct {
	Guess  Guess   `json:"guess"`
	Win    bool    `json:"win"`
	Winner *string `json:"winner"`
}

// Result is the recorded outcome of a finished lobby
type Result struct {
	LobbyID    string    `json:"lobby_id"`
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	SecretWord string    `json:"secret_word"`
	Guesses    int       `json:"guesses"`
	EndedAt    time.Time `json:"ended_at"`
}

// ResultFromModel converts model.GameResult
func ResultFromModel(r *model.GameResult) Result {
	return Result{
		LobbyID:    string(r.LobbyID),
		WinnerID:   string(r.WinnerID),
		WinnerName: r.WinnerName,
		SecretWord: r.SecretWord,
		Guesses:    r.Guesses,
		EndedAt:    r.EndedAt,
	}
}

// LegacySubmit is the body of the legacy /submit route
type LegacySubmit struct {
	Win   string `json:"win"`
	Error bool   `json:"error"`
}

// Health is the health check body
type Health struct {
	Status string `json:"status"`
	Words  int    `json:"words"`
}
