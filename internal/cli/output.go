package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case InitResult:
		o.printInitResult(v)
	case Lobby:
		o.printLobby(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case GuessHistory:
		o.printHistory(v)
	case Result:
		o.printResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	IsOwner    bool    `json:"is_owner"`
	LobbyID    *string `json:"lobby_id"`
	GuessCount int     `json:"guess_count"`
}

// InitResult is the player init response
type InitResult struct {
	Player  Player `json:"player"`
	Created bool   `json:"created"`
}

// Lobby response type
type Lobby struct {
	ID         string        `json:"id"`
	WordLength int           `json:"word_length"`
	Started    bool          `json:"started"`
	Members    []LobbyMember `json:"members"`
	CreatedAt  time.Time     `json:"created_at"`
}

// LobbyMember response type
type LobbyMember struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	IsOwner    bool   `json:"is_owner"`
	GuessCount int    `json:"guess_count"`
}

// Guess response type
type Guess struct {
	Word        string    `json:"word"`
	Colors      []string  `json:"colors"`
	Rendered    string    `json:"rendered"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// GuessHistory is a player's guesses, oldest first
type GuessHistory []Guess

// SubmitResult response type
type SubmitResult struct {
	Guess  Guess   `json:"guess"`
	Win    bool    `json:"win"`
	Winner *string `json:"winner"`
}

// Result response type
type Result struct {
	LobbyID    string    `json:"lobby_id"`
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	SecretWord string    `json:"secret_word"`
	Guesses    int       `json:"guesses"`
	EndedAt    time.Time `json:"ended_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Words  int    `json:"words"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.out, "Player: %s (%s)\n", p.Name, p.ID)
	if p.LobbyID != nil {
		ownerStr := ""
		if p.IsOwner {
			ownerStr = " [owner]"
		}
		fmt.Fprintf(o.out, "Lobby: %s%s\n", *p.LobbyID, ownerStr)
	} else {
		fmt.Fprintln(o.out, "Lobby: none")
	}
	fmt.Fprintf(o.out, "Guesses: %d\n", p.GuessCount)
}

func (o *Output) printInitResult(r InitResult) {
	if r.Created {
		fmt.Fprintln(o.out, "New handle issued")
	} else {
		fmt.Fprintln(o.out, "Existing handle confirmed")
	}
	o.printPlayer(r.Player)
}

func (o *Output) printLobby(l Lobby) {
	fmt.Fprintf(o.out, "Lobby: %s\n", l.ID)
	state := "waiting"
	if l.Started {
		state = "in progress"
	}
	fmt.Fprintf(o.out, "State: %s\n", state)
	fmt.Fprintf(o.out, "Word Length: %d\n", l.WordLength)
	fmt.Fprintf(o.out, "Members (%d):\n", len(l.Members))
	for _, m := range l.Members {
		ownerStr := ""
		if m.IsOwner {
			ownerStr = " [owner]"
		}
		fmt.Fprintf(o.out, "  - %s (%s) - %d guesses%s\n", m.Name, m.PlayerID, m.GuessCount, ownerStr)
	}
}

// guessRow renders a guess one cell per letter, e.g. "[C] (R) a"
func guessRow(g Guess) string {
	letters := []rune(g.Word)
	cells := make([]string, len(letters))
	for i, r := range letters {
		color := ""
		if i < len(g.Colors) {
			color = g.Colors[i]
		}
		switch color {
		case "green":
			cells[i] = "[" + strings.ToUpper(string(r)) + "]"
		case "yellow":
			cells[i] = "(" + strings.ToUpper(string(r)) + ")"
		default:
			cells[i] = " " + string(r) + " "
		}
	}
	return strings.Join(cells, "")
}

func (o *Output) printSubmitResult(r SubmitResult) {
	fmt.Fprintf(o.out, "%s   %s\n", guessRow(r.Guess), r.Guess.Rendered)
	switch {
	case r.Win:
		fmt.Fprintln(o.out, "You won!")
	case r.Winner != nil:
		fmt.Fprintf(o.out, "Game over, winner: %s\n", *r.Winner)
	}
}

func (o *Output) printHistory(h GuessHistory) {
	if len(h) == 0 {
		fmt.Fprintln(o.out, "No guesses yet")
		return
	}
	for i, g := range h {
		fmt.Fprintf(o.out, "%2d. %s   %s\n", i+1, guessRow(g), g.Rendered)
	}
}

func (o *Output) printResult(r Result) {
	fmt.Fprintf(o.out, "Lobby: %s\n", r.LobbyID)
	fmt.Fprintf(o.out, "Word: %s\n", r.SecretWord)
	fmt.Fprintf(o.out, "Winner: %s (%s)\n", r.WinnerName, r.WinnerID)
	fmt.Fprintf(o.out, "Winning guesses: %d\n", r.Guesses)
	fmt.Fprintf(o.out, "Ended: %s\n", r.EndedAt.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.out, "Status: %s\n", h.Status)
	fmt.Fprintf(o.out, "Words: %d\n", h.Words)
}
