package request

// CreateLobbyRequest is the request body for creating a lobby.
// An empty ID asks the server to generate a code.
type CreateLobbyRequest struct {
	ID string `json:"id,omitempty"`
}

// UpdatePlayerRequest is the request body for PATCH /players/me
type UpdatePlayerRequest struct {
	Name string `json:"name"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	Guess string `json:"guess"`
}
