package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/wordlobby/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidLobby        = "INVALID_LOBBY"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeLobbyNotFound       = "LOBBY_NOT_FOUND"
	CodeNotInLobby          = "NOT_IN_LOBBY"
	CodeLobbyStarted        = "LOBBY_STARTED"
	CodeLengthMismatch      = "LENGTH_MISMATCH"
	CodeEmptyGuess          = "EMPTY_GUESS"
	CodeNotInDictionary     = "NOT_IN_DICTIONARY"
	CodeResultNotFound      = "RESULT_NOT_FOUND"
	CodeDictionaryNotLoaded = "DICTIONARY_NOT_LOADED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrLobbyNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeLobbyNotFound, "Lobby not found"}}
	case errors.Is(err, model.ErrInvalidLobby):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLobby, "Invalid lobby id"}}
	case errors.Is(err, model.ErrNoLobby):
		return &httpError{http.StatusConflict, APIError{CodeNotInLobby, "Not in a lobby"}}
	case errors.Is(err, model.ErrLobbyStarted):
		return &httpError{http.StatusConflict, APIError{CodeLobbyStarted, "Lobby has already started"}}
	case errors.Is(err, model.ErrLengthMismatch):
		// keep the want/got detail from the evaluator
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeLengthMismatch, err.Error()}}
	case errors.Is(err, model.ErrEmptyGuess):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyGuess, "Guess is empty"}}
	case errors.Is(err, model.ErrNotInDictionary):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeNotInDictionary, "Not a recognised word"}}
	case errors.Is(err, model.ErrResultNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeResultNotFound, "No result recorded for this lobby"}}
	case errors.Is(err, model.ErrDictionaryNotLoaded), errors.Is(err, model.ErrNoWordOfLength):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeDictionaryNotLoaded, "No secret words available"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "A player session is required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
