package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/wordlobby/internal/api/apierr"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/services/session"
)

// CookieName is the cookie carrying the player handle
const CookieName = "userid"

type contextKey string

const playerContextKey contextKey = "player"

// SessionValidator checks whether a handle names a live session
type SessionValidator interface {
	IsValidPlayer(ctx context.Context, id model.PlayerID) bool
}

// Session resolves the userid cookie to a player handle. Missing, malformed
// and unknown handles all leave the context without a player.
func Session(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := HandleFromRequest(r); ok && validator.IsValidPlayer(r.Context(), id) {
				r = r.WithContext(context.WithValue(r.Context(), playerContextKey, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests that Session did not resolve to a player
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPlayerID(r.Context()); !ok {
			apierr.WriteError(w, apierr.NewUnauthorizedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleFromRequest reads and parses the userid cookie without checking
// that the session exists
func HandleFromRequest(r *http.Request) (model.PlayerID, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return session.ParseHandle(cookie.Value)
}

// SetSessionCookie sends the handle back to the client
func SetSessionCookie(w http.ResponseWriter, id model.PlayerID) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    string(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetPlayerID returns the resolved player handle from the request context
func GetPlayerID(ctx context.Context) (model.PlayerID, bool) {
	id, ok := ctx.Value(playerContextKey).(model.PlayerID)
	return id, ok && id != ""
}

// MustGetPlayerID returns the resolved player handle or panics
func MustGetPlayerID(ctx context.Context) model.PlayerID {
	id, ok := GetPlayerID(ctx)
	if !ok {
		panic("no player in context - session middleware not applied?")
	}
	return id
}
