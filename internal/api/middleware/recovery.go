package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/wordlobby/internal/api/apierr"
	"github.com/mcoot/wordlobby/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

// LegacyRecovery answers a panic on the legacy routes the way those routes
// report every other failure
func LegacyRecovery(logger *slog.Logger, failure func(w http.ResponseWriter, r *http.Request)) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		failure(w, r)
	})
}
