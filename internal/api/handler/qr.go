package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/skip2/go-qrcode"

	"github.com/mcoot/wordlobby/internal/api/apierr"
)

const (
	defaultQRSize = 320
	minQRSize     = 128
	maxQRSize     = 1024
)

// JoinURL is the address a phone camera should open to join a lobby. It
// points at the enter route, which issues a handle when the device has none,
// on the host the request came in on.
func JoinURL(r *http.Request, lobbyID string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/api/v1/lobbies/" + lobbyID + "/enter"}
	return u.String()
}

// QRCode handles GET /api/v1/lobbies/{id}/qr with a PNG of the join URL.
// ?size= sets the edge length in pixels.
func (h *LobbyHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, err := lobbyIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if _, err := h.game.GetLobby(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			WriteError(w, apierr.NewInvalidRequestError("size must be between 128 and 1024"))
			return
		}
		size = n
	}

	png, err := qrcode.Encode(JoinURL(r, string(id)), qrcode.Medium, size)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
