package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordlobby/internal/api"
	"github.com/mcoot/wordlobby/internal/api/apierr"
	"github.com/mcoot/wordlobby/internal/api/handler"
	"github.com/mcoot/wordlobby/internal/api/middleware"
	"github.com/mcoot/wordlobby/internal/api/response"
	"github.com/mcoot/wordlobby/internal/api/sse"
	"github.com/mcoot/wordlobby/internal/factory"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/testutil"
)

// testServer wires the router to a test app whose lobbies all get "crane"
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
	logs    *testutil.LogBuffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger, logs := testutil.CaptureLogger()

	app := factory.NewTestApp()
	app.LoadTestWords()

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		Words:          app.WordService,
		HubManager:     app.HubManager,
	})

	return &testServer{
		handler: router,
		app:     app,
		logs:    logs,
	}
}

func (ts *testServer) request(method, path string, body any, handle model.PlayerID) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if handle != "" {
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: string(handle)})
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// newPlayer issues a handle through the JSON API and names it
func (ts *testServer) newPlayer(t *testing.T, name string) model.PlayerID {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/players", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.InitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	id := model.PlayerID(resp.Player.ID)

	if name != "" {
		rr = ts.request(http.MethodPatch, "/api/v1/players/me", map[string]string{"name": name}, id)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	return id
}

func (ts *testServer) createLobby(t *testing.T, owner model.PlayerID, id string) response.Lobby {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/lobbies", map[string]string{"id": id}, owner)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.Lobby
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	return nil
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ts.app.WordService.WordCount(), resp.Words)
}

func TestRequestsAreLogged(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	entry, ok := ts.logs.Find("http request")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/health", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, rr.Header().Get("X-Request-ID"), entry["request_id"])
}

// Legacy routes

func TestLegacyInitSetsCookieOnce(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/init", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, ts.app.GameController.IsValidPlayer(t.Context(), model.PlayerID(cookie.Value)))

	rr = ts.request(http.MethodGet, "/init", nil, model.PlayerID(cookie.Value))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, sessionCookie(rr))
}

func TestLegacyInitReplacesUnknownHandle(t *testing.T) {
	ts := newTestServer(t)

	for _, handle := range []model.PlayerID{"not-a-uuid", "7b0c6f7e-2d0a-4b1e-9a55-0f6f1b0d9c11"} {
		rr := ts.request(http.MethodGet, "/init", nil, handle)
		assert.Equal(t, http.StatusOK, rr.Code)

		cookie := sessionCookie(rr)
		require.NotNil(t, cookie, "handle %q", handle)
		assert.NotEqual(t, string(handle), cookie.Value)
	}
}

func TestLegacyJoin(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "Host")
	ts.createLobby(t, host, "L1")

	// no cookie
	rr := ts.request(http.MethodGet, "/join/L1", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "false", rr.Body.String())

	guest := ts.newPlayer(t, "")

	rr = ts.request(http.MethodGet, "/join/nope", nil, guest)
	assert.Equal(t, "false", rr.Body.String())

	rr = ts.request(http.MethodGet, "/join/L1", nil, guest)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", rr.Body.String())

	l, err := ts.app.GameController.GetLobby(t.Context(), "L1")
	require.NoError(t, err)
	assert.Equal(t, []model.PlayerID{host, guest}, l.Members)
}

func TestLegacySubmit(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "Host")

	decodeSubmit := func(rr *httptest.ResponseRecorder) response.LegacySubmit {
		t.Helper()
		require.Equal(t, http.StatusOK, rr.Code)
		var resp response.LegacySubmit
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		return resp
	}

	// not in a lobby
	assert.Equal(t, response.LegacySubmit{Error: true}, decodeSubmit(ts.request(http.MethodGet, "/submit/crane", nil, host)))
	// unknown handle
	assert.Equal(t, response.LegacySubmit{Error: true}, decodeSubmit(ts.request(http.MethodGet, "/submit/crane", nil, "")))

	ts.createLobby(t, host, "L1")

	// wrong length
	assert.Equal(t, response.LegacySubmit{Error: true}, decodeSubmit(ts.request(http.MethodGet, "/submit/cran", nil, host)))
	// wrong word
	assert.Equal(t, response.LegacySubmit{}, decodeSubmit(ts.request(http.MethodGet, "/submit/slate", nil, host)))
	// right word
	assert.Equal(t, response.LegacySubmit{Win: "Host"}, decodeSubmit(ts.request(http.MethodGet, "/submit/crane", nil, host)))

	assert.False(t, ts.app.LobbyRegistry.DoesLobbyExist(t.Context(), "L1"))
}

// JSON API

func TestPlayerInit(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", nil, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var created response.InitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.True(t, created.Created)
	assert.Nil(t, created.Player.LobbyID)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Equal(t, created.Player.ID, cookie.Value)

	rr = ts.request(http.MethodPost, "/api/v1/players", nil, model.PlayerID(cookie.Value))
	require.Equal(t, http.StatusOK, rr.Code)

	var again response.InitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &again))
	assert.False(t, again.Created)
	assert.Equal(t, created.Player.ID, again.Player.ID)
	assert.Nil(t, sessionCookie(rr))
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/players/me"},
		{http.MethodPatch, "/api/v1/players/me"},
		{http.MethodGet, "/api/v1/players/me/guesses"},
		{http.MethodPost, "/api/v1/lobbies"},
		{http.MethodPost, "/api/v1/lobbies/leave"},
		{http.MethodPost, "/api/v1/lobbies/L1/join"},
		{http.MethodPost, "/api/v1/guesses"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rr := ts.request(route.method, route.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))

			rr = ts.request(route.method, route.path, nil, "7b0c6f7e-2d0a-4b1e-9a55-0f6f1b0d9c11")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestGetAndRenamePlayer(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newPlayer(t, "  Alice  ")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, id)
	require.Equal(t, http.StatusOK, rr.Code)

	var p response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.Equal(t, string(id), p.ID)
	assert.Equal(t, "Alice", p.Name)

	rr = ts.request(http.MethodPatch, "/api/v1/players/me", "not an object", id)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCompleteGameFlow(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "Host")
	guest := ts.newPlayer(t, "Guest")

	l := ts.createLobby(t, host, "L1")
	assert.Equal(t, "L1", l.ID)
	assert.Equal(t, 5, l.WordLength)
	require.Len(t, l.Members, 1)
	assert.True(t, l.Members[0].IsOwner)

	rr := ts.request(http.MethodPost, "/api/v1/lobbies/L1/join", nil, guest)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "crane")

	var joined response.Lobby
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &joined))
	require.Len(t, joined.Members, 2)
	assert.Equal(t, "Guest", joined.Members[1].Name)

	// wrong length is rejected and not recorded
	rr = ts.request(http.MethodPost, "/api/v1/guesses", map[string]string{"guess": "cranes"}, guest)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, apierr.CodeLengthMismatch, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/guesses", map[string]string{"guess": "crate"}, guest)
	require.Equal(t, http.StatusOK, rr.Code)

	var miss response.SubmitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &miss))
	assert.False(t, miss.Win)
	assert.Nil(t, miss.Winner)
	assert.Equal(t, []model.CharColor{
		model.ColorGreen, model.ColorGreen, model.ColorGreen, model.ColorGray, model.ColorGreen,
	}, miss.Guess.Colors)
	assert.Equal(t, "G:c G:r G:a Gr:t G:e", miss.Guess.Rendered)

	// started lobbies turn away newcomers
	late := ts.newPlayer(t, "")
	rr = ts.request(http.MethodPost, "/api/v1/lobbies/L1/join", nil, late)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeLobbyStarted, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/guesses", map[string]string{"guess": "crane"}, host)
	require.Equal(t, http.StatusOK, rr.Code)

	var hit response.SubmitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hit))
	assert.True(t, hit.Win)
	require.NotNil(t, hit.Winner)
	assert.Equal(t, "Host", *hit.Winner)

	// lobby is gone but the result remains
	rr = ts.request(http.MethodGet, "/api/v1/lobbies/L1", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeLobbyNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/lobbies/L1/results", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var result response.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, string(host), result.WinnerID)
	assert.Equal(t, "Host", result.WinnerName)
	assert.Equal(t, "crane", result.SecretWord)

	rr = ts.request(http.MethodGet, "/api/v1/players/me/guesses", nil, guest)
	require.Equal(t, http.StatusOK, rr.Code)

	var history []response.Guess
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "crate", history[0].Word)

	rr = ts.request(http.MethodPost, "/api/v1/guesses", map[string]string{"guess": "crane"}, guest)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNotInLobby, errorCode(t, rr))
}

func TestCreateLobbyGeneratesCode(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "")
	ts.app.MockRandom.QueueString("ABC123")

	rr := ts.request(http.MethodPost, "/api/v1/lobbies", nil, host)
	require.Equal(t, http.StatusCreated, rr.Code)

	var l response.Lobby
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &l))
	assert.Equal(t, "ABC123", l.ID)
}

func TestLeaveLobby(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "")
	guest := ts.newPlayer(t, "")
	ts.createLobby(t, host, "L1")

	rr := ts.request(http.MethodPost, "/api/v1/lobbies/leave", nil, guest)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/lobbies/L1/join", nil, guest)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/lobbies/leave", nil, guest)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/lobbies/L1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var l response.Lobby
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &l))
	assert.Len(t, l.Members, 1)
}

func TestLobbyErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newPlayer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/lobbies/missing/join", nil, id)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/lobbies/missing/results", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeResultNotFound, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/lobbies/missing/events", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/lobbies", map[string]string{"id": strings.Repeat("x", 65)}, id)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidLobby, errorCode(t, rr))
}

func TestLobbyEventStream(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "Host")
	ts.createLobby(t, host, "L1")

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()
	defer ts.app.HubManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/lobbies/L1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	nextEvent := func() string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if name, ok := strings.CutPrefix(strings.TrimSpace(line), "event: "); ok {
				return name
			}
		}
	}

	assert.Equal(t, "connected", nextEvent())

	rr := ts.request(http.MethodPost, "/api/v1/guesses", map[string]string{"guess": "crane"}, host)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, string(model.EventGuessSubmitted), nextEvent())
	assert.Equal(t, string(model.EventGameWon), nextEvent())

	// the lobby is gone, so the stream ends
	rest, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NotContains(t, string(rest), "event: ")
	assert.Nil(t, ts.app.HubManager.GetHub("L1"))
}

func TestLobbySocket(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "Host")
	ts.createLobby(t, host, "L1")

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()
	defer ts.app.HubManager.Close()

	header := http.Header{}
	header.Add("Cookie", middleware.CookieName+"="+string(host))
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/lobbies/L1/ws", header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var frame sse.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "connected", frame.Event)

	rr := ts.request(http.MethodPost, "/api/v1/guesses", map[string]string{"guess": "crane"}, host)
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, string(model.EventGuessSubmitted), frame.Event)
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, string(model.EventGameWon), frame.Event)
	assert.Contains(t, string(frame.Data), `"crane"`)

	err = conn.ReadJSON(&frame)
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
}

func TestLobbySocketUnknownLobby(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/lobbies/NOPE/ws", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeLobbyNotFound, errorCode(t, rr))
}

func TestLobbyQRCode(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "Host")
	ts.createLobby(t, host, "L1")

	rr := ts.request(http.MethodGet, "/api/v1/lobbies/L1/qr", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))

	rr = ts.request(http.MethodGet, "/api/v1/lobbies/L1/qr?size=12", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/lobbies/NOPE/qr", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestJoinURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://games.local:8080/api/v1/lobbies/L1/qr", nil)
	assert.Equal(t, "http://games.local:8080/api/v1/lobbies/L1/enter", handler.JoinURL(req, "L1"))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://games.local:8080/api/v1/lobbies/L1/enter", handler.JoinURL(req, "L1"))
}

func TestEnterLobbyFromFreshDevice(t *testing.T) {
	ts := newTestServer(t)
	host := ts.newPlayer(t, "Host")
	ts.createLobby(t, host, "L1")

	// no cookie: a handle is issued and the new player joins in one request
	rr := ts.request(http.MethodGet, "/api/v1/lobbies/L1/enter", nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)

	var lobby response.Lobby
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lobby))
	assert.Len(t, lobby.Members, 2)

	// revisiting with the cookie keeps the same handle
	rr = ts.request(http.MethodGet, "/api/v1/lobbies/L1/enter", nil, model.PlayerID(cookie.Value))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, sessionCookie(rr))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lobby))
	assert.Len(t, lobby.Members, 2)

	rr = ts.request(http.MethodGet, "/api/v1/lobbies/NOPE/enter", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Nil(t, sessionCookie(rr))
}
