package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialcore/internal/cldb"
	"dialcore/internal/config"
	"dialcore/internal/domain"
	"dialcore/internal/nlu"
	"dialcore/internal/orchestrator"
	"dialcore/internal/pipeline"
	"dialcore/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := cldb.Builtin()
	p, err := pipeline.DefaultRegistry().Build(config.DefaultPipeline(), pipeline.Deps{DB: db, Logger: logger})
	require.NoError(t, err)
	svc := orchestrator.New(p, nlu.NewParser(db, nlu.WithLogger(logger)), session.NewRegistry(time.Minute), logger)
	srv := httptest.NewServer(NewServer(svc, Config{MaxBodyBytes: 256}, logger).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	var health map[string]any
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, srv.URL+"/healthz", "", &health))
	assert.Equal(t, true, health["ok"])

	doJSON(t, http.MethodPost, srv.URL+"/v1/nlu/parse", `{"text":"ahoj"}`, &domain.ParseResponse{})
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "dialcore_nlu_parse_latency_seconds")
}

func TestParseEndpoint(t *testing.T) {
	srv := newTestServer(t)
	var out domain.ParseResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/v1/nlu/parse", `{"text":"z Anděla na Florenc"}`, &out)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "inform(from_stop=Anděl,to_stop=Florenc)", out.DA)
	assert.Len(t, out.Items, 2)
}

func TestParseEndpointRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "invalid json", body: `{"text":`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"text":"a","extra":1}`, status: http.StatusBadRequest},
		{name: "missing text", body: `{}`, status: http.StatusBadRequest},
		{name: "two values", body: `{"text":"a"}{"text":"b"}`, status: http.StatusBadRequest},
		{name: "too large", body: `{"text":"` + strings.Repeat("a", 300) + `"}`, status: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out domain.ErrorResponse
			assert.Equal(t, tt.status, doJSON(t, http.MethodPost, srv.URL+"/v1/nlu/parse", tt.body, &out))
			assert.NotEmpty(t, out.Error)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var created domain.CreateSessionResponse
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/v1/sessions", "", &created))
	require.NotEmpty(t, created.SessionID)
	base := srv.URL + "/v1/sessions/" + created.SessionID

	var turn domain.TurnResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, base+"/turns", `{"text":"chci jet z Prahy"}`, &turn))
	assert.Equal(t, 1, turn.Turn)
	assert.InDelta(t, 1.0, turn.State["from_city"]["Praha"], 1e-9)

	var state domain.StateResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, base+"/state", "", &state))
	assert.Equal(t, 1, state.Turns)
	assert.InDelta(t, 0.0, state.State["from_city"].None(), 1e-9)

	assert.Equal(t, http.StatusNoContent, doJSON(t, http.MethodDelete, base, "", nil))

	var missing domain.ErrorResponse
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, base+"/state", "", &missing))
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodPost, base+"/turns", `{"text":"ahoj"}`, &missing))
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodDelete, base, "", &missing))
}

func TestTurnBlankTextIsSilence(t *testing.T) {
	srv := newTestServer(t)
	var created domain.CreateSessionResponse
	doJSON(t, http.MethodPost, srv.URL+"/v1/sessions", "", &created)
	var out domain.TurnResponse
	status := doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+created.SessionID+"/turns", `{"text":"   "}`, &out)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "silence()", out.NLU)

	var missing domain.ErrorResponse
	status = doJSON(t, http.MethodPost, srv.URL+"/v1/sessions/"+created.SessionID+"/turns", `{}`, &missing)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestWebSocketTurns(t *testing.T) {
	srv := newTestServer(t)
	var created domain.CreateSessionResponse
	doJSON(t, http.MethodPost, srv.URL+"/v1/sessions", "", &created)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/sessions/" + created.SessionID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ev wsEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "ready", ev.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("z Prahy")))
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "turn", ev.Type)
	assert.Equal(t, "inform(from_city=Praha)", ev.Turn.NLU)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"text":"do Brna"}`)))
	ev = wsEvent{}
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "turn", ev.Type)
	assert.Equal(t, 2, ev.Turn.Turn)
	assert.InDelta(t, 1.0, ev.Turn.State["to_city"]["Brno"], 1e-9)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("  ")))
	ev = wsEvent{}
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "turn", ev.Type)
	assert.Equal(t, "silence()", ev.Turn.NLU)
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/sessions/nope/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
