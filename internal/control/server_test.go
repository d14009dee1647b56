package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lightbox/internal/app"
	"github.com/coreman2200/lightbox/internal/config"
	"github.com/coreman2200/lightbox/internal/led"
)

func newTestServer(t *testing.T) (*httptest.Server, *app.Core) {
	cfg := config.Default()
	cfg.FPS = 200
	cfg.Grid = config.Grid{Rows: 2, Cols: 2}
	cfg.Playlist = []config.Entry{{Effect: "solid", Color: "#ff0000"}}
	core, err := app.NewCore(cfg, app.WithDriver(led.NewSim(zerolog.Nop())))
	require.NoError(t, err)

	s := New(context.Background(), core, zerolog.Nop())
	s.Throttle = time.Millisecond
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = core.Close()
	})
	return ts, core
}

func call(t *testing.T, method, url string) (int, map[string]any) {
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPowerEndpoints(t *testing.T) {
	ts, core := newTestServer(t)

	code, body := call(t, http.MethodGet, ts.URL+"/power/status")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["status"])

	code, body = call(t, http.MethodPost, ts.URL+"/power/update/on")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["status"])
	assert.True(t, core.Running())

	code, _ = call(t, http.MethodPost, ts.URL+"/power/update/true")
	assert.Equal(t, http.StatusOK, code, "already on")

	code, body = call(t, http.MethodPost, ts.URL+"/power/update/off")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["status"])
	assert.False(t, core.Running())

	code, body = call(t, http.MethodPost, ts.URL+"/power/update/maybe")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "power")
}

func TestBrightnessEndpoints(t *testing.T) {
	ts, core := newTestServer(t)

	code, body := call(t, http.MethodPost, ts.URL+"/brightness/update/25")
	assert.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 25, body["status"], 1e-9)
	assert.InDelta(t, 0.25, core.Strip.Brightness(), 1e-9)

	code, body = call(t, http.MethodGet, ts.URL+"/brightness/status")
	assert.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 25, body["status"], 1e-9)

	for _, bad := range []string{"101", "-1", "bright"} {
		code, _ = call(t, http.MethodPost, ts.URL+"/brightness/update/"+bad)
		assert.Equal(t, http.StatusBadRequest, code, bad)
	}
}

func TestResetAndHealth(t *testing.T) {
	ts, core := newTestServer(t)

	code, body := call(t, http.MethodPost, ts.URL+"/reset")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["status"])
	require.Eventually(t, func() bool { return core.Status().Frames > 0 }, 2*time.Second, 5*time.Millisecond)

	code, body = call(t, http.MethodGet, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["running"])
	assert.Equal(t, float64(2), body["rows"])
	assert.Equal(t, "sim", body["driver"])

	resp, err := http.Get(ts.URL + "/reset")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/power/status", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestControlSocket(t *testing.T) {
	ts, core := newTestServer(t)
	conn := dial(t, ts, "/control")

	send := func(line string) commandReply {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(line)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var r commandReply
		require.NoError(t, json.Unmarshal(data, &r))
		return r
	}

	assert.True(t, send("power on").OK)
	assert.True(t, core.Running())
	assert.True(t, send(`brightness "50"`).OK)
	assert.InDelta(t, 50, core.Brightness(), 1e-9)
	assert.True(t, send("test channels").OK)
	require.Eventually(t, func() bool { return core.Status().Effect == "channels" }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, send("reset").OK)
	assert.True(t, send("status").OK)
	assert.True(t, send("power off").OK)
	assert.False(t, core.Running())

	for _, bad := range []string{"", "dance", "power", "brightness 900", `power "on`, "test plasma"} {
		r := send(bad)
		assert.False(t, r.OK, bad)
		assert.NotEmpty(t, r.Error, bad)
	}
}

func TestFrameAndDiagStreams(t *testing.T) {
	ts, core := newTestServer(t)
	frames := dial(t, ts, "/ws")
	diags := dial(t, ts, "/diag")
	// registration happens in the handler, give it a moment
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, core.Start(context.Background()))

	require.NoError(t, frames.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := frames.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, 2, f.Rows)
	assert.Equal(t, 2, f.Cols)
	assert.Len(t, f.RGB, 12)

	require.NoError(t, diags.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err = diags.ReadMessage()
	require.NoError(t, err)
	var d map[string]any
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, "EFFECT.ACTIVE", d["code"])
}

func TestSendDropsFailedClient(t *testing.T) {
	_, core := newTestServer(t)
	s := New(context.Background(), core, zerolog.Nop())

	conns := make(chan *websocket.Conn, 1)
	up := websocket.Upgrader{}
	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	defer peer.Close()
	dial(t, peer, "/")

	var healthy, broken *websocket.Conn
	select {
	case healthy = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("no upgrade")
	}
	dial(t, peer, "/")
	select {
	case broken = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("no upgrade")
	}
	defer healthy.Close()
	require.NoError(t, broken.Close())

	ok, bad := &client{conn: healthy}, &client{conn: broken}
	s.mu.Lock()
	s.clients[ok] = true
	s.clients[bad] = true
	s.mu.Unlock()

	s.send(s.clients, []byte(`{}`))

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.True(t, s.clients[ok])
	assert.NotContains(t, s.clients, bad)
}
