package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/interpreter"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
	"github.com/Vasu1712/vibe-rooms-backend/internal/ws"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, whose view worker starts in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fixture struct {
	hub *ws.Hub
	srv *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := catalog.Default()
	hub := ws.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	r := mux.NewRouter()
	RegisterStreamRoutes(r, &StreamHandler{Catalog: c, Interpreter: interpreter.New(c), Hub: hub})
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		cancel()
		wg.Wait()
		srv.Close()
	})
	return &fixture{hub: hub, srv: srv}
}

func (f *fixture) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws/command" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	return conn
}

func (f *fixture) count(room models.RoomID, want int) func() bool {
	return func() bool { return f.hub.ListenerCount(room) == want }
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame string) string {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestServeWS_CommandsAndRoomSwitch(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "?room=cafe")
	defer conn.Close()

	require.Eventually(t, f.count(models.RoomCafe, 1), time.Second, 5*time.Millisecond)

	got := roundTrip(t, conn, `{"text":"mute the rain","layers":[{"url":"/assets/cafe/Rain.mp3","volume":0.3}]}`)
	assert.JSONEq(t, `{"toggle":[{"target":"Rain.mp3","state":"off"}]}`, got)

	got = roundTrip(t, conn, `not json`)
	assert.JSONEq(t, `{}`, got)

	got = roundTrip(t, conn, `{"text":"take me to the ocean"}`)
	assert.JSONEq(t, `{"switch_room":"ocean"}`, got)
	require.Eventually(t, f.count(models.RoomOcean, 1), time.Second, 5*time.Millisecond)
	assert.Zero(t, f.hub.ListenerCount(models.RoomCafe))

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, f.count(models.RoomOcean, 0), time.Second, 5*time.Millisecond)
}

func TestServeWS_DefaultRoom(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "")
	defer conn.Close()
	require.Eventually(t, f.count(interpreter.FallbackRoom, 1), time.Second, 5*time.Millisecond)
}

func TestServeWS_UnknownRoom(t *testing.T) {
	f := newFixture(t)
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws/command?room=atlantis"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeWS_HubShutdownClosesStreams(t *testing.T) {
	c := catalog.Default()
	hub := ws.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		hub.Run(ctx)
	}()
	r := mux.NewRouter()
	RegisterStreamRoutes(r, &StreamHandler{Catalog: c, Interpreter: interpreter.New(c), Hub: hub})
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/command?room=space", nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ListenerCount(models.RoomSpace) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestServeWS_StoppedHubRejectsStream(t *testing.T) {
	c := catalog.Default()
	hub := ws.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	r := mux.NewRouter()
	RegisterStreamRoutes(r, &StreamHandler{Catalog: c, Interpreter: interpreter.New(c), Hub: hub})
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/command?room=space", nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "stream should be closed, not left open")
	}
	assert.Zero(t, hub.ListenerCount(models.RoomSpace))
}
