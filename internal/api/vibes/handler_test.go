package vibes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/composer"
	"github.com/Vasu1712/vibe-rooms-backend/internal/interpreter"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
	"github.com/Vasu1712/vibe-rooms-backend/internal/ws"
)

func newRouter(hub *ws.Hub) *mux.Router {
	c := catalog.Default()
	r := mux.NewRouter()
	RegisterVibeRoutes(r, &VibeHandler{
		Catalog:     c,
		Interpreter: interpreter.New(c),
		Composer:    composer.New(c),
		Hub:         hub,
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPalette(t *testing.T) {
	rr := do(t, newRouter(nil), http.MethodGet, "/palette", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got map[string][]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 6)
	require.Len(t, got["forest"], 6)
	assert.Equal(t, map[string]any{"name": "birds.mp3", "url": "/assets/forest/birds.mp3"}, got["forest"][0])
}

func TestMethodNotAllowed(t *testing.T) {
	r := newRouter(nil)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, r, http.MethodPost, "/palette", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, r, http.MethodGet, "/command", "").Code)
}

func TestBadJSON(t *testing.T) {
	r := newRouter(nil)
	for _, path := range []string{"/vibe", "/command", "/compose"} {
		rr := do(t, r, http.MethodPost, path, "{not json")
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

func TestCommand(t *testing.T) {
	r := newRouter(nil)

	rr := do(t, r, http.MethodPost, "/command",
		`{"text":"mute the rain","layers":[{"url":"/assets/cafe/Rain.mp3","volume":0.3}]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"toggle":[{"target":"Rain.mp3","state":"off"}]}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/command", `{"text":"take me to the beach"}`)
	assert.JSONEq(t, `{"switch_room":"ocean"}`, rr.Body.String())

	rr = do(t, r, http.MethodPost, "/command", `{"text":"play something nice","layers":[]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{}`, rr.Body.String())
}

func TestVibe(t *testing.T) {
	rr := do(t, newRouter(nil), http.MethodPost, "/vibe", `{"text":"take me to the beach"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var scene models.Scene
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &scene))
	assert.Equal(t, "Ocean Retreat", scene.Label)
	assert.Equal(t, "/assets/ocean/ocean.gif", scene.BackgroundURL)
	assert.Len(t, scene.Layers, 6)
}

func TestCompose(t *testing.T) {
	rr := do(t, newRouter(nil), http.MethodPost, "/compose", `{"goal":"deep work","duration_min":25,"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var plan models.Plan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plan))
	assert.Equal(t, models.RoomSpace, plan.Room)
	assert.Len(t, plan.Layers, 4)
	require.Len(t, plan.Timeline, 4)
	assert.Equal(t, models.OpStop, plan.Timeline[3].Op)
	assert.Equal(t, 1500, plan.Timeline[3].T)
	assert.Equal(t, "u1", plan.Context.UserID)
	assert.NotEmpty(t, plan.Context.PlanID)
}

func TestRooms(t *testing.T) {
	rr := do(t, newRouter(nil), http.MethodGet, "/rooms", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var rooms []models.RoomSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rooms))
	require.Len(t, rooms, 6)
	assert.Equal(t, models.RoomForest, rooms[0].ID)
	assert.Equal(t, models.RoomDesert, rooms[5].ID)
}

func TestRooms_ListenerCounts(t *testing.T) {
	hub := ws.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	hub.Register(ws.NewClient("a", nil), models.RoomCafe)
	require.Eventually(t, func() bool { return hub.ListenerCount(models.RoomCafe) == 1 }, time.Second, 5*time.Millisecond)

	rr := do(t, newRouter(hub), http.MethodGet, "/rooms", "")
	var rooms []models.RoomSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rooms))
	for _, room := range rooms {
		want := 0
		if room.ID == models.RoomCafe {
			want = 1
		}
		assert.Equal(t, want, room.Listeners, room.ID)
	}
}

func TestHealth(t *testing.T) {
	rr := do(t, newRouter(nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
