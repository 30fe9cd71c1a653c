package vibes

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/composer"
	"github.com/Vasu1712/vibe-rooms-backend/internal/interpreter"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
	"github.com/Vasu1712/vibe-rooms-backend/internal/ws"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// VibeHandler holds the dependencies for the room, vibe, command and
// compose endpoints.
type VibeHandler struct {
	Catalog     *catalog.Catalog
	Interpreter *interpreter.Interpreter
	Composer    *composer.Composer
	Hub         *ws.Hub // Optional; listener counts are zero without it
	Logger      *zap.Logger
}

func (h *VibeHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *VibeHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger().Warn("encode response", zap.Error(err))
	}
}

func (h *VibeHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		h.logger().Debug("decode request body", zap.String("path", r.URL.Path), zap.Error(err))
		return false
	}
	return true
}

// Palette handles GET /palette: every room with its {name, url} layers.
func (h *VibeHandler) Palette(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.Catalog.Palette())
}

// Rooms handles GET /rooms: rooms in declared order with live listener counts.
func (h *VibeHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.Catalog.Rooms()
	out := make([]models.RoomSummary, len(rooms))
	for i, room := range rooms {
		out[i] = models.RoomSummary{
			ID:            room.ID,
			BackgroundURL: room.Background,
			Aliases:       room.Aliases,
		}
		if h.Hub != nil {
			out[i].Listeners = h.Hub.ListenerCount(room.ID)
		}
	}
	h.writeJSON(w, out)
}

// Vibe handles POST /vibe with a {text} body.
func (h *VibeHandler) Vibe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	scene := h.Interpreter.Vibe(r.Context(), req.Text)
	h.writeJSON(w, scene)
	h.logger().Info("vibe", zap.String("label", scene.Label), zap.Int("layers", len(scene.Layers)))
}

// Command handles POST /command. Uninterpretable text yields {}.
func (h *VibeHandler) Command(w http.ResponseWriter, r *http.Request) {
	var req models.CommandRequest
	if !h.decode(w, r, &req) {
		return
	}
	res := h.Interpreter.Command(r.Context(), req.Text, req.Layers)
	h.writeJSON(w, res)
	h.logger().Info("command",
		zap.String("text", req.Text),
		zap.Int("actions", len(res.Actions())),
		zap.String("switch_room", string(res.SwitchRoom)))
}

// Compose handles POST /compose.
func (h *VibeHandler) Compose(w http.ResponseWriter, r *http.Request) {
	var req models.ComposeRequest
	if !h.decode(w, r, &req) {
		return
	}
	plan := h.Composer.Compose(req.Goal, req.DurationMin, req.UserID)
	h.writeJSON(w, plan)
	h.logger().Info("compose",
		zap.String("room", string(plan.Room)),
		zap.Int("duration_min", plan.Context.DurationMin),
		zap.String("plan_id", plan.Context.PlanID))
}

// Health handles GET /healthz.
func (h *VibeHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}
