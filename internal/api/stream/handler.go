// Package stream serves the websocket form of /command: each text frame is a
// command request and is answered on the same connection.
package stream

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Vasu1712/vibe-rooms-backend/internal/catalog"
	"github.com/Vasu1712/vibe-rooms-backend/internal/interpreter"
	"github.com/Vasu1712/vibe-rooms-backend/internal/models"
	"github.com/Vasu1712/vibe-rooms-backend/internal/ws"
)

const (
	maxFrameBytes = 64 << 10
	writeWait     = 10 * time.Second
)

// StreamHandler upgrades /ws/command connections and runs the command
// pipeline for every frame.
type StreamHandler struct {
	Catalog        *catalog.Catalog
	Interpreter    *interpreter.Interpreter
	Hub            *ws.Hub
	AllowedOrigins []string // Empty means same-origin only
	Logger         *zap.Logger
}

func (h *StreamHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *StreamHandler) upgrader() websocket.Upgrader {
	u := websocket.Upgrader{}
	if len(h.AllowedOrigins) > 0 {
		allowed := make(map[string]bool, len(h.AllowedOrigins))
		for _, o := range h.AllowedOrigins {
			allowed[o] = true
		}
		u.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin] || allowed["*"]
		}
	}
	return u
}

// ServeWS handles GET /ws/command?room=<id>. room defaults to the fallback
// room and must name a known room.
func (h *StreamHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	room := models.RoomID(r.URL.Query().Get("room"))
	if room == "" {
		room = interpreter.FallbackRoom
	}
	if _, ok := h.Catalog.Room(room); !ok {
		http.Error(w, "Unknown room", http.StatusBadRequest)
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger().Warn("websocket upgrade failed", zap.String("room", string(room)), zap.Error(err))
		return
	}

	client := ws.NewClient(uuid.NewString(), conn)
	log := h.logger().With(zap.String("client", client.ID))
	if !h.Hub.Register(client, room) {
		log.Info("hub stopped, rejecting stream")
		conn.Close()
		return
	}
	log.Info("command stream opened", zap.String("room", string(room)))

	// Write pump. After a write error it keeps draining Send so the reader
	// never blocks on a dead connection.
	written := make(chan struct{})
	go func() {
		defer close(written)
		failed := false
		for message := range client.Send {
			if failed {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				failed = true
				conn.Close()
			}
		}
	}()

	// Read pump, on the handler goroutine so r.Context() stays live.
	defer func() {
		h.Hub.Unregister(client)
		close(client.Send)
		<-written
		conn.Close()
		log.Info("command stream closed")
	}()
	conn.SetReadLimit(maxFrameBytes)
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var req models.CommandRequest
		res := models.CommandResponse{}
		if err := json.Unmarshal(frame, &req); err != nil {
			log.Debug("malformed command frame", zap.Error(err))
		} else {
			res = h.Interpreter.Command(r.Context(), req.Text, req.Layers)
		}
		if res.SwitchRoom != "" {
			h.Hub.Move(client, res.SwitchRoom)
		}

		out, err := json.Marshal(res)
		if err != nil {
			log.Warn("encode command response", zap.Error(err))
			continue
		}
		client.Send <- out
	}
}
