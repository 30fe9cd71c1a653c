package vibes

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterVibeRoutes registers the JSON endpoints on r. Requests with the
// wrong method get 405 from the router.
func RegisterVibeRoutes(r *mux.Router, handler *VibeHandler) {
	r.HandleFunc("/palette", handler.Palette).Methods(http.MethodGet)
	r.HandleFunc("/rooms", handler.Rooms).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)
	r.HandleFunc("/vibe", handler.Vibe).Methods(http.MethodPost)
	r.HandleFunc("/command", handler.Command).Methods(http.MethodPost)
	r.HandleFunc("/compose", handler.Compose).Methods(http.MethodPost)
}
