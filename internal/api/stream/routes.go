package stream

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterStreamRoutes registers the websocket endpoint on r.
func RegisterStreamRoutes(r *mux.Router, handler *StreamHandler) {
	r.HandleFunc("/ws/command", handler.ServeWS).Methods(http.MethodGet)
}
