package broadcast

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ScreenHandler handles WebSocket upgrade requests from display screens
type ScreenHandler struct {
	hub *Hub
}

func NewScreenHandler(hub *Hub) *ScreenHandler {
	return &ScreenHandler{hub: hub}
}

// HandleScreenConnection upgrades the request. The optional "name" query
// parameter labels the screen in logs.
func (h *ScreenHandler) HandleScreenConnection(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "anonymous"
	}

	if err := h.hub.UpgradeConnection(w, r, name); err != nil {
		// The upgrader has already written the HTTP error.
		log.Error().
			Err(err).
			Str("screen_name", name).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleStats reports how many screens are connected
func (h *ScreenHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{
		"screens": h.hub.ScreenCount(),
	})
}
