package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleVisionStats(w http.ResponseWriter, r *http.Request) {
	if s.visionStats == nil {
		jsonError(w, "vision stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.visionModel,
		"stats": s.visionStats.Snapshot(),
	})
}
