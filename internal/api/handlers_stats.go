package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.latency == nil {
		jsonError(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"routes": s.latency.Snapshot(),
	})
}
