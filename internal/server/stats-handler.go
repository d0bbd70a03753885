package server

import (
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Chat.Stats(r.Context())
	if err != nil {
		s.Logger.Error("error in stats api", "request_id", RequestIDFromContext(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, MessageInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
