package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dgallion1/slidestream/internal/slide"
)

// handleParse converts a complete markup body in one pass, without a
// session.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	docs := s.sessions.ParseAll(string(body))
	if docs == nil {
		docs = []slide.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleParseStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active_sessions": s.sessions.ActiveSessions(),
		"session_ttl":     s.cfg.SessionTTL.Round(time.Second).String(),
		"stats":           s.sessions.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
