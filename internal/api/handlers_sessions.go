package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dgallion1/slidestream/internal/parser"
	"github.com/dgallion1/slidestream/internal/session"
	"github.com/dgallion1/slidestream/internal/slide"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.sessionError(w, err)
		return
	}
	snap := sess.Snapshot()
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": snap.ID,
		"status":     snap.Status,
		"chunks_url": fmt.Sprintf("/api/sessions/%s/chunks", snap.ID),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handleDeleteSession drops a session together with its parser state.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		s.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChunk feeds the request body as the next stream chunk. With an
// offset query parameter the chunk is placed at that byte offset.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	offset := -1
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}
		offset = n
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	docs, err := s.sessions.Feed(id, offset, string(body))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.writeDocuments(w, id, docs)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	docs, err := s.sessions.Finalize(id)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.writeDocuments(w, id, docs)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.writeDocuments(w, id, sess.Documents())
}

func (s *Server) handleClearMarks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	sess.ClearMarks()
	s.writeDocuments(w, id, sess.Documents())
}

// handleSetCanvas stores opaque renderer state on one document. The body
// must be valid JSON; it is kept verbatim.
func (s *Server) handleSetCanvas(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.sessionError(w, err)
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if !json.Valid(body) {
		jsonError(w, "canvas must be valid JSON", http.StatusBadRequest)
		return
	}

	if err := sess.SetCanvas(chi.URLParam(r, "docID"), json.RawMessage(body)); err != nil {
		s.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeDocuments(w http.ResponseWriter, id string, docs []slide.Document) {
	if docs == nil {
		docs = []slide.Document{}
	}
	resp := map[string]any{
		"session_id": id,
		"documents":  docs,
	}
	if sess, err := s.sessions.Get(id); err == nil {
		snap := sess.Snapshot()
		resp["status"] = snap.Status
		resp["received_bytes"] = snap.Received
		resp["pending_bytes"] = snap.Pending
	}
	writeJSON(w, http.StatusOK, resp)
}

// readBody reads a request body capped at MaxChunkBytes, writing the error
// response itself when it fails.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxChunkBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxChunkBytes), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func (s *Server) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrDocNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrFinalized), errors.Is(err, parser.ErrChunkGap):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, session.ErrTooManySessions):
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		s.log.Error("session request failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
