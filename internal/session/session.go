package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dgallion1/slidestream/internal/parser"
	"github.com/dgallion1/slidestream/internal/slide"
)

// Status is the lifecycle state of a streaming session.
type Status string

const (
	StatusStreaming Status = "streaming"
	StatusFinalized Status = "finalized"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrFinalized       = errors.New("session already finalized")
	ErrTooManySessions = errors.New("too many active sessions")
	ErrDocNotFound     = errors.New("document not found")
)

// Session owns one parser. Its mutex serializes every parser call.
type Session struct {
	mu sync.Mutex

	ID        string
	Status    Status
	Chunks    int
	CreatedAt time.Time
	UpdatedAt time.Time

	parser *parser.Parser
}

func newSession(id string, opts parser.Options) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Status:    StatusStreaming,
		CreatedAt: now,
		UpdatedAt: now,
		parser:    parser.New(opts),
	}
}

// Feed passes the next chunk to the parser.
func (s *Session) Feed(chunk string) ([]slide.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusFinalized {
		return nil, ErrFinalized
	}
	s.touchLocked()
	return s.parser.ParseChunk(chunk), nil
}

// FeedAt passes text that starts at a known stream offset.
func (s *Session) FeedAt(offset int, text string) ([]slide.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusFinalized {
		return nil, ErrFinalized
	}
	docs, err := s.parser.FeedAt(offset, text)
	if err != nil {
		return nil, err
	}
	s.touchLocked()
	return docs, nil
}

// Finalize closes the stream. Finalizing twice returns nothing new.
func (s *Session) Finalize() []slide.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusFinalized {
		return nil
	}
	s.Status = StatusFinalized
	s.UpdatedAt = time.Now()
	return s.parser.Finalize()
}

func (s *Session) Documents() []slide.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parser.Documents()
}

// ClearMarks unsets every generating flag.
func (s *Session) ClearMarks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parser.ClearAllGeneratingMarks()
	s.UpdatedAt = time.Now()
}

// SetCanvas stores renderer data on one document.
func (s *Session) SetCanvas(docID string, canvas json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.parser.SetCanvas(docID, canvas) {
		return ErrDocNotFound
	}
	s.UpdatedAt = time.Now()
	return nil
}

func (s *Session) touchLocked() {
	s.Chunks++
	s.UpdatedAt = time.Now()
}

func (s *Session) lastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID        string    `json:"session_id"`
	Status    Status    `json:"status"`
	Chunks    int       `json:"chunks"`
	Documents int       `json:"documents"`
	Received  int       `json:"received_bytes"`
	Pending   int       `json:"pending_bytes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.parser.State()
	return Snapshot{
		ID:        s.ID,
		Status:    s.Status,
		Chunks:    s.Chunks,
		Documents: len(st.Documents()),
		Received:  st.Received(),
		Pending:   st.Pending(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
