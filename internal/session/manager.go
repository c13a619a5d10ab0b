package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/slidestream/internal/parser"
	"github.com/dgallion1/slidestream/internal/slide"
)

// Config controls session lifetime and parser behavior.
type Config struct {
	TTL         time.Duration
	MaxSessions int
	Parser      parser.Options
}

// Manager owns the session store, its janitor and the parse statistics.
type Manager struct {
	store *Store
	stats *ParseStats
	log   *slog.Logger
	cfg   Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(cfg Config, log *slog.Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	return &Manager{
		store: NewStore(cfg.TTL),
		stats: NewParseStats(time.Hour),
		log:   log,
		cfg:   cfg,
	}
}

// minJanitorInterval keeps the cleanup ticker valid for very short TTLs.
const minJanitorInterval = time.Millisecond

// Start launches the janitor that evicts idle sessions.
func (m *Manager) Start(ctx context.Context) {
	janitorCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	interval := max(min(m.cfg.TTL/2, 5*time.Minute), minJanitorInterval)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case <-ticker.C:
				if n := m.store.Cleanup(); n > 0 {
					m.log.Info("evicted idle sessions", "count", n)
				}
			}
		}
	}()
}

// Stop shuts the janitor down.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Create opens a new session. Each session gets its own ID namespace so
// documents from different sessions never share IDs.
func (m *Manager) Create() (*Session, error) {
	id := newULID()
	opts := m.cfg.Parser
	opts.Namespace = uuid.NewSHA1(parser.DefaultNamespace, []byte(id))
	opts.Logger = m.parserLog().With("session_id", id)

	sess := newSession(id, opts)
	if !m.store.PutIfBelow(sess, m.cfg.MaxSessions) {
		return nil, ErrTooManySessions
	}
	m.log.Info("session created", "session_id", id)
	return sess, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	sess := m.store.Get(id)
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete drops a session and everything its parser held.
func (m *Manager) Delete(id string) error {
	if !m.store.Delete(id) {
		return ErrNotFound
	}
	m.log.Info("session deleted", "session_id", id)
	return nil
}

// Feed passes a chunk to a session, timing the parser call. A negative
// offset means the chunk is fed without sequencing.
func (m *Manager) Feed(id string, offset int, chunk string) ([]slide.Document, error) {
	sess, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	var docs []slide.Document
	if offset < 0 {
		docs, err = sess.Feed(chunk)
	} else {
		docs, err = sess.FeedAt(offset, chunk)
	}
	if err != nil {
		return nil, err
	}
	m.stats.Record(time.Since(start), len(chunk))
	return docs, nil
}

// Finalize closes a session's stream.
func (m *Manager) Finalize(id string) ([]slide.Document, error) {
	sess, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	docs := sess.Finalize()
	m.stats.Record(time.Since(start), 0)
	return docs, nil
}

// ParseAll parses a complete stream without keeping a session.
func (m *Manager) ParseAll(markup string) []slide.Document {
	opts := m.cfg.Parser
	opts.Logger = m.parserLog()
	start := time.Now()
	docs := parser.ParseAll(markup, opts)
	m.stats.Record(time.Since(start), len(markup))
	return docs
}

func (m *Manager) parserLog() *slog.Logger {
	if m.cfg.Parser.Logger != nil {
		return m.cfg.Parser.Logger
	}
	return m.log
}

func (m *Manager) Stats() StatsSnapshot {
	return m.stats.Snapshot()
}

// ActiveSessions returns the number of live sessions.
func (m *Manager) ActiveSessions() int {
	return m.store.Len()
}
