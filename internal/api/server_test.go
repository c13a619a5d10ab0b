package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/slidestream/internal/config"
	"github.com/dgallion1/slidestream/internal/session"
)

const testKey = "test-key"

type docsResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Received  int    `json:"received_bytes"`
	Documents []struct {
		ID      string           `json:"id"`
		Layout  string           `json:"layout"`
		Canvas  json.RawMessage  `json:"canvas"`
		Content []map[string]any `json:"content"`
	} `json:"documents"`
}

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	cfg.APIKey = testKey
	if cfg.MaxChunkBytes == 0 {
		cfg.MaxChunkBytes = 1 << 20
	}
	mgr := session.NewManager(session.Config{
		TTL:         time.Minute,
		MaxSessions: cfg.MaxSessions,
		Parser:      cfg.ParserOptions(log),
	}, log)
	ts := httptest.NewServer(NewServer(mgr, log, cfg))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := do(t, ts, http.MethodPost, "/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: status %d: %s", resp.StatusCode, body)
	}
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.SessionID == "" {
		t.Fatalf("create session: bad body %s", body)
	}
	return out.SessionID
}

func decodeDocs(t *testing.T, body []byte) docsResponse {
	t.Helper()
	var out docsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode documents: %v (%s)", err, body)
	}
	return out
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, config.Config{})

	resp, err := http.Post(ts.URL+"/api/sessions", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing key: expected 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong key: expected 401, got %d", resp.StatusCode)
	}
}

func TestStreamingSession(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	id := createSession(t, ts)
	base := "/api/sessions/" + id

	resp, body := do(t, ts, http.MethodPost, base+"/chunks", `<SECTION layout="right"><H1>Intro</H1>`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chunk: status %d: %s", resp.StatusCode, body)
	}
	first := decodeDocs(t, body)
	if len(first.Documents) != 1 || first.Documents[0].Layout != "right" {
		t.Fatalf("expected one previewed document, got %s", body)
	}
	if first.Received != 38 || first.Status != "streaming" {
		t.Errorf("unexpected progress %+v", first)
	}

	resp, body = do(t, ts, http.MethodPost, base+"/chunks?offset=38", `<P>Hello</P></SECTION>`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("offset chunk: status %d: %s", resp.StatusCode, body)
	}
	second := decodeDocs(t, body)
	if len(second.Documents) != 1 || second.Documents[0].ID != first.Documents[0].ID {
		t.Fatalf("expected the same document updated in place, got %s", body)
	}

	resp, body = do(t, ts, http.MethodPost, base+"/chunks?offset=999", `x`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("gap: expected 409, got %d: %s", resp.StatusCode, body)
	}
	resp, _ = do(t, ts, http.MethodPost, base+"/chunks?offset=-1", `x`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("negative offset: expected 400, got %d", resp.StatusCode)
	}

	resp, body = do(t, ts, http.MethodPost, base+"/finalize", "")
	if resp.StatusCode != http.StatusOK || decodeDocs(t, body).Status != "finalized" {
		t.Fatalf("finalize: status %d: %s", resp.StatusCode, body)
	}
	resp, _ = do(t, ts, http.MethodPost, base+"/chunks", `more`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("feed after finalize: expected 409, got %d", resp.StatusCode)
	}

	resp, body = do(t, ts, http.MethodGet, base+"/documents", "")
	all := decodeDocs(t, body)
	if resp.StatusCode != http.StatusOK || len(all.Documents) != 1 || len(all.Documents[0].Content) != 2 {
		t.Fatalf("documents: status %d: %s", resp.StatusCode, body)
	}

	resp, _ = do(t, ts, http.MethodDelete, base, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.StatusCode)
	}
	resp, _ = do(t, ts, http.MethodGet, base+"/documents", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted session: expected 404, got %d", resp.StatusCode)
	}
}

func TestCanvasAndClearMarks(t *testing.T) {
	ts := newTestServer(t, config.Config{})
	id := createSession(t, ts)
	base := "/api/sessions/" + id

	_, body := do(t, ts, http.MethodPost, base+"/chunks", `<SECTION><P>still typing`)
	docs := decodeDocs(t, body)
	if len(docs.Documents) != 1 {
		t.Fatalf("expected a preview, got %s", body)
	}
	docID := docs.Documents[0].ID

	resp, _ := do(t, ts, http.MethodPut, base+"/documents/"+docID+"/canvas", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid canvas: expected 400, got %d", resp.StatusCode)
	}
	resp, _ = do(t, ts, http.MethodPut, base+"/documents/missing/canvas", `{}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing doc: expected 404, got %d", resp.StatusCode)
	}
	resp, _ = do(t, ts, http.MethodPut, base+"/documents/"+docID+"/canvas", `{"zoom":2}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("set canvas: expected 204, got %d", resp.StatusCode)
	}

	_, body = do(t, ts, http.MethodPost, base+"/clear-marks", "")
	if strings.Contains(string(body), `"generating":true`) {
		t.Errorf("marks should be cleared: %s", body)
	}
	cleared := decodeDocs(t, body)
	if string(cleared.Documents[0].Canvas) != `{"zoom":2}` {
		t.Errorf("canvas not kept: %s", cleared.Documents[0].Canvas)
	}
}

func TestChunkTooLarge(t *testing.T) {
	ts := newTestServer(t, config.Config{MaxChunkBytes: 16})
	id := createSession(t, ts)

	resp, _ := do(t, ts, http.MethodPost, "/api/sessions/"+id+"/chunks", strings.Repeat("x", 17))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestSessionLimit(t *testing.T) {
	ts := newTestServer(t, config.Config{MaxSessions: 1})
	createSession(t, ts)
	resp, _ := do(t, ts, http.MethodPost, "/api/sessions", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestParseAndStats(t *testing.T) {
	ts := newTestServer(t, config.Config{})

	resp, body := do(t, ts, http.MethodPost, "/api/parse", `<SECTION><H1>One</H1></SECTION><SECTION><H1>Two`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("parse: status %d: %s", resp.StatusCode, body)
	}
	if n := len(decodeDocs(t, body).Documents); n != 2 {
		t.Fatalf("expected 2 documents, got %d: %s", n, body)
	}

	resp, body = do(t, ts, http.MethodGet, "/api/stats/parse", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status %d", resp.StatusCode)
	}
	var stats struct {
		Stats session.StatsSnapshot `json:"stats"`
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Stats.Count != 1 {
		t.Errorf("expected one recorded parse, got %d", stats.Stats.Count)
	}
}
