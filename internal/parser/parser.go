package parser

import (
	"encoding/json"

	"github.com/dgallion1/slidestream/internal/slide"
)

// Parser turns a growing slide markup stream into documents. It wraps a
// State; it is not safe for concurrent use.
type Parser struct {
	opts  Options
	state State
}

// New returns a parser for a fresh stream.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// ParseChunk feeds the next chunk, cumulative or delta, and returns the
// documents it created or changed, in source order.
func (p *Parser) ParseChunk(chunk string) []slide.Document {
	var out []slide.Document
	p.state, out = Step(p.opts, p.state, chunk)
	return out
}

// FeedAt feeds text that starts at the given byte offset of the stream.
// Overlap with text already received is skipped. A gap returns
// ErrChunkGap and leaves the parser unchanged.
func (p *Parser) FeedAt(offset int, text string) ([]slide.Document, error) {
	st, out, err := StepAt(p.opts, p.state, offset, text)
	if err != nil {
		return nil, err
	}
	p.state = st
	return out, nil
}

// Finalize closes the stream. A section left open is converted even if it
// holds no content. Text that ended the stream keeps its generating mark;
// call ClearAllGeneratingMarks once nothing more will arrive.
func (p *Parser) Finalize() []slide.Document {
	var out []slide.Document
	p.state, out = Finish(p.opts, p.state)
	return out
}

// Documents returns every document emitted so far.
func (p *Parser) Documents() []slide.Document {
	return p.state.Documents()
}

// State returns a snapshot of the parser state.
func (p *Parser) State() State {
	return p.state
}

// Reset drops all state, including document identities.
func (p *Parser) Reset() {
	p.state = State{}
}

// ClearAllGeneratingMarks unsets the generating flag on every text run.
func (p *Parser) ClearAllGeneratingMarks() {
	p.state = ClearMarks(p.state)
}

// SetCanvas stores renderer data on a document. It reports whether a
// document with that ID exists.
func (p *Parser) SetCanvas(id string, canvas json.RawMessage) bool {
	var ok bool
	p.state, ok = SetCanvas(p.state, id, canvas)
	return ok
}

// ParseAll parses a complete stream in one pass.
func ParseAll(markup string, opts Options) []slide.Document {
	p := New(opts)
	p.ParseChunk(markup)
	p.Finalize()
	return p.Documents()
}
