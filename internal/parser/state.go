package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/dgallion1/slidestream/internal/slide"
)

// ErrChunkGap is returned by StepAt when a chunk starts past the end of the
// text received so far.
var ErrChunkGap = errors.New("chunk leaves a gap in the stream")

// State is the complete parser state between chunks. The zero value is an
// empty stream. Step and friends never modify the State they are given.
type State struct {
	buf         string // received text not yet consumed by a committed section
	last        string // most recent raw chunk, for in-progress marking
	received    int    // bytes of stream text received
	consumed    int    // bytes of stream text consumed by committed sections
	headerDone  bool
	docs        []slide.Document
	provisional bool // the last document previews a section still open
	ids         identities
}

// Documents returns the documents emitted so far, in source order.
func (s State) Documents() []slide.Document {
	return slices.Clone(s.docs)
}

// Received is the number of stream bytes received.
func (s State) Received() int { return s.received }

// Pending is the number of received bytes not yet consumed by a committed
// section.
func (s State) Pending() int { return len(s.buf) }

// Step feeds one chunk and returns the new state with the documents that
// were created or changed by it, in source order.
func Step(opts Options, s State, chunk string) (State, []slide.Document) {
	s = s.receive(opts, chunk)
	return s.scan(opts, false)
}

// StepAt feeds text known to start at the given stream offset. Text already
// received is skipped; a gap returns ErrChunkGap and the unchanged state.
func StepAt(opts Options, s State, offset int, text string) (State, []slide.Document, error) {
	if offset < 0 || offset > s.received {
		return s, nil, fmt.Errorf("offset %d, received %d: %w", offset, s.received, ErrChunkGap)
	}
	if end := offset + len(text); end <= s.received {
		return s, nil, nil
	}
	delta := text[s.received-offset:]
	s.buf += delta
	s.received += len(delta)
	s.last = text
	s, out := s.scan(opts, false)
	return s, out, nil
}

// Finish runs the last extraction pass: a dangling section is closed even
// without content, and in-progress context is dropped afterwards.
func Finish(opts Options, s State) (State, []slide.Document) {
	s, out := s.scan(opts, true)
	s.last = ""
	return s, out
}

// ClearMarks returns s with every generating flag unset.
func ClearMarks(s State) State {
	docs := make([]slide.Document, len(s.docs))
	for i, d := range s.docs {
		docs[i] = slide.ClearGenerating(d)
	}
	s.docs = docs
	return s
}

// SetCanvas attaches opaque canvas data to the document with the given ID.
// Later re-parses of that document keep it.
func SetCanvas(s State, id string, canvas json.RawMessage) (State, bool) {
	i := slices.IndexFunc(s.docs, func(d slide.Document) bool { return d.ID == id })
	if i < 0 {
		return s, false
	}
	s.docs = slices.Clone(s.docs)
	s.docs[i].Canvas = slices.Clone(canvas)
	return s, true
}

// receive appends the new part of chunk to the buffer.
func (s State) receive(opts Options, chunk string) State {
	delta := chunk
	switch opts.Mode {
	case ModeCumulative:
		if strings.HasPrefix(chunk, s.last) {
			delta = chunk[len(s.last):]
			break
		}
		// The producer rewrote earlier text. Committed sections stay; the
		// unconsumed tail is taken from the new text.
		opts.logger().Warn("parser: cumulative chunk does not extend previous one",
			"previous_bytes", len(s.last), "chunk_bytes", len(chunk))
		s.buf = chunk[min(s.consumed, len(chunk)):]
		s.received = len(chunk)
		s.last = chunk
		return s
	case ModeAuto:
		if s.last != "" && s.received == len(s.last) && strings.HasPrefix(chunk, s.last) {
			delta = chunk[len(s.last):]
		}
	}
	s.buf += delta
	s.received += len(delta)
	s.last = chunk
	return s
}

// committed is the number of documents whose sections have closed.
func (s State) committed() int {
	if s.provisional {
		return len(s.docs) - 1
	}
	return len(s.docs)
}

// scan extracts every section it can from the buffer.
func (s State) scan(opts Options, final bool) (State, []slide.Document) {
	log := opts.logger()
	ctx := &buildCtx{last: s.last, markdown: opts.MarkdownInline, log: log}
	s.docs = slices.Clone(s.docs)
	changed := map[int]bool{}

	buf := s.buf
	pos := 0
	if !s.headerDone {
		n, done := skipHeader(buf, final)
		if !done {
			return s, nil
		}
		s.headerDone = true
		pos = n
	}

	for {
		start := indexOpen(buf, pos)
		if start < 0 {
			// Keep only a tail that could still grow into "<SECTION".
			if i := strings.LastIndexByte(buf[pos:], '<'); i >= 0 && !final {
				pos += i
			} else {
				pos = len(buf)
			}
			break
		}
		next := indexOpen(buf, start+1)

		var span string
		if end := indexClose(buf, start, next); end >= 0 {
			span = buf[start:end]
			pos = end
		} else if next >= 0 {
			span = buf[start:next]
			if !final && !hasContentTag(span) {
				pos = start
				break
			}
			log.Debug("parser: accepting section without closing tag", "offset", s.consumed+start)
			span += closeSection
			pos = next
		} else if final {
			span = buf[start:] + closeSection
			pos = len(buf)
		} else {
			pos = start
			if open := buf[start:]; !opts.DisablePreview && hasContentTag(open) {
				s = s.place(opts, ctx, open, changed)
				s.provisional = true
			}
			break
		}

		s = s.place(opts, ctx, span, changed)
		s.provisional = false
	}

	s.consumed += pos
	s.buf = buf[pos:]

	var out []slide.Document
	for _, slot := range slices.Sorted(maps.Keys(changed)) {
		out = append(out, s.docs[slot])
	}
	return s, out
}

// place converts span into the first uncommitted slot, replacing a preview
// already there in place.
func (s State) place(opts Options, ctx *buildCtx, span string, changed map[int]bool) State {
	slot := s.committed()
	var current string
	if slot < len(s.docs) {
		current = s.docs[slot].ID
	}

	var doc slide.Document
	doc, s.ids = convertSection(ctx, opts.namespace(), s.ids, span, slot, current)

	if slot < len(s.docs) {
		doc.Canvas = s.docs[slot].Canvas
		if !reflect.DeepEqual(s.docs[slot], doc) {
			s.docs[slot] = doc
			changed[slot] = true
		}
		return s
	}
	s.docs = append(s.docs, doc)
	changed[slot] = true
	return s
}
