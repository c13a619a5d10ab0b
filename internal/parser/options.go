package parser

import (
	"log/slog"

	"github.com/google/uuid"
)

// ChunkMode tells the driver how to interpret the text handed to Step.
type ChunkMode int

const (
	// ModeAuto treats a chunk as cumulative when the previous chunk is a
	// prefix of it and every earlier chunk was cumulative too; otherwise
	// the chunk is a delta.
	ModeAuto ChunkMode = iota
	// ModeCumulative: every chunk is the full text so far.
	ModeCumulative
	// ModeDelta: every chunk is new text only.
	ModeDelta
)

func (m ChunkMode) String() string {
	switch m {
	case ModeCumulative:
		return "cumulative"
	case ModeDelta:
		return "delta"
	}
	return "auto"
}

// ParseChunkMode maps "auto", "cumulative" or "delta" to a ChunkMode.
// Unknown values yield ModeAuto.
func ParseChunkMode(s string) ChunkMode {
	switch s {
	case "cumulative":
		return ModeCumulative
	case "delta":
		return ModeDelta
	}
	return ModeAuto
}

// DefaultNamespace seeds document IDs when Options.Namespace is unset.
var DefaultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dgallion1/slidestream"))

// Options configure a parser. The zero value is ready to use.
type Options struct {
	Logger *slog.Logger
	Mode   ChunkMode

	// DisablePreview stops the trailing, still-open section from being
	// emitted as a provisional document.
	DisablePreview bool

	// MarkdownInline splits markdown emphasis that leaks into text runs
	// (**bold**, *italic*, ~~strike~~) into formatted runs.
	MarkdownInline bool

	// Namespace seeds document IDs. Parsers sharing a namespace mint the
	// same ID for the same slide position.
	Namespace uuid.UUID
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) namespace() uuid.UUID {
	if o.Namespace == uuid.Nil {
		return DefaultNamespace
	}
	return o.Namespace
}
