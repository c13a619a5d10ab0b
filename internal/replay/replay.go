package replay

import (
	"strings"
	"unicode/utf8"
)

// Config controls how a complete text is cut into stream chunks.
type Config struct {
	ChunkTokens int  // Approximate tokens per chunk. Used when ChunkBytes is 0.
	ChunkBytes  int  // Exact bytes per chunk, backed off to a rune boundary.
	Cumulative  bool // Emit the whole text so far instead of the new part.
}

// DefaultConfig mimics a model streaming a few tokens per event.
func DefaultConfig() Config {
	return Config{ChunkTokens: 4}
}

// Chunk is one stream event. Offset is where Text starts in the full
// stream; it is 0 for cumulative chunks.
type Chunk struct {
	Offset int
	Text   string
}

// Split cuts text into chunks. Concatenating the delta chunks (or taking
// the last cumulative one) always reproduces text exactly.
func Split(text string, cfg Config) []Chunk {
	if cfg.ChunkTokens <= 0 {
		cfg.ChunkTokens = DefaultConfig().ChunkTokens
	}

	var ends []int
	if cfg.ChunkBytes > 0 {
		ends = byteEnds(text, cfg.ChunkBytes)
	} else {
		ends = tokenEnds(text, cfg.ChunkTokens)
	}

	chunks := make([]Chunk, 0, len(ends))
	start := 0
	for _, end := range ends {
		if cfg.Cumulative {
			chunks = append(chunks, Chunk{Text: text[:end]})
		} else {
			chunks = append(chunks, Chunk{Offset: start, Text: text[start:end]})
		}
		start = end
	}
	return chunks
}

// Texts returns just the chunk texts.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

func byteEnds(text string, size int) []int {
	var ends []int
	pos := 0
	for pos < len(text) {
		end := min(pos+size, len(text))
		for end > pos+1 && end < len(text) && !utf8.RuneStart(text[end]) {
			end--
		}
		if end < len(text) && !utf8.RuneStart(text[end]) {
			// A rune longer than size; take all of it.
			_, n := utf8.DecodeRuneInString(text[pos:])
			end = pos + n
		}
		ends = append(ends, end)
		pos = end
	}
	return ends
}

// tokenEnds groups token-like pieces until each chunk reaches target tokens.
func tokenEnds(text string, target int) []int {
	var ends []int
	tokens := 0
	start := 0
	for _, end := range pieceEnds(text) {
		tokens += EstimateTokens(text[start:end])
		start = end
		if tokens >= target {
			ends = append(ends, end)
			tokens = 0
		}
	}
	if len(ends) == 0 || ends[len(ends)-1] != len(text) {
		if len(text) > 0 {
			ends = append(ends, len(text))
		}
	}
	return ends
}

// pieceEnds cuts text before each word and around each tag delimiter,
// which is roughly where a tokenizer would.
func pieceEnds(text string) []int {
	var ends []int
	for i := 1; i < len(text); i++ {
		prev, c := text[i-1], text[i]
		switch {
		case c == '<', prev == '>':
		case isSpace(prev) && !isSpace(c):
		case prev == '=' || c == '"':
		default:
			continue
		}
		if utf8.RuneStart(c) {
			ends = append(ends, i)
		}
	}
	if len(text) > 0 {
		ends = append(ends, len(text))
	}
	return ends
}

func isSpace(c byte) bool {
	return strings.IndexByte(" \t\r\n", c) >= 0
}
