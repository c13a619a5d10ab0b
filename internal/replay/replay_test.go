package replay

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const sample = `<PRESENTATION><SECTION layout="left"><H1>Intro</H1><P>Hello <B>world</B>, naïve café.</P></SECTION></PRESENTATION>`

func TestSplit_DeltasConcatenateToInput(t *testing.T) {
	configs := []Config{
		{ChunkTokens: 1},
		{ChunkTokens: 4},
		{ChunkTokens: 50},
		{ChunkBytes: 1},
		{ChunkBytes: 7},
		{ChunkBytes: 1000},
	}
	for _, cfg := range configs {
		chunks := Split(sample, cfg)
		if len(chunks) == 0 {
			t.Fatalf("%+v: expected chunks", cfg)
		}
		var b strings.Builder
		for i, c := range chunks {
			if c.Offset != b.Len() {
				t.Errorf("%+v chunk %d: offset %d, want %d", cfg, i, c.Offset, b.Len())
			}
			if c.Text == "" {
				t.Errorf("%+v chunk %d: empty", cfg, i)
			}
			b.WriteString(c.Text)
		}
		if b.String() != sample {
			t.Errorf("%+v: concatenation differs from input", cfg)
		}
	}
}

func TestSplit_CumulativePrefixes(t *testing.T) {
	chunks := Split(sample, Config{ChunkTokens: 3, Cumulative: true})
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	prev := ""
	for i, c := range chunks {
		if !strings.HasPrefix(c.Text, prev) || len(c.Text) <= len(prev) {
			t.Errorf("chunk %d does not extend the previous one", i)
		}
		prev = c.Text
	}
	if prev != sample {
		t.Errorf("last cumulative chunk should be the whole input")
	}
}

func TestSplit_BytesRespectRuneBoundaries(t *testing.T) {
	for size := 1; size <= 5; size++ {
		for i, c := range Split("ïçé€😀ab", Config{ChunkBytes: size}) {
			if !utf8.ValidString(c.Text) {
				t.Errorf("size %d chunk %d: %q splits a rune", size, i, c.Text)
			}
		}
	}
}

func TestSplit_Empty(t *testing.T) {
	if got := Split("", DefaultConfig()); len(got) != 0 {
		t.Errorf("expected no chunks, got %d", len(got))
	}
}

func TestSplit_TagsStartNewPieces(t *testing.T) {
	chunks := Split("<P>one two</P>", Config{ChunkTokens: 1})
	got := Texts(chunks)
	want := []string{"<P>", "one ", "two", "</P>"}
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty: expected 0, got %d", got)
	}
	if got := EstimateTokens("<"); got != 1 {
		t.Errorf("single symbol: expected 1, got %d", got)
	}
	if got := EstimateTokens("one two three"); got != 3 {
		t.Errorf("three words: expected 3, got %d", got)
	}
}
