package parser

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dgallion1/slidestream/internal/markup"
)

func TestIndexTag(t *testing.T) {
	assert.Equal(t, 10, indexTag("<SECTIONS><SECTION>", "SECTION", 0))
	assert.Equal(t, 0, indexTag("<SECTION", "SECTION", 0), "end of input counts as a boundary")
	assert.Equal(t, -1, indexTag("<SECT", "SECTION", 0))
	assert.Equal(t, 9, indexTag("<SECTION><SECTION layout=x>", "SECTION", 1))
}

func TestIndexClose(t *testing.T) {
	s := "<SECTION>a</SECTION ><SECTION>b"
	assert.Equal(t, 21, indexClose(s, 0, -1))
	assert.Equal(t, -1, indexClose(s, 21, -1))
	assert.Equal(t, -1, indexClose("<SECTION>a</SECTION", 0, -1), "close tag still streaming")
	assert.Equal(t, -1, indexClose("<SECTION>a<SECTION>b</SECTION>", 0, 10), "close belongs to the next section")
}

func TestHasContentTag(t *testing.T) {
	assert.False(t, hasContentTag(`<SECTION layout="left">`))
	assert.False(t, hasContentTag(`<SECTION>some loose text`))
	assert.False(t, hasContentTag(`<SECTION><PARAM>`))
	assert.True(t, hasContentTag(`<SECTION><P`))
	assert.True(t, hasContentTag(`<SECTION><BEFORE-AFTER>`))
}

func TestSkipHeader(t *testing.T) {
	cases := []struct {
		name   string
		buf    string
		final  bool
		offset int
		done   bool
	}{
		{"empty", "", false, 0, false},
		{"empty final", "", true, 0, true},
		{"no header", "<SECTION>", false, 0, true},
		{"partial header", `<PRESENTATION title="a`, false, 0, false},
		{"header then space", "<PRESENTATION>\n", false, 0, false},
		{"header then section", "<PRESENTATION><SECTION>", false, 14, true},
		{"header then partial comment", "<PRESENTATION><!-- hi", false, 0, false},
		{"header then comment", "<PRESENTATION> <!-- hi --><SECTION>", false, 26, true},
		{"quoted bracket", `<PRESENTATION title="a>b"><SECTION>`, false, 26, true},
		{"header final", "<PRESENTATION>", true, 14, true},
	}
	for _, tc := range cases {
		offset, done := skipHeader(tc.buf, tc.final)
		assert.Equal(t, tc.done, done, tc.name)
		if tc.done {
			assert.Equal(t, tc.offset, offset, tc.name)
		}
	}
}

func TestFingerprintPriority(t *testing.T) {
	sec := func(src string) *markup.Node { return markup.Parse(src).Find("SECTION") }

	assert.Equal(t, "h:Intro", fingerprint(sec(`<SECTION layout="left"><DIV><H2> Intro </H2></DIV></SECTION>`), ""))
	assert.Equal(t, "a:bg=red|layout=left|<P|<IMG|<P",
		fingerprint(sec(`<SECTION layout="left" bg="red"><P>a</P><IMG query="x"><P>b</P><P>c</P></SECTION>`), ""))
	assert.Equal(t, "a:<H1", fingerprint(sec(`<SECTION><H1></H1></SECTION>`), ""), "empty heading falls through")

	raw := "<SECTION>just text</SECTION>"
	fp := fingerprint(sec(raw), raw)
	assert.Len(t, fp, len("r:")+64)
	assert.Equal(t, fp, fingerprint(sec(raw), raw))
}

func TestIdentitiesAssign(t *testing.T) {
	ns := uuid.New()
	var ids identities

	ids, a := ids.assign(ns, "h:A", 0, "")
	ids, again := ids.assign(ns, "h:A", 0, a)
	assert.Equal(t, a, again)

	// The slot's fingerprint changed while it was streaming: same ID.
	ids, grown := ids.assign(ns, "h:AB", 0, a)
	assert.Equal(t, a, grown)

	// Another slot with a fingerprint owned by slot 0 gets its own ID.
	ids, b := ids.assign(ns, "h:A", 1, "")
	assert.NotEqual(t, a, b)

	var fresh identities
	_, a2 := fresh.assign(ns, "something else", 0, "")
	assert.Equal(t, a, a2, "IDs depend on namespace and mint order only")
	assert.Equal(t, 2, ids.minted)
}

func TestIdentitiesAssignDoesNotMutate(t *testing.T) {
	var ids identities
	ids, _ = ids.assign(DefaultNamespace, "h:A", 0, "")
	before := ids.clone()

	ids.assign(DefaultNamespace, "h:B", 1, "")
	assert.Equal(t, before, ids)
}
