package parser

import (
	"strings"

	"github.com/dgallion1/slidestream/internal/markup"
	"github.com/dgallion1/slidestream/internal/slide"
)

// style is the formatting accumulated through nested inline tags.
type style struct {
	bold, italic, underline, strike bool
}

type run struct {
	text string
	st   style
	hold bool // empty stand-in for an unrecognized element
}

// runs flattens inline markup into text runs. Whitespace-only runs that
// contain a line break are formatting and are dropped; the outer edges of
// the sequence are trimmed.
func (c *buildCtx) runs(nodes []*markup.Node) []slide.Node {
	var raw []run
	c.collect(nodes, style{}, &raw)

	kept := raw[:0]
	for _, r := range raw {
		if !r.hold && strings.TrimSpace(r.text) == "" && strings.ContainsAny(r.text, "\r\n") {
			continue
		}
		kept = append(kept, r)
	}
	if n := len(kept); n > 0 {
		kept[0].text = strings.TrimLeft(kept[0].text, " \t\r\n")
		kept[n-1].text = strings.TrimRight(kept[n-1].text, " \t\r\n")
	}

	var out []slide.Node
	for _, r := range kept {
		if r.text == "" && !r.hold {
			continue
		}
		out = append(out, c.text(r.text, r.st))
	}
	return out
}

func (c *buildCtx) collect(nodes []*markup.Node, st style, out *[]run) {
	for _, n := range nodes {
		if n.IsText() {
			*out = append(*out, c.styled(n.Text, st)...)
			continue
		}
		if n.Unterminated {
			continue
		}
		inner := st
		switch n.Tag {
		case "B", "STRONG":
			inner.bold = true
		case "I", "EM":
			inner.italic = true
		case "U":
			inner.underline = true
		case "S", "STRIKE", "DEL":
			inner.strike = true
		case "BR":
			*out = append(*out, run{text: "\n", st: st})
			continue
		case "SPAN", "A":
		default:
			if strings.TrimSpace(n.TextContent()) == "" {
				*out = append(*out, run{st: st, hold: true})
				continue
			}
		}
		c.collect(n.Children, inner, out)
	}
}

// styled splits text into runs, honoring leaked markdown emphasis when
// enabled.
func (c *buildCtx) styled(text string, st style) []run {
	if text == "" {
		return nil
	}
	if !c.markdown {
		return []run{{text: text, st: st}}
	}
	return markdownRuns(text, st)
}

// text builds a run, marking it generating when it sits at the stream edge.
func (c *buildCtx) text(t string, st style) *slide.Text {
	return &slide.Text{
		Text:          t,
		Bold:          st.bold,
		Italic:        st.italic,
		Underline:     st.underline,
		Strikethrough: st.strike,
		Generating:    inProgress(c.last, t),
	}
}

// inProgress reports whether text is still being streamed: it sits at the
// end of the latest raw chunk with no tag opened after it.
func inProgress(last, text string) bool {
	t := strings.TrimSpace(text)
	if t == "" || last == "" {
		return false
	}
	if i := strings.LastIndex(last, t); i >= 0 {
		return !strings.Contains(last[i+len(t):], "<")
	}
	// A delta chunk may hold only the tail of a run that began earlier.
	tail := strings.TrimSpace(last)
	return tail != "" && !strings.Contains(tail, "<") && strings.HasSuffix(t, tail)
}
