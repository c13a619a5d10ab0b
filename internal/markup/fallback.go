package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// inlineTags do not break a fallback block. Names are lower case because the
// html tokenizer lower-cases them.
var inlineTags = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true,
	"u": true, "s": true, "strike": true, "span": true,
}

// Fallback splits span into plain text blocks at raw tag boundaries. It is
// used when a section cannot be converted structurally; the html tokenizer
// accepts any input, so this always yields something for non-empty text.
func Fallback(span string) []string {
	z := html.NewTokenizer(strings.NewReader(span))

	var blocks []string
	var current strings.Builder
	flush := func() {
		t := strings.Join(strings.Fields(current.String()), " ")
		if t != "" {
			blocks = append(blocks, t)
		}
		current.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return blocks
		case html.TextToken:
			current.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if !inlineTags[string(name)] {
				flush()
			}
		}
	}
}
