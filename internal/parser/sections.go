package parser

import "strings"

const (
	sectionTag   = "SECTION"
	closeSection = "</SECTION>"
)

// contentTags are the tags whose presence makes an unclosed section worth
// converting before its closing tag arrives.
var contentTags = []string{
	"H1", "H2", "H3", "H4", "H5", "H6", "P", "IMG", "ICON", "LI", "UL", "OL",
	"COLUMNS", "BULLETS", "ICONS", "CYCLE", "STAIRCASE", "PYRAMID", "ARROWS",
	"TIMELINE", "BOXES", "COMPARE", "BEFORE-AFTER", "PROS-CONS",
	"CHART", "TABLE", "BUTTON",
}

// indexTag returns the index of the first "<name" at or after from that is
// followed by a non-name byte or the end of s, or -1.
func indexTag(s, name string, from int) int {
	pat := "<" + name
	for from <= len(s) {
		i := strings.Index(s[from:], pat)
		if i < 0 {
			return -1
		}
		i += from
		j := i + len(pat)
		if j >= len(s) || !isNameByte(s[j]) {
			return i
		}
		from = i + 1
	}
	return -1
}

func indexOpen(s string, from int) int {
	return indexTag(s, sectionTag, from)
}

// indexClose finds "</SECTION>" between start and limit (limit < 0 means
// end of s) and returns the offset just past its '>', or -1.
func indexClose(s string, start, limit int) int {
	end := len(s)
	if limit >= 0 {
		end = limit
	}
	i := strings.Index(s[start:end], "</"+sectionTag)
	if i < 0 {
		return -1
	}
	j := start + i + len("</"+sectionTag)
	for j < len(s) && isSpaceByte(s[j]) {
		j++
	}
	if j >= len(s) || s[j] != '>' {
		return -1
	}
	return j + 1
}

// hasContentTag reports whether span holds at least one recognized content tag.
func hasContentTag(span string) bool {
	for _, t := range contentTags {
		if indexTag(span, t, 0) >= 0 {
			return true
		}
	}
	return false
}

// skipHeader returns the offset just past a leading PRESENTATION tag and a
// comment immediately following it. done is false while the header could
// still be streaming; final forces a decision.
func skipHeader(buf string, final bool) (offset int, done bool) {
	p := indexTag(buf, "PRESENTATION", 0)
	sec := indexOpen(buf, 0)
	if p < 0 || (sec >= 0 && sec < p) {
		if sec >= 0 || final {
			return 0, true
		}
		return 0, false
	}

	end := tagEnd(buf, p)
	if end < 0 {
		return 0, final
	}
	i := end
	for i < len(buf) && isSpaceByte(buf[i]) {
		i++
	}
	rest := buf[i:]
	if strings.HasPrefix(rest, "<!--") {
		c := strings.Index(rest[4:], "-->")
		if c < 0 {
			return 0, final
		}
		return i + 4 + c + 3, true
	}
	if !final && len(rest) < len("<!--") && strings.HasPrefix("<!--", rest) {
		// Might be the start of a comment.
		return 0, false
	}
	return end, true
}

// tagEnd returns the offset just past the '>' closing the tag that starts
// at i, honoring quoted attribute values, or -1 if it has not arrived.
func tagEnd(s string, i int) int {
	var quote byte
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return j + 1
		}
	}
	return -1
}

func isNameByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
