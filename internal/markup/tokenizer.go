package markup

import (
	"slices"
	"strings"
)

// voidTags never take children. A matching close tag right after them is
// consumed if present.
var voidTags = map[string]bool{
	"IMG":  true,
	"ICON": true,
	"BR":   true,
	"HR":   true,
}

// Parse tokenizes span into a tree rooted at an unnamed node. Tag names are
// upper-cased and attribute names lower-cased. It never
// fails: unknown tags are kept as nodes, stray close tags are ignored, a
// '<' that does not start a tag is kept as text, and elements still open
// when input ends are returned with Closed unset and whatever content
// arrived so far.
func Parse(span string) *Node {
	root := &Node{Closed: true}
	s := &scanner{src: span}
	s.children(root)
	return root
}

type scanner struct {
	src  string
	pos  int
	open []string // tags of the elements currently being filled, outermost first
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

// children fills parent until its closing tag, the closing tag of an
// enclosing element, or end of input. It reports whether parent's own
// closing tag was consumed.
func (s *scanner) children(parent *Node) bool {
	for !s.eof() {
		lt := strings.IndexByte(s.src[s.pos:], '<')
		if lt < 0 {
			parent.addText(s.src[s.pos:])
			s.pos = len(s.src)
			return false
		}
		if lt > 0 {
			parent.addText(s.src[s.pos : s.pos+lt])
			s.pos += lt
		}

		rest := s.src[s.pos:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			end := strings.Index(rest[4:], "-->")
			if end < 0 {
				s.pos = len(s.src)
				return false
			}
			s.pos += 4 + end + 3

		case strings.HasPrefix(rest, "<!"), strings.HasPrefix(rest, "<?"):
			s.skipPast('>')

		case strings.HasPrefix(rest, "</"):
			name, n, complete := closeTag(rest)
			switch {
			case name == "":
				parent.addText("</")
				s.pos += 2
			case !complete:
				// The close tag is still streaming in.
				s.pos = len(s.src)
				return false
			case name == parent.Tag:
				s.pos += n
				return true
			case slices.Contains(s.open, name):
				// Closes an ancestor; leave it for that ancestor.
				return false
			default:
				s.pos += n
			}

		case len(rest) > 1 && isNameStart(rest[1]):
			s.element(parent)

		default:
			parent.addText("<")
			s.pos++
		}
	}
	return false
}

// element parses one element starting at s.pos and appends it to parent.
func (s *scanner) element(parent *Node) {
	start := s.pos
	s.pos++
	name := strings.ToUpper(s.name())
	n := &Node{Tag: name, Attrs: map[string]string{}}
	parent.Children = append(parent.Children, n)

	if !s.attributes(n) {
		n.Original = s.src[start:]
		n.Unterminated = true
		return
	}
	n.Original = s.src[start:s.pos]
	if strings.HasSuffix(n.Original, "/>") {
		n.Closed = true
		return
	}
	if voidTags[name] {
		n.Closed = true
		s.skipVoidClose(name)
		return
	}

	s.open = append(s.open, parent.Tag)
	n.Closed = s.children(n)
	s.open = s.open[:len(s.open)-1]
}

// attributes reads attributes up to and including the closing '>' (or
// "/>"). It returns false if input ended first.
func (s *scanner) attributes(n *Node) bool {
	for {
		s.skipSpace()
		if s.eof() {
			return false
		}
		switch c := s.src[s.pos]; {
		case c == '>':
			s.pos++
			return true
		case c == '/':
			s.pos++
			if !s.eof() && s.src[s.pos] == '>' {
				s.pos++
				return true
			}
			continue
		case !isAttrChar(c):
			s.pos++
			continue
		}

		key := strings.ToLower(s.attrName())
		s.skipSpace()
		if s.eof() {
			n.Attrs[key] = ""
			n.markIncomplete(key)
			return false
		}
		if s.src[s.pos] != '=' {
			n.Attrs[key] = ""
			continue
		}
		s.pos++
		s.skipSpace()
		if s.eof() {
			n.Attrs[key] = ""
			n.markIncomplete(key)
			return false
		}

		if q := s.src[s.pos]; q == '"' || q == '\'' {
			s.pos++
			end := strings.IndexByte(s.src[s.pos:], q)
			if end < 0 {
				// Closing quote has not arrived: the rest is the value for now.
				n.Attrs[key] = s.src[s.pos:]
				n.markIncomplete(key)
				s.pos = len(s.src)
				return false
			}
			n.Attrs[key] = s.src[s.pos : s.pos+end]
			s.pos += end + 1
			continue
		}

		vStart := s.pos
		for !s.eof() && !isSpace(s.src[s.pos]) && s.src[s.pos] != '>' {
			s.pos++
		}
		n.Attrs[key] = s.src[vStart:s.pos]
		if s.eof() {
			n.markIncomplete(key)
			return false
		}
	}
}

func (n *Node) markIncomplete(key string) {
	if n.incomplete == nil {
		n.incomplete = map[string]bool{}
	}
	n.incomplete[key] = true
}

func (s *scanner) name() string {
	start := s.pos
	for !s.eof() && isNameChar(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) attrName() string {
	start := s.pos
	for !s.eof() && isAttrChar(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) skipPast(c byte) {
	i := strings.IndexByte(s.src[s.pos:], c)
	if i < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += i + 1
}

// skipVoidClose consumes "</NAME>" if it directly follows a void element.
func (s *scanner) skipVoidClose(name string) {
	i := s.pos
	for i < len(s.src) && isSpace(s.src[i]) {
		i++
	}
	if got, n, complete := closeTag(s.src[i:]); complete && got == name {
		s.pos = i + n
	}
}

// closeTag parses "</NAME >" at the start of rest. It returns the name, the
// length consumed and whether the closing '>' was present.
func closeTag(rest string) (name string, n int, complete bool) {
	if !strings.HasPrefix(rest, "</") {
		return "", 0, false
	}
	i := 2
	for i < len(rest) && isNameChar(rest[i]) {
		i++
	}
	name = strings.ToUpper(rest[2:i])
	if name == "" || !isNameStart(name[0]) {
		return "", 0, false
	}
	for i < len(rest) && isSpace(rest[i]) {
		i++
	}
	if i >= len(rest) {
		return name, i, false
	}
	if rest[i] != '>' {
		// Garbage inside the close tag; skip to '>' if there is one.
		j := strings.IndexByte(rest[i:], '>')
		if j < 0 {
			return name, len(rest), false
		}
		return name, i + j + 1, true
	}
	return name, i + 1, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':'
}

func isAttrChar(c byte) bool {
	return !isSpace(c) && c != '=' && c != '>' && c != '/' && c != '"' && c != '\'' && c != '<'
}
