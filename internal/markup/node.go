package markup

import "strings"

// TextTag is the Tag of text nodes.
const TextTag = "#text"

// Node is one element (or text run) of a tokenized section.
type Node struct {
	Tag      string            // Upper-cased element name, or TextTag
	Attrs    map[string]string // Attribute values, quotes stripped
	Text     string            // Text nodes: the text. Elements: direct text children concatenated
	Children []*Node           // Elements and text runs in source order
	Original string            // Exact source of the opening tag, up to where input ended

	Closed       bool // Closing tag (or "/>") was seen
	Unterminated bool // Input ended inside the opening tag

	incomplete map[string]bool // attributes whose closing quote never arrived
}

// IsText reports whether n is a text run.
func (n *Node) IsText() bool {
	return n.Tag == TextTag
}

// Attr returns the attribute value, or "" if absent.
func (n *Node) Attr(name string) string {
	return n.Attrs[name]
}

// HasAttr reports whether the attribute was written at all.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attrs[name]
	return ok
}

// AttrComplete reports whether the attribute is present and its value's
// closing quote has streamed in. Bare values count as complete once a
// delimiter follows them.
func (n *Node) AttrComplete(name string) bool {
	if !n.HasAttr(name) {
		return false
	}
	return !n.incomplete[name]
}

// Elements returns the element children of n, skipping text runs.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsText() {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant element named tag, depth first.
func (n *Node) Find(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// TextContent returns all text under n, recursively.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.IsText() {
				b.WriteString(c.Text)
			} else {
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

func (n *Node) addText(t string) {
	if t == "" {
		return
	}
	n.Text += t
	if last := len(n.Children) - 1; last >= 0 && n.Children[last].IsText() {
		n.Children[last].Text += t
		return
	}
	n.Children = append(n.Children, &Node{Tag: TextTag, Text: t})
}
