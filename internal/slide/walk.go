package slide

import (
	"slices"
	"strings"
)

// Walk visits nodes depth first in source order. Returning false from fn
// skips the children of that node.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		for _, children := range childLists(n) {
			Walk(children, fn)
		}
	}
}

// childLists returns every child list of n in source order.
func childLists(n Node) [][]Node {
	switch v := n.(type) {
	case *Paragraph:
		return [][]Node{v.Children}
	case *Heading:
		return [][]Node{v.Children}
	case *Button:
		return [][]Node{v.Children}
	case *Columns:
		out := make([][]Node, len(v.Columns))
		for i, c := range v.Columns {
			out[i] = c.Children
		}
		return out
	case *Group:
		out := make([][]Node, len(v.Items))
		for i, it := range v.Items {
			out[i] = it.Children
		}
		return out
	case *Table:
		var out [][]Node
		for _, r := range v.Rows {
			for _, c := range r.Cells {
				out = append(out, c.Children)
			}
		}
		return out
	}
	return nil
}

// PlainText concatenates every text run under nodes.
func PlainText(nodes []Node) string {
	var b strings.Builder
	Walk(nodes, func(n Node) bool {
		if t, ok := n.(*Text); ok {
			b.WriteString(t.Text)
		}
		return true
	})
	return b.String()
}

// HasGenerating reports whether any text run in the document is still streaming.
func (d *Document) HasGenerating() bool {
	found := false
	Walk(d.Content, func(n Node) bool {
		if t, ok := n.(*Text); ok && t.Generating {
			found = true
		}
		return !found
	})
	return found
}

// ClearGenerating returns a copy of d with every Generating flag unset.
// d itself is left untouched.
func ClearGenerating(d Document) Document {
	if !d.HasGenerating() {
		return d
	}
	d.Content = CloneNodes(d.Content)
	Walk(d.Content, func(n Node) bool {
		if t, ok := n.(*Text); ok {
			t.Generating = false
		}
		return true
	})
	return d
}

// CloneNodes deep-copies a node list.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *Text:
		c := *v
		return &c
	case *Paragraph:
		c := *v
		c.Children = CloneNodes(v.Children)
		return &c
	case *Heading:
		c := *v
		c.Children = CloneNodes(v.Children)
		return &c
	case *Image:
		c := *v
		return &c
	case *Button:
		c := *v
		c.Children = CloneNodes(v.Children)
		return &c
	case *Columns:
		c := Columns{Columns: slices.Clone(v.Columns)}
		for i := range c.Columns {
			c.Columns[i].Children = CloneNodes(c.Columns[i].Children)
		}
		return &c
	case *Group:
		c := Group{Type: v.Type, Items: slices.Clone(v.Items)}
		for i := range c.Items {
			c.Items[i].Children = CloneNodes(c.Items[i].Children)
		}
		return &c
	case *Chart:
		c := Chart{Chart: v.Chart, Data: slices.Clone(v.Data), Points: slices.Clone(v.Points)}
		return &c
	case *Table:
		c := Table{Rows: slices.Clone(v.Rows)}
		for i := range c.Rows {
			c.Rows[i].Cells = slices.Clone(c.Rows[i].Cells)
			for j := range c.Rows[i].Cells {
				c.Rows[i].Cells[j].Children = CloneNodes(c.Rows[i].Cells[j].Children)
			}
		}
		return &c
	}
	return n
}
