package parser

import (
	"strconv"
	"strings"

	"github.com/dgallion1/slidestream/internal/markup"
	"github.com/dgallion1/slidestream/internal/slide"
)

var groupTags = map[string]slide.Kind{
	"BULLETS":      slide.KindBullets,
	"ICONS":        slide.KindIcons,
	"CYCLE":        slide.KindCycle,
	"STAIRCASE":    slide.KindStaircase,
	"PYRAMID":      slide.KindPyramid,
	"ARROWS":       slide.KindArrows,
	"TIMELINE":     slide.KindTimeline,
	"BOXES":        slide.KindBoxes,
	"COMPARE":      slide.KindCompare,
	"BEFORE-AFTER": slide.KindBeforeAfter,
	"PROS-CONS":    slide.KindProsCons,
}

var inlineTags = map[string]bool{
	"B": true, "STRONG": true, "I": true, "EM": true, "U": true,
	"S": true, "STRIKE": true, "DEL": true, "SPAN": true, "BR": true, "A": true,
}

// silentTags produce no block and are not worth a log line.
var silentTags = map[string]bool{"ICON": true, "HR": true, "SECTION": true}

func isListTag(tag string) bool {
	return tag == "LI" || tag == "UL" || tag == "OL"
}

// blocks converts a sequence of sibling nodes into content nodes. Bare text
// becomes a paragraph.
func (c *buildCtx) blocks(nodes []*markup.Node) []slide.Node {
	var out []slide.Node
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		switch {
		case n.IsText():
			if strings.TrimSpace(n.Text) != "" {
				out = append(out, &slide.Paragraph{Children: c.runs(nodes[i : i+1])})
			}
		case n.Unterminated && n.Tag != "IMG":
		case isListTag(n.Tag):
			j := i + 1
			for j < len(nodes) && (isListTag(nodes[j].Tag) || isBlank(nodes[j])) {
				j++
			}
			out = append(out, c.list(nodes[i:j], slide.ListBullet, 0)...)
			i = j - 1
		case n.Tag == "DIV":
			out = append(out, c.blocks(n.Children)...)
		default:
			if b := c.block(n); b != nil {
				out = append(out, b)
			}
		}
	}
	return out
}

// block converts one element. It returns nil for elements that produce
// nothing (unknown tags, images whose query is still streaming).
func (c *buildCtx) block(n *markup.Node) slide.Node {
	if k, ok := groupTags[n.Tag]; ok {
		return c.group(n, k)
	}
	switch n.Tag {
	case "H1", "H2", "H3", "H4", "H5", "H6":
		level, _ := strconv.Atoi(n.Tag[1:])
		return &slide.Heading{Level: level, Children: c.runs(n.Children)}
	case "P":
		return &slide.Paragraph{Children: c.runs(n.Children)}
	case "IMG":
		if img := c.image(n); img != nil {
			return img
		}
		return nil
	case "COLUMNS":
		return c.columns(n)
	case "CHART":
		return c.chart(n)
	case "TABLE":
		return c.table(n)
	case "BUTTON":
		return c.button(n)
	}
	if inlineTags[n.Tag] {
		if runs := c.runs([]*markup.Node{n}); len(runs) > 0 {
			return &slide.Paragraph{Children: runs}
		}
		return nil
	}
	if !silentTags[n.Tag] {
		c.log.Debug("parser: dropping unknown tag", "tag", n.Tag)
	}
	return nil
}

// content converts the children of a container element (item, column,
// cell). It returns nil when the container holds only text and inline
// markup, so callers can apply their own fallback.
func (c *buildCtx) content(children []*markup.Node) []slide.Node {
	for _, ch := range children {
		if !ch.IsText() && !inlineTags[ch.Tag] && !silentTags[ch.Tag] {
			return c.blocks(children)
		}
	}
	return nil
}

func (c *buildCtx) image(n *markup.Node) *slide.Image {
	if !n.AttrComplete("query") {
		return nil
	}
	return &slide.Image{URL: imageURL(n), Query: strings.TrimSpace(n.Attr("query"))}
}

func (c *buildCtx) columns(n *markup.Node) *slide.Columns {
	cols := &slide.Columns{}
	for _, div := range n.Elements() {
		if div.Tag != "DIV" || div.Unterminated {
			continue
		}
		width := slide.ParseWidth(strings.ToUpper(strings.TrimSpace(div.Attr("width"))))
		if width == "" {
			width = slide.WidthM
		}
		children := c.content(div.Children)
		if children == nil {
			if runs := c.runs(div.Children); len(runs) > 0 {
				children = []slide.Node{&slide.Paragraph{Children: runs}}
			}
		}
		cols.Columns = append(cols.Columns, slide.Column{Width: width, Children: children})
	}
	return cols
}

func (c *buildCtx) group(n *markup.Node, kind slide.Kind) *slide.Group {
	g := slide.NewGroup(kind)
	for _, el := range n.Elements() {
		if el.Unterminated {
			continue
		}
		var item slide.Item
		switch {
		case kind == slide.KindProsCons:
			if el.Tag != "PROS" && el.Tag != "CONS" {
				c.log.Debug("parser: dropping group child", "group", n.Tag, "tag", el.Tag)
				continue
			}
			item.Side = strings.ToLower(el.Tag)
		case el.Tag == "DIV", kind == slide.KindBullets && el.Tag == "LI":
		default:
			c.log.Debug("parser: dropping group child", "group", n.Tag, "tag", el.Tag)
			continue
		}

		children := el.Children
		if kind == slide.KindIcons {
			item.Icon = iconQuery(el)
			children = withoutTag(children, "ICON")
		}
		item.Children = c.content(children)
		if item.Children == nil {
			item.Children = c.runs(children)
		}
		g.Items = append(g.Items, item)
	}
	return g
}

// iconQuery returns the sanitized query of the first ICON under n. A value
// that swallowed later markup because its quote never closed is cut at the
// first '<' or "SECTION".
func iconQuery(n *markup.Node) string {
	icon := n.Find("ICON")
	if icon == nil {
		return ""
	}
	q := icon.Attr("query")
	if i := strings.IndexByte(q, '<'); i >= 0 {
		q = q[:i]
	}
	if i := strings.Index(q, sectionTag); i >= 0 {
		q = q[:i]
	}
	return strings.TrimRight(strings.TrimSpace(q), `"'/> `)
}

func withoutTag(nodes []*markup.Node, tag string) []*markup.Node {
	var out []*markup.Node
	for _, n := range nodes {
		if n.Tag != tag {
			out = append(out, n)
		}
	}
	return out
}

// list converts a batch of LI/UL/OL siblings into list paragraphs. Lists
// nested inside an item are one indent level deeper.
func (c *buildCtx) list(nodes []*markup.Node, style slide.ListStyle, indent int) []slide.Node {
	var out []slide.Node
	for _, n := range nodes {
		if n.Unterminated {
			continue
		}
		switch n.Tag {
		case "UL":
			out = append(out, c.list(n.Children, slide.ListBullet, indent)...)
		case "OL":
			out = append(out, c.list(n.Children, slide.ListNumbered, indent)...)
		case "LI":
			var text, nested []*markup.Node
			for _, ch := range n.Children {
				if ch.Tag == "UL" || ch.Tag == "OL" {
					nested = append(nested, ch)
				} else {
					text = append(text, ch)
				}
			}
			out = append(out, &slide.Paragraph{Children: c.runs(text), List: style, Indent: indent})
			for _, sub := range nested {
				subStyle := slide.ListBullet
				if sub.Tag == "OL" {
					subStyle = slide.ListNumbered
				}
				out = append(out, c.list(sub.Children, subStyle, indent+1)...)
			}
		}
	}
	return out
}

func isBlank(n *markup.Node) bool {
	return n.IsText() && strings.TrimSpace(n.Text) == ""
}
