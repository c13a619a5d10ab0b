package parser

import (
	"strconv"
	"strings"

	"github.com/dgallion1/slidestream/internal/markup"
	"github.com/dgallion1/slidestream/internal/slide"
)

func (c *buildCtx) chart(n *markup.Node) *slide.Chart {
	ch := &slide.Chart{Chart: slide.ParseChartKind(attrLower(n, "charttype"))}
	for _, d := range n.Elements() {
		if d.Tag != "DATA" || d.Unterminated {
			continue
		}
		if ch.Chart == slide.ChartScatter {
			ch.Points = append(ch.Points, slide.Point{
				X: number(field(d, "X", "x")),
				Y: number(field(d, "Y", "y")),
			})
			continue
		}
		ch.Data = append(ch.Data, slide.Datum{
			Label: strings.TrimSpace(field(d, "LABEL", "label")),
			Value: number(field(d, "VALUE", "value")),
		})
	}
	return ch
}

// field reads a DATA value from a nested tag, falling back to an attribute.
func field(d *markup.Node, tag, attr string) string {
	if el := d.Find(tag); el != nil {
		return el.TextContent()
	}
	return d.Attr(attr)
}

func (c *buildCtx) table(n *markup.Node) *slide.Table {
	var head, body []*markup.Node
	for _, el := range n.Elements() {
		if el.Unterminated {
			continue
		}
		switch el.Tag {
		case "THEAD":
			head = append(head, rowsOf(el)...)
		case "TBODY", "TFOOT":
			body = append(body, rowsOf(el)...)
		case "TR":
			body = append(body, el)
		}
	}

	t := &slide.Table{}
	for _, tr := range append(head, body...) {
		var row slide.Row
		for _, td := range tr.Elements() {
			if (td.Tag != "TD" && td.Tag != "TH") || td.Unterminated {
				continue
			}
			row.Cells = append(row.Cells, c.cell(td))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func rowsOf(n *markup.Node) []*markup.Node {
	var rows []*markup.Node
	for _, el := range n.Elements() {
		if el.Tag == "TR" && !el.Unterminated {
			rows = append(rows, el)
		}
	}
	return rows
}

func (c *buildCtx) cell(td *markup.Node) slide.Cell {
	cell := slide.Cell{
		Header:     td.Tag == "TH",
		ColSpan:    span(td.Attr("colspan")),
		RowSpan:    span(td.Attr("rowspan")),
		Background: strings.TrimSpace(td.Attr("background")),
		Children:   c.content(td.Children),
	}
	if cell.Children == nil {
		if runs := c.runs(td.Children); len(runs) > 0 {
			cell.Children = []slide.Node{&slide.Paragraph{Children: runs}}
		}
	}
	return cell
}

// span returns a colspan/rowspan value, or 0 unless it exceeds 1.
func span(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 1 {
		return 0
	}
	return n
}

func (c *buildCtx) button(n *markup.Node) *slide.Button {
	b := &slide.Button{Children: c.runs(n.Children)}
	if v := attrLower(n, "variant"); slide.ButtonVariants[v] {
		b.Variant = v
	}
	if v := attrLower(n, "size"); slide.ButtonSizes[v] {
		b.Size = v
	}
	if len(b.Children) == 0 {
		if raw := strings.TrimSpace(n.TextContent()); raw != "" {
			b.Children = []slide.Node{c.text(raw, style{})}
		}
	}
	return b
}
