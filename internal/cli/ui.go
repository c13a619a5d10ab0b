package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/slidestream/internal/slide"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleKind    = lipgloss.NewStyle().Foreground(colorGreen)
	styleMeta    = lipgloss.NewStyle().Foreground(colorGray)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleLive    = lipgloss.NewStyle().Foreground(colorYellow)
	styleOutline = lipgloss.NewStyle().PaddingLeft(2)
)

const (
	iconSlide = "▸"
	iconLive  = "…"
)

// renderOutline prints one block per document: a title line and an
// indented line per top-level node.
func renderOutline(w io.Writer, docs []slide.Document) error {
	for i, d := range docs {
		var lines []string
		for _, n := range d.Content {
			lines = append(lines, outlineNode(n, 0)...)
		}
		if d.Accent != nil {
			lines = append([]string{styleKind.Render("accent") + " " + d.Accent.Query}, lines...)
		}

		if _, err := fmt.Fprintln(w, slideTitle(i+1, d)); err != nil {
			return err
		}
		if len(lines) > 0 {
			if _, err := fmt.Fprintln(w, styleOutline.Render(strings.Join(lines, "\n"))); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderStep prints the documents one replay step touched.
func renderStep(w io.Writer, ev replayEvent) error {
	label := fmt.Sprintf("step %d", ev.Step)
	if ev.Final {
		label = "finalize"
	}
	var names []string
	for _, d := range ev.Documents {
		name := d.Heading()
		if name == "" {
			name = shortID(d.ID)
		}
		if d.HasGenerating() {
			name += styleLive.Render(iconLive)
		}
		names = append(names, name)
	}
	_, err := fmt.Fprintf(w, "%s %s %s\n",
		styleMeta.Render(fmt.Sprintf("%-9s +%dB", label, ev.Bytes)),
		styleDim.Render("→"),
		strings.Join(names, ", "))
	return err
}

func slideTitle(n int, d slide.Document) string {
	var meta []string
	for _, kv := range [][2]string{
		{"layout", string(d.Layout)},
		{"align", string(d.Align)},
		{"width", string(d.Width)},
		{"bg", d.BgColor},
	} {
		if kv[1] != "" {
			meta = append(meta, kv[0]+"="+kv[1])
		}
	}
	title := styleTitle.Render(fmt.Sprintf("%s Slide %d", iconSlide, n)) + " " + styleDim.Render(shortID(d.ID))
	if len(meta) > 0 {
		title += " " + styleMeta.Render(strings.Join(meta, " "))
	}
	return title
}

func outlineNode(n slide.Node, depth int) []string {
	pad := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *slide.Heading:
		return []string{pad + styleKind.Render(fmt.Sprintf("h%d", v.Level)) + " " + runText(v.Children)}
	case *slide.Paragraph:
		marker := "¶"
		switch v.List {
		case slide.ListBullet:
			marker = "•"
		case slide.ListNumbered:
			marker = "#"
		}
		return []string{pad + strings.Repeat("  ", v.Indent) + styleKind.Render(marker) + " " + runText(v.Children)}
	case *slide.Text:
		return []string{pad + runText([]slide.Node{v})}
	case *slide.Image:
		return []string{pad + styleKind.Render("img") + " " + v.Query}
	case *slide.Columns:
		out := []string{pad + styleKind.Render("columns") + styleMeta.Render(fmt.Sprintf(" %d", len(v.Columns)))}
		for _, c := range v.Columns {
			out = append(out, pad+"  "+styleMeta.Render("col "+string(c.Width)))
			for _, child := range c.Children {
				out = append(out, outlineNode(child, depth+2)...)
			}
		}
		return out
	case *slide.Group:
		out := []string{pad + styleKind.Render(string(v.Type)) + styleMeta.Render(fmt.Sprintf(" %d items", len(v.Items)))}
		for _, it := range v.Items {
			prefix := "-"
			switch {
			case it.Side != "":
				prefix = it.Side + ":"
			case it.Icon != "":
				prefix = "[" + it.Icon + "]"
			}
			out = append(out, pad+"  "+styleMeta.Render(prefix)+" "+runText(it.Children))
		}
		return out
	case *slide.Chart:
		points := len(v.Data) + len(v.Points)
		return []string{pad + styleKind.Render("chart") + styleMeta.Render(fmt.Sprintf(" %s, %d points", v.Chart, points))}
	case *slide.Table:
		cols := 0
		for _, r := range v.Rows {
			cols = max(cols, len(r.Cells))
		}
		return []string{pad + styleKind.Render("table") + styleMeta.Render(fmt.Sprintf(" %dx%d", len(v.Rows), cols))}
	case *slide.Button:
		return []string{pad + styleKind.Render("button") + " " + runText(v.Children)}
	}
	return nil
}

// runText flattens text and marks it when it is still streaming.
func runText(nodes []slide.Node) string {
	text := slide.PlainText(nodes)
	live := false
	slide.Walk(nodes, func(n slide.Node) bool {
		if t, ok := n.(*slide.Text); ok && t.Generating {
			live = true
		}
		return true
	})
	if live {
		return text + styleLive.Render(iconLive)
	}
	return text
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
