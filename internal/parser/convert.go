package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dgallion1/slidestream/internal/markup"
	"github.com/dgallion1/slidestream/internal/slide"
)

// buildCtx carries per-call context through the builders.
type buildCtx struct {
	last     string // latest raw chunk
	markdown bool
	log      *slog.Logger
}

// buildBody converts a section's top-level nodes. Tests swap it to force
// the recovery path.
var buildBody = (*buildCtx).blocks

// convertSection turns one section span into a Document. Conversion panics
// are recovered and the span is rebuilt from its plain text instead.
func convertSection(ctx *buildCtx, ns uuid.UUID, ids identities, span string, slot int, current string) (slide.Document, identities) {
	root := markup.Parse(span)
	sec := root.Find(sectionTag)
	if sec == nil {
		sec = root
	}

	ids, id := ids.assign(ns, fingerprint(sec, span), slot, current)

	doc, err := ctx.document(sec, id)
	if err != nil {
		ctx.log.Warn("parser: section conversion failed, using text fallback",
			"error", err, "slot", slot, "id", id)
		doc = ctx.fallbackDocument(span, id)
	}
	return doc, ids
}

func (c *buildCtx) document(sec *markup.Node, id string) (doc slide.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("convert section: %v", r)
		}
	}()

	doc = slide.Document{
		ID:      id,
		Layout:  slide.ParseLayout(attrLower(sec, "layout")),
		Align:   slide.ParseAlign(attrLower(sec, "align")),
		BgColor: strings.TrimSpace(firstAttr(sec, "bg", "background")),
		Width:   slide.ParseWidth(strings.ToUpper(attrLower(sec, "width"))),
	}
	if sec.HasAttr("x") || sec.HasAttr("y") {
		doc.Position = &slide.Position{X: number(sec.Attr("x")), Y: number(sec.Attr("y"))}
	}

	var body []*markup.Node
	for _, n := range unwrapDivs(sec.Children) {
		if n.Tag != "IMG" {
			body = append(body, n)
			continue
		}
		if !n.AttrComplete("query") {
			// The accent query is still streaming; try again next pass.
			continue
		}
		if doc.Accent != nil {
			body = append(body, n)
			continue
		}
		doc.Accent = &slide.AccentImage{
			Query:  strings.TrimSpace(n.Attr("query")),
			URL:    imageURL(n),
			Layout: doc.Layout,
		}
		doc.Layout = slide.LayoutBackground
	}

	doc.Content = buildBody(c, body)
	return doc, nil
}

// fallbackDocument builds a document with one paragraph per text block.
func (c *buildCtx) fallbackDocument(span string, id string) slide.Document {
	doc := slide.Document{ID: id}
	for _, block := range markup.Fallback(span) {
		doc.Content = append(doc.Content, &slide.Paragraph{
			Children: []slide.Node{c.text(block, style{})},
		})
	}
	return doc
}

// unwrapDivs replaces document-level DIVs with their children.
func unwrapDivs(nodes []*markup.Node) []*markup.Node {
	var out []*markup.Node
	for _, n := range nodes {
		if n.Tag == "DIV" && !n.Unterminated {
			out = append(out, unwrapDivs(n.Children)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

func firstAttr(n *markup.Node, names ...string) string {
	for _, name := range names {
		if v := n.Attr(name); v != "" {
			return v
		}
	}
	return ""
}

func attrLower(n *markup.Node, name string) string {
	return strings.ToLower(strings.TrimSpace(n.Attr(name)))
}

func imageURL(n *markup.Node) string {
	return strings.TrimSpace(firstAttr(n, "url", "src"))
}

// number parses a numeric attribute or text, yielding 0 on failure.
func number(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
