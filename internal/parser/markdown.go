package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var inlineMarkdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

// markdownRuns splits text on markdown emphasis that models sometimes leak
// into slide markup. Text that does not parse to a single paragraph is
// returned unchanged as one run.
func markdownRuns(s string, st style) []run {
	plain := []run{{text: s, st: st}}
	if !strings.ContainsAny(s, "*_~") {
		return plain
	}

	body := strings.TrimSpace(s)
	src := []byte(body)
	doc := inlineMarkdown.Parser().Parse(text.NewReader(src))
	para, ok := doc.FirstChild().(*ast.Paragraph)
	if !ok || para.NextSibling() != nil {
		return plain
	}

	var out []run
	var walk func(n ast.Node, st style)
	walk = func(n ast.Node, st style) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				out = appendRun(out, string(node.Segment.Value(src)), st)
				if node.SoftLineBreak() || node.HardLineBreak() {
					out = appendRun(out, "\n", st)
				}
			case *ast.String:
				out = appendRun(out, string(node.Value), st)
			case *ast.Emphasis:
				inner := st
				if node.Level >= 2 {
					inner.bold = true
				} else {
					inner.italic = true
				}
				walk(node, inner)
			case *east.Strikethrough:
				inner := st
				inner.strike = true
				walk(node, inner)
			default:
				walk(node, st)
			}
		}
	}
	walk(para, st)
	if len(out) == 0 {
		return plain
	}

	// Parsing dropped the surrounding whitespace; put it back.
	lead := s[:len(s)-len(strings.TrimLeft(s, " \t\r\n"))]
	trail := s[len(strings.TrimRight(s, " \t\r\n")):]
	out[0].text = lead + out[0].text
	out[len(out)-1].text += trail
	return out
}

// appendRun merges t into the previous run when the formatting matches.
func appendRun(runs []run, t string, st style) []run {
	if t == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].st == st {
		runs[n-1].text += t
		return runs
	}
	return append(runs, run{text: t, st: st})
}
