package parser

import "testing"

func TestMarkdownRuns_Emphasis(t *testing.T) {
	got := markdownRuns("  a *b* __c__ ~~d~~ ", style{underline: true})
	want := []run{
		{text: "  a ", st: style{underline: true}},
		{text: "b", st: style{underline: true, italic: true}},
		{text: " ", st: style{underline: true}},
		{text: "c", st: style{underline: true, bold: true}},
		{text: " ", st: style{underline: true}},
		{text: "d ", st: style{underline: true, strike: true}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d runs, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("run %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestMarkdownRuns_PlainTextUnchanged(t *testing.T) {
	for _, in := range []string{
		"no markers here",
		"snake_case_name",
		"- looks like a list",
		"# looks like a heading",
		"2 * 3 * 4",
	} {
		got := markdownRuns(in, style{})
		joined := ""
		for _, r := range got {
			if r.st != (style{}) {
				t.Errorf("%q: unexpected formatting %+v", in, r.st)
			}
			joined += r.text
		}
		if joined != in {
			t.Errorf("%q: text changed to %q", in, joined)
		}
	}
}
