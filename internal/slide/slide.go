package slide

import "encoding/json"

// Document is one parsed slide. It maps 1:1 to a SECTION block in the stream.
type Document struct {
	ID       string          `json:"id"`                 // Stable across re-parses of the same section
	Content  []Node          `json:"content"`            // Top-level content in source order
	Accent   *AccentImage    `json:"accent,omitempty"`   // Accent image, if the section declared one
	Layout   Layout          `json:"layout,omitempty"`   // Where the accent image sits
	Align    Align           `json:"align,omitempty"`    // Content alignment
	BgColor  string          `json:"bgColor,omitempty"`  // Background color as written in the markup
	Width    WidthClass      `json:"width,omitempty"`    // Width class
	Position *Position       `json:"position,omitempty"` // Freeform position
	Canvas   json.RawMessage `json:"canvas,omitempty"`   // Set by the renderer; never touched by the parser
}

// AccentImage describes the slide's accent image.
type AccentImage struct {
	Query  string `json:"query"`
	URL    string `json:"url,omitempty"`
	Layout Layout `json:"layout,omitempty"`
}

// Position is a freeform slide position.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout is the accent image placement hint.
type Layout string

const (
	LayoutLeft       Layout = "left"
	LayoutRight      Layout = "right"
	LayoutVertical   Layout = "vertical"
	LayoutBackground Layout = "background"
)

// ParseLayout maps an attribute value to a Layout. Empty input yields "",
// any other unknown value falls back to LayoutLeft.
func ParseLayout(v string) Layout {
	switch Layout(v) {
	case "":
		return ""
	case LayoutLeft, LayoutRight, LayoutVertical, LayoutBackground:
		return Layout(v)
	}
	return LayoutLeft
}

// Align is the content alignment of a slide.
type Align string

const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
)

// ParseAlign returns the Align for v, or "" if v is not a legal value.
func ParseAlign(v string) Align {
	switch Align(v) {
	case AlignStart, AlignCenter, AlignEnd:
		return Align(v)
	}
	return ""
}

// WidthClass is the S/M/L width class used by slides and columns.
type WidthClass string

const (
	WidthS WidthClass = "S"
	WidthM WidthClass = "M"
	WidthL WidthClass = "L"
)

// ParseWidth returns the WidthClass for v, or "" if v is not a legal value.
func ParseWidth(v string) WidthClass {
	switch WidthClass(v) {
	case WidthS, WidthM, WidthL:
		return WidthClass(v)
	}
	return ""
}

// Heading returns the text of the first heading in the document, or "".
func (d *Document) Heading() string {
	for _, n := range d.Content {
		if h, ok := n.(*Heading); ok {
			return PlainText(h.Children)
		}
	}
	return ""
}
