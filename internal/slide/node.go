package slide

import "fmt"

// Kind discriminates the Node variants.
type Kind string

const (
	KindText        Kind = "text"
	KindParagraph   Kind = "paragraph"
	KindHeading     Kind = "heading"
	KindImage       Kind = "image"
	KindColumns     Kind = "columns"
	KindBullets     Kind = "bullets"
	KindIcons       Kind = "icons"
	KindCycle       Kind = "cycle"
	KindStaircase   Kind = "staircase"
	KindPyramid     Kind = "pyramid"
	KindArrows      Kind = "arrows"
	KindTimeline    Kind = "timeline"
	KindBoxes       Kind = "boxes"
	KindCompare     Kind = "compare"
	KindBeforeAfter Kind = "before-after"
	KindProsCons    Kind = "pros-cons"
	KindChart       Kind = "chart"
	KindTable       Kind = "table"
	KindButton      Kind = "button"
)

// GroupKinds lists the kinds carried by Group.
var GroupKinds = map[Kind]bool{
	KindBullets:     true,
	KindIcons:       true,
	KindCycle:       true,
	KindStaircase:   true,
	KindPyramid:     true,
	KindArrows:      true,
	KindTimeline:    true,
	KindBoxes:       true,
	KindCompare:     true,
	KindBeforeAfter: true,
	KindProsCons:    true,
}

// Node is one element of a document's content tree. The set of
// implementations is closed: Text, Paragraph, Heading, Image, Columns,
// Group, Chart, Table and Button.
type Node interface {
	Kind() Kind
	node()
}

// Text is an inline run.
type Text struct {
	Text          string `json:"text"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Generating    bool   `json:"generating,omitempty"` // still being streamed
}

// ListStyle marks paragraphs that came from list items.
type ListStyle string

const (
	ListBullet   ListStyle = "ul"
	ListNumbered ListStyle = "ol"
)

type Paragraph struct {
	Children []Node    `json:"children"`
	List     ListStyle `json:"list,omitempty"`
	Indent   int       `json:"indent,omitempty"`
}

type Heading struct {
	Level    int    `json:"level"`
	Children []Node `json:"children"`
}

type Image struct {
	URL   string `json:"url"`
	Query string `json:"query"`
}

type Column struct {
	Width    WidthClass `json:"width"`
	Children []Node     `json:"children"`
}

type Columns struct {
	Columns []Column `json:"columns"`
}

// Item is one entry of a Group. Icon is only set for icon groups and Side
// only for pros/cons groups.
type Item struct {
	Icon     string `json:"icon,omitempty"`
	Side     string `json:"side,omitempty"`
	Children []Node `json:"children"`
}

// Group covers every item-list construct: bullets, icons, the diagram
// groups (cycle, staircase, pyramid, arrows, timeline), boxes, compare,
// before/after and pros/cons.
type Group struct {
	Type  Kind   `json:"-"`
	Items []Item `json:"items"`
}

// NewGroup returns an empty group of kind k. It panics if k is not a group kind.
func NewGroup(k Kind) *Group {
	if !GroupKinds[k] {
		panic(fmt.Sprintf("slide: %q is not a group kind", k))
	}
	return &Group{Type: k}
}

// ChartKind is the chart flavor.
type ChartKind string

const (
	ChartPie     ChartKind = "pie"
	ChartBar     ChartKind = "bar"
	ChartArea    ChartKind = "area"
	ChartRadar   ChartKind = "radar"
	ChartScatter ChartKind = "scatter"
	ChartLine    ChartKind = "line"
)

// ParseChartKind returns the chart kind for v, defaulting to ChartBar.
func ParseChartKind(v string) ChartKind {
	switch ChartKind(v) {
	case ChartPie, ChartBar, ChartArea, ChartRadar, ChartScatter, ChartLine:
		return ChartKind(v)
	}
	return ChartBar
}

type Datum struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Chart holds Data for every kind except scatter, which uses Points.
type Chart struct {
	Chart  ChartKind `json:"chartType"`
	Data   []Datum   `json:"data,omitempty"`
	Points []Point   `json:"points,omitempty"`
}

type Cell struct {
	Header     bool   `json:"header,omitempty"`
	ColSpan    int    `json:"colSpan,omitempty"`
	RowSpan    int    `json:"rowSpan,omitempty"`
	Background string `json:"background,omitempty"`
	Children   []Node `json:"children"`
}

type Row struct {
	Cells []Cell `json:"cells"`
}

type Table struct {
	Rows []Row `json:"rows"`
}

type Button struct {
	Variant  string `json:"variant,omitempty"`
	Size     string `json:"size,omitempty"`
	Children []Node `json:"children"`
}

func (*Text) Kind() Kind      { return KindText }
func (*Paragraph) Kind() Kind { return KindParagraph }
func (*Heading) Kind() Kind   { return KindHeading }
func (*Image) Kind() Kind     { return KindImage }
func (*Columns) Kind() Kind   { return KindColumns }
func (g *Group) Kind() Kind   { return g.Type }
func (*Chart) Kind() Kind     { return KindChart }
func (*Table) Kind() Kind     { return KindTable }
func (*Button) Kind() Kind    { return KindButton }

func (*Text) node()      {}
func (*Paragraph) node() {}
func (*Heading) node()   {}
func (*Image) node()     {}
func (*Columns) node()   {}
func (*Group) node()     {}
func (*Chart) node()     {}
func (*Table) node()     {}
func (*Button) node()    {}

// Variant and size whitelists for Button.
var (
	ButtonVariants = map[string]bool{"filled": true, "outline": true, "ghost": true}
	ButtonSizes    = map[string]bool{"sm": true, "md": true, "lg": true}
)
