package slide

import "encoding/json"

// Every node marshals as an object carrying a "type" discriminator so the
// renderer can switch on it.

func (t *Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindText, (*alias)(t)})
}

func (p *Paragraph) MarshalJSON() ([]byte, error) {
	type alias Paragraph
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindParagraph, (*alias)(p)})
}

func (h *Heading) MarshalJSON() ([]byte, error) {
	type alias Heading
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindHeading, (*alias)(h)})
}

func (i *Image) MarshalJSON() ([]byte, error) {
	type alias Image
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindImage, (*alias)(i)})
}

func (c *Columns) MarshalJSON() ([]byte, error) {
	type alias Columns
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindColumns, (*alias)(c)})
}

func (g *Group) MarshalJSON() ([]byte, error) {
	type alias Group
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{g.Type, (*alias)(g)})
}

func (c *Chart) MarshalJSON() ([]byte, error) {
	type alias Chart
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindChart, (*alias)(c)})
}

func (t *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindTable, (*alias)(t)})
}

func (b *Button) MarshalJSON() ([]byte, error) {
	type alias Button
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindButton, (*alias)(b)})
}
