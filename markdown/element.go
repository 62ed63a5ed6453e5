// Package markdown parses the small Markdown subset used by chat previews into
// a flat, ordered list of typed block elements.
//
// The parser is line based and never fails: anything it does not recognise
// becomes paragraph text. Only headings, paragraphs, flat lists, pipe tables
// and blockquotes are produced.
package markdown

import "strconv"

// Type is the tag of a block element as used by region mapping and styling.
type Type string

const (
	TypeH1         Type = "h1"
	TypeH2         Type = "h2"
	TypeH3         Type = "h3"
	TypeH4         Type = "h4"
	TypeH5         Type = "h5"
	TypeH6         Type = "h6"
	TypeParagraph  Type = "p"
	TypeBulletList Type = "ul"
	TypeOrderList  Type = "ol"
	TypeTable      Type = "table"
	TypeBlockquote Type = "blockquote"
)

// Types lists every element tag the parser can emit.
var Types = []Type{
	TypeH1, TypeH2, TypeH3, TypeH4, TypeH5, TypeH6,
	TypeParagraph, TypeBulletList, TypeOrderList, TypeTable, TypeBlockquote,
}

// HeadingType returns the tag for a heading of the given level, clamped to 1..6.
func HeadingType(level int) Type {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return Type("h" + strconv.Itoa(level))
}

// Element is a parsed block. The set of implementations is closed: Heading,
// Paragraph, Blockquote, List and Table.
type Element interface {
	// Type returns the element tag.
	Type() Type
	// Ident returns the id assigned during parsing.
	Ident() string
	// Body returns the raw text content; empty for container elements.
	Body() string
	// Children returns list items, or nil for every other element.
	Children() []Element

	isElement()
}

// Heading is a single-line h1..h6 element.
type Heading struct {
	ID      string
	Level   int
	Content string
}

func (h *Heading) Type() Type          { return HeadingType(h.Level) }
func (h *Heading) Ident() string       { return h.ID }
func (h *Heading) Body() string        { return h.Content }
func (h *Heading) Children() []Element { return nil }
func (*Heading) isElement()            {}

// Paragraph holds one or more lines of plain text joined by newlines.
// List items are paragraphs too.
type Paragraph struct {
	ID      string
	Content string
}

func (p *Paragraph) Type() Type          { return TypeParagraph }
func (p *Paragraph) Ident() string       { return p.ID }
func (p *Paragraph) Body() string        { return p.Content }
func (p *Paragraph) Children() []Element { return nil }
func (*Paragraph) isElement()            {}

// Blockquote merges consecutive quoted lines into one newline-joined body.
type Blockquote struct {
	ID      string
	Content string
}

func (b *Blockquote) Type() Type          { return TypeBlockquote }
func (b *Blockquote) Ident() string       { return b.ID }
func (b *Blockquote) Body() string        { return b.Content }
func (b *Blockquote) Children() []Element { return nil }
func (*Blockquote) isElement()            {}

// List is a flat ordered or unordered list. Numbering of ordered lists is
// positional; source numerals are not kept.
type List struct {
	ID      string
	Ordered bool
	Items   []*Paragraph
}

func (l *List) Type() Type {
	if l.Ordered {
		return TypeOrderList
	}
	return TypeBulletList
}
func (l *List) Ident() string { return l.ID }
func (l *List) Body() string  { return "" }
func (l *List) Children() []Element {
	out := make([]Element, len(l.Items))
	for i, it := range l.Items {
		out[i] = it
	}
	return out
}
func (*List) isElement() {}

// Table is a pipe table. Columns is the header row; Rows never contains the
// delimiter row.
type Table struct {
	ID      string
	Columns []string
	Rows    [][]string
}

func (t *Table) Type() Type          { return TypeTable }
func (t *Table) Ident() string       { return t.ID }
func (t *Table) Body() string        { return "" }
func (t *Table) Children() []Element { return nil }
func (*Table) isElement()            {}

// Meta carries the type-specific extras of an element.
type Meta struct {
	Level   int        `json:"level,omitempty"`
	Ordered *bool      `json:"ordered,omitempty"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// Metadata returns the level, ordered flag or table cells of e.
func Metadata(e Element) Meta {
	switch el := e.(type) {
	case *Heading:
		return Meta{Level: el.Level}
	case *List:
		ordered := el.Ordered
		return Meta{Ordered: &ordered}
	case *Table:
		return Meta{Columns: el.Columns, Rows: el.Rows}
	}
	return Meta{}
}

// Record is the flat serialisable form of an element.
type Record struct {
	ID       string   `json:"id"`
	Type     Type     `json:"type"`
	Content  string   `json:"content"`
	Children []Record `json:"children,omitempty"`
	Metadata *Meta    `json:"metadata,omitempty"`
}

// ToRecord converts e and its children into Records.
func ToRecord(e Element) Record {
	r := Record{ID: e.Ident(), Type: e.Type(), Content: e.Body()}
	for _, c := range e.Children() {
		r.Children = append(r.Children, ToRecord(c))
	}
	if m := Metadata(e); m.Level != 0 || m.Ordered != nil || m.Columns != nil || m.Rows != nil {
		r.Metadata = &m
	}
	return r
}

// ToRecords converts a slice of elements.
func ToRecords(elements []Element) []Record {
	out := make([]Record, len(elements))
	for i, e := range elements {
		out[i] = ToRecord(e)
	}
	return out
}
