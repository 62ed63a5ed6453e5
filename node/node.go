// Package node turns parsed Markdown elements into styled visual nodes.
//
// Nodes carry no geometry; layout decides where they go and a sink (raster
// or HTML) decides how they are painted.
package node

import "github.com/humblebanana/md2chat/inline"

// Node is a styled element ready to be painted. Implementations are
// *Heading, *Paragraph, *Quote, *List and *Table.
type Node interface {
	NodeStyle() Style
	node()
}

// Span is one piece of inline content inside a node: *Text, *Click or *Card.
type Span interface {
	span()
}

// Text is styled running text.
type Text struct {
	Runs []inline.Run
}

// Click is an underlined tappable phrase.
type Click struct {
	Text string
}

// Card is an inline product card.
type Card struct {
	Product Product
}

func (*Text) span()  {}
func (*Click) span() {}
func (*Card) span()  {}

// Heading is an h1 to h6 title; Style carries its level's size and weight.
type Heading struct {
	Level   int
	Content []Span
	Style   Style
}

// Paragraph is body text with inline cards and click spans.
type Paragraph struct {
	Content []Span
	Style   Style
}

// Quote is a blockquote with a left bar.
type Quote struct {
	Content []Span
	Style   Style
}

// List is a bullet or numbered list.
type List struct {
	Ordered     bool
	Items       []Item
	Style       Style
	MarkerStyle Style
}

// Item is one list entry with its rendered marker ("•" or "3.").
type Item struct {
	Marker  string
	Content []Span
}

// Table is a header row plus body rows.
type Table struct {
	Header      []Cell
	Rows        [][]Cell
	Style       Style
	HeaderStyle Style
	CellStyle   Style
}

// Cell is the content of one table cell.
type Cell []Span

func (n *Heading) NodeStyle() Style   { return n.Style }
func (n *Paragraph) NodeStyle() Style { return n.Style }
func (n *Quote) NodeStyle() Style     { return n.Style }
func (n *List) NodeStyle() Style      { return n.Style }
func (n *Table) NodeStyle() Style     { return n.Style }

func (*Heading) node()   {}
func (*Paragraph) node() {}
func (*Quote) node()     {}
func (*List) node()      {}
func (*Table) node()     {}

// Cards returns every product card in spans, in order.
func Cards(spans []Span) []Product {
	var out []Product
	for _, s := range spans {
		if c, ok := s.(*Card); ok {
			out = append(out, c.Product)
		}
	}
	return out
}

// PlainText flattens spans to text. Cards contribute their title.
func PlainText(spans []Span) string {
	var b []byte
	for _, s := range spans {
		switch s := s.(type) {
		case *Text:
			b = append(b, inline.PlainText(s.Runs)...)
		case *Click:
			b = append(b, s.Text...)
		case *Card:
			b = append(b, s.Product.Title...)
		}
	}
	return string(b)
}
