package node

import (
	"strconv"

	"github.com/humblebanana/md2chat/inline"
	"github.com/humblebanana/md2chat/markdown"
)

// BulletMarker is the marker drawn before unordered list items.
const BulletMarker = "•"

// Materializer builds nodes from elements. Tokens restores the inline
// product and click markup that was lifted out before parsing; Catalog
// supplies product card data. Both may be nil.
type Materializer struct {
	Tokens  *inline.Tokens
	Catalog Catalog
}

// Materialize returns the node for e. It does no layout.
func (m *Materializer) Materialize(e markdown.Element) Node {
	style := StyleFor(e.Type())

	switch e := e.(type) {
	case *markdown.Heading:
		return &Heading{Level: e.Level, Content: m.spans(e.Content), Style: style}
	case *markdown.Paragraph:
		return &Paragraph{Content: m.spans(e.Content), Style: style}
	case *markdown.Blockquote:
		return &Quote{Content: m.spans(e.Content), Style: style}
	case *markdown.List:
		n := &List{Ordered: e.Ordered, Style: style, MarkerStyle: BulletMarkerStyle}
		if e.Ordered {
			n.MarkerStyle = NumberMarkerStyle
		}
		for i, item := range e.Items {
			marker := BulletMarker
			if e.Ordered {
				marker = strconv.Itoa(i+1) + "."
			}
			n.Items = append(n.Items, Item{Marker: marker, Content: m.spans(item.Content)})
		}
		return n
	case *markdown.Table:
		n := &Table{Style: style, HeaderStyle: TableHeaderStyle, CellStyle: TableCellStyle}
		for _, col := range e.Columns {
			n.Header = append(n.Header, Cell(m.spans(col)))
		}
		for _, row := range e.Rows {
			cells := make([]Cell, 0, len(row))
			for _, c := range row {
				cells = append(cells, Cell(m.spans(c)))
			}
			n.Rows = append(n.Rows, cells)
		}
		return n
	default:
		return &Paragraph{Content: m.spans(e.Body()), Style: style}
	}
}

func (m *Materializer) spans(text string) []Span {
	segs := m.Tokens.Reinsert(text)
	out := make([]Span, 0, len(segs))
	for _, seg := range segs {
		switch s := seg.(type) {
		case *inline.Text:
			out = append(out, &Text{Runs: s.Runs})
		case *inline.Click:
			out = append(out, &Click{Text: s.Value})
		case *inline.Product:
			out = append(out, &Card{Product: Resolve(m.Catalog, s)})
		}
	}
	return out
}
