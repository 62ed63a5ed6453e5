package node

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblebanana/md2chat/inline"
	"github.com/humblebanana/md2chat/markdown"
)

func materializeAll(t *testing.T, src string, catalog Catalog) []Node {
	t.Helper()
	text, toks := inline.ExtractTokens(src)
	m := &Materializer{Tokens: toks, Catalog: catalog}
	var out []Node
	for _, e := range markdown.Parse(text).Elements {
		out = append(out, m.Materialize(e))
	}
	return out
}

func TestMaterializeHeading(t *testing.T) {
	nodes := materializeAll(t, "# Big **news**", nil)

	require.Len(t, nodes, 1)
	h, ok := nodes[0].(*Heading)
	require.True(t, ok, "got %T", nodes[0])
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, 20.0, h.Style.FontSize)
	assert.Equal(t, "Big news", PlainText(h.Content))
}

func TestMaterializeListMarkers(t *testing.T) {
	nodes := materializeAll(t, "- a\n- b\n\n5. x\n9. y", nil)

	require.Len(t, nodes, 2)
	ul := nodes[0].(*List)
	assert.False(t, ul.Ordered)
	assert.Equal(t, BulletMarker, ul.Items[0].Marker)
	assert.Equal(t, BulletMarkerStyle, ul.MarkerStyle)

	ol := nodes[1].(*List)
	require.Len(t, ol.Items, 2)
	assert.Equal(t, "1.", ol.Items[0].Marker)
	assert.Equal(t, "2.", ol.Items[1].Marker)
	assert.Equal(t, "y", PlainText(ol.Items[1].Content))
}

func TestMaterializeTable(t *testing.T) {
	nodes := materializeAll(t, "| A | B |\n|---|---|\n| 1 | 2 |", nil)

	require.Len(t, nodes, 1)
	tbl := nodes[0].(*Table)
	require.Len(t, tbl.Header, 2)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "A", PlainText(tbl.Header[0]))
	assert.Equal(t, "2", PlainText(tbl.Rows[0][1]))
	assert.NotEqual(t, tbl.HeaderStyle, tbl.CellStyle)
	assert.True(t, tbl.HeaderStyle.Bold())
}

func TestMaterializeQuote(t *testing.T) {
	nodes := materializeAll(t, "> careful", nil)

	q, ok := nodes[0].(*Quote)
	require.True(t, ok)
	assert.True(t, q.Style.Italic)
	assert.Equal(t, 4, q.Style.BorderLeft)
}

func TestMaterializeProductCardInParagraph(t *testing.T) {
	nodes := materializeAll(t, "Try [product:42] today", nil)

	require.Len(t, nodes, 1)
	p := nodes[0].(*Paragraph)
	require.Len(t, p.Content, 3)

	assert.IsType(t, &Text{}, p.Content[0])
	card, ok := p.Content[1].(*Card)
	require.True(t, ok)
	assert.Equal(t, "42", card.Product.SKU)
	assert.Equal(t, "SKU 42", card.Product.Title)
	assert.Equal(t, float64(FallbackPrice), card.Product.Price.Value)
	assert.IsType(t, &Text{}, p.Content[2])
}

func TestMaterializeUsesCatalog(t *testing.T) {
	catalog := MapCatalog{
		"715880": {Title: "幼犬粮 2kg", Price: inline.Price{Value: 89.9, Currency: "¥"}},
	}
	nodes := materializeAll(t, "[product:715880]", catalog)

	cards := Cards(nodes[0].(*Paragraph).Content)
	require.Len(t, cards, 1)
	assert.Equal(t, "715880", cards[0].SKU)
	assert.Equal(t, "幼犬粮 2kg", cards[0].Title)
	assert.Equal(t, 89.9, cards[0].Price.Value)
}

func TestMaterializeClickSpan(t *testing.T) {
	nodes := materializeAll(t, "tap <ClickText>here</ClickText>", nil)

	p := nodes[0].(*Paragraph)
	require.Len(t, p.Content, 2)
	c, ok := p.Content[1].(*Click)
	require.True(t, ok)
	assert.Equal(t, "here", c.Text)
}

func TestResolve(t *testing.T) {
	catalog := MapCatalog{"1": {SKU: "1", Title: "Known", Price: inline.Price{Value: 5, Currency: "$"}}}

	tests := []struct {
		name string
		tok  inline.Product
		want Product
	}{
		{
			name: "catalog hit keeps catalog title",
			tok:  inline.Product{ID: "1", Title: "Link title", Linked: true},
			want: Product{SKU: "1", Title: "Known", Price: inline.Price{Value: 5, Currency: "$"}},
		},
		{
			name: "link price overrides catalog",
			tok:  inline.Product{ID: "1", Price: "￥12"},
			want: Product{SKU: "1", Title: "Known", Price: inline.Price{Value: 12, Currency: "¥"}},
		},
		{
			name: "unknown uses link title and image",
			tok:  inline.Product{ID: "9", Title: "Cans", ImageURL: "https://x.test/c.png", Linked: true},
			want: Product{
				SKU: "9", Title: "Cans", Label: FallbackLabel,
				Price:    inline.Price{Value: FallbackPrice, Currency: "¥"},
				ImageURL: "https://x.test/c.png",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(catalog, &tt.tok))
		})
	}
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, 18.0, StyleFor(markdown.TypeH2).FontSize)
	assert.Equal(t, 600, StyleFor(markdown.TypeH2).FontWeight)
	assert.Equal(t, 1.7, StyleFor(markdown.TypeParagraph).LineHeight)
	assert.Equal(t, 15.0, StyleFor(markdown.TypeH6).FontSize)
	assert.Equal(t, StyleFor(markdown.TypeParagraph).Color, StyleFor(markdown.Type("x")).Color)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#e5e7eb", Hex(BorderColor))
	assert.Equal(t, "transparent", Hex(color.RGBA{}))
}
