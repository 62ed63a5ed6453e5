package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblebanana/md2chat/markdown"
)

func TestTargetArea(t *testing.T) {
	tests := []struct {
		typ  markdown.Type
		want string
	}{
		{markdown.TypeH1, "main-title"},
		{markdown.TypeH2, "subtitle"},
		{markdown.TypeH3, "subtitle"},
		{markdown.TypeH4, "main-content"},
		{markdown.TypeH5, "main-content"},
		{markdown.TypeH6, "main-content"},
		{markdown.TypeParagraph, "main-content"},
		{markdown.TypeBlockquote, "main-content"},
		{markdown.TypeBulletList, "bullet-list"},
		{markdown.TypeOrderList, "numbered-list"},
		{markdown.TypeTable, "table-area"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			r, ok := TargetArea(tt.typ)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.ID)
		})
	}
}

func TestTargetAreaUnknown(t *testing.T) {
	_, ok := TargetArea(markdown.Type("code"))
	assert.False(t, ok)
}

func TestEveryTypeHasRegion(t *testing.T) {
	for _, typ := range markdown.Types {
		_, ok := TargetArea(typ)
		assert.True(t, ok, "type %s has no region", typ)
	}
}

func TestComputePositionStacksAndClamps(t *testing.T) {
	region := Region{ID: "main-content", Bounds: Rect{X: 40, Y: 240, W: 290, H: 300}}

	tests := []struct {
		index int
		wantY int
	}{
		{0, 240},
		{1, 312},
		{3, 456},
		{4, 480},
		{10, 480},
	}
	for _, tt := range tests {
		p := ComputePosition(markdown.TypeParagraph, region, tt.index, 11)
		assert.Equal(t, tt.wantY, p.Y, "index %d", tt.index)
		assert.Equal(t, 45, p.X)
		assert.Equal(t, 280, p.Width)
		assert.Equal(t, 60, p.Height)
		assert.Equal(t, ZIndex, p.ZIndex)
		assert.LessOrEqual(t, p.Y+p.Height, region.Bounds.Bottom())
	}
}

func TestComputePositionFallbackSpec(t *testing.T) {
	p := ComputePosition(markdown.TypeH5, MainContent, 1, 2)
	assert.Equal(t, 40, p.Height)
	assert.Equal(t, 288, p.Y)
}

func TestInViewport(t *testing.T) {
	assert.True(t, InViewport(Position{X: 45, Y: 240, Width: 280, Height: 60}))
	assert.False(t, InViewport(Position{}))
	assert.False(t, InViewport(Position{X: -1, Y: 0, Width: 10, Height: 10}))
	assert.False(t, InViewport(Position{X: 300, Y: 0, Width: 100, Height: 10}))
	assert.False(t, InViewport(Position{X: 0, Y: 2245, Width: 10, Height: 10}))

	for _, r := range Regions() {
		assert.True(t, InViewport(Position{X: r.Bounds.X, Y: r.Bounds.Y, Width: r.Bounds.W, Height: r.Bounds.H}), r.ID)
	}
}

func TestRegionByID(t *testing.T) {
	r, ok := RegionByID("table-area")
	require.True(t, ok)
	assert.Equal(t, TableArea, r)

	_, ok = RegionByID("sidebar")
	assert.False(t, ok)
}

func TestRenderGroupsByRegion(t *testing.T) {
	doc := markdown.Parse("# Title\n\nfirst\n\n- a\n- b\n\nsecond")

	out := Render(doc.Elements, func(e markdown.Element) string { return e.Ident() })

	require.Len(t, out, 4)
	assert.Equal(t, "main-title", out[0].TargetArea)
	assert.Equal(t, "main-content", out[1].TargetArea)
	assert.Equal(t, "main-content", out[2].TargetArea)
	assert.Equal(t, "bullet-list", out[3].TargetArea)

	assert.Equal(t, "first", out[1].Content)
	assert.Equal(t, 240, out[1].Position.Y)
	assert.Equal(t, "second", out[2].Content)
	assert.Equal(t, 312, out[2].Position.Y)
	assert.Equal(t, 560, out[3].Position.Y)

	assert.Equal(t, out[1].ID, out[1].Node)
}

func TestRenderChildrenHaveZeroPositions(t *testing.T) {
	doc := markdown.Parse("1. one\n2. two")

	out := Render(doc.Elements, func(e markdown.Element) markdown.Type { return e.Type() })

	require.Len(t, out, 1)
	require.Len(t, out[0].Children, 2)
	for _, c := range out[0].Children {
		assert.True(t, c.Position.IsZero())
		assert.Equal(t, markdown.TypeParagraph, c.Node)
		assert.Equal(t, "numbered-list", c.TargetArea)
	}
	assert.Equal(t, "one", out[0].Children[0].Content)
}

func TestRenderMarksOverflow(t *testing.T) {
	doc := markdown.Parse("# one\n\n# two")

	out := Render(doc.Elements, func(markdown.Element) struct{} { return struct{}{} })

	require.Len(t, out, 2)
	assert.False(t, out[0].Overflow)
	assert.True(t, out[1].Overflow)
	assert.Equal(t, 135, out[1].Position.Y)
}

func TestUnmappedEmptyForParsedDocuments(t *testing.T) {
	doc := markdown.Parse("# a\n\nb\n\n> c\n\n| d |")
	assert.Empty(t, Unmapped(doc.Elements))
}
