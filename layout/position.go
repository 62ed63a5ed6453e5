package layout

import "github.com/humblebanana/md2chat/markdown"

// Position is where an element sits on the canvas.
type Position struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	ZIndex int `json:"zIndex"`
}

// IsZero reports whether p is the zero position given to nested children.
func (p Position) IsZero() bool { return p == Position{} }

// Rect returns the position's bounds.
func (p Position) Rect() Rect { return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height} }

type sizeSpec struct {
	height  int
	spacing int
}

var sizeSpecs = map[markdown.Type]sizeSpec{
	markdown.TypeH1:         {35, 10},
	markdown.TypeH2:         {25, 8},
	markdown.TypeH3:         {20, 6},
	markdown.TypeParagraph:  {60, 12},
	markdown.TypeBulletList: {80, 10},
	markdown.TypeOrderList:  {80, 10},
	markdown.TypeTable:      {250, 15},
	markdown.TypeBlockquote: {50, 8},
}

func (s sizeSpec) stride() int { return s.height + s.spacing }

var fallbackSpec = sizeSpec{40, 8}

func specFor(t markdown.Type) sizeSpec {
	if s, ok := sizeSpecs[t]; ok {
		return s
	}
	return fallbackSpec
}

// ComputePosition places the index-th element of type t inside region.
// Elements stack downward by nominal height plus spacing. The last slot is
// clamped so the element never extends past the region's bottom edge, which
// means overflowing elements overlap. siblings is the number of elements
// sharing the region; the nominal layout does not depend on it.
func ComputePosition(t markdown.Type, region Region, index, siblings int) Position {
	spec := specFor(t)
	b := region.Bounds

	y := b.Y + index*spec.stride()
	if maxY := b.Bottom() - spec.height; y > maxY {
		y = maxY
	}

	return Position{
		X:      b.X + 5,
		Y:      y,
		Width:  b.W - 10,
		Height: spec.height,
		ZIndex: ZIndex,
	}
}

// InViewport reports whether p has a positive size and lies fully on the
// canvas.
func InViewport(p Position) bool {
	return p.X >= 0 && p.Y >= 0 &&
		p.Width > 0 && p.Height > 0 &&
		p.X+p.Width <= CanvasWidth &&
		p.Y+p.Height <= CanvasHeight
}
