// Package layout places parsed Markdown elements on the fixed phone canvas.
//
// The canvas is divided into static regions. Each element type maps to one
// region, and elements sharing a region are stacked top to bottom using a
// per-type nominal height and spacing.
package layout

import "github.com/humblebanana/md2chat/markdown"

// Canvas size in virtual pixels.
const (
	CanvasWidth  = 374
	CanvasHeight = 2250
)

// ZIndex is the stacking order given to every positioned element.
const ZIndex = 10

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"width"`
	H int `json:"height"`
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Kind groups regions by their role on the page.
type Kind string

const (
	KindHeader  Kind = "header"
	KindContent Kind = "content"
	KindList    Kind = "list"
	KindTable   Kind = "table"
	KindFooter  Kind = "footer"
)

// Region is a named rectangle on the canvas.
type Region struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
	Kind   Kind   `json:"kind"`
}

var (
	StatusBar    = Region{ID: "status-bar", Name: "Status bar", Bounds: Rect{20, 50, 334, 30}, Kind: KindHeader}
	MainTitle    = Region{ID: "main-title", Name: "Main title", Bounds: Rect{40, 120, 290, 50}, Kind: KindHeader}
	Subtitle     = Region{ID: "subtitle", Name: "Subtitle", Bounds: Rect{40, 180, 290, 40}, Kind: KindHeader}
	MainContent  = Region{ID: "main-content", Name: "Main content", Bounds: Rect{40, 240, 290, 300}, Kind: KindContent}
	BulletList   = Region{ID: "bullet-list", Name: "Bullet list", Bounds: Rect{50, 560, 280, 200}, Kind: KindList}
	TableArea    = Region{ID: "table-area", Name: "Product table", Bounds: Rect{40, 780, 290, 300}, Kind: KindTable}
	NumberedList = Region{ID: "numbered-list", Name: "Numbered list", Bounds: Rect{40, 1100, 290, 150}, Kind: KindList}
	BottomNav    = Region{ID: "bottom-nav", Name: "Bottom nav", Bounds: Rect{0, 2170, 374, 80}, Kind: KindFooter}
)

// Regions returns every region in top-to-bottom order.
func Regions() []Region {
	return []Region{StatusBar, MainTitle, Subtitle, MainContent, BulletList, TableArea, NumberedList, BottomNav}
}

// RegionByID looks up a region by its id.
func RegionByID(id string) (Region, bool) {
	for _, r := range Regions() {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// TargetArea returns the region an element type renders into. Types with no
// region report false and are not rendered.
func TargetArea(t markdown.Type) (Region, bool) {
	switch t {
	case markdown.TypeH1:
		return MainTitle, true
	case markdown.TypeH2, markdown.TypeH3:
		return Subtitle, true
	case markdown.TypeH4, markdown.TypeH5, markdown.TypeH6, markdown.TypeParagraph, markdown.TypeBlockquote:
		return MainContent, true
	case markdown.TypeBulletList:
		return BulletList, true
	case markdown.TypeOrderList:
		return NumberedList, true
	case markdown.TypeTable:
		return TableArea, true
	default:
		return Region{}, false
	}
}
