package layout

import "github.com/humblebanana/md2chat/markdown"

// Rendered is a positioned element carrying the caller's visual node.
// Children are nested list items and carry zero positions; they are laid
// out by their parent's node.
type Rendered[N any] struct {
	ID         string        `json:"id"`
	Type       markdown.Type `json:"type"`
	Content    string        `json:"content"`
	Node       N             `json:"node"`
	Position   Position      `json:"position"`
	TargetArea string        `json:"targetArea"`
	Children   []Rendered[N] `json:"children,omitempty"`
	// Overflow is set when the element was clamped to the region's bottom
	// edge and overlaps an earlier sibling.
	Overflow bool `json:"overflow,omitempty"`
}

// Render assigns every element a region and a position and builds its node
// with materialize. Elements whose type maps to no region are dropped.
//
// Output is grouped by region in the order each region is first used, and
// keeps document order within a region. The index passed to ComputePosition
// counts only elements in the same region.
func Render[N any](elements []markdown.Element, materialize func(markdown.Element) N) []Rendered[N] {
	type group struct {
		region   Region
		elements []markdown.Element
	}

	var order []string
	groups := map[string]*group{}
	for _, el := range elements {
		region, ok := TargetArea(el.Type())
		if !ok {
			continue
		}
		g, seen := groups[region.ID]
		if !seen {
			g = &group{region: region}
			groups[region.ID] = g
			order = append(order, region.ID)
		}
		g.elements = append(g.elements, el)
	}

	out := make([]Rendered[N], 0, len(elements))
	for _, id := range order {
		g := groups[id]
		for i, el := range g.elements {
			r := Rendered[N]{
				ID:         el.Ident(),
				Type:       el.Type(),
				Content:    el.Body(),
				Node:       materialize(el),
				Position:   ComputePosition(el.Type(), g.region, i, len(g.elements)),
				TargetArea: g.region.ID,
			}
			r.Overflow = r.Position.Y != g.region.Bounds.Y+i*specFor(el.Type()).stride()
			for _, child := range el.Children() {
				r.Children = append(r.Children, Rendered[N]{
					ID:         child.Ident(),
					Type:       child.Type(),
					Content:    child.Body(),
					Node:       materialize(child),
					TargetArea: g.region.ID,
				})
			}
			out = append(out, r)
		}
	}
	return out
}

// Unmapped returns the elements Render would drop.
func Unmapped(elements []markdown.Element) []markdown.Element {
	var out []markdown.Element
	for _, el := range elements {
		if _, ok := TargetArea(el.Type()); !ok {
			out = append(out, el)
		}
	}
	return out
}
