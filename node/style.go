package node

import (
	"fmt"
	"image/color"

	"github.com/humblebanana/md2chat/markdown"
)

// Align is horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Style is the static visual treatment of a node or a part of one. Sizes are
// CSS pixels on the virtual canvas.
type Style struct {
	FontSize     float64
	FontWeight   int
	LineHeight   float64
	Color        color.RGBA
	Background   color.RGBA
	Italic       bool
	Underline    bool
	MarginBottom int
	PaddingX     int
	PaddingY     int
	BorderLeft   int
	BorderColor  color.RGBA
	Align        Align
}

// Bold reports whether the weight should use the bold face.
func (s Style) Bold() bool { return s.FontWeight >= 600 }

// Hex formats c as #rrggbb, or "transparent" when fully transparent.
func Hex(c color.RGBA) string {
	if c.A == 0 {
		return "transparent"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

var (
	TextColor   = rgb(0x333333)
	MutedColor  = rgb(0x666666)
	BorderColor = rgb(0xe5e7eb)
	PriceColor  = rgb(0xfa2c19)
	ReasonColor = rgb(0x8c8c8c)
	CardColor   = rgb(0xffffff)
	ClickColor  = rgb(0x064fbd)
)

var base = Style{FontSize: 14, FontWeight: 400, LineHeight: 1.6, Color: TextColor, Align: AlignLeft}

func with(f func(*Style)) Style {
	s := base
	f(&s)
	return s
}

var typeStyles = map[markdown.Type]Style{
	markdown.TypeH1: with(func(s *Style) {
		s.FontSize, s.FontWeight, s.MarginBottom, s.Color = 20, 600, 10, rgb(0x222222)
	}),
	markdown.TypeH2: with(func(s *Style) {
		s.FontSize, s.FontWeight, s.MarginBottom = 18, 600, 8
	}),
	markdown.TypeH3: with(func(s *Style) {
		s.FontSize, s.FontWeight, s.MarginBottom, s.Color = 16, 600, 6, rgb(0x444444)
	}),
	markdown.TypeH4: with(func(s *Style) { s.FontSize, s.FontWeight, s.MarginBottom = 15, 500, 4 }),
	markdown.TypeH5: with(func(s *Style) { s.FontSize, s.FontWeight, s.MarginBottom = 15, 500, 4 }),
	markdown.TypeH6: with(func(s *Style) { s.FontSize, s.FontWeight, s.MarginBottom = 15, 500, 4 }),
	markdown.TypeParagraph: with(func(s *Style) {
		s.LineHeight, s.MarginBottom = 1.7, 12
	}),
	markdown.TypeBulletList: base,
	markdown.TypeOrderList:  base,
	markdown.TypeTable:      with(func(s *Style) { s.FontSize = 12 }),
	markdown.TypeBlockquote: with(func(s *Style) {
		s.Italic = true
		s.Color = MutedColor
		s.Background = rgb(0xf8f9fa)
		s.PaddingX, s.PaddingY = 12, 8
		s.BorderLeft, s.BorderColor = 4, BorderColor
	}),
}

// StyleFor returns the style of an element type. Unknown types get the base
// text style.
func StyleFor(t markdown.Type) Style {
	if s, ok := typeStyles[t]; ok {
		return s
	}
	return base
}

// Part styles used inside lists, tables and product cards.
var (
	BulletMarkerStyle = with(func(s *Style) { s.FontSize, s.LineHeight, s.Color = 16, 1.4, MutedColor })
	NumberMarkerStyle = with(func(s *Style) { s.FontWeight, s.Color = 500, MutedColor })
	ListItemStyle     = with(func(s *Style) { s.MarginBottom = 6 })

	TableHeaderStyle = with(func(s *Style) {
		s.FontSize, s.FontWeight = 12, 700
		s.Background = rgb(0xf9fafb)
		s.PaddingX, s.PaddingY = 8, 12
		s.BorderColor = BorderColor
		s.Align = AlignCenter
	})
	TableCellStyle = with(func(s *Style) {
		s.FontSize = 11
		s.PaddingX, s.PaddingY = 8, 8
		s.BorderColor = BorderColor
		s.Align = AlignCenter
	})

	CardTitleStyle  = with(func(s *Style) { s.FontWeight = 500 })
	CardReasonStyle = with(func(s *Style) { s.FontSize, s.Color = 11, ReasonColor })
	CardPriceStyle  = with(func(s *Style) { s.FontSize, s.FontWeight, s.Color = 16, 600, PriceColor })
	ClickStyle      = with(func(s *Style) { s.Color, s.Underline = ClickColor, true })
)
