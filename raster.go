package md2chat

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/golang/freetype"
	xdraw "golang.org/x/image/draw"

	"github.com/humblebanana/md2chat/inline"
	"github.com/humblebanana/md2chat/layout"
	"github.com/humblebanana/md2chat/node"
)

// Geometry of painted parts, in CSS pixels.
const (
	listMarkerWidth = 20
	listMarkerGap   = 8

	cardHeight = 96
	cardGap    = 8
	cardPad    = 8
	cardImage  = 80

	statusBarFontSize = 14
	inputIconSize     = 24
	inputPillHeight   = 36
)

// ---- Canvas ----

type canvas struct {
	img   *image.RGBA
	dc    *freetype.Context
	scale float64
	th    Theme
	fonts Fonts
}

func newCanvas(th Theme, fonts Fonts, scale float64) *canvas {
	w := int(math.Round(layout.CanvasWidth * scale))
	h := int(math.Round(layout.CanvasHeight * scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dc := freetype.NewContext()
	dc.SetDPI(fontDPI(scale))
	dc.SetClip(img.Bounds())
	dc.SetDst(img)
	dc.SetSrc(image.NewUniform(th.FG))

	draw.Draw(img, img.Bounds(), image.NewUniform(th.BG), image.Point{}, draw.Src)

	return &canvas{img: img, dc: dc, scale: scale, th: th, fonts: fonts}
}

// px converts CSS pixels to device pixels.
func (c *canvas) px(v float64) int { return int(math.Round(v * c.scale)) }

// rect converts a canvas rectangle to device pixels.
func (c *canvas) rect(r layout.Rect) image.Rectangle {
	return image.Rect(c.px(float64(r.X)), c.px(float64(r.Y)), c.px(float64(r.X+r.W)), c.px(float64(r.Y+r.H)))
}

func (c *canvas) fill(r image.Rectangle, col color.Color) {
	op := draw.Src
	if _, _, _, a := col.RGBA(); a < 0xffff {
		op = draw.Over
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, op)
}

// outline draws a 1 device pixel border, dashed when dash > 0.
func (c *canvas) outline(r image.Rectangle, col color.Color, dash int) {
	seg := func(i int) bool { return dash <= 0 || (i/dash)%2 == 0 }
	for x := r.Min.X; x < r.Max.X; x++ {
		if seg(x - r.Min.X) {
			c.img.Set(x, r.Min.Y, col)
			c.img.Set(x, r.Max.Y-1, col)
		}
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if seg(y - r.Min.Y) {
			c.img.Set(r.Min.X, y, col)
			c.img.Set(r.Max.X-1, y, col)
		}
	}
}

// disc fills a circle inscribed in r.
func (c *canvas) disc(r image.Rectangle, col color.Color) {
	cx, cy := float64(r.Min.X+r.Max.X)/2, float64(r.Min.Y+r.Max.Y)/2
	rad := float64(r.Dx()) / 2
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= rad*rad {
				c.img.Set(x, y, col)
			}
		}
	}
}

func (c *canvas) setFace(fnt *FontAndFace, col color.Color, size float64) {
	c.dc.SetFontSize(size)
	c.dc.SetSrc(image.NewUniform(col))
	c.dc.SetFont(fnt.Font)
}

// drawString draws s with size in CSS pixels and returns its device width.
func (c *canvas) drawString(fnt *FontAndFace, col color.Color, size float64, s string, x, baseline int) int {
	c.setFace(fnt, col, size)
	_, _ = c.dc.DrawString(s, freetype.Pt(x, baseline))
	return int(measureWidth(fnt, size, s))
}

func scaleImageToFit(img image.Image, w, h int) image.Image {
	if img == nil || w <= 0 || h <= 0 {
		return img
	}
	b := img.Bounds()
	scale := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	dw := int(float64(b.Dx()) * scale)
	dh := int(float64(b.Dy()) * scale)
	if dw <= 0 {
		dw = 1
	}
	if dh <= 0 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// ---- Text layout ----

type textToken struct {
	text      string
	font      *FontAndFace
	size      float64
	color     color.Color
	underline bool
	strike    bool
	newline   bool
	card      *node.Product
}

type styledWord struct {
	text      string
	font      *FontAndFace
	size      float64
	color     color.Color
	underline bool
	strike    bool
	width     float64
}

type textLine struct {
	words []styledWord
	size  float64
	width float64
	card  *node.Product
}

func splitTextPreserveSpaces(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var current strings.Builder
	lastSpace, started := false, false
	for _, r := range s {
		isSpace := unicode.IsSpace(r)
		if started && isSpace != lastSpace {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		lastSpace, started = isSpace, true
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func breakLongToken(ff *FontAndFace, size float64, token string, maxWidth float64) []string {
	var parts []string
	var current strings.Builder
	for _, r := range token {
		ch := string(r)
		if current.Len() > 0 && measureWidth(ff, size, current.String()+ch) > maxWidth {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteString(ch)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	if len(parts) == 0 {
		parts = append(parts, token)
	}
	return parts
}

// layoutTokens wraps tokens into lines no wider than maxWidth device pixels.
// Cards always occupy a line of their own.
func layoutTokens(tokens []textToken, maxWidth float64) []textLine {
	var lines []textLine
	var cur textLine

	flush := func(force bool) {
		for n := len(cur.words); n > 0 && strings.TrimSpace(cur.words[n-1].text) == ""; n-- {
			cur.width -= cur.words[n-1].width
			cur.words = cur.words[:n-1]
		}
		if len(cur.words) == 0 && !force {
			return
		}
		lines = append(lines, cur)
		cur = textLine{}
	}
	add := func(w styledWord) {
		cur.words = append(cur.words, w)
		cur.width += w.width
		if w.size > cur.size {
			cur.size = w.size
		}
	}

	for _, tok := range tokens {
		if tok.newline {
			if cur.size == 0 {
				cur.size = tok.size
			}
			flush(true)
			continue
		}
		if tok.card != nil {
			flush(false)
			lines = append(lines, textLine{card: tok.card})
			continue
		}
		for _, seg := range splitTextPreserveSpaces(tok.text) {
			w := styledWord{
				text: seg, font: tok.font, size: tok.size, color: tok.color,
				underline: tok.underline, strike: tok.strike,
				width: measureWidth(tok.font, tok.size, seg),
			}
			if unicode.IsSpace([]rune(seg)[0]) {
				if len(cur.words) > 0 {
					add(w)
				}
				continue
			}
			if w.width > maxWidth {
				for _, part := range breakLongToken(tok.font, tok.size, seg, maxWidth) {
					pw := w
					pw.text, pw.width = part, measureWidth(tok.font, tok.size, part)
					if cur.width+pw.width > maxWidth && len(cur.words) > 0 {
						flush(false)
					}
					add(pw)
				}
				continue
			}
			if cur.width+w.width > maxWidth && len(cur.words) > 0 {
				flush(false)
			}
			add(w)
		}
	}
	flush(false)
	return lines
}

// ---- Painter ----

type painter struct {
	ctx    context.Context
	c      *canvas
	assets *Assets
	logger *log.Logger
}

func (p *painter) fontFor(bold, italic, mono bool) *FontAndFace {
	switch {
	case mono:
		return p.c.fonts.Mono
	case bold:
		return p.c.fonts.Bold
	case italic:
		return p.c.fonts.Italic
	default:
		return p.c.fonts.Regular
	}
}

// tokens converts spans to text tokens in style st. Font sizes stay in CSS
// pixels; widths are measured in device pixels.
func (p *painter) tokens(spans []node.Span, st node.Style) []textToken {
	size := st.FontSize
	var out []textToken
	addText := func(text string, tok textToken) {
		parts := strings.Split(text, "\n")
		for i, part := range parts {
			if part != "" {
				t := tok
				t.text = part
				out = append(out, t)
			}
			if i < len(parts)-1 {
				out = append(out, textToken{newline: true, size: size})
			}
		}
	}

	for _, span := range spans {
		switch s := span.(type) {
		case *node.Text:
			for _, run := range s.Runs {
				tok := textToken{
					font:   p.fontFor(run.Bold || st.Bold(), run.Italic || st.Italic, run.Code),
					size:   size,
					color:  st.Color,
					strike: run.Strike,
				}
				if run.Code {
					tok.size = size * 0.95
				}
				if run.Link != "" {
					tok.color, tok.underline = node.ClickColor, true
				}
				addText(run.Text, tok)
			}
		case *node.Click:
			addText(s.Text, textToken{
				font:      p.fontFor(st.Bold(), st.Italic, false),
				size:      size,
				color:     node.ClickStyle.Color,
				underline: true,
			})
		case *node.Card:
			prod := s.Product
			out = append(out, textToken{card: &prod})
		}
	}
	return out
}

func lineHeightPx(size, factor float64) int {
	if factor <= 0 {
		factor = 1.4
	}
	return int(math.Round(size * factor))
}

func baselineFor(top int, size float64, lineH int) int {
	return top + (lineH-int(size))/2 + int(size*0.85)
}

func (p *painter) linesHeight(lines []textLine, factor, fallbackSize float64) int {
	h := 0
	for _, ln := range lines {
		if ln.card != nil {
			h += p.c.px(cardHeight + cardGap)
			continue
		}
		size := ln.size
		if size == 0 {
			size = fallbackSize
		}
		h += lineHeightPx(size*p.c.scale, factor)
	}
	return h
}

// paintLines draws lines from top and returns the y below the last line.
func (p *painter) paintLines(lines []textLine, left, top, width int, factor, fallbackSize float64, align node.Align) int {
	y := top
	for _, ln := range lines {
		if ln.card != nil {
			y += p.paintCard(*ln.card, left, y, width) + p.c.px(cardGap)
			continue
		}
		size := ln.size
		if size == 0 {
			size = fallbackSize
		}
		sizePx := size * p.c.scale
		lineH := lineHeightPx(sizePx, factor)
		baseline := baselineFor(y, sizePx, lineH)
		x := left
		if align == node.AlignCenter && int(ln.width) < width {
			x += (width - int(ln.width)) / 2
		}
		for _, w := range ln.words {
			adv := int(w.width)
			p.c.drawString(w.font, w.color, w.size, w.text, x, baseline)
			if w.underline && adv > 0 {
				uy := baseline + int(math.Max(1, w.size*p.c.scale*0.12))
				p.c.fill(image.Rect(x, uy, x+adv, uy+p.c.px(1)), w.color)
			}
			if w.strike && adv > 0 {
				sy := baseline - int(w.size*p.c.scale*0.3)
				p.c.fill(image.Rect(x, sy, x+adv, sy+p.c.px(1)), w.color)
			}
			x += adv
		}
		y += lineH
	}
	return y
}

// paintBlock draws spans inside box with st's padding, background and left
// bar. The background is at least as tall as box. It returns the bottom y.
func (p *painter) paintBlock(spans []node.Span, st node.Style, box image.Rectangle) int {
	c := p.c
	border := c.px(float64(st.BorderLeft))
	padX, padY := c.px(float64(st.PaddingX)), c.px(float64(st.PaddingY))
	left := box.Min.X + border + padX
	right := box.Max.X - padX
	size := st.FontSize

	lines := layoutTokens(p.tokens(spans, st), float64(right-left))
	height := p.linesHeight(lines, st.LineHeight, size) + 2*padY
	if height < box.Dy() && (st.Background.A > 0 || border > 0) {
		height = box.Dy()
	}
	bg := image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+height)
	if st.Background.A > 0 {
		c.fill(bg, st.Background)
	}
	if border > 0 {
		c.fill(image.Rect(bg.Min.X, bg.Min.Y, bg.Min.X+border, bg.Max.Y), st.BorderColor)
	}
	p.paintLines(lines, left, box.Min.Y+padY, right-left, st.LineHeight, size, st.Align)
	return bg.Max.Y
}

func (p *painter) paintList(n *node.List, box image.Rectangle) int {
	c := p.c
	markerW, gap := c.px(listMarkerWidth), c.px(listMarkerGap)
	contentLeft := box.Min.X + markerW + gap
	itemStyle := n.Style
	itemStyle.MarginBottom = node.ListItemStyle.MarginBottom
	size := itemStyle.FontSize
	markerSize := n.MarkerStyle.FontSize

	y := box.Min.Y
	for _, item := range n.Items {
		lines := layoutTokens(p.tokens(item.Content, itemStyle), float64(box.Max.X-contentLeft))
		firstSize := size
		if len(lines) > 0 && lines[0].size > 0 {
			firstSize = lines[0].size
		}
		lineH := lineHeightPx(firstSize*c.scale, itemStyle.LineHeight)
		baseline := baselineFor(y, firstSize*c.scale, lineH)

		markerFont := p.fontFor(n.MarkerStyle.Bold(), false, false)
		mw := int(measureWidth(markerFont, markerSize, item.Marker))
		mx := box.Min.X + markerW - mw
		if mx < box.Min.X {
			mx = box.Min.X
		}
		c.drawString(markerFont, n.MarkerStyle.Color, markerSize, item.Marker, mx, baseline)

		y = p.paintLines(lines, contentLeft, y, box.Max.X-contentLeft, itemStyle.LineHeight, size, itemStyle.Align)
		if len(lines) == 0 {
			y += lineH
		}
		y += c.px(float64(itemStyle.MarginBottom))
	}
	return y
}

func (p *painter) paintTable(n *node.Table, box image.Rectangle) int {
	c := p.c
	rows := make([][]node.Cell, 0, len(n.Rows)+1)
	if len(n.Header) > 0 {
		rows = append(rows, n.Header)
	}
	rows = append(rows, n.Rows...)

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return box.Min.Y
	}

	border := c.px(1)
	if border < 1 {
		border = 1
	}
	colWidth := (box.Dx() - border*(colCount+1)) / colCount
	if colWidth < 1 {
		colWidth = 1
	}
	tableLeft := box.Min.X
	tableRight := tableLeft + colCount*colWidth + border*(colCount+1)
	borderColor := n.CellStyle.BorderColor

	y := box.Min.Y
	c.fill(image.Rect(tableLeft, y, tableRight, y+border), borderColor)
	y += border

	for ri, row := range rows {
		st := n.CellStyle
		if ri == 0 && len(n.Header) > 0 {
			st = n.HeaderStyle
		}
		padX, padY := c.px(float64(st.PaddingX)), c.px(float64(st.PaddingY))
		size := st.FontSize
		inner := colWidth - 2*padX
		if inner < 1 {
			inner = colWidth
			padX = 0
		}

		cells := make([][]textLine, colCount)
		maxH := lineHeightPx(size*c.scale, st.LineHeight)
		for col := 0; col < colCount; col++ {
			if col < len(row) {
				cells[col] = layoutTokens(p.tokens(row[col], st), float64(inner))
			}
			if h := p.linesHeight(cells[col], st.LineHeight, size); h > maxH {
				maxH = h
			}
		}
		rowBottom := y + maxH + 2*padY

		if st.Background.A > 0 {
			c.fill(image.Rect(tableLeft+border, y, tableRight-border, rowBottom), st.Background)
		}
		for col := 0; col < colCount; col++ {
			cellLeft := tableLeft + border + col*(colWidth+border)
			p.paintLines(cells[col], cellLeft+padX, y+padY, inner, st.LineHeight, size, st.Align)
		}
		c.fill(image.Rect(tableLeft, rowBottom, tableRight, rowBottom+border), borderColor)
		y = rowBottom + border
	}

	for col := 0; col <= colCount; col++ {
		x := tableLeft + col*(colWidth+border)
		c.fill(image.Rect(x, box.Min.Y, x+border, y), borderColor)
	}
	return y
}

// paintCard draws a product card and returns its height in device pixels.
func (p *painter) paintCard(prod node.Product, left, top, width int) int {
	c := p.c
	h := c.px(cardHeight)
	box := image.Rect(left, top, left+width, top+h)
	c.fill(box, c.th.CardBG)
	c.outline(box, c.th.CardBorder, 0)

	pad := c.px(cardPad)
	imgBox := image.Rect(left+pad, top+pad, left+pad+c.px(cardImage), top+pad+c.px(cardImage))
	c.fill(imgBox, c.th.Placeholder)
	if prod.ImageURL != "" && p.assets != nil {
		img, err := p.assets.Image(p.ctx, prod.ImageURL)
		if err != nil {
			p.logger.Warn("product image unavailable, drawing placeholder", "sku", prod.SKU, "src", prod.ImageURL, "err", err)
		} else {
			scaled := scaleImageToFit(img, imgBox.Dx(), imgBox.Dy())
			sb := scaled.Bounds()
			at := image.Pt(imgBox.Min.X+(imgBox.Dx()-sb.Dx())/2, imgBox.Min.Y+(imgBox.Dy()-sb.Dy())/2)
			draw.Draw(c.img, sb.Add(at), scaled, sb.Min, draw.Over)
		}
	}

	textLeft := imgBox.Max.X + pad
	textWidth := box.Max.X - pad - textLeft
	y := top + pad

	titleSpans := []node.Span{&node.Text{Runs: []inline.Run{{Text: prod.Title}}}}
	titleSize := node.CardTitleStyle.FontSize
	title := layoutTokens(p.tokens(titleSpans, node.CardTitleStyle), float64(textWidth))
	if len(title) > 2 {
		title = title[:2]
	}
	y = p.paintLines(title, textLeft, y, textWidth, 1.3, titleSize, node.AlignLeft)

	if prod.Reason != "" {
		reasonSpans := []node.Span{&node.Text{Runs: []inline.Run{{Text: prod.Reason}}}}
		reasonSize := node.CardReasonStyle.FontSize
		reason := layoutTokens(p.tokens(reasonSpans, node.CardReasonStyle), float64(textWidth))
		if len(reason) > 1 {
			reason = reason[:1]
		}
		p.paintLines(reason, textLeft, y, textWidth, 1.3, reasonSize, node.AlignLeft)
	}

	priceStyle := node.CardPriceStyle
	priceSize := priceStyle.FontSize
	baseline := box.Max.Y - pad - int(priceSize*c.scale*0.2)
	x := textLeft
	x += c.drawString(c.fonts.Bold, priceStyle.Color, priceSize*0.75, prod.Price.Currency, x, baseline)
	x += c.drawString(c.fonts.Bold, priceStyle.Color, priceSize, priceNumber(prod.Price), x, baseline)
	if prod.Label != "" {
		x += c.px(4)
		c.drawString(c.fonts.Regular, node.CardReasonStyle.Color, node.CardReasonStyle.FontSize, prod.Label, x, baseline)
	}
	return h
}

func priceNumber(p inline.Price) string {
	return strings.TrimPrefix(p.String(), p.Currency)
}

func (p *painter) paintNode(n node.Node, box image.Rectangle) int {
	switch n := n.(type) {
	case *node.Heading:
		return p.paintBlock(n.Content, n.Style, box)
	case *node.Paragraph:
		return p.paintBlock(n.Content, n.Style, box)
	case *node.Quote:
		return p.paintBlock(n.Content, n.Style, box)
	case *node.List:
		return p.paintList(n, box)
	case *node.Table:
		return p.paintTable(n, box)
	default:
		return box.Min.Y
	}
}

// ---- Phone frame ----

func (p *painter) paintStatusBar(clock string) {
	c := p.c
	r := c.rect(layout.StatusBar.Bounds)
	baseline := baselineFor(r.Min.Y, statusBarFontSize*c.scale, r.Dy())
	c.drawString(c.fonts.Bold, c.th.FG, statusBarFontSize, clock, r.Min.X, baseline)

	// battery, then wifi and signal bars to its left
	bw, bh := c.px(25), c.px(12)
	battery := image.Rect(r.Max.X-bw-c.px(2), baseline-bh, r.Max.X-c.px(2), baseline)
	c.fill(battery, c.th.FG)
	c.fill(image.Rect(battery.Max.X, battery.Min.Y+c.px(3), battery.Max.X+c.px(2), battery.Min.Y+c.px(9)), c.th.FG)

	wifi := image.Rect(battery.Min.X-c.px(4)-c.px(15), baseline-c.px(12), battery.Min.X-c.px(4), baseline+c.px(3))
	c.disc(wifi, c.th.FG)
	c.fill(image.Rect(wifi.Min.X, wifi.Min.Y+wifi.Dy()/2+c.px(2), wifi.Max.X, wifi.Max.Y), c.th.Bar)

	x := wifi.Min.X - c.px(4) - c.px(18)
	for i, h := range []float64{3, 6, 9, 12} {
		bx := x + i*c.px(4)
		c.fill(image.Rect(bx, baseline-c.px(h), bx+c.px(3), baseline), c.th.FG)
	}
}

func (p *painter) paintInputBar(placeholder string) {
	c := p.c
	r := c.rect(layout.BottomNav.Bounds)
	c.fill(r, c.th.Bar)
	c.fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+int(math.Max(1, c.scale*0.5))), c.th.BarBorder)

	pad := c.px(12)
	cy := r.Min.Y + c.px(12) + c.px(inputPillHeight)/2
	icon := c.px(inputIconSize)
	c.disc(image.Rect(r.Min.X+pad, cy-icon/2, r.Min.X+pad+icon, cy+icon/2), c.th.FG)
	c.disc(image.Rect(r.Max.X-pad-icon, cy-icon/2, r.Max.X-pad, cy+icon/2), c.th.FG)

	pill := image.Rect(r.Min.X+pad+icon+pad, cy-c.px(inputPillHeight)/2, r.Max.X-pad-icon-pad, cy+c.px(inputPillHeight)/2)
	c.fill(pill, c.th.InputBG)
	c.drawString(c.fonts.Regular, node.ReasonColor, 14, placeholder, pill.Min.X+c.px(12), baselineFor(pill.Min.Y, 14*c.scale, pill.Dy()))
}

func (p *painter) paintBounds(elements []layout.Rendered[node.Node]) {
	for _, r := range layout.Regions() {
		p.c.outline(p.c.rect(r.Bounds), p.c.th.Debug, p.c.px(4))
	}
	for _, el := range elements {
		p.c.outline(p.c.rect(el.Position.Rect()), p.c.th.Debug, 0)
	}
}
