// Package htmlout exports a Preview as a standalone HTML page: a phone frame
// with every element absolutely positioned at its computed overlay position.
package htmlout

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/humblebanana/md2chat"
	"github.com/humblebanana/md2chat/errors"
	"github.com/humblebanana/md2chat/inline"
	"github.com/humblebanana/md2chat/layout"
	"github.com/humblebanana/md2chat/node"
)

// Options configure the exported page.
type Options struct {
	Title       string
	Theme       md2chat.Theme
	ShowBounds  bool
	Clock       string
	Placeholder string
}

func (o *Options) defaults() {
	if o.Title == "" {
		o.Title = "md2chat preview"
	}
	if (o.Theme == md2chat.Theme{}) {
		o.Theme = md2chat.LightTheme
	}
	if o.Clock == "" {
		o.Clock = md2chat.DefaultClock
	}
	if o.Placeholder == "" {
		o.Placeholder = md2chat.DefaultPlaceholder
	}
}

// Write renders p as an HTML document.
func Write(w io.Writer, p *md2chat.Preview, opts Options) error {
	if err := html.Render(w, Document(p, opts)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render html")
	}
	return nil
}

// Document builds the HTML tree for p.
func Document(p *md2chat.Preview, opts Options) *html.Node {
	opts.defaults()
	th := opts.Theme

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := elem(atom.Html, "lang", "zh")
	doc.AppendChild(root)

	head := elem(atom.Head)
	head.AppendChild(elem(atom.Meta, "charset", "utf-8"))
	head.AppendChild(elem(atom.Meta, "name", "viewport", "content", "width=device-width, initial-scale=1"))
	head.AppendChild(withText(elem(atom.Title), opts.Title))
	head.AppendChild(withText(elem(atom.Style), stylesheet(th)))
	root.AppendChild(head)

	body := elem(atom.Body)
	root.AppendChild(body)

	phone := elem(atom.Div, "class", "phone")
	body.AppendChild(phone)

	phone.AppendChild(statusBar(opts.Clock))
	for _, el := range p.Elements {
		phone.AppendChild(element(p, el))
	}
	phone.AppendChild(inputBar(opts.Placeholder))

	if opts.ShowBounds {
		for _, r := range layout.Regions() {
			phone.AppendChild(elem(atom.Div,
				"class", "region-bounds",
				"data-region", r.ID,
				"style", OverlayStyle(layout.Position{X: r.Bounds.X, Y: r.Bounds.Y, Width: r.Bounds.W, Height: r.Bounds.H}),
			))
		}
	}
	return doc
}

// OverlayStyle is the absolute positioning CSS for an element.
func OverlayStyle(pos layout.Position) string {
	return fmt.Sprintf("position:absolute;left:%dpx;top:%dpx;width:%dpx;min-height:%dpx;z-index:%d",
		pos.X, pos.Y, pos.Width, pos.Height, pos.ZIndex)
}

// CSS converts a node style to inline declarations.
func CSS(st node.Style) string {
	var b strings.Builder
	decl := func(k, v string) {
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte(';')
	}
	if st.FontSize > 0 {
		decl("font-size", px(st.FontSize))
	}
	if st.FontWeight > 0 {
		decl("font-weight", strconv.Itoa(st.FontWeight))
	}
	if st.LineHeight > 0 {
		decl("line-height", strconv.FormatFloat(st.LineHeight, 'f', -1, 64))
	}
	if st.Color.A > 0 {
		decl("color", node.Hex(st.Color))
	}
	if st.Background.A > 0 {
		decl("background-color", node.Hex(st.Background))
	}
	if st.Italic {
		decl("font-style", "italic")
	}
	if st.Underline {
		decl("text-decoration", "underline")
	}
	if st.MarginBottom > 0 {
		decl("margin-bottom", px(float64(st.MarginBottom)))
	}
	if st.PaddingX > 0 || st.PaddingY > 0 {
		decl("padding", px(float64(st.PaddingY))+" "+px(float64(st.PaddingX)))
	}
	if st.BorderLeft > 0 {
		decl("border-left", px(float64(st.BorderLeft))+" solid "+node.Hex(st.BorderColor))
	}
	if st.Align != "" && st.Align != node.AlignLeft {
		decl("text-align", string(st.Align))
	}
	return strings.TrimSuffix(b.String(), ";")
}

func px(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + "px" }

func element(p *md2chat.Preview, el md2chat.Element) *html.Node {
	box := elem(atom.Div,
		"class", "md2chat-element",
		"id", el.ID,
		"data-type", string(el.Type),
		"data-area", el.TargetArea,
		"style", OverlayStyle(el.Position),
	)
	if el.Overflow {
		setAttr(box, "data-overflow", "true")
	}
	if n := renderNode(el.Node); n != nil {
		box.AppendChild(n)
	}
	return box
}

func renderNode(n node.Node) *html.Node {
	switch n := n.(type) {
	case *node.Heading:
		level := n.Level
		if level < 1 || level > 6 {
			level = 1
		}
		h := elem(atom.Lookup([]byte("h"+strconv.Itoa(level))), "style", CSS(n.Style)+";margin:0")
		appendSpans(h, n.Content)
		return h
	case *node.Paragraph:
		para := elem(atom.Div, "class", "paragraph", "style", CSS(n.Style)+";margin:0")
		appendSpans(para, n.Content)
		return para
	case *node.Quote:
		q := elem(atom.Blockquote, "style", CSS(n.Style)+";margin:0")
		appendSpans(q, n.Content)
		return q
	case *node.List:
		tag := atom.Ul
		if n.Ordered {
			tag = atom.Ol
		}
		list := elem(tag, "style", CSS(n.Style)+";list-style:none;margin:0;padding:0")
		for _, item := range n.Items {
			li := elem(atom.Li, "style", "display:flex;"+CSS(node.ListItemStyle))
			li.AppendChild(withText(elem(atom.Span, "class", "marker", "style", CSS(n.MarkerStyle)+";margin-right:8px"), item.Marker))
			content := elem(atom.Span)
			appendSpans(content, item.Content)
			li.AppendChild(content)
			list.AppendChild(li)
		}
		return list
	case *node.Table:
		table := elem(atom.Table, "style", CSS(n.Style)+";width:100%;border-collapse:collapse")
		if len(n.Header) > 0 {
			thead := elem(atom.Thead)
			tr := elem(atom.Tr)
			for _, c := range n.Header {
				th := elem(atom.Th, "style", cellCSS(n.HeaderStyle))
				appendSpans(th, c)
				tr.AppendChild(th)
			}
			thead.AppendChild(tr)
			table.AppendChild(thead)
		}
		tbody := elem(atom.Tbody)
		for _, row := range n.Rows {
			tr := elem(atom.Tr)
			for _, c := range row {
				td := elem(atom.Td, "style", cellCSS(n.CellStyle))
				appendSpans(td, c)
				tr.AppendChild(td)
			}
			tbody.AppendChild(tr)
		}
		table.AppendChild(tbody)
		return table
	}
	return nil
}

func cellCSS(st node.Style) string {
	return CSS(st) + ";border:1px solid " + node.Hex(st.BorderColor)
}

func appendSpans(parent *html.Node, spans []node.Span) {
	for _, s := range spans {
		switch s := s.(type) {
		case *node.Text:
			for _, run := range s.Runs {
				parent.AppendChild(runNode(run))
			}
		case *node.Click:
			parent.AppendChild(withText(elem(atom.Span, "class", "click-text", "style", CSS(node.ClickStyle)), s.Text))
		case *node.Card:
			parent.AppendChild(card(s.Product))
		}
	}
}

// runNode wraps a styled run in nested inline elements.
func runNode(run inline.Run) *html.Node {
	n := &html.Node{Type: html.TextNode, Data: run.Text}
	wrap := func(a atom.Atom, attrs ...string) {
		w := elem(a, attrs...)
		w.AppendChild(n)
		n = w
	}
	if run.Code {
		wrap(atom.Code)
	}
	if run.Strike {
		wrap(atom.Del)
	}
	if run.Italic {
		wrap(atom.Em)
	}
	if run.Bold {
		wrap(atom.Strong)
	}
	if run.Link != "" {
		wrap(atom.A, "href", run.Link, "style", "color:"+node.Hex(node.ClickColor))
	}
	return n
}

func card(p node.Product) *html.Node {
	c := elem(atom.Div, "class", "product-card", "data-sku", p.SKU)
	if p.ImageURL != "" {
		c.AppendChild(elem(atom.Img, "class", "product-image", "src", p.ImageURL, "alt", p.Title))
	} else {
		c.AppendChild(elem(atom.Div, "class", "product-image placeholder"))
	}

	info := elem(atom.Div, "class", "product-info")
	info.AppendChild(withText(elem(atom.Div, "class", "product-title", "style", CSS(node.CardTitleStyle)), p.Title))
	if p.Reason != "" {
		info.AppendChild(withText(elem(atom.Div, "class", "product-reason", "style", CSS(node.CardReasonStyle)), p.Reason))
	}
	price := elem(atom.Div, "class", "product-price", "style", CSS(node.CardPriceStyle))
	price.AppendChild(withText(elem(atom.Span, "class", "currency"), p.Price.Currency))
	price.AppendChild(&html.Node{Type: html.TextNode, Data: strings.TrimPrefix(p.Price.String(), p.Price.Currency)})
	if p.Label != "" {
		price.AppendChild(withText(elem(atom.Span, "class", "price-label"), p.Label))
	}
	info.AppendChild(price)
	c.AppendChild(info)

	if p.URL != "" {
		a := elem(atom.A, "href", p.URL, "class", "product-link")
		a.AppendChild(c)
		return a
	}
	return c
}

func statusBar(clock string) *html.Node {
	bar := elem(atom.Div, "class", "status-bar", "style", OverlayStyle(layout.Position{
		X: layout.StatusBar.Bounds.X, Y: layout.StatusBar.Bounds.Y,
		Width: layout.StatusBar.Bounds.W, Height: layout.StatusBar.Bounds.H,
	}))
	bar.AppendChild(withText(elem(atom.Span, "class", "clock"), clock))
	icons := elem(atom.Span, "class", "status-icons")
	signal := elem(atom.Span, "class", "signal")
	for _, h := range []int{3, 6, 9, 12} {
		signal.AppendChild(elem(atom.I, "style", "height:"+strconv.Itoa(h)+"px"))
	}
	icons.AppendChild(signal)
	icons.AppendChild(elem(atom.Span, "class", "battery"))
	bar.AppendChild(icons)
	return bar
}

func inputBar(placeholder string) *html.Node {
	b := layout.BottomNav.Bounds
	bar := elem(atom.Div, "class", "input-bar", "style", OverlayStyle(layout.Position{X: b.X, Y: b.Y, Width: b.W, Height: b.H}))
	bar.AppendChild(elem(atom.Span, "class", "icon"))
	bar.AppendChild(elem(atom.Input, "type", "text", "placeholder", placeholder, "readonly", ""))
	bar.AppendChild(elem(atom.Span, "class", "icon"))
	return bar
}

func stylesheet(th md2chat.Theme) string {
	return fmt.Sprintf(`body{margin:0;background:#f0f0f0;font-family:-apple-system,"PingFang SC","Microsoft YaHei",sans-serif}
.phone{position:relative;width:%dpx;height:%dpx;margin:0 auto;overflow:hidden;background:%s;color:%s}
.status-bar{display:flex;justify-content:space-between;align-items:center;font-size:14px;font-weight:600}
.status-icons{display:flex;gap:6px;align-items:flex-end}
.signal{display:flex;gap:1px;align-items:flex-end}
.signal i{display:block;width:3px;background:%s}
.battery{display:block;width:25px;height:12px;border-radius:3px;background:%s}
.input-bar{display:flex;align-items:center;gap:12px;padding:12px;box-sizing:border-box;background:%s;border-top:.5px solid rgba(0,0,0,.08)}
.input-bar .icon{width:24px;height:24px;border-radius:50%%;background:%s;flex:none}
.input-bar input{flex:1;height:36px;border:0;border-radius:18px;padding:0 12px;background:%s}
.product-card{display:flex;gap:8px;height:96px;padding:8px;box-sizing:border-box;margin:8px 0;background:%s;border:1px solid %s;border-radius:8px}
.product-image{width:80px;height:80px;object-fit:cover;flex:none;background:%s}
.product-info{display:flex;flex-direction:column;justify-content:space-between;min-width:0}
.product-title{overflow:hidden;display:-webkit-box;-webkit-line-clamp:2;-webkit-box-orient:vertical}
.product-price .currency{font-size:12px}
.product-price .price-label{margin-left:4px;font-size:11px;font-weight:400;color:%s}
.click-text{cursor:pointer}
.region-bounds{outline:1px dashed %s;pointer-events:none}
.md2chat-element[data-overflow]{outline:1px dotted %s}
`,
		layout.CanvasWidth, layout.CanvasHeight,
		rgb(th.BG), rgb(th.FG),
		rgb(th.FG), rgb(th.FG),
		rgb(th.Bar), rgb(th.FG), rgb(th.InputBG),
		rgb(th.CardBG), rgb(th.CardBorder), rgb(th.Placeholder),
		node.Hex(node.ReasonColor),
		rgb(th.Debug), rgb(th.Debug),
	)
}
