// Package md2chat turns chat-style Markdown into a mobile chat preview.
//
// Build runs the pure pipeline (inline tokens, block parse, materialize,
// layout) and returns a Preview. A Preview can be rasterized to an image,
// exported as HTML by package htmlout, or serialised as JSON.
package md2chat

import (
	"context"
	"image"
	"io"

	"github.com/charmbracelet/log"

	"github.com/humblebanana/md2chat/errors"
	"github.com/humblebanana/md2chat/inline"
	"github.com/humblebanana/md2chat/layout"
	"github.com/humblebanana/md2chat/markdown"
	"github.com/humblebanana/md2chat/node"
)

// Element is a positioned visual node.
type Element = layout.Rendered[node.Node]

// Defaults for RenderOptions.
const (
	DefaultScale       = 2
	DefaultClock       = "6:18"
	DefaultPlaceholder = "Ask me anything"
)

// BuildOptions configure Build.
type BuildOptions struct {
	// Catalog supplies product card data. Unknown ids use a fallback card.
	Catalog node.Catalog
}

// Preview is one processed document.
type Preview struct {
	Document markdown.Document `json:"document"`
	Elements []Element         `json:"elements"`
	Tokens   *inline.Tokens    `json:"-"`
}

// Build parses text and lays it out on the phone canvas. It never fails:
// malformed markup degrades to paragraphs and unmapped elements are dropped.
func Build(text string, opts BuildOptions) *Preview {
	stripped, toks := inline.ExtractTokens(text)
	doc := markdown.Parse(stripped).WithStats(text)
	m := &node.Materializer{Tokens: toks, Catalog: opts.Catalog}
	return &Preview{
		Document: doc,
		Elements: layout.Render(doc.Elements, m.Materialize),
		Tokens:   toks,
	}
}

// Records returns the parsed elements with inline tokens restored to
// readable text.
func (p *Preview) Records() []markdown.Record {
	records := markdown.ToRecords(p.Document.Elements)
	for i := range records {
		p.restore(&records[i])
	}
	return records
}

// restore rewrites r in place. Metadata slices alias the parsed document,
// so they are copied before rewriting.
func (p *Preview) restore(r *markdown.Record) {
	r.Content = p.Tokens.Plain(r.Content)
	if r.Metadata != nil {
		m := *r.Metadata
		m.Columns = p.plainAll(m.Columns)
		if m.Rows != nil {
			rows := make([][]string, len(m.Rows))
			for i, row := range m.Rows {
				rows[i] = p.plainAll(row)
			}
			m.Rows = rows
		}
		r.Metadata = &m
	}
	for i := range r.Children {
		p.restore(&r.Children[i])
	}
}

func (p *Preview) plainAll(cells []string) []string {
	if cells == nil {
		return nil
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = p.Tokens.Plain(c)
	}
	return out
}

// Unmapped lists parsed elements that have no region and were not laid out.
func (p *Preview) Unmapped() []markdown.Element {
	return layout.Unmapped(p.Document.Elements)
}

// Overflowing lists elements clamped to the bottom of their region.
func (p *Preview) Overflowing() []Element {
	var out []Element
	for _, el := range p.Elements {
		if el.Overflow {
			out = append(out, el)
		}
	}
	return out
}

// Products returns every product card in layout order.
func (p *Preview) Products() []node.Product {
	var out []node.Product
	for _, el := range p.Elements {
		switch n := el.Node.(type) {
		case *node.Heading:
			out = append(out, node.Cards(n.Content)...)
		case *node.Paragraph:
			out = append(out, node.Cards(n.Content)...)
		case *node.Quote:
			out = append(out, node.Cards(n.Content)...)
		case *node.List:
			for _, item := range n.Items {
				out = append(out, node.Cards(item.Content)...)
			}
		case *node.Table:
			for _, c := range n.Header {
				out = append(out, node.Cards(c)...)
			}
			for _, row := range n.Rows {
				for _, c := range row {
					out = append(out, node.Cards(c)...)
				}
			}
		}
	}
	return out
}

// RenderOptions configure rasterization. Zero values enable defaults: light
// theme, scale 2, bundled fonts, no product images.
type RenderOptions struct {
	Theme Theme
	// Fonts names TTF files; empty paths use the bundled Go fonts. Its
	// Scale is overridden by RenderOptions.Scale.
	Fonts FontConfig
	// FontSet, when set, supplies pre-parsed fonts and Fonts is not read.
	FontSet *FontSet
	Scale   float64
	// Assets loads product images; nil draws placeholders.
	Assets      *Assets
	Logger      *log.Logger
	ShowBounds  bool
	Clock       string
	Placeholder string
	Catalog     node.Catalog
}

func (o *RenderOptions) defaults() {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if (o.Theme == Theme{}) {
		o.Theme = lightTheme
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Clock == "" {
		o.Clock = DefaultClock
	}
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	o.Fonts.Scale = o.Scale
}

// Rasterize paints the preview on a 374x2250 canvas multiplied by Scale.
// Image failures fall back to placeholders; only font errors are returned.
func (p *Preview) Rasterize(ctx context.Context, opts RenderOptions) (*image.RGBA, error) {
	opts.defaults()
	set := opts.FontSet
	if set == nil {
		var err error
		if set, err = NewFontSet(opts.Fonts); err != nil {
			return nil, err
		}
	}
	if set.Regular == nil || set.Bold == nil || set.Italic == nil || set.Mono == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "incomplete font configuration")
	}
	fonts := set.Faces(opts.Scale)

	c := newCanvas(opts.Theme, fonts, opts.Scale)
	pt := &painter{ctx: ctx, c: c, assets: opts.Assets, logger: opts.Logger}

	pt.paintStatusBar(opts.Clock)
	for _, el := range p.Elements {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "rasterize")
		}
		box := c.rect(el.Position.Rect())
		bottom := pt.paintNode(el.Node, box)
		opts.Logger.Debug("painted element", "id", el.ID, "type", el.Type, "area", el.TargetArea, "bottom", bottom)
	}
	pt.paintInputBar(opts.Placeholder)
	if opts.ShowBounds {
		pt.paintBounds(p.Elements)
	}
	return c.img, nil
}

// Render builds data and rasterizes it in one call.
func Render(ctx context.Context, data []byte, opts RenderOptions) (*image.RGBA, error) {
	text := string(data)
	if err := errors.ValidateDocument(text); err != nil {
		return nil, err
	}
	return Build(text, BuildOptions{Catalog: opts.Catalog}).Rasterize(ctx, opts)
}
