package md2chat

import (
	"encoding/json"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/humblebanana/md2chat/errors"
	"github.com/humblebanana/md2chat/layout"
	"github.com/humblebanana/md2chat/markdown"
	"github.com/humblebanana/md2chat/node"
)

// JPEGQuality is used for jpg output.
const JPEGQuality = 92

// EncodeImage writes img as png or jpeg.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		if err := png.Encode(w, img); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
		}
	case "jpg", "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode jpeg")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "not an image format: %s", format)
	}
	return nil
}

// Snapshot is the JSON export of a Preview.
type Snapshot struct {
	WordCount          int               `json:"wordCount"`
	ReadingTimeMinutes int               `json:"readingTimeMinutes"`
	Elements           []markdown.Record `json:"elements"`
	Layout             []LayoutEntry     `json:"layout"`
	Unmapped           []string          `json:"unmapped,omitempty"`
}

// LayoutEntry is one positioned element in a Snapshot.
type LayoutEntry struct {
	ID         string          `json:"id"`
	Type       markdown.Type   `json:"type"`
	Content    string          `json:"content"`
	Position   layout.Position `json:"position"`
	TargetArea string          `json:"targetArea"`
	Overflow   bool            `json:"overflow,omitempty"`
	Products   []node.Product  `json:"products,omitempty"`
	Children   []LayoutEntry   `json:"children,omitempty"`
}

// Snapshot returns the serialisable view of p.
func (p *Preview) Snapshot() Snapshot {
	s := Snapshot{
		WordCount:          p.Document.WordCount,
		ReadingTimeMinutes: p.Document.ReadingTimeMinutes,
		Elements:           p.Records(),
	}
	for _, el := range p.Elements {
		s.Layout = append(s.Layout, p.entry(el))
	}
	for _, el := range p.Unmapped() {
		s.Unmapped = append(s.Unmapped, el.Ident())
	}
	return s
}

func (p *Preview) entry(el Element) LayoutEntry {
	e := LayoutEntry{
		ID:         el.ID,
		Type:       el.Type,
		Content:    p.Tokens.Plain(el.Content),
		Position:   el.Position,
		TargetArea: el.TargetArea,
		Overflow:   el.Overflow,
		Products:   (&Preview{Elements: []Element{el}}).Products(),
	}
	for _, child := range el.Children {
		e.Children = append(e.Children, p.entry(child))
	}
	return e
}

// EncodeJSON writes the preview snapshot as indented JSON.
func EncodeJSON(w io.Writer, p *Preview) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p.Snapshot()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}
