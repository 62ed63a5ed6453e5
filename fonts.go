package md2chat

import (
	"image"
	"image/color"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/humblebanana/md2chat/errors"
)

// FontAndFace pairs a parsed font with a face used for measuring.
type FontAndFace struct {
	Font     *truetype.Font
	Face     font.Face
	baseSize float64
	dpi      float64
}

// Fonts is the set of faces used by the raster sink.
type Fonts struct {
	Regular *FontAndFace
	Bold    *FontAndFace
	Italic  *FontAndFace
	Mono    *FontAndFace
}

// FontConfig points at TTF files; empty paths use the bundled Go fonts,
// which have no CJK glyphs. SizeBase is the measuring size in CSS pixels and
// Scale the device pixel ratio.
type FontConfig struct {
	RegularPath string
	BoldPath    string
	ItalicPath  string
	MonoPath    string
	SizeBase    float64
	Scale       float64
}

// FontSet holds parsed TTFs. Parsing is the expensive step, so a FontSet is
// built once and shared; Faces makes fresh, unshared faces per render since
// truetype faces cache glyphs and are not safe for concurrent use.
type FontSet struct {
	Regular  *truetype.Font
	Bold     *truetype.Font
	Italic   *truetype.Font
	Mono     *truetype.Font
	sizeBase float64
}

func parseFontFile(path string, fallback []byte) (*truetype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read font %s", path)
		}
		data = b
	}
	ft, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse font %q", path)
	}
	return ft, nil
}

// NewFontSet parses the fonts named by cfg, falling back to Go's bundled
// fonts for empty paths. cfg.Scale is ignored.
func NewFontSet(cfg FontConfig) (*FontSet, error) {
	s := &FontSet{sizeBase: cfg.SizeBase}
	if s.sizeBase <= 0 {
		s.sizeBase = 14
	}
	var err error
	if s.Regular, err = parseFontFile(cfg.RegularPath, goregular.TTF); err != nil {
		return nil, err
	}
	if s.Bold, err = parseFontFile(cfg.BoldPath, gobold.TTF); err != nil {
		return nil, err
	}
	if s.Italic, err = parseFontFile(cfg.ItalicPath, goitalic.TTF); err != nil {
		return nil, err
	}
	if s.Mono, err = parseFontFile(cfg.MonoPath, gomono.TTF); err != nil {
		return nil, err
	}
	return s, nil
}

// Faces builds measuring faces for every font at the given device scale.
func (s *FontSet) Faces(scale float64) Fonts {
	dpi := fontDPI(scale)
	face := func(ft *truetype.Font) *FontAndFace {
		return &FontAndFace{
			Font:     ft,
			Face:     truetype.NewFace(ft, &truetype.Options{Size: s.sizeBase, DPI: dpi, Hinting: font.HintingFull}),
			baseSize: s.sizeBase,
			dpi:      dpi,
		}
	}
	return Fonts{
		Regular: face(s.Regular),
		Bold:    face(s.Bold),
		Italic:  face(s.Italic),
		Mono:    face(s.Mono),
	}
}

// fontDPI maps CSS pixels to device pixels: at 72 DPI one point is one
// pixel, so sizes in CSS px render at their nominal size times scale.
func fontDPI(scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	return 72 * scale
}

// LoadFonts parses cfg and returns faces at cfg.Scale. When no custom paths
// are supplied it falls back to Go's bundled fonts.
func LoadFonts(cfg FontConfig) (Fonts, error) {
	s, err := NewFontSet(cfg)
	if err != nil {
		return Fonts{}, err
	}
	return s.Faces(cfg.Scale), nil
}

// measureWidth returns the advance of s in device pixels at the given size.
func measureWidth(fnt *FontAndFace, size float64, s string) float64 {
	if fnt == nil || s == "" {
		return 0
	}
	// the face was built at baseSize; scale linearly to size
	d := font.Drawer{Face: fnt.Face, Src: image.NewUniform(color.Black)}
	width := float64(d.MeasureString(s).Round())
	base := fnt.baseSize
	if base <= 0 {
		base = 1
	}
	if size <= 0 {
		size = base
	}
	if size != base {
		width *= size / base
	}
	return width
}
