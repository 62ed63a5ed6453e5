package md2chat

import (
	"image/color"
	"strings"

	"github.com/humblebanana/md2chat/errors"
)

// Theme holds the colors of the phone frame around the content. Element
// text colors come from node styles.
type Theme struct {
	BG          color.RGBA
	FG          color.RGBA
	Bar         color.RGBA
	BarBorder   color.RGBA
	InputBG     color.RGBA
	Placeholder color.RGBA
	CardBG      color.RGBA
	CardBorder  color.RGBA
	Debug       color.RGBA
}

var (
	lightTheme = Theme{
		BG:          color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		FG:          color.RGBA{0x00, 0x00, 0x00, 0xFF},
		Bar:         color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		BarBorder:   color.RGBA{0xEB, 0xEB, 0xEB, 0xFF},
		InputBG:     color.RGBA{0xF7, 0xF8, 0xFC, 0xFF},
		Placeholder: color.RGBA{0xEE, 0xEE, 0xEE, 0xFF},
		CardBG:      color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		CardBorder:  color.RGBA{0xE5, 0xE7, 0xEB, 0xFF},
		Debug:       color.RGBA{0xFF, 0x00, 0x00, 0x80},
	}
	darkTheme = Theme{
		BG:          color.RGBA{0x12, 0x12, 0x14, 0xFF},
		FG:          color.RGBA{0xEE, 0xEE, 0xF0, 0xFF},
		Bar:         color.RGBA{0x1C, 0x1C, 0x1F, 0xFF},
		BarBorder:   color.RGBA{0x33, 0x33, 0x36, 0xFF},
		InputBG:     color.RGBA{0x2A, 0x2A, 0x2E, 0xFF},
		Placeholder: color.RGBA{0x33, 0x33, 0x36, 0xFF},
		CardBG:      color.RGBA{0x1E, 0x1E, 0x22, 0xFF},
		CardBorder:  color.RGBA{0x44, 0x44, 0x48, 0xFF},
		Debug:       color.RGBA{0xFF, 0x40, 0x40, 0x80},
	}
)

// LightTheme and DarkTheme expose the built-in themes.
var (
	LightTheme = lightTheme
	DarkTheme  = darkTheme
)

// ThemeByName returns a built-in theme by name ("light" or "dark").
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light", "":
		return lightTheme, nil
	case "dark":
		return darkTheme, nil
	default:
		return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme: %s", name)
	}
}
