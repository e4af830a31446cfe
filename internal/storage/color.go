package storage

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque RGB colour stored as "#rrggbb".
type Color struct {
	R, G, B uint8
}

// ParseColor accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(hex, "#")
	hex = strings.TrimPrefix(strings.ToLower(hex), "0x")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) RGBA() (r, g, b, a uint32) {
	return c.Opaque().RGBA()
}

func (c Color) Opaque() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Palette is the set of backgrounds the face cycles through.
var Palette = []Color{
	DefaultBackground,
	{R: 0x00, G: 0x00, B: 0x55},
	{R: 0x55, G: 0x00, B: 0x00},
	{R: 0x00, G: 0x00, B: 0x00},
	{R: 0x55, G: 0x55, B: 0x55},
	{R: 0xaa, G: 0x55, B: 0x00},
}

// NextInPalette returns the palette entry after c, or the first entry when c
// is not in the palette.
func NextInPalette(c Color) Color {
	for i, p := range Palette {
		if p == c {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}
