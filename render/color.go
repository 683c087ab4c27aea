package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorMode tags which kind of color a Color holds
type ColorMode uint8

const (
	// ColorModeDefault is the presentation layer's default foreground or background
	ColorModeDefault ColorMode = iota
	// ColorModeBasic is one of the 16 ANSI colors (30-37, 90-97 and the background equivalents)
	ColorModeBasic
	// ColorMode256 is an xterm 256-color palette index (38;5;n)
	ColorMode256
	// ColorModeRGB is a 24-bit color (38;2;r;g;b)
	ColorModeRGB
)

func (m ColorMode) String() string {
	switch m {
	case ColorModeDefault:
		return "Default"
	case ColorModeBasic:
		return "Basic"
	case ColorMode256:
		return "256"
	case ColorModeRGB:
		return "RGB"
	default:
		return "Unknown"
	}
}

// Color is a foreground or background color. The zero value is the default color.
// Color implements image/color.Color so it can be handed straight to styling libraries;
// the default color reports itself as fully transparent.
type Color struct {
	Mode  ColorMode
	Value uint8
	R     uint8
	G     uint8
	B     uint8
}

var basicPalette = [16][3]uint8{
	{0x00, 0x00, 0x00}, {0xaa, 0x00, 0x00}, {0x00, 0xaa, 0x00}, {0xaa, 0x55, 0x00},
	{0x00, 0x00, 0xaa}, {0xaa, 0x00, 0xaa}, {0x00, 0xaa, 0xaa}, {0xaa, 0xaa, 0xaa},
	{0x55, 0x55, 0x55}, {0xff, 0x55, 0x55}, {0x55, 0xff, 0x55}, {0xff, 0xff, 0x55},
	{0x55, 0x55, 0xff}, {0xff, 0x55, 0xff}, {0x55, 0xff, 0xff}, {0xff, 0xff, 0xff},
}

// Names of the 16 basic colors, in palette order
var basicNames = [16]string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright-black", "bright-red", "bright-green", "bright-yellow",
	"bright-blue", "bright-magenta", "bright-cyan", "bright-white",
}

func clampComponent(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

// BasicColor returns one of the 16 ANSI colors. index is clamped to 0-15.
func BasicColor(index int) Color {
	return Color{Mode: ColorModeBasic, Value: uint8(max(0, min(15, index)))}
}

// IndexedColor returns an xterm 256-color palette entry. index is clamped to 0-255.
func IndexedColor(index int) Color {
	return Color{Mode: ColorMode256, Value: clampComponent(index)}
}

// RGBColor returns a 24-bit color. Each component is clamped to 0-255.
func RGBColor(r, g, b int) Color {
	return Color{Mode: ColorModeRGB, R: clampComponent(r), G: clampComponent(g), B: clampComponent(b)}
}

// IsDefault reports whether this is the presentation layer's default color
func (c Color) IsDefault() bool {
	return c.Mode == ColorModeDefault
}

func cubeComponent(v int) uint8 {
	if v == 0 {
		return 0
	}

	return uint8(55 + v*40)
}

func xtermRGB(index uint8) (uint8, uint8, uint8) {
	switch {
	case index < 16:
		p := basicPalette[index]
		return p[0], p[1], p[2]
	case index < 232:
		n := int(index) - 16
		return cubeComponent((n / 36) % 6), cubeComponent((n / 6) % 6), cubeComponent(n % 6)
	default:
		v := uint8(8 + (int(index)-232)*10)
		return v, v, v
	}
}

// RGB resolves the color to 8-bit components. The default color resolves to black;
// check IsDefault first when that matters.
func (c Color) RGB() (r, g, b uint8) {
	switch c.Mode {
	case ColorModeBasic:
		p := basicPalette[c.Value&0x0f]
		return p[0], p[1], p[2]
	case ColorMode256:
		return xtermRGB(c.Value)
	case ColorModeRGB:
		return c.R, c.G, c.B
	default:
		return 0, 0, 0
	}
}

// RGBA implements image/color.Color
func (c Color) RGBA() (r, g, b, a uint32) {
	if c.IsDefault() {
		return 0, 0, 0, 0
	}

	r8, g8, b8 := c.RGB()
	r, g, b = uint32(r8), uint32(g8), uint32(b8)
	return r | r<<8, g | g<<8, b | b<<8, 0xffff
}

// Hex renders the resolved color as #rrggbb
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}.Hex()
}

func (c Color) String() string {
	switch c.Mode {
	case ColorModeBasic:
		return basicNames[c.Value&0x0f]
	case ColorMode256:
		return fmt.Sprintf("color%d", c.Value)
	case ColorModeRGB:
		return c.Hex()
	default:
		return "default"
	}
}
