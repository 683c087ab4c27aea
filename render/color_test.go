package render

import (
	"image/color"
	"testing"
)

func TestColorHex(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  string
	}{
		{name: "basic red", color: BasicColor(1), want: "#aa0000"},
		{name: "basic yellow", color: BasicColor(3), want: "#aa5500"},
		{name: "bright red", color: BasicColor(9), want: "#ff5555"},
		{name: "basic clamped", color: BasicColor(99), want: "#ffffff"},
		{name: "xterm low", color: IndexedColor(3), want: "#aa5500"},
		{name: "cube origin", color: IndexedColor(16), want: "#000000"},
		{name: "cube blue", color: IndexedColor(21), want: "#0000ff"},
		{name: "cube red", color: IndexedColor(196), want: "#ff0000"},
		{name: "cube mixed", color: IndexedColor(110), want: "#87afd7"},
		{name: "gray start", color: IndexedColor(232), want: "#080808"},
		{name: "gray end", color: IndexedColor(255), want: "#eeeeee"},
		{name: "rgb clamped", color: RGBColor(-5, 128, 300), want: "#0080ff"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.color.Hex(); got != test.want {
				t.Errorf("Hex() = %s, want %s", got, test.want)
			}
		})
	}
}

func TestColorRGBA(t *testing.T) {
	var c color.Color = Color{}
	if _, _, _, a := c.RGBA(); a != 0 {
		t.Errorf("default color alpha = %d, want 0", a)
	}

	c = RGBColor(255, 0, 128)
	r, g, b, a := c.RGBA()
	if r != 0xffff || g != 0 || b != 0x8080 || a != 0xffff {
		t.Errorf("RGBA() = %x %x %x %x", r, g, b, a)
	}
}

func TestColorString(t *testing.T) {
	tests := map[string]Color{
		"default":    {},
		"red":        BasicColor(1),
		"bright-red": BasicColor(9),
		"color200":   IndexedColor(200),
		"#102030":    RGBColor(0x10, 0x20, 0x30),
	}

	for want, c := range tests {
		if got := c.String(); got != want {
			t.Errorf("String() = %s, want %s", got, want)
		}
	}
}
