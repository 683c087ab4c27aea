package utils

import (
	"image/color"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"github.com/moodclient/mudclient/render"
)

func TestANSIColor(t *testing.T) {
	tests := []struct {
		name  string
		color render.Color
		want  color.Color
	}{
		{name: "default", color: render.Color{}, want: nil},
		{name: "basic", color: render.BasicColor(9), want: ansi.BasicColor(9)},
		{name: "indexed", color: render.IndexedColor(110), want: ansi.ExtendedColor(110)},
		{name: "rgb", color: render.RGBColor(0x12, 0x34, 0x56), want: ansi.TrueColor(0x123456)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, ANSIColor(test.color)); diff != "" {
				t.Fatalf("ANSIColor() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLipglossStyle(t *testing.T) {
	style := LipglossStyle(render.Style{
		Foreground: render.BasicColor(2),
		Attr:       render.AttrBold | render.AttrInverse,
	})

	if !style.GetBold() || style.GetUnderline() || !style.GetReverse() {
		t.Fatalf("bold = %v, underline = %v, reverse = %v", style.GetBold(), style.GetUnderline(), style.GetReverse())
	}
	if diff := cmp.Diff(color.Color(ansi.BasicColor(2)), style.GetForeground()); diff != "" {
		t.Fatalf("foreground mismatch (-want +got):\n%s", diff)
	}
}

func TestPresent(t *testing.T) {
	outputs := []render.Output{
		render.Run{Text: "plain\ttext"},
		render.Run{Text: "Welcome", Style: render.Style{Foreground: render.IndexedColor(200), Attr: render.AttrUnderline}},
		render.CarriageReturn{},
		render.LineFeed{},
	}

	var visible string
	for _, output := range outputs {
		visible += ansi.Strip(Present(output))
	}

	if visible != "plain\ttextWelcome\r\n" {
		t.Fatalf("visible text = %q", visible)
	}

	if got := Present(outputs[0]); got != "plain\ttext" {
		t.Fatalf("Present(default run) = %q", got)
	}
}
