package utils

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/moodclient/mudclient/render"
)

// ANSIColor converts a rendered color to the x/ansi color type that produces the same
// SGR parameters, so a colorprofile writer can downsample it for the local terminal.
// It returns nil for the default color.
func ANSIColor(c render.Color) color.Color {
	switch c.Mode {
	case render.ColorModeBasic:
		return ansi.BasicColor(c.Value)
	case render.ColorMode256:
		return ansi.ExtendedColor(c.Value)
	case render.ColorModeRGB:
		return ansi.TrueColor(uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
	default:
		return nil
	}
}

// LipglossStyle builds the lipgloss style that draws text the way the remote styled it
func LipglossStyle(style render.Style) lipgloss.Style {
	s := lipgloss.NewStyle().
		TabWidth(lipgloss.NoTabConversion).
		Bold(style.Bold()).
		Underline(style.Underline()).
		Reverse(style.Inverse())

	if fg := ANSIColor(style.Foreground); fg != nil {
		s = s.Foreground(fg)
	}
	if bg := ANSIColor(style.Background); bg != nil {
		s = s.Background(bg)
	}

	return s
}

// Present returns the text to print locally for one renderer output
func Present(output render.Output) string {
	run, isRun := output.(render.Run)
	if !isRun {
		return output.String()
	}

	if run.Style.IsDefault() {
		return run.Text
	}

	return LipglossStyle(run.Style).Render(run.Text)
}
