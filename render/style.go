package render

import "strings"

// Attribute is a set of boolean text attributes
type Attribute uint8

const (
	AttrBold Attribute = 1 << iota
	AttrUnderline
	AttrInverse
)

// Style is the rendition applied to a run of text. It is a value type: the zero
// value is the default style, and a Style is fully determined by the SGR codes
// applied since the last reset.
type Style struct {
	Foreground Color
	Background Color
	Attr       Attribute
}

func (s Style) Bold() bool      { return s.Attr&AttrBold != 0 }
func (s Style) Underline() bool { return s.Attr&AttrUnderline != 0 }
func (s Style) Inverse() bool   { return s.Attr&AttrInverse != 0 }

// IsDefault reports whether no SGR code is in effect
func (s Style) IsDefault() bool {
	return s == Style{}
}

func (s Style) String() string {
	if s.IsDefault() {
		return "default"
	}

	var parts []string
	if !s.Foreground.IsDefault() {
		parts = append(parts, "fg="+s.Foreground.String())
	}
	if !s.Background.IsDefault() {
		parts = append(parts, "bg="+s.Background.String())
	}
	if s.Bold() {
		parts = append(parts, "bold")
	}
	if s.Underline() {
		parts = append(parts, "underline")
	}
	if s.Inverse() {
		parts = append(parts, "inverse")
	}

	return strings.Join(parts, " ")
}
