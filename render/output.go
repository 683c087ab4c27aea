package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Output is a single unit of rendered output
type Output interface {
	// String returns the plain text a presentation layer without styling would print
	String() string
	// EscapedString returns a representation that is safe to write to a log
	EscapedString() string
}

// Run is a span of decoded text that shares one Style
type Run struct {
	Text  string
	Style Style
}

var _ Output = Run{}

func (o Run) String() string { return o.Text }

func (o Run) EscapedString() string {
	return strings.ReplaceAll(o.Text, "\t", "\\t")
}

// Width returns how many terminal cells the text occupies
func (o Run) Width() int {
	return runewidth.StringWidth(o.Text)
}

// LineFeed ends the current line. CR LF and a bare LF both produce one.
type LineFeed struct{}

var _ Output = LineFeed{}

func (o LineFeed) String() string        { return "\n" }
func (o LineFeed) EscapedString() string { return "\\n" }

// CarriageReturn is a bare CR: the presentation layer should return to the start
// of the current line and overwrite it.
type CarriageReturn struct{}

var _ Output = CarriageReturn{}

func (o CarriageReturn) String() string        { return "\r" }
func (o CarriageReturn) EscapedString() string { return "\\r" }

// Bell is a BEL control code
type Bell struct{}

var _ Output = Bell{}

func (o Bell) String() string        { return string(rune(ansi.BEL)) }
func (o Bell) EscapedString() string { return "\\a" }

// Coalesce merges adjacent runs that share a style. Renderer output for a
// stream is identical for every chunking once coalesced.
func Coalesce(outputs []Output) []Output {
	var coalesced []Output

	for _, output := range outputs {
		run, isRun := output.(Run)
		if isRun && len(coalesced) > 0 {
			last, lastIsRun := coalesced[len(coalesced)-1].(Run)
			if lastIsRun && last.Style == run.Style {
				last.Text += run.Text
				coalesced[len(coalesced)-1] = last
				continue
			}
		}

		coalesced = append(coalesced, output)
	}

	return coalesced
}
