// Package render turns the application byte stream of a MUD connection into
// styled text runs and line control events. It understands SGR escape sequences
// and swallows every other escape sequence.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/moodclient/mudclient/internal/pending"
)

const del = 0x7f

// Config determines how a Renderer decodes text
type Config struct {
	// Charset is the IANA name of the charset text arrives in. The empty string means UTF-8.
	Charset string

	// FallbackCharset decodes bytes that are not valid in Charset, which is helpful
	// for MUDs that mix UTF-8 with CP437 or ISO-8859-1 art. It is only consulted when
	// Charset is UTF-8. Optional.
	FallbackCharset string

	// MaxSequence bounds how long an unterminated escape sequence may grow before it
	// is abandoned and its bytes are shown as text. The zero value means DefaultMaxSequence.
	MaxSequence int
}

// Renderer converts a byte stream into Output. It may be fed chunks of any size;
// sequences cut off at the end of a chunk are held until the next one arrives.
// A Renderer belongs to a single connection and is not safe for concurrent use.
type Renderer struct {
	charset     *Charset
	parser      *ansi.Parser
	tail        *pending.Tail
	maxSequence int

	style Style
	// raw is undecoded text. It is decoded whenever an escape or control byte
	// interrupts it, so decoding never joins bytes from either side of one.
	raw     []byte
	run     strings.Builder
	outputs []Output
}

// NewRenderer creates a Renderer in the default style
func NewRenderer(config Config) (*Renderer, error) {
	charset, err := NewCharset(config.Charset, config.FallbackCharset)
	if err != nil {
		return nil, err
	}

	maxSequence := config.MaxSequence
	if maxSequence == 0 {
		maxSequence = DefaultMaxSequence
	}
	if maxSequence < 2 {
		return nil, fmt.Errorf("render: max sequence must be at least 2, got %d", maxSequence)
	}

	return &Renderer{
		charset:     charset,
		parser:      newSequenceParser(maxSequence),
		tail:        pending.NewTail(maxSequence),
		maxSequence: maxSequence,
	}, nil
}

// Charset returns the charset used to decode text
func (r *Renderer) Charset() *Charset {
	return r.charset
}

// Style returns the style that will be applied to the next run of text
func (r *Renderer) Style() Style {
	return r.style
}

// Pending returns how many bytes are held waiting for the rest of a sequence
func (r *Renderer) Pending() int {
	return r.tail.Len()
}

// Feed renders the next chunk of the stream
func (r *Renderer) Feed(chunk []byte) []Output {
	window := r.tail.Window(chunk)
	consumed := r.render(window)
	r.tail.Keep(window[consumed:])

	return r.drain()
}

// Flush renders whatever is held at the end of the stream. A trailing CR becomes
// a CarriageReturn and an unfinished character is decoded as-is. An unfinished
// escape sequence is discarded.
func (r *Renderer) Flush() []Output {
	held := r.tail.Bytes()
	switch {
	case len(held) == 0:
	case held[0] == ansi.CR:
		r.emit(CarriageReturn{})
	case held[0] != ansi.ESC:
		r.raw = append(r.raw, held...)
		r.flushText()
	}
	r.tail.Reset()

	return r.drain()
}

// Reset discards held bytes and returns to the default style
func (r *Renderer) Reset() {
	r.tail.Reset()
	r.style = Style{}
	r.raw = r.raw[:0]
	r.run.Reset()
	r.outputs = nil
}

func (r *Renderer) drain() []Output {
	r.flushText()
	outputs := r.outputs
	r.outputs = nil
	return outputs
}

func (r *Renderer) decodeText() {
	if len(r.raw) == 0 {
		return
	}

	r.run.WriteString(r.charset.Decode(r.raw))
	r.raw = r.raw[:0]
}

func (r *Renderer) flushText() {
	r.decodeText()
	if r.run.Len() == 0 {
		return
	}

	r.outputs = append(r.outputs, Run{Text: r.run.String(), Style: r.style})
	r.run.Reset()
}

func (r *Renderer) emit(output Output) {
	r.flushText()
	r.outputs = append(r.outputs, output)
}

func (r *Renderer) setStyle(style Style) {
	if style == r.style {
		return
	}

	r.flushText()
	r.style = style
}

func isControl(b byte) bool {
	return b < 0x20 || b == del
}

// render consumes as much of window as can be interpreted and returns how many
// bytes that was
func (r *Renderer) render(window []byte) int {
	pos := 0
	for pos < len(window) {
		b := window[pos]

		switch {
		case b == ansi.ESC:
			r.decodeText()
			seq := scanEscape(window[pos:], r.maxSequence, r.parser)
			if seq.kind == sequenceNeedMore {
				return pos
			}
			if seq.kind == sequenceSGR {
				r.setStyle(r.style.Apply(seq.params))
			}
			pos += seq.consumed

		case b == ansi.CR:
			if pos+1 >= len(window) {
				return pos
			}
			if window[pos+1] == ansi.LF {
				r.emit(LineFeed{})
				pos += 2
			} else {
				r.emit(CarriageReturn{})
				pos++
			}

		case b == ansi.LF:
			r.emit(LineFeed{})
			pos++

		case b == ansi.BEL:
			r.emit(Bell{})
			pos++

		case b == ansi.HT:
			r.decodeText()
			r.run.WriteByte(b)
			pos++

		case isControl(b):
			r.decodeText()
			pos++

		default:
			end := pos + 1
			for end < len(window) && !isControl(window[end]) {
				end++
			}

			if end == len(window) {
				complete := r.charset.completePrefix(window[pos:end])
				r.raw = append(r.raw, window[pos:pos+complete]...)
				return pos + complete
			}

			r.raw = append(r.raw, window[pos:end]...)
			pos = end
		}
	}

	return pos
}
