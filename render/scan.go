package render

import (
	"github.com/charmbracelet/x/ansi"
)

// DefaultMaxSequence bounds how many bytes an unterminated escape sequence may
// occupy before it is abandoned
const DefaultMaxSequence = 256

// Largest value a single SGR parameter can hold; anything bigger saturates
const maxParameter = 65535

type sequenceKind uint8

const (
	// sequenceNeedMore means the sequence is a valid prefix and the data ran out
	sequenceNeedMore sequenceKind = iota
	// sequenceSGR is a complete CSI ... m with parameters
	sequenceSGR
	// sequenceIgnored is a complete (or aborted) sequence that has no effect
	sequenceIgnored
	// sequenceAbandoned means the sequence outgrew the bound. Only the ESC is consumed.
	sequenceAbandoned
)

type sequence struct {
	kind     sequenceKind
	consumed int
	params   []int
}

// newSequenceParser sizes the parameter buffer so no sequence within maxSequence
// bytes can overrun it. Payloads of string sequences are never read.
func newSequenceParser(maxSequence int) *ansi.Parser {
	return ansi.NewParser(maxSequence, 0)
}

// scanEscape identifies the escape sequence at the start of data, which must begin
// with ESC. Whether a sequence is abandoned depends only on its first maxSequence
// bytes, never on where deliveries were split.
func scanEscape(data []byte, maxSequence int, parser *ansi.Parser) sequence {
	window := data[:min(len(data), maxSequence)]

	// Always decode from the ESC: the decoder identifies DCS and OSC by their prefix
	seq, _, consumed, state := ansi.DecodeSequence(window, ansi.NormalState, parser)
	if state != ansi.NormalState {
		if len(window) >= maxSequence {
			return sequence{kind: sequenceAbandoned, consumed: 1}
		}
		return sequence{kind: sequenceNeedMore}
	}

	// An ESC ending the window may be the first half of a string terminator
	if consumed == len(window)-1 && window[consumed] == ansi.ESC && len(window) < maxSequence {
		return sequence{kind: sequenceNeedMore}
	}

	if ansi.HasCsiPrefix(seq) {
		csi := ansi.CsiSequence{Cmd: parser.Cmd, Params: parser.Params[:parser.ParamsLen]}
		if csi.Command() == 'm' && csi.Marker() == 0 && csi.Intermediate() == 0 {
			return sequence{kind: sequenceSGR, consumed: consumed, params: sgrParams(csi)}
		}
	}

	return sequence{kind: sequenceIgnored, consumed: consumed}
}

// sgrParams flattens parameters and sub-parameters. Missing parameters are 0.
func sgrParams(csi ansi.CsiSequence) []int {
	if len(csi.Params) == 0 {
		return nil
	}

	params := make([]int, len(csi.Params))
	for i := range csi.Params {
		value := csi.Param(i)
		switch {
		case value == -1:
			value = 0
		case value < 0 || value > maxParameter:
			value = maxParameter
		}
		params[i] = value
	}

	return params
}
