package telnet

import "fmt"

// NAWS carries each dimension as an unsigned 16-bit integer
const (
	MinWindowDimension = 1
	MaxWindowDimension = 1<<16 - 1
)

// DefaultWindowSize is reported over NAWS until the presentation layer supplies
// a real size.
var DefaultWindowSize = WindowSize{Columns: 120, Rows: 40}

// WindowSize is the number of character columns and rows in the client's output area
type WindowSize struct {
	Columns int
	Rows    int
}

func clampDimension(d int) int {
	if d < MinWindowDimension {
		return MinWindowDimension
	}

	if d > MaxWindowDimension {
		return MaxWindowDimension
	}

	return d
}

// ClampWindowSize builds a WindowSize whose dimensions fit the NAWS encoding
func ClampWindowSize(columns, rows int) WindowSize {
	return WindowSize{
		Columns: clampDimension(columns),
		Rows:    clampDimension(rows),
	}
}

// Subnegotiation encodes the size as a NAWS payload: width then height, each
// two bytes big-endian.
func (w WindowSize) Subnegotiation() []byte {
	return []byte{
		byte((w.Columns >> 8) & 0xff),
		byte(w.Columns & 0xff),
		byte((w.Rows >> 8) & 0xff),
		byte(w.Rows & 0xff),
	}
}

func (w WindowSize) String() string {
	return fmt.Sprintf("%dx%d", w.Columns, w.Rows)
}

// ParseWindowSize decodes a NAWS payload
func ParseWindowSize(subnegotiation []byte) (WindowSize, error) {
	if len(subnegotiation) != 4 {
		return WindowSize{}, fmt.Errorf("naws: expected a four byte subnegotiation but received %d", len(subnegotiation))
	}

	return WindowSize{
		Columns: (int(subnegotiation[0]) << 8) | int(subnegotiation[1]),
		Rows:    (int(subnegotiation[2]) << 8) | int(subnegotiation[3]),
	}, nil
}

// NAWSCommand builds the IAC SB NAWS ... IAC SE command announcing size
func NAWSCommand(size WindowSize) Command {
	return Command{
		OpCode:         SB,
		Option:         OptNAWS,
		Subnegotiation: size.Subnegotiation(),
	}
}
