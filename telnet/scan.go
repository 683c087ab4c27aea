package telnet

import (
	"bytes"
	"fmt"
)

// ScanKind tags the outcome of a single Scan step.
type ScanKind byte

const (
	// ScanNeedMore means the input ends inside a command. Nothing was consumed.
	ScanNeedMore ScanKind = iota
	// ScanText is a run of plain application bytes containing no IAC.
	ScanText
	// ScanEscapedIAC is IAC IAC, a single 0xFF data byte.
	ScanEscapedIAC
	// ScanCommand is one complete command, ready for parseCommand.
	ScanCommand
	// ScanDropped is a malformed sequence. Err holds the reason.
	ScanDropped
)

func (k ScanKind) String() string {
	switch k {
	case ScanNeedMore:
		return "NeedMore"
	case ScanText:
		return "Text"
	case ScanEscapedIAC:
		return "EscapedIAC"
	case ScanCommand:
		return "Command"
	case ScanDropped:
		return "Dropped"
	default:
		return "Unknown"
	}
}

// ScanResult is the tagged outcome of Scan.
type ScanResult struct {
	Kind     ScanKind
	Consumed int
	Err      error
}

// Scan examines the start of data and reports what it holds. maxSubnegotiation
// bounds the payload of an IAC SB block; a block whose IAC SE does not appear
// within the bound is dropped. The outcome depends only on the bytes present,
// never on how they were split into chunks.
func Scan(data []byte, maxSubnegotiation int) ScanResult {
	if len(data) == 0 {
		return ScanResult{Kind: ScanNeedMore}
	}

	specialCharIndex := bytes.IndexByte(data, IAC)
	if specialCharIndex > 0 {
		// Release all data until we get to an IAC
		return ScanResult{Kind: ScanText, Consumed: specialCharIndex}
	} else if specialCharIndex < 0 {
		return ScanResult{Kind: ScanText, Consumed: len(data)}
	}

	// if it's just IAC by itself, wait for more data
	if len(data) < 2 {
		return ScanResult{Kind: ScanNeedMore}
	}

	switch data[1] {
	case IAC:
		return ScanResult{Kind: ScanEscapedIAC, Consumed: 2}
	case SE:
		return ScanResult{
			Kind:     ScanDropped,
			Consumed: 2,
			Err:      fmt.Errorf("%w: IAC SE outside of a subnegotiation", ErrMalformedCommand),
		}
	case WILL, WONT, DO, DONT:
		if len(data) < 3 {
			return ScanResult{Kind: ScanNeedMore}
		}
		return ScanResult{Kind: ScanCommand, Consumed: 3}
	case SB:
		return scanSubnegotiation(data, maxSubnegotiation)
	}

	// GA, NOP, EOR and any unrecognized 2-byte command
	return ScanResult{Kind: ScanCommand, Consumed: 2}
}

func scanSubnegotiation(data []byte, maxSubnegotiation int) ScanResult {
	if len(data) < 3 {
		return ScanResult{Kind: ScanNeedMore}
	}

	if data[2] == IAC {
		return ScanResult{
			Kind:     ScanDropped,
			Consumed: 2,
			Err:      fmt.Errorf("%w: subnegotiation without an option", ErrMalformedCommand),
		}
	}

	// IAC SB <option> <payload> IAC SE
	limit := 3 + maxSubnegotiation + 2

	i := 3
	for i < len(data) && i < limit {
		if data[i] != IAC {
			i++
			continue
		}

		if i+1 >= limit {
			break
		}

		if i+1 >= len(data) {
			return ScanResult{Kind: ScanNeedMore}
		}

		switch data[i+1] {
		case SE:
			return ScanResult{Kind: ScanCommand, Consumed: i + 2}
		case IAC:
			// Double 255's should be skipped over
			i += 2
		default:
			// Another command started before this block was terminated
			return ScanResult{
				Kind:     ScanDropped,
				Consumed: i,
				Err:      fmt.Errorf("%w: unterminated subnegotiation for %s", ErrMalformedCommand, TelOptCode(data[2])),
			}
		}
	}

	if i < limit && i >= len(data) {
		return ScanResult{Kind: ScanNeedMore}
	}

	return ScanResult{
		Kind:     ScanDropped,
		Consumed: i,
		Err:      fmt.Errorf("%w: %s block longer than %d bytes", ErrSubnegotiationOverflow, TelOptCode(data[2]), maxSubnegotiation),
	}
}

// skipSubnegotiation discards the rest of an overflowed subnegotiation. It
// reports how many bytes to drop and whether the block has ended, either at
// its IAC SE or at the start of another command.
func skipSubnegotiation(data []byte) (consumed int, done bool) {
	for i := 0; i < len(data); i++ {
		if data[i] != IAC {
			continue
		}

		if i+1 >= len(data) {
			return i, false
		}

		switch data[i+1] {
		case SE:
			return i + 2, true
		case IAC:
			i++
		default:
			return i, true
		}
	}

	return len(data), false
}
