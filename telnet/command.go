package telnet

import (
	"fmt"
	"strconv"
	"strings"
)

// Telnet opcodes
const (
	// EOR - End Of Record. The real meaning is implementation-specific, but these
	// days IAC EOR is primarily used as an alternative to IAC GA that can indicate
	// where a prompt is without all the historical baggage of GA
	EOR byte = 239
	// SE - Subnegotiation End. IAC SE is used to mark the end of a subnegotiation command
	SE byte = 240
	// NOP - No-Op. IAC NOP doesn't indicate anything at all, and the negotiator ignores it.
	NOP byte = 241
	// GA - Go Ahead. MUDs send IAC GA at the end of a prompt line so that clients know
	// where to place a cursor.
	GA byte = 249
	// SB - Subnegotiation Begin. IAC SB is used to indicate the beginning of a subnegotiation
	// command. These are telopt-specific commands that have telopt-specific meanings.
	SB byte = 250
	// WILL - IAC WILL is used to indicate that this terminal intends to activate a telopt
	WILL byte = 251
	// WONT - IAC WONT is used to indicate that this terminal refuses to activate a telopt
	WONT byte = 252
	// DO - IAC DO is used to request that the remote terminal activates a telopt
	DO byte = 253
	// DONT - IAC DONT is used to demand that the remote terminal do not activate a telopt
	DONT byte = 254
	// IAC - This opcode indicates the beginning of a new command. IAC IAC is an escaped
	// 0xFF data byte.
	IAC byte = 255
)

var commandCodes = map[byte]string{
	EOR:  "EOR",
	SE:   "SE",
	NOP:  "NOP",
	GA:   "GA",
	SB:   "SB",
	WILL: "WILL",
	WONT: "WONT",
	DO:   "DO",
	DONT: "DONT",
	IAC:  "IAC",
}

// Command is a single IAC command received from or sent to the remote. Subnegotiations,
// which arrive as IAC SB <option> <bytes> IAC SE, are a single command with the OpCode SB.
type Command struct {
	// OpCode is the code that comes after IAC in this command.
	OpCode byte
	// Option is the telopt this command refers to. IAC WILL/WONT/DO/DONT/SB are always
	// followed by a byte indicating a telopt.
	Option TelOptCode
	// Subnegotiation holds the unescaped bytes between IAC SB <option> and IAC SE.
	// For non-SB commands, this slice is empty.
	Subnegotiation []byte
}

func (c Command) isNegotiation() bool {
	return c.OpCode == DO || c.OpCode == DONT || c.OpCode == WILL || c.OpCode == WONT
}

// isActivateNegotiation indicates whether this command is a negotiation requesting activation
// of a telopt (DO/WILL).
func (c Command) isActivateNegotiation() bool {
	return c.OpCode == DO || c.OpCode == WILL
}

// isLocalNegotiation indicates whether this command is a negotiation regarding a local
// telopt received from the remote (DO/DONT)
func (c Command) isLocalNegotiation() bool {
	return c.OpCode == DO || c.OpCode == DONT
}

// reject produces a new command rejecting this one (WONT/DONT) if this command is
// an activate negotiation command (DO/WILL)
func (c Command) reject() Command {
	var newOpCode byte
	switch c.OpCode {
	case DO:
		newOpCode = WONT
	case WILL:
		newOpCode = DONT
	default:
		return Command{OpCode: NOP}
	}

	return Command{OpCode: newOpCode, Option: c.Option}
}

// accept produces a new command accepting this one (WILL/DO) if this command is
// an activate negotiation command (DO/WILL)
func (c Command) accept() Command {
	var newOpCode byte
	switch c.OpCode {
	case DO:
		newOpCode = WILL
	case WILL:
		newOpCode = DO
	default:
		return Command{OpCode: NOP}
	}

	return Command{OpCode: newOpCode, Option: c.Option}
}

// acknowledge produces the reply confirming a deactivation (WONT -> DONT, DONT -> WONT)
func (c Command) acknowledge() Command {
	var newOpCode byte
	switch c.OpCode {
	case DONT:
		newOpCode = WONT
	case WONT:
		newOpCode = DONT
	default:
		return Command{OpCode: NOP}
	}

	return Command{OpCode: newOpCode, Option: c.Option}
}

// Bytes encodes the command for the wire. IAC bytes inside a subnegotiation payload
// are doubled.
func (c Command) Bytes() []byte {
	size := 2
	if c.OpCode != GA && c.OpCode != NOP && c.OpCode != EOR {
		size++
	}

	if c.OpCode == SB {
		size += len(c.Subnegotiation) + 2
	}

	b := make([]byte, 0, size)
	b = append(b, IAC, c.OpCode)

	if size > 2 {
		b = append(b, byte(c.Option))
	}

	if c.OpCode == SB {
		for _, payloadByte := range c.Subnegotiation {
			if payloadByte == IAC {
				b = append(b, IAC)
			}
			b = append(b, payloadByte)
		}

		b = append(b, IAC, SE)
	}

	return b
}

func parseCommand(data []byte) (Command, error) {
	if len(data) == 0 || data[0] != IAC {
		return Command{}, fmt.Errorf("%w: command did not begin with IAC: %q", ErrMalformedCommand, commandStream(data))
	}

	if len(data) < 2 {
		return Command{}, fmt.Errorf("%w: command was just a standalone IAC with no opcode", ErrMalformedCommand)
	}

	_, validOpcode := commandCodes[data[1]]
	if !validOpcode || data[1] == IAC || data[1] == SE {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, commandStream(data))
	}

	if data[1] == NOP || data[1] == GA || data[1] == EOR {
		return Command{
			OpCode: data[1],
		}, nil
	}

	if len(data) < 3 {
		return Command{}, fmt.Errorf("%w: command did not contain parameters: %q", ErrMalformedCommand, commandStream(data))
	}

	if data[1] != SB {
		return Command{
			OpCode: data[1],
			Option: TelOptCode(data[2]),
		}, nil
	}

	if len(data) < 5 || data[len(data)-2] != IAC || data[len(data)-1] != SE {
		return Command{}, fmt.Errorf("%w: subnegotiation command did not end with IAC SE: %q", ErrMalformedCommand, commandStream(data))
	}

	// doubled 255s in the subnegotiation data are pared down to a single 255 just like in the main
	// text stream
	subnegotiationData := data[3 : len(data)-2]
	finalBuffer := make([]byte, 0, len(subnegotiationData))

	for dataIndex := 0; dataIndex < len(subnegotiationData); dataIndex++ {
		finalBuffer = append(finalBuffer, subnegotiationData[dataIndex])
		if subnegotiationData[dataIndex] == IAC && dataIndex+1 < len(subnegotiationData) && subnegotiationData[dataIndex+1] == IAC {
			dataIndex++
		}
	}

	return Command{
		OpCode:         data[1],
		Option:         TelOptCode(data[2]),
		Subnegotiation: finalBuffer,
	}, nil
}

func commandStream(b []byte) string {
	var sb strings.Builder

	for i := 0; i < len(b); i++ {
		if i > 0 {
			sb.WriteRune(' ')
		}

		code, hasCode := commandCodes[b[i]]
		if !hasCode {
			sb.WriteString(strconv.Itoa(int(b[i])))
		} else {
			sb.WriteString(code)
		}
	}

	return sb.String()
}

// String renders the command legibly, e.g. "IAC DO NAWS", without consulting any
// registered telopts.
func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString("IAC ")

	opCode, hasOpCode := commandCodes[c.OpCode]
	if !hasOpCode {
		opCode = strconv.Itoa(int(c.OpCode))
	}

	sb.WriteString(opCode)

	if c.OpCode == GA || c.OpCode == NOP || c.OpCode == EOR {
		return sb.String()
	}

	sb.WriteByte(' ')
	sb.WriteString(c.Option.String())

	if c.OpCode != SB {
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf(" %+v IAC SE", c.Subnegotiation))
	return sb.String()
}
