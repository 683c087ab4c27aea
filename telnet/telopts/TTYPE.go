package telopts

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/moodclient/mudclient/telnet"
)

const (
	ttypeIS byte = iota
	ttypeSEND
)

// DefaultTerminalTypes is reported when TTYPE is registered without any names
var DefaultTerminalTypes = []string{"ANSI"}

func RegisterTTYPE(usage telnet.TelOptUsage, localTerminals []string) telnet.TelnetOption {
	if len(localTerminals) == 0 {
		localTerminals = DefaultTerminalTypes
	}

	return &TTYPE{
		BaseTelOpt:     NewBaseTelOpt(telnet.OptTTYPE, "TTYPE", usage),
		localTerminals: append([]string(nil), localTerminals...),
	}
}

// TTYPE answers the remote's SEND requests with the client's terminal names. Each SEND
// is answered with the next name in the list, and once the list is exhausted the last
// name is repeated, which is how the remote learns it has seen them all.
type TTYPE struct {
	BaseTelOpt

	localTerminalLock   sync.Mutex
	localTerminalCursor int
	localTerminals      []string
}

func (o *TTYPE) Code() telnet.TelOptCode {
	return telnet.OptTTYPE
}

func (o *TTYPE) String() string {
	return "TTYPE"
}

func (o *TTYPE) writeTerminal(terminal string) {
	terminalBytes := make([]byte, 0, len(terminal)+1)
	terminalBytes = append(terminalBytes, ttypeIS)
	terminalBytes = append(terminalBytes, []byte(terminal)...)

	o.Negotiator().Capabilities().SetTerminalType(terminal)
	o.Negotiator().Send(telnet.Command{
		OpCode:         telnet.SB,
		Option:         telnet.OptTTYPE,
		Subnegotiation: terminalBytes,
	})
}

func (o *TTYPE) TransitionLocalState(newState telnet.TelOptState) error {
	if newState != telnet.TelOptAccepted {
		o.localTerminalLock.Lock()
		defer o.localTerminalLock.Unlock()

		o.localTerminalCursor = 0
	}

	return nil
}

func (o *TTYPE) SubnegotiationString(subnegotiation []byte) (string, error) {
	if len(subnegotiation) < 1 {
		return "", errors.New("ttype: received empty subnegotiation")
	}

	if subnegotiation[0] == ttypeIS {
		var sb strings.Builder
		sb.WriteString("IS ")
		sb.WriteString(string(subnegotiation[1:]))
		return sb.String(), nil
	}

	if subnegotiation[0] == ttypeSEND {
		return "SEND", nil
	}

	return "", fmt.Errorf("ttype: unknown subnegotiation: %+v", subnegotiation)
}

func (o *TTYPE) Subnegotiate(subnegotiation []byte) error {
	if len(subnegotiation) < 1 {
		return errors.New("ttype: received empty subnegotiation")
	}

	if subnegotiation[0] == ttypeIS {
		// We never ask the remote for its terminal type
		return nil
	}

	// Remote is sending us a SEND request to give them a terminal
	if subnegotiation[0] == ttypeSEND {
		if o.LocalState() != telnet.TelOptAccepted {
			return nil
		}

		o.localTerminalLock.Lock()
		defer o.localTerminalLock.Unlock()

		if o.localTerminalCursor >= len(o.localTerminals) {
			// Resend the last item until they shut up
			o.writeTerminal(o.localTerminals[len(o.localTerminals)-1])
			return nil
		}

		// Send the current terminal and then increment
		o.writeTerminal(o.localTerminals[o.localTerminalCursor])
		o.localTerminalCursor++

		return nil
	}

	return fmt.Errorf("ttype: unknown subnegotiation: %+v", subnegotiation)
}

// LocalTerminals returns the names this telopt reports, in order
func (o *TTYPE) LocalTerminals() []string {
	o.localTerminalLock.Lock()
	defer o.localTerminalLock.Unlock()

	return append([]string(nil), o.localTerminals...)
}
