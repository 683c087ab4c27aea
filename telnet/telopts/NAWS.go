package telopts

import (
	"sync"

	"github.com/moodclient/mudclient/telnet"
)

func RegisterNAWS(usage telnet.TelOptUsage) telnet.TelnetOption {
	return &NAWS{
		BaseTelOpt: NewBaseTelOpt(telnet.OptNAWS, "NAWS", usage),
	}
}

// NAWS reports the client's window size to the remote. The size itself lives in
// telnet.Capabilities and is changed with Negotiator.SetWindowSize; this telopt sends
// it the moment NAWS is accepted. If the remote ever reports its own size, it is kept
// and available from RemoteSize.
type NAWS struct {
	BaseTelOpt

	remoteLock sync.Mutex
	remoteSize telnet.WindowSize
}

func (o *NAWS) Code() telnet.TelOptCode {
	return telnet.OptNAWS
}

func (o *NAWS) String() string {
	return "NAWS"
}

func (o *NAWS) TransitionLocalState(newState telnet.TelOptState) error {
	if newState == telnet.TelOptAccepted {
		// NAWS works by having the client subnegotiate its bounds to the server after activation
		// and whenever it changes
		o.Negotiator().Send(telnet.NAWSCommand(o.Negotiator().Capabilities().WindowSize()))
	}

	return nil
}

func (o *NAWS) Subnegotiate(subnegotiation []byte) error {
	if o.RemoteState() != telnet.TelOptAccepted {
		return nil
	}

	size, err := telnet.ParseWindowSize(subnegotiation)
	if err != nil {
		return err
	}

	o.remoteLock.Lock()
	defer o.remoteLock.Unlock()

	o.remoteSize = size
	return nil
}

func (o *NAWS) SubnegotiationString(subnegotiation []byte) (string, error) {
	size, err := telnet.ParseWindowSize(subnegotiation)
	if err != nil {
		return "", err
	}

	return size.String(), nil
}

// RemoteSize returns the last size reported by the remote, if any
func (o *NAWS) RemoteSize() telnet.WindowSize {
	o.remoteLock.Lock()
	defer o.remoteLock.Unlock()

	return o.remoteSize
}
