package telopts

import (
	"fmt"
	"strings"

	"github.com/moodclient/mudclient/telnet"
)

// BaseTelOpt implements the parts of telnet.TelnetOption that every telopt shares.
// Negotiated state lives in the negotiator's Capabilities; BaseTelOpt only reads it.
type BaseTelOpt struct {
	code       telnet.TelOptCode
	name       string
	negotiator *telnet.Negotiator
	usage      telnet.TelOptUsage
}

func NewBaseTelOpt(code telnet.TelOptCode, name string, usage telnet.TelOptUsage) BaseTelOpt {
	return BaseTelOpt{
		code:  code,
		name:  name,
		usage: usage,
	}
}

func (o *BaseTelOpt) Code() telnet.TelOptCode {
	return o.code
}

func (o *BaseTelOpt) String() string {
	return o.name
}

func (o *BaseTelOpt) LocalState() telnet.TelOptState {
	if o.negotiator == nil {
		return telnet.TelOptNotOffered
	}

	return o.negotiator.Capabilities().LocalState(o.code)
}

func (o *BaseTelOpt) RemoteState() telnet.TelOptState {
	if o.negotiator == nil {
		return telnet.TelOptNotOffered
	}

	return o.negotiator.Capabilities().RemoteState(o.code)
}

func (o *BaseTelOpt) Usage() telnet.TelOptUsage {
	return o.usage
}

func (o *BaseTelOpt) Initialize(negotiator *telnet.Negotiator) {
	o.negotiator = negotiator
}

func (o *BaseTelOpt) Negotiator() *telnet.Negotiator {
	return o.negotiator
}

func (o *BaseTelOpt) TransitionLocalState(newState telnet.TelOptState) error {
	return nil
}

func (o *BaseTelOpt) TransitionRemoteState(newState telnet.TelOptState) error {
	return nil
}

func (o *BaseTelOpt) Subnegotiate(subnegotiation []byte) error {
	return fmt.Errorf("%s: unexpected subnegotiation %+v", strings.ToLower(o.name), subnegotiation)
}

func (o *BaseTelOpt) SubnegotiationString(subnegotiation []byte) (string, error) {
	return "", fmt.Errorf("%s: unexpected subnegotiation %+v", strings.ToLower(o.name), subnegotiation)
}
