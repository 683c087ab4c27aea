package telopts

import (
	"fmt"

	"github.com/moodclient/mudclient/telnet"
)

// opaqueTelOpt is accepted at the protocol layer but its payloads are never interpreted
// or retained. Only the fact of receipt reaches telnet.Capabilities.
type opaqueTelOpt struct {
	BaseTelOpt
}

func (o *opaqueTelOpt) DiscardsPayload() bool {
	return true
}

func (o *opaqueTelOpt) Subnegotiate(subnegotiation []byte) error {
	o.Negotiator().Capabilities().RecordOpaquePayload(o.code, len(subnegotiation))
	return nil
}

func (o *opaqueTelOpt) SubnegotiationString(subnegotiation []byte) (string, error) {
	return fmt.Sprintf("<%d bytes>", len(subnegotiation)), nil
}

func RegisterMSSP(usage telnet.TelOptUsage) telnet.TelnetOption {
	return &MSSP{opaqueTelOpt{NewBaseTelOpt(telnet.OptMSSP, "MSSP", usage)}}
}

// MSSP - MUD Server Status Protocol
type MSSP struct {
	opaqueTelOpt
}

func (o *MSSP) Code() telnet.TelOptCode {
	return telnet.OptMSSP
}

func (o *MSSP) String() string {
	return "MSSP"
}

func RegisterMSDP(usage telnet.TelOptUsage) telnet.TelnetOption {
	return &MSDP{opaqueTelOpt{NewBaseTelOpt(telnet.OptMSDP, "MSDP", usage)}}
}

// MSDP - MUD Server Data Protocol
type MSDP struct {
	opaqueTelOpt
}

func (o *MSDP) Code() telnet.TelOptCode {
	return telnet.OptMSDP
}

func (o *MSDP) String() string {
	return "MSDP"
}

func RegisterGMCP(usage telnet.TelOptUsage) telnet.TelnetOption {
	return &GMCP{opaqueTelOpt{NewBaseTelOpt(telnet.OptGMCP, "GMCP", usage)}}
}

// GMCP - Generic MUD Communication Protocol
type GMCP struct {
	opaqueTelOpt
}

func (o *GMCP) Code() telnet.TelOptCode {
	return telnet.OptGMCP
}

func (o *GMCP) String() string {
	return "GMCP"
}
