package telopts

import (
	"github.com/moodclient/mudclient/telnet"
)

func RegisterSUPPRESSGOAHEAD(usage telnet.TelOptUsage) telnet.TelnetOption {
	return &SUPPRESSGOAHEAD{
		NewBaseTelOpt(telnet.OptSGA, "SUPPRESS-GO-AHEAD", usage),
	}
}

// SUPPRESSGOAHEAD stops a party from sending IAC GA. While the remote has it active,
// any stray GA it sends is not reported as a prompt (see telnet.Capabilities.SuppressGoAhead).
type SUPPRESSGOAHEAD struct {
	BaseTelOpt
}

func (o *SUPPRESSGOAHEAD) Code() telnet.TelOptCode {
	return telnet.OptSGA
}

func (o *SUPPRESSGOAHEAD) String() string {
	return "SUPPRESS-GO-AHEAD"
}
