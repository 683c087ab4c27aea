package telopts

import (
	"github.com/moodclient/mudclient/telnet"
)

func RegisterEOR(usage telnet.TelOptUsage) telnet.TelnetOption {
	return &EOR{
		NewBaseTelOpt(telnet.OptEOR, "EOR", usage),
	}
}

// EOR lets the remote mark the end of a prompt with IAC EOR instead of IAC GA. It has no
// subnegotiation; received IAC EOR commands are reported whether or not it is active.
// It is not part of the default set, so servers offering it are refused unless a caller
// registers it.
type EOR struct {
	BaseTelOpt
}

func (o *EOR) Code() telnet.TelOptCode {
	return telnet.OptEOR
}

func (o *EOR) String() string {
	return "EOR"
}
