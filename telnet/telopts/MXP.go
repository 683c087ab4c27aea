package telopts

import (
	"github.com/moodclient/mudclient/telnet"
)

// RegisterMXP registers MXP so that it is named in logs. The negotiator refuses MXP
// whatever usage it is registered with.
func RegisterMXP() telnet.TelnetOption {
	return &MXP{
		NewBaseTelOpt(telnet.OptMXP, "MXP", 0),
	}
}

// MXP - MUD eXtension Protocol. Never accepted.
type MXP struct {
	BaseTelOpt
}

func (o *MXP) Code() telnet.TelOptCode {
	return telnet.OptMXP
}

func (o *MXP) String() string {
	return "MXP"
}
