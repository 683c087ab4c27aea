package telopts

import (
	"github.com/moodclient/mudclient/telnet"
)

func RegisterECHO(usage telnet.TelOptUsage) telnet.TelnetOption {
	return &ECHO{
		NewBaseTelOpt(telnet.OptEcho, "ECHO", usage),
	}
}

// ECHO indicates whether a party will repeat text sent from the other party back to it.  MUDs
// activate ECHO on their side to stop the client from echoing locally, usually while a password
// is typed, so the client permits remote ECHO and refuses to echo for the remote.  The result is
// read from telnet.Capabilities.Echo.
type ECHO struct {
	BaseTelOpt
}

func (o *ECHO) Code() telnet.TelOptCode {
	return telnet.OptEcho
}

func (o *ECHO) String() string {
	return "ECHO"
}
