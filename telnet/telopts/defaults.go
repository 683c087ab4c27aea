package telopts

import (
	"github.com/moodclient/mudclient/telnet"
)

// DefaultsConfig supplies the values the default telopts report to the remote
type DefaultsConfig struct {
	// TerminalTypes is the TTYPE list, sent one per SEND request. Empty means DefaultTerminalTypes.
	TerminalTypes []string
	// Environment is reported over NEW-ENVIRON. Empty means an empty IS reply.
	Environment map[string]string
	// AcceptEOR registers EOR so that servers may mark prompts with IAC EOR
	AcceptEOR bool
}

// Defaults returns the MUD client telopt policy:
//
//   - ECHO: the remote may echo, we never echo for the remote
//   - SUPPRESS-GO-AHEAD: allowed on both sides
//   - NAWS, TTYPE, NEW-ENVIRON: we report on request
//   - MSSP, MSDP, GMCP: allowed on both sides, payloads discarded
//   - MXP: always refused
//
// Anything else, including LINEMODE and MCCP2, is refused.
func Defaults(config DefaultsConfig) []telnet.TelnetOption {
	options := []telnet.TelnetOption{
		RegisterECHO(telnet.TelOptAllowRemote),
		RegisterSUPPRESSGOAHEAD(telnet.TelOptAllowRemote | telnet.TelOptAllowLocal),
		RegisterNAWS(telnet.TelOptAllowLocal),
		RegisterTTYPE(telnet.TelOptAllowLocal, config.TerminalTypes),
		RegisterNEWENVIRON(telnet.TelOptAllowLocal, config.Environment),
		RegisterMSSP(telnet.TelOptAllowRemote | telnet.TelOptAllowLocal),
		RegisterMSDP(telnet.TelOptAllowRemote | telnet.TelOptAllowLocal),
		RegisterGMCP(telnet.TelOptAllowRemote | telnet.TelOptAllowLocal),
		RegisterMXP(),
	}

	if config.AcceptEOR {
		options = append(options, RegisterEOR(telnet.TelOptAllowRemote))
	}

	return options
}
