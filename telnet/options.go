package telnet

import "strconv"

// Option codes the client knows by name. Only some of them have policies
// registered by default; the rest exist so logs and refusals are legible.
const (
	OptBinary     TelOptCode = 0
	OptEcho       TelOptCode = 1
	OptSGA        TelOptCode = 3
	OptTTYPE      TelOptCode = 24
	OptEOR        TelOptCode = 25
	OptNAWS       TelOptCode = 31
	OptLinemode   TelOptCode = 34
	OptNewEnviron TelOptCode = 39
	OptMSDP       TelOptCode = 69
	OptMSSP       TelOptCode = 70
	OptMCCP2      TelOptCode = 86
	OptMXP        TelOptCode = 91
	OptGMCP       TelOptCode = 201
)

var optionNames = map[TelOptCode]string{
	OptBinary:     "TRANSMIT-BINARY",
	OptEcho:       "ECHO",
	OptSGA:        "SUPPRESS-GO-AHEAD",
	OptTTYPE:      "TTYPE",
	OptEOR:        "EOR",
	OptNAWS:       "NAWS",
	OptLinemode:   "LINEMODE",
	OptNewEnviron: "NEW-ENVIRON",
	OptMSDP:       "MSDP",
	OptMSSP:       "MSSP",
	OptMCCP2:      "MCCP2",
	OptMXP:        "MXP",
	OptGMCP:       "GMCP",
}

func (c TelOptCode) String() string {
	name, hasName := optionNames[c]
	if !hasName {
		return "? Unknown Option " + strconv.Itoa(int(c)) + "?"
	}

	return name
}
