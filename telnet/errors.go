package telnet

import "errors"

// Protocol anomalies. They are reported in Result.Anomalies and never stop
// the negotiator; the offending bytes are dropped and scanning resumes.
var (
	ErrMalformedCommand       = errors.New("telnet: malformed command")
	ErrUnknownCommand         = errors.New("telnet: unknown command")
	ErrSubnegotiationOverflow = errors.New("telnet: subnegotiation exceeded maximum length")
)

// ErrTelOptCollision is returned by NewNegotiator when two telopts share a code.
var ErrTelOptCollision = errors.New("telnet: telopt collision")
