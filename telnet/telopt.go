package telnet

import (
	"fmt"
)

// TelOptUsage indicates how a particular TelnetOption is supposed to be used by the
// negotiator.  Whether it is permitted to be activated locally or on the remote, and
// whether we should request activation locally or on the remote when the connection starts.
type TelOptUsage byte

// There's no situation where we'd want to request usage of a telopt but not allow the remote to
// propose it, so the TelOptRequestRemote/Local exposed to consumers includes both flags

const (
	// TelOptAllowRemote - if the remote requests to activate this telopt on their side,
	// we will permit it
	TelOptAllowRemote TelOptUsage = 1 << iota
	telOptOnlyRequestRemote
	// TelOptAllowLocal - if the remote requests that we activate this telopt on our side,
	// we will comply
	TelOptAllowLocal
	telOptOnlyRequestLocal
)

const (
	// TelOptRequestRemote - we will request that the remote activate this telopt when
	// the negotiator starts
	TelOptRequestRemote TelOptUsage = TelOptAllowRemote | telOptOnlyRequestRemote
	// TelOptRequestLocal - we will request that the remote allow us to activate this
	// telopt on our side when the negotiator starts
	TelOptRequestLocal TelOptUsage = TelOptAllowLocal | telOptOnlyRequestLocal
)

// TelOptCode - each telopt has a unique identification number between 0 and 255
type TelOptCode byte

// TelnetOption is an object representing a single telopt within one connection's
// negotiator.  Each connection has its own instance of a telopt for each telopt it supports.
//
// The negotiator owns the negotiated state: it records each transition in the
// connection's Capabilities and then calls TransitionLocalState/TransitionRemoteState
// so the option can react, usually by sending a subnegotiation with Negotiator.Send.
type TelnetOption interface {
	// Code returns the code this option should be registered under. This method is expected to run succesfully
	// before Initialize is called.
	Code() TelOptCode
	// String should return the short name used to refer to this option. This method is expected to run
	// successfully before Initialize is called.
	String() string
	// Usage indicates the way in which this TelOpt is permitted to be used. This method
	// is expected to run successfully before Initialize is called.
	Usage() TelOptUsage

	// Initialize sets the negotiator used by this telopt and performs any other necessary
	// business before other methods may be called.
	Initialize(negotiator *Negotiator)
	// Negotiator returns the current negotiator. This method must successfully return nil
	// before Initialize is called.
	Negotiator() *Negotiator

	// LocalState returns the current state of this option locally- receiving a DO command will activate
	// it and a DONT command will deactivate it.
	LocalState() TelOptState
	// RemoteState returns the current state of this option in the remote- receiving a WILL command
	// will activate it and a WONT command will deactivate it
	RemoteState() TelOptState

	// TransitionLocalState is called after the negotiator has moved this option to a new state
	// locally. It is not called for repeated transitions to the same state.
	TransitionLocalState(newState TelOptState) error
	// TransitionRemoteState is called after the negotiator has moved this option to a new state
	// for the remote. It is not called for repeated transitions to the same state.
	TransitionRemoteState(newState TelOptState) error

	// Subnegotiate is called when a subnegotiation request arrives from the remote party. This will only
	// be called when the option is accepted on one side of the connection
	Subnegotiate(subnegotiation []byte) error
	// SubnegotiationString creates a legible string for a subnegotiation request
	SubnegotiationString(subnegotiation []byte) (string, error)
}

// PayloadDiscarder is implemented by telopts whose subnegotiation payloads are accepted
// at the protocol layer but never interpreted. The negotiator does not retain their
// payloads anywhere, including Result.Received.
type PayloadDiscarder interface {
	DiscardsPayload() bool
}

// TelOptState is the negotiated state of one side of a telopt
type TelOptState byte

const (
	// TelOptNotOffered is the zero value: neither party has mentioned the telopt
	TelOptNotOffered TelOptState = iota
	// TelOptOffered indicates that this client has sent a request to activate the telopt to the other party
	// but has not yet heard back
	TelOptOffered
	// TelOptAccepted indicates that both parties agreed to activate the telopt
	TelOptAccepted
	// TelOptRefused indicates that one of the parties declined or deactivated the telopt
	TelOptRefused
)

func (s TelOptState) String() string {
	switch s {
	case TelOptNotOffered:
		return "NotOffered"
	case TelOptOffered:
		return "Offered"
	case TelOptAccepted:
		return "Accepted"
	case TelOptRefused:
		return "Refused"
	default:
		return "Unknown"
	}
}

// TelOptSide distinguishes our side of a telopt (DO/DONT) from the remote's (WILL/WONT)
type TelOptSide byte

const (
	TelOptSideUnknown TelOptSide = iota
	TelOptSideLocal
	TelOptSideRemote
)

func (s TelOptSide) String() string {
	switch s {
	case TelOptSideLocal:
		return "Local"
	case TelOptSideRemote:
		return "Remote"
	default:
		return "Unknown"
	}
}

// StateChange records one transition of a telopt on one side of the connection
type StateChange struct {
	Option   TelOptCode
	Side     TelOptSide
	OldState TelOptState
	NewState TelOptState
}

func (c StateChange) String() string {
	return fmt.Sprintf("%s %s: %s -> %s", c.Option, c.Side, c.OldState, c.NewState)
}

// TypedTelnetOption - this is used as a bit of a hack for GetTelOpt. It allows
// the generic semantic below to work
type TypedTelnetOption[OptionStruct any] interface {
	*OptionStruct
	TelnetOption
}

// GetTelOpt retrieves a live telopt from a negotiator. It is used like this:
//
//	telnet.GetTelOpt[telopts.NAWS](negotiator)
//
// The above will return a value of type *telopts.NAWS, or nil if NAWS is not a registered
// telopt.  If there is a telopt of a different type registered under NAWS's code, then the method
// will return an error.
func GetTelOpt[OptionStruct any, T TypedTelnetOption[OptionStruct]](negotiator *Negotiator) (T, error) {
	var zero OptionStruct
	code := T(&zero).Code()

	option, hasOption := negotiator.options[code]

	if !hasOption {
		return nil, nil
	}

	typed, ok := option.(T)
	if !ok {
		name := T(&zero).String()
		return nil, fmt.Errorf("TelOpt %s did not return type %T- it returned type %T", name, zero, option)
	}

	return typed, nil
}
