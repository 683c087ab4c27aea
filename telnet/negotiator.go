package telnet

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/moodclient/mudclient/internal/pending"
)

// DefaultMaxSubnegotiation bounds the payload of a single IAC SB block when
// NegotiatorConfig.MaxSubnegotiation is zero.
const DefaultMaxSubnegotiation = 8192

// NegotiatorConfig determines the telopt policy of a Negotiator
type NegotiatorConfig struct {
	// TelOpts is the set of telopts the negotiator knows about. Negotiation commands
	// for any other telopt are refused.
	TelOpts []TelnetOption

	// WindowSize is the size reported over NAWS before SetWindowSize is called.
	// The zero value means DefaultWindowSize.
	WindowSize WindowSize

	// MaxSubnegotiation bounds the payload of a single IAC SB block. Larger blocks
	// are dropped. The zero value means DefaultMaxSubnegotiation.
	MaxSubnegotiation int
}

// ReceivedCommand is a command seen in the inbound stream. Offset is the position
// in Result.Data at which it appeared, which is where a GA or EOR prompt ends.
// Changes holds the telopt transitions the command caused, if any.
type ReceivedCommand struct {
	Command
	Offset  int
	Changes []StateChange
}

// Result is everything produced by one call to Negotiator.Feed
type Result struct {
	// Data is the application byte stream with the telnet layer removed
	Data []byte
	// Replies must be written to the transport, in order, before waiting on more input
	Replies []Command
	// Received lists the commands that arrived, in order. Payloads of discarded
	// subnegotiations are not kept.
	Received []ReceivedCommand
	// Changes lists telopt state transitions, in order
	Changes []StateChange
	// Anomalies lists malformed input that was dropped. None of them are fatal.
	Anomalies []error
}

// ReplyBytes encodes Replies for the transport
func (r Result) ReplyBytes() []byte {
	var b []byte
	for _, reply := range r.Replies {
		b = append(b, reply.Bytes()...)
	}

	return b
}

// Negotiator strips the telnet layer from an inbound byte stream and answers
// telopt negotiation. It may be fed chunks of any size: the output for a stream
// does not depend on where it was split.
//
// A Negotiator belongs to a single connection and is not safe for concurrent use.
// Its Capabilities may be read concurrently.
type Negotiator struct {
	options           map[TelOptCode]TelnetOption
	capabilities      *Capabilities
	tail              *pending.Tail
	maxSubnegotiation int
	skipping          bool

	replies   []Command
	changes   []StateChange
	anomalies []error
}

// NewNegotiator creates a negotiator with every telopt not-offered
func NewNegotiator(config NegotiatorConfig) (*Negotiator, error) {
	windowSize := config.WindowSize
	if windowSize == (WindowSize{}) {
		windowSize = DefaultWindowSize
	}

	maxSubnegotiation := config.MaxSubnegotiation
	if maxSubnegotiation <= 0 {
		maxSubnegotiation = DefaultMaxSubnegotiation
	}

	n := &Negotiator{
		options:           make(map[TelOptCode]TelnetOption),
		capabilities:      NewCapabilities(ClampWindowSize(windowSize.Columns, windowSize.Rows)),
		tail:              pending.NewTail(64),
		maxSubnegotiation: maxSubnegotiation,
	}

	for _, option := range config.TelOpts {
		oldOption, hasOldOption := n.options[option.Code()]
		if hasOldOption {
			return nil, fmt.Errorf("%w: TelOpt %d is already registered to an option of type %T. it cannot be registered to an option of type %T", ErrTelOptCollision, option.Code(), oldOption, option)
		}

		option.Initialize(n)
		n.options[option.Code()] = option
	}

	return n, nil
}

// Capabilities returns the connection's negotiated-options record
func (n *Negotiator) Capabilities() *Capabilities {
	return n.capabilities
}

// Send queues a command to be returned with the replies of the current operation.
// Telopts use it to answer subnegotiations and announce state.
func (n *Negotiator) Send(c Command) {
	n.replies = append(n.replies, c)
}

// Pending reports how many bytes are held waiting for the rest of a command
func (n *Negotiator) Pending() int {
	return n.tail.Len()
}

func (n *Negotiator) result(data []byte, received []ReceivedCommand) Result {
	result := Result{
		Replies:   n.replies,
		Received:  received,
		Changes:   n.changes,
		Anomalies: n.anomalies,
	}

	if len(data) > 0 {
		result.Data = data
	}

	n.replies = nil
	n.changes = nil
	n.anomalies = nil

	return result
}

// Start offers every telopt registered with a request usage. It should be called
// once, when the connection opens.
func (n *Negotiator) Start() Result {
	for _, code := range slices.Sorted(maps.Keys(n.options)) {
		option := n.options[code]
		if code == OptMXP {
			continue
		}

		usage := option.Usage()
		if usage&telOptOnlyRequestLocal != 0 {
			oldState := n.capabilities.LocalState(code)
			if oldState == TelOptNotOffered || oldState == TelOptRefused {
				n.Send(Command{OpCode: WILL, Option: code})
				n.noteError(n.transition(option, code, TelOptSideLocal, TelOptOffered))
			}
		}

		if usage&telOptOnlyRequestRemote != 0 {
			oldState := n.capabilities.RemoteState(code)
			if oldState == TelOptNotOffered || oldState == TelOptRefused {
				n.Send(Command{OpCode: DO, Option: code})
				n.noteError(n.transition(option, code, TelOptSideRemote, TelOptOffered))
			}
		}
	}

	return n.result(nil, nil)
}

// Feed consumes the next chunk of the inbound stream
func (n *Negotiator) Feed(raw []byte) Result {
	window := n.tail.Window(raw)
	data := make([]byte, 0, len(window))
	var received []ReceivedCommand

	pos := 0
scanLoop:
	for pos < len(window) {
		if n.skipping {
			consumed, done := skipSubnegotiation(window[pos:])
			pos += consumed
			if !done {
				break
			}

			n.skipping = false
			continue
		}

		scanned := Scan(window[pos:], n.maxSubnegotiation)
		switch scanned.Kind {
		case ScanNeedMore:
			break scanLoop
		case ScanText:
			data = append(data, window[pos:pos+scanned.Consumed]...)
		case ScanEscapedIAC:
			data = append(data, IAC)
		case ScanCommand:
			before := len(n.changes)
			c, record := n.processCommand(window[pos : pos+scanned.Consumed])
			if record {
				command := ReceivedCommand{Command: c, Offset: len(data)}
				if len(n.changes) > before {
					command.Changes = slices.Clone(n.changes[before:])
				}
				received = append(received, command)
			}
		case ScanDropped:
			n.anomalies = append(n.anomalies, scanned.Err)
			if errors.Is(scanned.Err, ErrSubnegotiationOverflow) {
				n.skipping = true
			}
		}

		pos += scanned.Consumed
	}

	n.tail.Keep(window[pos:])

	return n.result(data, received)
}

// SetWindowSize records a new window size. If NAWS is accepted and the size
// changed, the returned commands hold the NAWS update for the transport.
func (n *Negotiator) SetWindowSize(columns, rows int) []Command {
	size := ClampWindowSize(columns, rows)
	if !n.capabilities.setWindowSize(size) {
		return nil
	}

	if n.capabilities.LocalState(OptNAWS) == TelOptAccepted {
		n.Send(NAWSCommand(size))
	}

	replies := n.replies
	n.replies = nil
	return replies
}

// Reset discards held input and returns every telopt to not-offered. It is
// called when the connection closes.
func (n *Negotiator) Reset() {
	type sideState struct {
		option TelnetOption
		side   TelOptSide
	}

	var notify []sideState
	for _, code := range slices.Sorted(maps.Keys(n.options)) {
		option := n.options[code]
		if option.LocalState() != TelOptNotOffered {
			notify = append(notify, sideState{option, TelOptSideLocal})
		}
		if option.RemoteState() != TelOptNotOffered {
			notify = append(notify, sideState{option, TelOptSideRemote})
		}
	}

	n.capabilities.Reset()
	n.tail.Reset()
	n.skipping = false

	for _, s := range notify {
		if s.side == TelOptSideLocal {
			_ = s.option.TransitionLocalState(TelOptNotOffered)
		} else {
			_ = s.option.TransitionRemoteState(TelOptNotOffered)
		}
	}

	n.replies = nil
	n.changes = nil
	n.anomalies = nil
}

func (n *Negotiator) noteError(err error) {
	if err != nil {
		n.anomalies = append(n.anomalies, err)
	}
}

func (n *Negotiator) processCommand(raw []byte) (Command, bool) {
	c, err := parseCommand(raw)
	if err != nil {
		n.noteError(err)
		return Command{}, false
	}

	switch c.OpCode {
	case NOP:
		return c, false
	case GA, EOR:
		return c, true
	case SB:
		return n.processSubnegotiation(c), true
	}

	n.noteError(n.processTelOptCommand(c))
	return c, true
}

func (n *Negotiator) processSubnegotiation(c Command) Command {
	stripped := Command{OpCode: SB, Option: c.Option}

	option, hasOption := n.options[c.Option]
	if !hasOption {
		// Getting subnegotiations for stuff we haven't agreed to
		return stripped
	}

	if option.LocalState() != TelOptAccepted && option.RemoteState() != TelOptAccepted {
		// Getting subnegotiations for stuff we haven't agreed to
		return stripped
	}

	n.noteError(option.Subnegotiate(c.Subnegotiation))

	discarder, isDiscarder := option.(PayloadDiscarder)
	if isDiscarder && discarder.DiscardsPayload() {
		return stripped
	}

	return c
}

// refuse answers a DO/WILL with WONT/DONT and records the refusal
func (n *Negotiator) refuse(option TelnetOption, side TelOptSide, c Command) error {
	n.Send(c.reject())
	return n.transition(option, c.Option, side, TelOptRefused)
}

func (n *Negotiator) processTelOptCommand(c Command) error {
	if !c.isNegotiation() {
		return nil
	}

	side := TelOptSideRemote
	allowFlag := TelOptAllowRemote
	if c.isLocalNegotiation() {
		side = TelOptSideLocal
		allowFlag = TelOptAllowLocal
	}

	option, hasOption := n.options[c.Option]

	// MXP is refused whatever the registered usage says
	if c.Option == OptMXP && c.isActivateNegotiation() {
		return n.refuse(option, side, c)
	}

	oldState := n.capabilities.RemoteState(c.Option)
	if side == TelOptSideLocal {
		oldState = n.capabilities.LocalState(c.Option)
	}

	// They are requesting WONT/DONT
	if !c.isActivateNegotiation() {
		switch oldState {
		case TelOptAccepted:
			// need to turn it off and confirm
			n.Send(c.acknowledge())
			return n.transition(option, c.Option, side, TelOptRefused)
		case TelOptOffered:
			// this is the answer to our own offer
			return n.transition(option, c.Option, side, TelOptRefused)
		default:
			// already turned off
			return nil
		}
	}

	if !hasOption {
		// Unregistered telopt
		return n.refuse(nil, side, c)
	}

	// They are requesting DO/WILL
	if oldState == TelOptAccepted {
		// Already turned on
		return nil
	}

	if option.Usage()&allowFlag == 0 {
		// Disallowed telopt
		return n.refuse(option, side, c)
	}

	if oldState != TelOptOffered {
		// Need to send an accept command
		n.Send(c.accept())
	}

	return n.transition(option, c.Option, side, TelOptAccepted)
}

func (n *Negotiator) transition(option TelnetOption, code TelOptCode, side TelOptSide, newState TelOptState) error {
	oldState, storedState := n.capabilities.setState(side, code, newState)
	if oldState == storedState {
		return nil
	}

	n.changes = append(n.changes, StateChange{
		Option:   code,
		Side:     side,
		OldState: oldState,
		NewState: storedState,
	})

	if option == nil {
		return nil
	}

	if side == TelOptSideLocal {
		return option.TransitionLocalState(storedState)
	}

	return option.TransitionRemoteState(storedState)
}

// CommandString converts a Command object into a legible stream, using the
// registered telopts to describe subnegotiations. This can be useful
// when logging a received command object
func (n *Negotiator) CommandString(c Command) string {
	var sb strings.Builder
	sb.WriteString("IAC ")

	opCode, hasOpCode := commandCodes[c.OpCode]
	if !hasOpCode {
		opCode = strconv.Itoa(int(c.OpCode))
	}

	sb.WriteString(opCode)

	if c.OpCode == GA || c.OpCode == NOP || c.OpCode == EOR {
		return sb.String()
	}

	sb.WriteByte(' ')

	option, hasOption := n.options[c.Option]

	if !hasOption {
		sb.WriteString(c.Option.String())
	} else {
		sb.WriteString(option.String())
	}

	if c.OpCode != SB {
		return sb.String()
	}

	sb.WriteByte(' ')

	if !hasOption {
		sb.WriteString(fmt.Sprintf("%+v", c.Subnegotiation))
	} else {
		str, err := option.SubnegotiationString(c.Subnegotiation)

		if err != nil {
			sb.WriteString(fmt.Sprintf("%+v", c.Subnegotiation))
		} else {
			sb.WriteString(str)
		}
	}

	sb.WriteString(" IAC SE")
	return sb.String()
}
