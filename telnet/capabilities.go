package telnet

import "sync"

// Capabilities is the negotiated-options record for one connection. The
// negotiator (and the telopts it drives) mutate it while processing input;
// the presentation layer may read it at any time from another goroutine.
type Capabilities struct {
	lock sync.RWMutex

	local  map[TelOptCode]TelOptState
	remote map[TelOptCode]TelOptState

	windowSize      WindowSize
	terminalType    string
	opaquePayloads  map[TelOptCode]int
	opaqueByteCount map[TelOptCode]int
}

// NewCapabilities creates an empty record with every telopt not-offered
func NewCapabilities(windowSize WindowSize) *Capabilities {
	return &Capabilities{
		local:           make(map[TelOptCode]TelOptState),
		remote:          make(map[TelOptCode]TelOptState),
		windowSize:      windowSize,
		opaquePayloads:  make(map[TelOptCode]int),
		opaqueByteCount: make(map[TelOptCode]int),
	}
}

// LocalState is the state of our side of the telopt (DO/DONT)
func (c *Capabilities) LocalState(code TelOptCode) TelOptState {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.local[code]
}

// RemoteState is the state of the remote's side of the telopt (WILL/WONT)
func (c *Capabilities) RemoteState(code TelOptCode) TelOptState {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.remote[code]
}

// State folds both sides into one value: accepted if either side is accepted,
// otherwise refused, then offered, then not-offered.
func (c *Capabilities) State(code TelOptCode) TelOptState {
	c.lock.RLock()
	defer c.lock.RUnlock()

	local, remote := c.local[code], c.remote[code]

	for _, state := range []TelOptState{TelOptAccepted, TelOptRefused, TelOptOffered} {
		if local == state || remote == state {
			return state
		}
	}

	return TelOptNotOffered
}

// setState stores a new state and returns the state it replaced. MXP can never
// be recorded as accepted.
func (c *Capabilities) setState(side TelOptSide, code TelOptCode, state TelOptState) (TelOptState, TelOptState) {
	if code == OptMXP && state == TelOptAccepted {
		state = TelOptRefused
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	states := c.remote
	if side == TelOptSideLocal {
		states = c.local
	}

	oldState := states[code]
	states[code] = state

	return oldState, state
}

// Echo reports whether the remote has taken over echoing our input
func (c *Capabilities) Echo() bool {
	return c.RemoteState(OptEcho) == TelOptAccepted
}

// SuppressGoAhead reports whether the remote has stopped sending IAC GA
func (c *Capabilities) SuppressGoAhead() bool {
	return c.RemoteState(OptSGA) == TelOptAccepted
}

// WindowSize is the most recent size supplied by the presentation layer
func (c *Capabilities) WindowSize() WindowSize {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.windowSize
}

func (c *Capabilities) setWindowSize(size WindowSize) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.windowSize == size {
		return false
	}

	c.windowSize = size
	return true
}

// TerminalType is the terminal name most recently reported via TTYPE IS, or
// empty if the remote has not asked.
func (c *Capabilities) TerminalType() string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.terminalType
}

// SetTerminalType is called by the TTYPE telopt when it reports a terminal name
func (c *Capabilities) SetTerminalType(name string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.terminalType = name
}

// RecordOpaquePayload is called by telopts whose payloads are discarded. Only
// the fact of receipt is kept.
func (c *Capabilities) RecordOpaquePayload(code TelOptCode, length int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.opaquePayloads[code]++
	c.opaqueByteCount[code] += length
}

// OpaquePayloads reports how many discarded payloads, and how many bytes in
// total, have been received for a telopt
func (c *Capabilities) OpaquePayloads(code TelOptCode) (count int, byteCount int) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.opaquePayloads[code], c.opaqueByteCount[code]
}

// Reset returns every telopt to not-offered. The window size is kept, since it
// belongs to the presentation layer rather than to the connection.
func (c *Capabilities) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	clear(c.local)
	clear(c.remote)
	clear(c.opaquePayloads)
	clear(c.opaqueByteCount)
	c.terminalType = ""
}
