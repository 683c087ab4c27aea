package mudclient

import (
	"sync/atomic"

	"github.com/moodclient/mudclient/telnet"
)

// PromptCommands is a set of flags indicating which IAC opcodes indicate
// the end of a prompt line. MUDs like to use GA or EOR to indicate where
// to place the cursor at the end of a prompt. But GA can be turned off
// with the SUPPRESS-GO-AHEAD telopt, and EOR has to be turned on with the
// EOR telopt, so this helps us track where we're at.
type PromptCommands uint32

const (
	PromptCommandGA PromptCommands = 1 << iota
	PromptCommandEOR
)

func (p PromptCommands) String() string {
	switch p {
	case PromptCommandGA:
		return "GA"
	case PromptCommandEOR:
		return "EOR"
	case PromptCommandGA | PromptCommandEOR:
		return "GA|EOR"
	default:
		return "none"
	}
}

type atomicPromptCommands struct {
	promptCommands atomic.Uint32
}

func (p *atomicPromptCommands) Init() {
	p.promptCommands.Store(uint32(PromptCommandGA))
}

func (p *atomicPromptCommands) Get() PromptCommands {
	return PromptCommands(p.promptCommands.Load())
}

func (p *atomicPromptCommands) SetPromptCommand(flag PromptCommands) {
	for {
		oldValue := p.promptCommands.Load()
		if p.promptCommands.CompareAndSwap(oldValue, oldValue|uint32(flag)) {
			break
		}
	}
}

func (p *atomicPromptCommands) ClearPromptCommand(flag PromptCommands) {
	for {
		oldValue := p.promptCommands.Load()
		if p.promptCommands.CompareAndSwap(oldValue, oldValue&uint32(^flag)) {
			break
		}
	}
}

// isSuppressed reports whether a received prompt command should be ignored
func (p *atomicPromptCommands) isSuppressed(flag PromptCommands) bool {
	return p.Get()&flag == 0
}

// trackStateChange keeps the accepted prompt commands in line with the remote
// SUPPRESS-GO-AHEAD and EOR telopts
func (p *atomicPromptCommands) trackStateChange(change telnet.StateChange) {
	if change.Side != telnet.TelOptSideRemote {
		return
	}

	accepted := change.NewState == telnet.TelOptAccepted

	switch change.Option {
	case telnet.OptSGA:
		if accepted {
			p.ClearPromptCommand(PromptCommandGA)
		} else {
			p.SetPromptCommand(PromptCommandGA)
		}
	case telnet.OptEOR:
		if accepted {
			p.SetPromptCommand(PromptCommandEOR)
		} else {
			p.ClearPromptCommand(PromptCommandEOR)
		}
	}
}
