package mudclient

import (
	"context"

	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/telnet"
)

type eventType byte

const (
	eventUnknown eventType = iota
	eventError
	eventPrinterOutput
	eventPrompt
	eventInboundCommand
	eventOutboundCommand
	eventOutboundText
	eventStateChange
	eventConnection
)

type eventsTransport struct {
	eventType  eventType
	err        error
	output     render.Output
	prompt     PromptCommands
	command    telnet.Command
	text       string
	change     telnet.StateChange
	connection ConnectionEvent
}

// terminalEventPump delivers events to hooks on a goroutine of its own, in the
// order they were raised
type terminalEventPump struct {
	events chan eventsTransport
}

func newEventPump() *terminalEventPump {
	return &terminalEventPump{
		events: make(chan eventsTransport, 100),
	}
}

func (p *terminalEventPump) processEvent(terminal *Terminal, event eventsTransport) {
	switch event.eventType {
	case eventError:
		terminal.encounteredErrorHooks.Fire(terminal, event.err)
	case eventPrinterOutput:
		terminal.printerOutputHooks.Fire(terminal, event.output)
	case eventPrompt:
		terminal.promptHooks.Fire(terminal, event.prompt)
	case eventInboundCommand:
		terminal.inboundCommandHooks.Fire(terminal, event.command)
	case eventOutboundCommand:
		terminal.outboundCommandHooks.Fire(terminal, event.command)
	case eventOutboundText:
		terminal.outboundTextHooks.Fire(terminal, event.text)
	case eventStateChange:
		terminal.telOptStateChangeHooks.Fire(terminal, event.change)
	case eventConnection:
		terminal.connectionStateHooks.Fire(terminal, event.connection)
	default:
		panic("invalid event")
	}
}

func (p *terminalEventPump) loopCleanup(terminal *Terminal) {
	close(p.events)

	for ev := range p.events {
		p.processEvent(terminal, ev)
	}
}

func (p *terminalEventPump) TerminalLoop(ctx context.Context, terminal *Terminal) {
	defer p.loopCleanup(terminal)

	for {
		select {
		case ev := <-p.events:
			p.processEvent(terminal, ev)
		case <-ctx.Done():
			return
		}
	}
}

func (p *terminalEventPump) EncounteredError(err error) {
	p.events <- eventsTransport{eventType: eventError, err: err}
}

func (p *terminalEventPump) EncounteredPrinterOutput(output render.Output) {
	p.events <- eventsTransport{eventType: eventPrinterOutput, output: output}
}

func (p *terminalEventPump) EncounteredPrompt(prompt PromptCommands) {
	p.events <- eventsTransport{eventType: eventPrompt, prompt: prompt}
}

func (p *terminalEventPump) ReceivedCommand(c telnet.Command) {
	p.events <- eventsTransport{eventType: eventInboundCommand, command: c}
}

func (p *terminalEventPump) SentCommand(c telnet.Command) {
	p.events <- eventsTransport{eventType: eventOutboundCommand, command: c}
}

func (p *terminalEventPump) SentText(text string) {
	p.events <- eventsTransport{eventType: eventOutboundText, text: text}
}

func (p *terminalEventPump) TelOptStateChanged(change telnet.StateChange) {
	p.events <- eventsTransport{eventType: eventStateChange, change: change}
}

func (p *terminalEventPump) ConnectionStateChanged(event ConnectionEvent) {
	p.events <- eventsTransport{eventType: eventConnection, connection: event}
}
