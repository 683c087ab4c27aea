package mudclient

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"

	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/telnet"
)

// TelnetPrinter is a Terminal subsidiary that reads from the remote peer. It is the
// only owner of the renderer, and the only goroutine that feeds the negotiator.
type TelnetPrinter struct {
	inputStream    io.Reader
	bufferSize     int
	renderer       *render.Renderer
	eventPump      *terminalEventPump
	promptCommands atomicPromptCommands
	remoteClosed   atomic.Bool
}

func newTelnetPrinter(renderer *render.Renderer, inputStream io.Reader, bufferSize int, eventPump *terminalEventPump) *TelnetPrinter {
	if bufferSize <= 0 {
		bufferSize = DefaultReadBufferSize
	}

	printer := &TelnetPrinter{
		inputStream: inputStream,
		bufferSize:  bufferSize,
		renderer:    renderer,
		eventPump:   eventPump,
	}
	printer.promptCommands.Init()

	return printer
}

func (p *TelnetPrinter) printerLoop(ctx context.Context, terminal *Terminal) error {
	buffer := make([]byte, p.bufferSize)

	for ctx.Err() == nil {
		n, err := p.inputStream.Read(buffer)
		if n > 0 && ctx.Err() == nil {
			terminal.processChunk(buffer[:n])
		}

		if err == nil {
			continue
		}

		// Don't worry about timeouts
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			continue
		}

		if errors.Is(err, io.EOF) {
			p.remoteClosed.Store(true)
			p.publishOutput(p.renderer.Flush())
			return nil
		}

		if ctx.Err() != nil || isClosedError(err) {
			return nil
		}

		return err
	}

	return nil
}

func (p *TelnetPrinter) render(data []byte) {
	if len(data) == 0 {
		return
	}

	p.publishOutput(p.renderer.Feed(data))
}

func (p *TelnetPrinter) publishOutput(outputs []render.Output) {
	for _, output := range outputs {
		p.eventPump.EncounteredPrinterOutput(output)
	}
}

// publish raises the events for one negotiator result. Application data is
// rendered in pieces so that each command's events land where it appeared.
func (p *TelnetPrinter) publish(result telnet.Result) {
	for _, err := range result.Anomalies {
		p.eventPump.EncounteredError(err)
	}

	offset := 0
	for _, received := range result.Received {
		p.render(result.Data[offset:received.Offset])
		offset = received.Offset

		for _, change := range received.Changes {
			p.promptCommands.trackStateChange(change)
			p.eventPump.TelOptStateChanged(change)
		}

		p.eventPump.ReceivedCommand(received.Command)

		var prompt PromptCommands
		switch received.OpCode {
		case telnet.GA:
			prompt = PromptCommandGA
		case telnet.EOR:
			prompt = PromptCommandEOR
		default:
			continue
		}

		if !p.promptCommands.isSuppressed(prompt) {
			p.eventPump.EncounteredPrompt(prompt)
		}
	}

	p.render(result.Data[offset:])
}

// PromptCommands returns which of IAC GA and IAC EOR are currently reported through
// the Prompt hook
func (p *TelnetPrinter) PromptCommands() PromptCommands {
	return p.promptCommands.Get()
}
