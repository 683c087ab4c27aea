package mudclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"

	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/telnet"
)

var lineEnding = []byte{'\r', '\n'}

type keyboardTransport struct {
	commands []telnet.Command
	text     string
}

// TelnetKeyboard is a Terminal subsidiary that is in charge of sending outbound data
// to the remote peer. Everything written goes through a single goroutine, so commands
// and text reach the transport in the order they were queued.
type TelnetKeyboard struct {
	charset      *render.Charset
	outputStream io.Writer
	input        chan keyboardTransport
	stopped      chan struct{}
	eventPump    *terminalEventPump
}

func newTelnetKeyboard(charset *render.Charset, output io.Writer, eventPump *terminalEventPump) *TelnetKeyboard {
	return &TelnetKeyboard{
		charset:      charset,
		outputStream: output,
		input:        make(chan keyboardTransport, 100),
		stopped:      make(chan struct{}),
		eventPump:    eventPump,
	}
}

func (k *TelnetKeyboard) writeOutput(b []byte) error {
	for {
		_, err := k.outputStream.Write(b)

		// Retry when the write timed out
		var netError net.Error
		if errors.As(err, &netError) && netError.Timeout() {
			continue
		}

		return err
	}
}

func (k *TelnetKeyboard) writeCommands(commands []telnet.Command) error {
	var b []byte
	for _, c := range commands {
		k.eventPump.SentCommand(c)
		b = append(b, c.Bytes()...)
	}

	return k.writeOutput(b)
}

// encodeLine converts a line of text to wire bytes: encoded, IAC doubled, CR LF terminated
func encodeLine(charset *render.Charset, text string) ([]byte, error) {
	b, err := charset.Encode(text)
	if err != nil {
		return nil, err
	}

	b = bytes.ReplaceAll(b, []byte{telnet.IAC}, []byte{telnet.IAC, telnet.IAC})
	return append(b, lineEnding...), nil
}

func (k *TelnetKeyboard) writeLine(text string) error {
	b, err := encodeLine(k.charset, text)
	if err != nil {
		k.eventPump.EncounteredError(err)
		return nil
	}

	k.eventPump.SentText(text)
	return k.writeOutput(b)
}

func (k *TelnetKeyboard) write(transport keyboardTransport) error {
	if len(transport.commands) > 0 {
		return k.writeCommands(transport.commands)
	}

	return k.writeLine(transport.text)
}

func isClosedError(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}

func (k *TelnetKeyboard) keyboardLoop(ctx context.Context) error {
	defer close(k.stopped)

	for {
		select {
		case <-ctx.Done():
			return nil
		case input := <-k.input:
			err := k.write(input)
			if err == nil {
				continue
			}

			if isClosedError(err) {
				return nil
			}
			return err
		}
	}
}

func (k *TelnetKeyboard) queue(transport keyboardTransport) error {
	select {
	case <-k.stopped:
		return ErrTerminalClosed
	default:
	}

	select {
	case k.input <- transport:
		return nil
	case <-k.stopped:
		return ErrTerminalClosed
	}
}

// WriteCommands will queue commands to be sent to the remote
func (k *TelnetKeyboard) WriteCommands(commands ...telnet.Command) error {
	if len(commands) == 0 {
		return nil
	}

	return k.queue(keyboardTransport{commands: commands})
}

// WriteLine will queue a line of text to be sent to the remote. The line ending is added.
func (k *TelnetKeyboard) WriteLine(text string) error {
	return k.queue(keyboardTransport{text: text})
}
