// Package mudclient connects a telnet transport to the telnet negotiator and the
// ANSI renderer and reports what happens on the connection through event hooks.
package mudclient

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/telnet"
	"github.com/moodclient/mudclient/telnet/telopts"
)

// ErrTerminalClosed is returned when writing to a terminal that has stopped
var ErrTerminalClosed = errors.New("mudclient: terminal closed")

// ConnectionState is the lifecycle stage reported through the ConnectionState hook
type ConnectionState byte

const (
	ConnectionStateUnknown ConnectionState = iota
	ConnectionStateConnected
	ConnectionStateDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionStateConnected:
		return "Connected"
	case ConnectionStateDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// ConnectionEvent is delivered once with ConnectionStateConnected when the terminal
// starts and once with ConnectionStateDisconnected when it stops. Cause is the
// transport error that ended the connection, or nil if it ended cleanly. Remote is
// true when the peer closed the connection.
type ConnectionEvent struct {
	State  ConnectionState
	Cause  error
	Remote bool
}

// Terminal is a wrapper around a net.Conn to enable MUD communications over it.
// Inbound bytes pass through a telnet.Negotiator, which answers telopt negotiation
// and strips the telnet layer, and then through a render.Renderer, which turns the
// remaining text into styled runs.
//
// Telnet functions as a "full duplex" protocol, meaning that it does not
// operate in a request-response type of semantic that users may be
// familiar with. Instead, it's best to envision a telnet connection as
// two asynchronous datastreams- a printer reader that produces
// text from the remote peer, and a keyboard writer that sends text to
// the remote peer. Negotiation replies are queued to the keyboard before
// the printer reads again, so the remote never waits on us.
//
// Text from the printer is sent to the consumer of the Terminal via the
// event hooks. The PrinterOutput hook provides render.Output values: text runs,
// line feeds, carriage returns and bells. The Prompt hook marks where an
// IAC GA or IAC EOR ended a prompt. Output is sent with SendLine.
//
// The user should bear in mind that the terminal runs three (substantive)
// goroutines: one for the printer, one for the keyboard, and one that
// calls registered hooks in order. Blocking calls made in hook methods
// will block functioning of the terminal altogether. It is the responsibility
// of the consumer to move long-running calls to their own concurrency scheme
// where necessary.
type Terminal struct {
	reader io.Reader
	writer io.Writer

	negotiatorLock sync.Mutex
	negotiator     *telnet.Negotiator
	charset        *render.Charset
	keyboard       *TelnetKeyboard
	printer        *TelnetPrinter
	pump           *terminalEventPump

	cancel  context.CancelFunc
	done    chan struct{}
	exitErr error

	printerOutputHooks     *EventPublisher[render.Output]
	promptHooks            *EventPublisher[PromptCommands]
	inboundCommandHooks    *EventPublisher[telnet.Command]
	outboundCommandHooks   *EventPublisher[telnet.Command]
	outboundTextHooks      *EventPublisher[string]
	encounteredErrorHooks  *EventPublisher[error]
	telOptStateChangeHooks *EventPublisher[telnet.StateChange]
	connectionStateHooks   *EventPublisher[ConnectionEvent]
}

// NewTerminal initializes a new terminal object and begins reading from
// the printer and writing to the keyboard. Telopt negotiation begins with the remote
// immediately when this method is called.
//
// The terminal will continue until either the passed context is cancelled, Close is called,
// or the connection is closed. The connection is closed when the terminal stops.
//
// All functioning of this terminal is determined by the properties passed in the TerminalConfig
// object.  See that type for more information.
func NewTerminal(ctx context.Context, conn net.Conn, config TerminalConfig) (*Terminal, error) {
	return NewTerminalFromPipes(ctx, conn, conn, config)
}

// NewTerminalFromPipes is NewTerminal for a transport made of a separate reader and
// writer. Either is closed when the terminal stops if it implements io.Closer.
func NewTerminalFromPipes(ctx context.Context, reader io.Reader, writer io.Writer, config TerminalConfig) (*Terminal, error) {
	renderer, err := render.NewRenderer(render.Config{
		Charset:         config.Charset,
		FallbackCharset: config.FallbackCharset,
		MaxSequence:     config.MaxSequence,
	})
	if err != nil {
		return nil, err
	}

	options := config.TelOpts
	if options == nil {
		options = telopts.Defaults(telopts.DefaultsConfig{})
	}

	negotiator, err := telnet.NewNegotiator(telnet.NegotiatorConfig{
		TelOpts:           options,
		WindowSize:        config.WindowSize,
		MaxSubnegotiation: config.MaxSubnegotiation,
	})
	if err != nil {
		return nil, err
	}

	pump := newEventPump()
	terminal := &Terminal{
		reader:     reader,
		writer:     writer,
		negotiator: negotiator,
		charset:    renderer.Charset(),
		keyboard:   newTelnetKeyboard(renderer.Charset(), writer, pump),
		printer:    newTelnetPrinter(renderer, reader, config.ReadBufferSize, pump),
		pump:       pump,
		done:       make(chan struct{}),

		printerOutputHooks:     NewPublisher(config.EventHooks.PrinterOutput),
		promptHooks:            NewPublisher(config.EventHooks.Prompt),
		inboundCommandHooks:    NewPublisher(config.EventHooks.InboundCommand),
		outboundCommandHooks:   NewPublisher(config.EventHooks.OutboundCommand),
		outboundTextHooks:      NewPublisher(config.EventHooks.OutboundText),
		encounteredErrorHooks:  NewPublisher(config.EventHooks.EncounteredError),
		telOptStateChangeHooks: NewPublisher(config.EventHooks.TelOptStateChange),
		connectionStateHooks:   NewPublisher(config.EventHooks.ConnectionState),
	}

	connCtx, connCancel := context.WithCancel(ctx)
	terminal.cancel = connCancel

	pump.ConnectionStateChanged(ConnectionEvent{State: ConnectionStateConnected})

	// Kick off telopt negotiation by queueing commands for our requested telopts
	terminal.negotiatorLock.Lock()
	start := negotiator.Start()
	err = terminal.keyboard.WriteCommands(start.Replies...)
	terminal.negotiatorLock.Unlock()
	if err != nil {
		connCancel()
		return nil, err
	}
	for _, change := range start.Changes {
		terminal.printer.promptCommands.trackStateChange(change)
		pump.TelOptStateChanged(change)
	}

	group, groupCtx := errgroup.WithContext(connCtx)
	group.Go(func() error {
		// If the printer stopped because the conn died, the keyboard might not notice- cancel explicitly
		defer connCancel()
		return terminal.printer.printerLoop(groupCtx, terminal)
	})
	group.Go(func() error {
		return terminal.keyboard.keyboardLoop(groupCtx)
	})
	group.Go(func() error {
		// Unblock a printer waiting on the transport
		<-groupCtx.Done()
		terminal.closeTransport()
		return nil
	})

	go terminal.supervise(group)

	return terminal, nil
}

func (t *Terminal) supervise(group *errgroup.Group) {
	pumpCtx, pumpCancel := context.WithCancel(context.Background())
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		t.pump.TerminalLoop(pumpCtx, t)
	}()

	err := group.Wait()

	// Nothing held for this connection may be applied after it closes
	t.negotiatorLock.Lock()
	t.negotiator.Reset()
	t.negotiatorLock.Unlock()
	t.printer.renderer.Reset()

	t.pump.ConnectionStateChanged(ConnectionEvent{
		State:  ConnectionStateDisconnected,
		Cause:  err,
		Remote: t.printer.remoteClosed.Load(),
	})

	// The pump delivers everything still queued before it stops
	pumpCancel()
	<-pumpDone

	t.exitErr = err
	close(t.done)
}

func (t *Terminal) closeTransport() {
	if closer, ok := t.reader.(io.Closer); ok {
		_ = closer.Close()
	}

	// A net.Conn is both; the second Close just fails
	if closer, ok := t.writer.(io.Closer); ok {
		_ = closer.Close()
	}
}

// processChunk runs one read from the transport through the negotiator and renderer
func (t *Terminal) processChunk(chunk []byte) {
	t.negotiatorLock.Lock()
	result := t.negotiator.Feed(chunk)
	err := t.keyboard.WriteCommands(result.Replies...)
	t.negotiatorLock.Unlock()

	if err != nil && !errors.Is(err, ErrTerminalClosed) {
		t.pump.EncounteredError(err)
	}

	t.printer.publish(result)
}

// Charset returns the charset used to decode inbound text and encode outbound text
func (t *Terminal) Charset() *render.Charset {
	return t.charset
}

// Keyboard returns the object that is used for sending outbound communications
func (t *Terminal) Keyboard() *TelnetKeyboard {
	return t.keyboard
}

// Printer returns the object that is used for receiving inbound communications
func (t *Terminal) Printer() *TelnetPrinter {
	return t.printer
}

// Capabilities returns the negotiated state of every telopt on this connection. It is
// safe to read from any goroutine.
func (t *Terminal) Capabilities() *telnet.Capabilities {
	return t.negotiator.Capabilities()
}

// SetWindowSize records the presentation layer's size in character cells. If the
// remote has accepted NAWS, the new size is sent to it.
func (t *Terminal) SetWindowSize(columns, rows int) error {
	t.negotiatorLock.Lock()
	defer t.negotiatorLock.Unlock()

	return t.keyboard.WriteCommands(t.negotiator.SetWindowSize(columns, rows)...)
}

// SendLine sends a line of input to the remote, encoded with the terminal's charset
func (t *Terminal) SendLine(text string) error {
	return t.keyboard.WriteLine(text)
}

// SendCommand sends raw telnet commands to the remote. Telopt negotiation is handled
// by the terminal, so this is rarely needed.
func (t *Terminal) SendCommand(commands ...telnet.Command) error {
	return t.keyboard.WriteCommands(commands...)
}

// CommandString converts a Command object into a legible stream. This can be useful
// when logging a received command object
func (t *Terminal) CommandString(c telnet.Command) string {
	return t.negotiator.CommandString(c)
}

// Close stops the terminal and closes the transport. It does not wait; call
// WaitForExit for that.
func (t *Terminal) Close() {
	t.cancel()
}

// WaitForExit will block until the terminal has ceased operation, either due to
// the context passed to NewTerminal being cancelled, Close, or the underlying network
// connection closing. All hooks have been called by the time it returns.
func (t *Terminal) WaitForExit() error {
	<-t.done
	return t.exitErr
}

// RegisterPrinterOutputHook will register an event to be called when text or a
// line control event is received from the printer.
func (t *Terminal) RegisterPrinterOutputHook(printerOutput PrinterOutputHandler) {
	t.printerOutputHooks.Register(EventHook[render.Output](printerOutput))
}

// RegisterPromptHook will register an event to be called when the remote marks the
// end of a prompt with IAC GA or IAC EOR.
func (t *Terminal) RegisterPromptHook(prompt PromptHandler) {
	t.promptHooks.Register(EventHook[PromptCommands](prompt))
}

// RegisterInboundCommandHook will register an event to be called when a command
// has been received by the printer. This is primarily useful for debug logging.
func (t *Terminal) RegisterInboundCommandHook(inboundCommand CommandHandler) {
	t.inboundCommandHooks.Register(EventHook[telnet.Command](inboundCommand))
}

// RegisterOutboundTextHook will register an event to be called when a line of text
// has been sent from the keyboard. This is primarily useful for debug logging.
func (t *Terminal) RegisterOutboundTextHook(outboundText StringHandler) {
	t.outboundTextHooks.Register(EventHook[string](outboundText))
}

// RegisterOutboundCommandHook will register an event to be called when a command
// has been sent from the keyboard. This is primarily useful for debug logging.
func (t *Terminal) RegisterOutboundCommandHook(outboundCommand CommandHandler) {
	t.outboundCommandHooks.Register(EventHook[telnet.Command](outboundCommand))
}

// RegisterEncounteredErrorHook will register an event to be called when an error
// was encountered by the terminal or one of its subsidiaries. Malformed input from
// the remote is reported here and never ends the connection.
//
// If an error ends terminal processing, it will not be delivered via this hook; it
// will be delivered via WaitForExit and the ConnectionState hook.
func (t *Terminal) RegisterEncounteredErrorHook(encounteredError ErrorHandler) {
	t.encounteredErrorHooks.Register(EventHook[error](encounteredError))
}

// RegisterTelOptStateChangeHook will register an event to be called when a telopt's
// state changes on either side of the connection.
func (t *Terminal) RegisterTelOptStateChangeHook(stateChange TelOptStateChangeHandler) {
	t.telOptStateChangeHooks.Register(EventHook[telnet.StateChange](stateChange))
}

// RegisterConnectionStateHook will register an event to be called when the connection
// starts or stops. A hook registered after NewTerminal returns may miss the
// connected event.
func (t *Terminal) RegisterConnectionStateHook(connectionState ConnectionStateHandler) {
	t.connectionStateHooks.Register(EventHook[ConnectionEvent](connectionState))
}
