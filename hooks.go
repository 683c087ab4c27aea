package mudclient

import (
	"sync"

	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/telnet"
)

// EventHook is a type for function pointers that are registered to receive events
type EventHook[T any] func(terminal *Terminal, data T)

// EventPublisher is a type used to register and fire arbitrary events
type EventPublisher[U any] struct {
	lock sync.Mutex

	registeredHooks []EventHook[U]
}

// NewPublisher creates a new EventPublisher for a particular EventHook. A slice of
// hooks can be passed in- in which case the hooks will be registered to receive events
// from the publisher.  Otherwise, nil can be passed in.
func NewPublisher[U any, T ~func(terminal *Terminal, data U)](hooks []T) *EventPublisher[U] {
	var convertedHooks []EventHook[U]

	for _, hook := range hooks {
		convertedHooks = append(convertedHooks, EventHook[U](hook))
	}

	return &EventPublisher[U]{
		registeredHooks: convertedHooks,
	}
}

// Register registers a single EventHook to receive events from this publisher.
func (e *EventPublisher[U]) Register(hook EventHook[U]) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.registeredHooks = append(e.registeredHooks, hook)
}

// Fire calls the event for all EventHook instances registered to this publisher with
// the provided parameters
func (e *EventPublisher[U]) Fire(terminal *Terminal, eventData U) {
	e.lock.Lock()
	defer e.lock.Unlock()

	for _, hook := range e.registeredHooks {
		hook(terminal, eventData)
	}
}

// ErrorHandler is an event hook type that receives errors
type ErrorHandler func(t *Terminal, err error)

// PrinterOutputHandler is an event hook type that receives rendered text and line control
// events from the printer
type PrinterOutputHandler func(t *Terminal, output render.Output)

// PromptHandler is an event hook type that receives the IAC GA or IAC EOR marking the
// end of a prompt. It fires after the PrinterOutput for the prompt text.
type PromptHandler func(t *Terminal, prompt PromptCommands)

// CommandHandler is an event hook type that receives telnet commands
type CommandHandler func(t *Terminal, c telnet.Command)

// StringHandler is an event hook type that receives text
type StringHandler func(t *Terminal, text string)

// TelOptStateChangeHandler is an event hook type that receives telopt state transitions
type TelOptStateChangeHandler func(t *Terminal, change telnet.StateChange)

// ConnectionStateHandler is an event hook type that receives connection lifecycle events
type ConnectionStateHandler func(t *Terminal, event ConnectionEvent)

// EventHooks is used to pass in a set of pre-registered event hooks to a Terminal
// when calling NewTerminal.  See TerminalConfig for more info.
type EventHooks struct {
	EncounteredError  []ErrorHandler
	PrinterOutput     []PrinterOutputHandler
	Prompt            []PromptHandler
	InboundCommand    []CommandHandler
	OutboundCommand   []CommandHandler
	OutboundText      []StringHandler
	TelOptStateChange []TelOptStateChangeHandler
	ConnectionState   []ConnectionStateHandler
}
