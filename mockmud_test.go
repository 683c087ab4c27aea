package mudclient

import (
	"bytes"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/telnet"
)

// mockMUD plays the server side of a net.Pipe: it negotiates, greets, and
// echoes every line it receives back with an EOR prompt.
type mockMUD struct {
	conn net.Conn

	lock     sync.Mutex
	received []byte
	lines    chan string
}

func startMockMUD(t *testing.T, conn net.Conn, greeting ...[]byte) *mockMUD {
	t.Helper()

	m := &mockMUD{
		conn:  conn,
		lines: make(chan string, 10),
	}

	go m.readLoop()
	go func() {
		for _, b := range greeting {
			m.write(b)
		}

		for line := range m.lines {
			m.write([]byte("You said: " + line + "\r\n>"))
			m.write([]byte{telnet.IAC, telnet.EOR})
		}
	}()

	t.Cleanup(func() { _ = conn.Close() })
	return m
}

func (m *mockMUD) write(b []byte) {
	_, _ = m.conn.Write(b)
}

func (m *mockMUD) readLoop() {
	defer close(m.lines)

	var pending, text []byte
	buffer := make([]byte, 1024)
	for {
		n, err := m.conn.Read(buffer)
		if n > 0 {
			m.lock.Lock()
			m.received = append(m.received, buffer[:n]...)
			m.lock.Unlock()

			pending = append(pending, buffer[:n]...)
			for len(pending) > 0 {
				scanned := telnet.Scan(pending, telnet.DefaultMaxSubnegotiation)
				if scanned.Kind == telnet.ScanNeedMore {
					break
				}

				switch scanned.Kind {
				case telnet.ScanText:
					text = append(text, pending[:scanned.Consumed]...)
				case telnet.ScanEscapedIAC:
					text = append(text, telnet.IAC)
				}
				pending = pending[scanned.Consumed:]
			}

			for {
				line, rest, found := bytes.Cut(text, []byte("\r\n"))
				if !found {
					break
				}
				m.lines <- string(line)
				text = rest
			}
		}

		if err != nil {
			return
		}
	}
}

func (m *mockMUD) Received() []byte {
	m.lock.Lock()
	defer m.lock.Unlock()

	return bytes.Clone(m.received)
}

// recorder collects hook output from a Terminal
type recorder struct {
	lock        sync.Mutex
	text        strings.Builder
	outputs     []render.Output
	prompts     []PromptCommands
	errors      []error
	changes     []telnet.StateChange
	connections []ConnectionEvent
	updated     chan struct{}
}

func newRecorder() *recorder {
	return &recorder{updated: make(chan struct{}, 1)}
}

func (r *recorder) notify() {
	select {
	case r.updated <- struct{}{}:
	default:
	}
}

func (r *recorder) hooks() EventHooks {
	return EventHooks{
		PrinterOutput: []PrinterOutputHandler{func(_ *Terminal, output render.Output) {
			r.lock.Lock()
			defer r.lock.Unlock()
			r.outputs = append(r.outputs, output)
			r.text.WriteString(output.String())
			r.notify()
		}},
		Prompt: []PromptHandler{func(_ *Terminal, prompt PromptCommands) {
			r.lock.Lock()
			defer r.lock.Unlock()
			r.prompts = append(r.prompts, prompt)
			r.text.WriteString("<" + prompt.String() + ">")
			r.notify()
		}},
		EncounteredError: []ErrorHandler{func(_ *Terminal, err error) {
			r.lock.Lock()
			defer r.lock.Unlock()
			r.errors = append(r.errors, err)
			r.notify()
		}},
		TelOptStateChange: []TelOptStateChangeHandler{func(_ *Terminal, change telnet.StateChange) {
			r.lock.Lock()
			defer r.lock.Unlock()
			r.changes = append(r.changes, change)
			r.notify()
		}},
		ConnectionState: []ConnectionStateHandler{func(_ *Terminal, event ConnectionEvent) {
			r.lock.Lock()
			defer r.lock.Unlock()
			r.connections = append(r.connections, event)
			r.notify()
		}},
	}
}

func (r *recorder) Text() string {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.text.String()
}

func (r *recorder) waitFor(t *testing.T, description string, condition func() bool) {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for !condition() {
		select {
		case <-r.updated:
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			t.Fatalf("timed out waiting for %s; text so far: %q", description, r.Text())
		}
	}
}

func (r *recorder) waitForText(t *testing.T, text string) {
	t.Helper()

	r.waitFor(t, text, func() bool { return strings.Contains(r.Text(), text) })
}

func waitForBytes(t *testing.T, m *mockMUD, want []byte) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !bytes.Contains(m.Received(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("server never received %v; got %v", want, m.Received())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
