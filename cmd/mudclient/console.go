package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/moodclient/mudclient"
	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/utils"
)

// console draws renderer output on the local terminal. Hooks call it from the
// event pump, so writes never block on anything but the output itself.
type console struct {
	lock sync.Mutex
	out  io.Writer
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) write(s string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	_, _ = io.WriteString(c.out, s)
}

func present(output render.Output) string {
	switch output.(type) {
	case render.CarriageReturn:
		// The remote is redrawing the line, usually a prompt
		return "\r" + ansi.EraseEntireLine
	default:
		return utils.Present(output)
	}
}

func (c *console) printerOutput(_ *mudclient.Terminal, output render.Output) {
	c.write(present(output))
}

func (c *console) connectionState(_ *mudclient.Terminal, event mudclient.ConnectionEvent) {
	if event.State != mudclient.ConnectionStateDisconnected {
		return
	}

	switch {
	case event.Cause != nil:
		c.write(fmt.Sprintf("%s\r\n*** Connection lost: %v\r\n", ansi.ResetStyle, event.Cause))
	case event.Remote:
		c.write(ansi.ResetStyle + "\r\n*** Connection closed by remote host\r\n")
	default:
		c.write(ansi.ResetStyle + "\r\n")
	}
}
