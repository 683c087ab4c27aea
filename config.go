package mudclient

import (
	"github.com/moodclient/mudclient/telnet"
)

// DefaultReadBufferSize is how many bytes the printer asks the transport for at a time
const DefaultReadBufferSize = 4096

type TerminalConfig struct {
	// Charset is the registered IANA name of the character set the MUD sends text in. RFC 5198
	// specifies that since 2008, communications should by default take place in UTF-8, which is
	// what the empty string means. Older services may need something like ISO-8859-1 or Big5.
	// Outbound text is encoded with the same charset.
	Charset string

	// FallbackCharset can be left empty. If populated, it is the registered IANA name for
	// a single byte character set that will be used when UTF-8 decoding fails. Bytes that are
	// not valid UTF-8 are decoded one at a time with this character set instead of being
	// replaced with U+FFFD.
	//
	// This can be useful when connecting to BBS servers (or certain MUDs that act like them),
	// because some use CP437 without any negotiation at all.
	FallbackCharset string

	// TelOpts indicates which TelOpts the terminal should request from the remote, and which the remote
	// should be permitted to request from us. A nil slice means telopts.Defaults with its zero config.
	TelOpts []telnet.TelnetOption

	// WindowSize is reported over NAWS until SetWindowSize is called. The zero value means
	// telnet.DefaultWindowSize.
	WindowSize telnet.WindowSize

	// MaxSubnegotiation bounds the payload of a single IAC SB block. Larger blocks are
	// dropped and reported through the EncounteredError hook. The zero value means
	// telnet.DefaultMaxSubnegotiation.
	MaxSubnegotiation int

	// MaxSequence bounds how long an unterminated escape sequence may grow before its
	// bytes are shown as text. The zero value means render.DefaultMaxSequence.
	MaxSequence int

	// ReadBufferSize is the size of each read from the transport. The zero value means
	// DefaultReadBufferSize.
	ReadBufferSize int

	// EventHooks is a set of callbacks that the terminal will call when the relevant
	// event occurs.  You can register additional callbacks after creation with
	// Terminal.Register* methods.
	EventHooks EventHooks
}
