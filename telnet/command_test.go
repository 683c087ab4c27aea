package telnet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCommandBytes(t *testing.T) {
	tests := []struct {
		name    string
		command Command
		want    []byte
	}{
		{
			name:    "negotiation",
			command: Command{OpCode: WILL, Option: OptNAWS},
			want:    []byte{IAC, WILL, 31},
		},
		{
			name:    "go ahead",
			command: Command{OpCode: GA},
			want:    []byte{IAC, GA},
		},
		{
			name:    "subnegotiation",
			command: Command{OpCode: SB, Option: OptTTYPE, Subnegotiation: []byte("\x00ANSI")},
			want:    []byte{IAC, SB, 24, 0, 'A', 'N', 'S', 'I', IAC, SE},
		},
		{
			name:    "subnegotiation escapes IAC",
			command: Command{OpCode: SB, Option: OptNAWS, Subnegotiation: []byte{0, 255, 0, 24}},
			want:    []byte{IAC, SB, 31, 0, IAC, IAC, 0, 24, IAC, SE},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.command.Bytes()
			if !bytes.Equal(got, test.want) {
				t.Fatalf("Bytes() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestParseCommandRoundTripsEscapedPayload(t *testing.T) {
	original := Command{OpCode: SB, Option: OptGMCP, Subnegotiation: []byte{1, 255, 255, 2, 255}}

	parsed, err := parseCommand(original.Bytes())
	if err != nil {
		t.Fatalf("parseCommand() error = %v", err)
	}

	if diff := cmp.Diff(original, parsed); diff != "" {
		t.Fatalf("parseCommand() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "unknown opcode", data: []byte{IAC, 242}, want: ErrUnknownCommand},
		{name: "not a command", data: []byte{'a', 'b'}, want: ErrMalformedCommand},
		{name: "unterminated subnegotiation", data: []byte{IAC, SB, 24, 1}, want: ErrMalformedCommand},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := parseCommand(test.data)
			if !errors.Is(err, test.want) {
				t.Fatalf("parseCommand() error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestCommandReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply func(Command) Command
		in    byte
		want  byte
	}{
		{name: "reject DO", reply: Command.reject, in: DO, want: WONT},
		{name: "reject WILL", reply: Command.reject, in: WILL, want: DONT},
		{name: "accept DO", reply: Command.accept, in: DO, want: WILL},
		{name: "accept WILL", reply: Command.accept, in: WILL, want: DO},
		{name: "acknowledge DONT", reply: Command.acknowledge, in: DONT, want: WONT},
		{name: "acknowledge WONT", reply: Command.acknowledge, in: WONT, want: DONT},
		{name: "reject non-negotiation", reply: Command.reject, in: GA, want: NOP},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.reply(Command{OpCode: test.in, Option: OptEcho})
			if got.OpCode != test.want {
				t.Fatalf("reply opcode = %d, want %d", got.OpCode, test.want)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	if got := (Command{OpCode: DO, Option: OptNAWS}).String(); got != "IAC DO NAWS" {
		t.Fatalf("String() = %q", got)
	}

	if got := (Command{OpCode: WILL, Option: 99}).String(); got != "IAC WILL ? Unknown Option 99?" {
		t.Fatalf("String() = %q", got)
	}
}
