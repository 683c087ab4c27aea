package telnet

import "testing"

func TestCapabilitiesState(t *testing.T) {
	tests := []struct {
		name   string
		local  TelOptState
		remote TelOptState
		want   TelOptState
	}{
		{name: "untouched", want: TelOptNotOffered},
		{name: "offered", local: TelOptOffered, want: TelOptOffered},
		{name: "refused beats offered", local: TelOptOffered, remote: TelOptRefused, want: TelOptRefused},
		{name: "accepted beats refused", local: TelOptRefused, remote: TelOptAccepted, want: TelOptAccepted},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			caps := NewCapabilities(DefaultWindowSize)
			caps.setState(TelOptSideLocal, OptGMCP, test.local)
			caps.setState(TelOptSideRemote, OptGMCP, test.remote)

			if got := caps.State(OptGMCP); got != test.want {
				t.Fatalf("State() = %s, want %s", got, test.want)
			}
		})
	}
}

func TestCapabilitiesNeverAcceptMXP(t *testing.T) {
	caps := NewCapabilities(DefaultWindowSize)

	_, stored := caps.setState(TelOptSideRemote, OptMXP, TelOptAccepted)
	if stored != TelOptRefused {
		t.Fatalf("stored MXP state = %s, want Refused", stored)
	}

	if caps.State(OptMXP) == TelOptAccepted {
		t.Fatal("MXP reached accepted")
	}
}

func TestCapabilitiesReset(t *testing.T) {
	caps := NewCapabilities(WindowSize{Columns: 80, Rows: 24})
	caps.setState(TelOptSideLocal, OptNAWS, TelOptAccepted)
	caps.SetTerminalType("ANSI")
	caps.RecordOpaquePayload(OptGMCP, 12)

	caps.Reset()

	if caps.State(OptNAWS) != TelOptNotOffered {
		t.Fatalf("NAWS state after Reset = %s", caps.State(OptNAWS))
	}

	if caps.TerminalType() != "" {
		t.Fatalf("TerminalType after Reset = %q", caps.TerminalType())
	}

	if count, _ := caps.OpaquePayloads(OptGMCP); count != 0 {
		t.Fatalf("OpaquePayloads after Reset = %d", count)
	}

	if caps.WindowSize() != (WindowSize{Columns: 80, Rows: 24}) {
		t.Fatalf("WindowSize after Reset = %s", caps.WindowSize())
	}
}

func TestClampWindowSize(t *testing.T) {
	tests := []struct {
		columns, rows int
		want          WindowSize
	}{
		{columns: 80, rows: 24, want: WindowSize{80, 24}},
		{columns: 0, rows: -5, want: WindowSize{1, 1}},
		{columns: 70000, rows: 65535, want: WindowSize{65535, 65535}},
	}

	for _, test := range tests {
		if got := ClampWindowSize(test.columns, test.rows); got != test.want {
			t.Errorf("ClampWindowSize(%d, %d) = %s, want %s", test.columns, test.rows, got, test.want)
		}
	}
}
