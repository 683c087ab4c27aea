package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/moodclient/mudclient/render"
)

var (
	red   = render.Style{Foreground: render.BasicColor(1)}
	green = render.Style{Foreground: render.BasicColor(2)}
)

func newRenderer(t *testing.T, config render.Config) *render.Renderer {
	t.Helper()

	r, err := render.NewRenderer(config)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	return r
}

func renderAll(r *render.Renderer, chunks ...string) []render.Output {
	var outputs []render.Output
	for _, chunk := range chunks {
		outputs = append(outputs, r.Feed([]byte(chunk))...)
	}

	return render.Coalesce(append(outputs, r.Flush()...))
}

func TestRendererFeed(t *testing.T) {
	tests := []struct {
		name   string
		config render.Config
		input  string
		want   []render.Output
	}{
		{
			name:  "sgr reset",
			input: "\x1b[31mHello\x1b[0m World\r\n",
			want: []render.Output{
				render.Run{Text: "Hello", Style: red},
				render.Run{Text: " World"},
				render.LineFeed{},
			},
		},
		{
			name:  "redundant sgr does not split",
			input: "\x1b[32mab\x1b[32mcd",
			want:  []render.Output{render.Run{Text: "abcd", Style: green}},
		},
		{
			name:  "bare carriage return",
			input: "50%\r75%\n",
			want: []render.Output{
				render.Run{Text: "50%"},
				render.CarriageReturn{},
				render.Run{Text: "75%"},
				render.LineFeed{},
			},
		},
		{
			name:  "double carriage return",
			input: "a\r\r\nb",
			want: []render.Output{
				render.Run{Text: "a"},
				render.CarriageReturn{},
				render.LineFeed{},
				render.Run{Text: "b"},
			},
		},
		{
			name:  "bell",
			input: "ding\x07",
			want:  []render.Output{render.Run{Text: "ding"}, render.Bell{}},
		},
		{
			name:  "controls dropped tab kept",
			input: "a\x00b\x7fc\td\x08",
			want:  []render.Output{render.Run{Text: "abc\td"}},
		},
		{
			name:  "escape inside character",
			input: "\xe2\x1b[K\x82\xac",
			want:  []render.Output{render.Run{Text: "\uFFFD\uFFFD\uFFFD"}},
		},
		{
			name:  "control inside character",
			input: "\xe2\x00\x82\xac",
			want:  []render.Output{render.Run{Text: "\uFFFD\uFFFD\uFFFD"}},
		},
		{
			name:   "fallback escape inside character",
			config: render.Config{FallbackCharset: "ISO-8859-1"},
			input:  "\xe2\x1b[K\x82\xac",
			want:   []render.Output{render.Run{Text: "\u00e2\u0082\u00ac"}},
		},
		{
			name:  "tab between characters",
			input: "\xe2\t\x82\xac",
			want:  []render.Output{render.Run{Text: "\uFFFD\t\uFFFD\uFFFD"}},
		},
		{
			name:  "osc swallowed",
			input: "\x1b]0;My MUD\x07text",
			want:  []render.Output{render.Run{Text: "text"}},
		},
		{
			name:  "osc with string terminator swallowed",
			input: "a\x1b]2;t\x1b\\b",
			want:  []render.Output{render.Run{Text: "ab"}},
		},
		{
			name:  "charset designation swallowed",
			input: "\x1b(Bok",
			want:  []render.Output{render.Run{Text: "ok"}},
		},
		{
			name:  "cursor movement swallowed",
			input: "\x1b[2J\x1b[Hclear",
			want:  []render.Output{render.Run{Text: "clear"}},
		},
		{
			name:  "private sgr ignored",
			input: "\x1b[31m\x1b[>4;1mX",
			want:  []render.Output{render.Run{Text: "X", Style: red}},
		},
		{
			name:  "aborted csi",
			input: "\x1b[12\nx",
			want:  []render.Output{render.LineFeed{}, render.Run{Text: "x"}},
		},
		{
			name:   "overlong sequence becomes text",
			config: render.Config{MaxSequence: 8},
			input:  "\x1b[11111111mX",
			want:   []render.Output{render.Run{Text: "[11111111mX"}},
		},
		{
			name:  "wide characters",
			input: "\x1b[1m北京\x1b[22m",
			want:  []render.Output{render.Run{Text: "北京", Style: render.Style{Attr: render.AttrBold}}},
		},
		{
			name:  "invalid utf-8 replaced",
			input: "a\xffb",
			want:  []render.Output{render.Run{Text: "a�b"}},
		},
		{
			name:   "fallback charset",
			config: render.Config{FallbackCharset: "ISO-8859-1"},
			input:  "caf\xe9 \xe9t\xe9",
			want:   []render.Output{render.Run{Text: "café été"}},
		},
		{
			name:   "cp437",
			config: render.Config{Charset: "CP437"},
			input:  "\xb0\xb1\xdb",
			want:   []render.Output{render.Run{Text: "░▒█"}},
		},
		{
			name:  "trailing carriage return flushed",
			input: "prompt\r",
			want:  []render.Output{render.Run{Text: "prompt"}, render.CarriageReturn{}},
		},
		{
			name:  "unfinished escape discarded",
			input: "text\x1b[3",
			want:  []render.Output{render.Run{Text: "text"}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := newRenderer(t, test.config)
			got := renderAll(r, test.input)

			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRendererSplitEscape(t *testing.T) {
	r := newRenderer(t, render.Config{})

	if got := r.Feed([]byte("\x1b[3")); len(got) != 0 {
		t.Fatalf("Feed() = %v, want nothing", got)
	}
	if r.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", r.Pending())
	}

	got := r.Feed([]byte("2mHi"))
	want := []render.Output{render.Run{Text: "Hi", Style: green}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	if r.Style() != green || r.Pending() != 0 {
		t.Fatalf("Style() = %s, Pending() = %d", r.Style(), r.Pending())
	}
}

func TestRendererSplitLineEnding(t *testing.T) {
	r := newRenderer(t, render.Config{})

	got := r.Feed([]byte("line\r"))
	if diff := cmp.Diff([]render.Output{render.Run{Text: "line"}}, got); diff != "" {
		t.Fatalf("first Feed mismatch (-want +got):\n%s", diff)
	}

	got = r.Feed([]byte("\nnext"))
	want := []render.Output{render.LineFeed{}, render.Run{Text: "next"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("second Feed mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererSplitRune(t *testing.T) {
	r := newRenderer(t, render.Config{})

	got := r.Feed([]byte("caf\xc3"))
	if diff := cmp.Diff([]render.Output{render.Run{Text: "caf"}}, got); diff != "" {
		t.Fatalf("first Feed mismatch (-want +got):\n%s", diff)
	}
	if r.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", r.Pending())
	}

	got = r.Feed([]byte("\xa9!"))
	if diff := cmp.Diff([]render.Output{render.Run{Text: "é!"}}, got); diff != "" {
		t.Fatalf("second Feed mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererReset(t *testing.T) {
	r := newRenderer(t, render.Config{})
	r.Feed([]byte("\x1b[31mred\x1b[4"))
	r.Reset()

	if !r.Style().IsDefault() || r.Pending() != 0 {
		t.Fatalf("after Reset: Style() = %s, Pending() = %d", r.Style(), r.Pending())
	}

	got := r.Feed([]byte("mplain"))
	if diff := cmp.Diff([]render.Output{render.Run{Text: "mplain"}}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererConfigErrors(t *testing.T) {
	configs := []render.Config{
		{Charset: "not-a-charset"},
		{FallbackCharset: "UTF-8"},
		{MaxSequence: 1},
	}

	for _, config := range configs {
		if _, err := render.NewRenderer(config); err == nil {
			t.Errorf("NewRenderer(%+v) succeeded", config)
		}
	}
}

// The coalesced output for a stream must not depend on where it was split
func TestRendererChunkTransparency(t *testing.T) {
	stream := "\x1b[1;31mWarning\x1b[0m: caf\xc3\xa9\r\n" +
		"\x1b]0;title\x07\x1b[38;5;196mred\x1b[48;2;1;2;3mbg\x1b[m\r" +
		"50%\r\n\x1b[12\nx\x07\x1b(B\xff\x1b[99999999999999mlong\x1b[0mend\r" +
		"\xe2\x1b[K\x82\xac\xe2\x00\x82\xac\x1b]2;t\x1b\\\x1b[4mu\x1b\x1b[m\t\xe2\x82\xac"

	configs := map[string]render.Config{
		"utf-8":    {MaxSequence: 16},
		"fallback": {MaxSequence: 16, FallbackCharset: "ISO-8859-1"},
	}

	for name, config := range configs {
		t.Run(name, func(t *testing.T) {
			whole := renderAll(newRenderer(t, config), stream)

			for split := 0; split <= len(stream); split++ {
				got := renderAll(newRenderer(t, config), stream[:split], "", stream[split:])
				if diff := cmp.Diff(whole, got); diff != "" {
					t.Fatalf("split at %d mismatch (-whole +split):\n%s", split, diff)
				}
			}

			chunks := make([]string, 0, len(stream))
			for i := range len(stream) {
				chunks = append(chunks, stream[i:i+1])
			}

			if diff := cmp.Diff(whole, renderAll(newRenderer(t, config), chunks...)); diff != "" {
				t.Fatalf("byte at a time mismatch (-whole +split):\n%s", diff)
			}
		})
	}
}

func TestRunWidth(t *testing.T) {
	tests := map[string]int{
		"abc":   3,
		"北京":    4,
		"a\tb":  2,
		"héllo": 5,
	}

	for text, want := range tests {
		if got := (render.Run{Text: text}).Width(); got != want {
			t.Errorf("Width(%q) = %d, want %d", text, got, want)
		}
	}
}
