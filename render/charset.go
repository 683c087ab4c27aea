package render

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// DefaultCharset is used when a Config names no charset
const DefaultCharset = "UTF-8"

type codePage struct {
	name string

	encoding encoding.Encoding
}

// Charset decodes the text bytes of the inbound stream and encodes outbound text.
// UTF-8 input that fails to decode is passed through the fallback charset one byte
// at a time when one is configured, otherwise it becomes U+FFFD.
type Charset struct {
	primary  codePage
	fallback *codePage
}

// NewCharset builds a Charset from IANA names. fallbackName may be empty.
func NewCharset(name string, fallbackName string) (*Charset, error) {
	if name == "" {
		name = DefaultCharset
	}

	primary, err := buildCodePage(name)
	if err != nil {
		return nil, err
	}

	c := &Charset{primary: primary}

	if fallbackName != "" {
		fallback, err := buildCodePage(fallbackName)
		if err != nil {
			return nil, err
		}

		if fallback.encoding == nil {
			return nil, fmt.Errorf("render: fallback charset cannot be %s", fallback.name)
		}
		c.fallback = &fallback
	}

	return c, nil
}

func buildCodePage(name string) (codePage, error) {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return codePage{name: "UTF-8"}, nil
	case "cp437", "ibm437":
		return codePage{name: "IBM437", encoding: charmap.CodePage437}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return codePage{}, fmt.Errorf("render: charset %s: %w", name, err)
	}
	if enc == nil {
		return codePage{}, fmt.Errorf("render: charset %s: %w", name, errors.New("unsupported encoding"))
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}

	if canonical == "UTF-8" {
		return codePage{name: canonical}, nil
	}

	return codePage{name: canonical, encoding: enc}, nil
}

// Name returns the canonical name of the primary charset
func (c *Charset) Name() string {
	return c.primary.name
}

// FallbackName returns the canonical name of the fallback charset, or the empty string
func (c *Charset) FallbackName() string {
	if c.fallback == nil {
		return ""
	}

	return c.fallback.name
}

// Encode converts UTF-8 text to the primary charset. Characters the charset
// cannot represent are replaced.
func (c *Charset) Encode(text string) ([]byte, error) {
	if c.primary.encoding == nil {
		return []byte(text), nil
	}

	return encoding.ReplaceUnsupported(c.primary.encoding.NewEncoder()).Bytes([]byte(text))
}

// completePrefix reports how many leading bytes of b decode to whole characters.
// The remainder is the start of a character that the next delivery may finish.
func (c *Charset) completePrefix(b []byte) int {
	if c.primary.encoding == nil {
		return len(b) - incompleteUTF8Suffix(b)
	}

	dst := make([]byte, 4*len(b)+utf8.UTFMax)
	_, consumed, err := c.primary.encoding.NewDecoder().Transform(dst, b, false)
	if errors.Is(err, transform.ErrShortSrc) {
		return consumed
	}

	return len(b)
}

func incompleteUTF8Suffix(b []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if !utf8.RuneStart(b[start]) {
			continue
		}

		if utf8.FullRune(b[start:]) {
			return 0
		}
		return i
	}

	return 0
}

// Decode converts text bytes to a UTF-8 string
func (c *Charset) Decode(b []byte) string {
	if c.primary.encoding != nil {
		decoded, err := c.primary.encoding.NewDecoder().Bytes(b)
		if err != nil {
			return strings.ToValidUTF8(string(b), string(utf8.RuneError))
		}
		return string(decoded)
	}

	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			sb.WriteString(c.decodeFallback(b[0]))
			b = b[1:]
			continue
		}

		sb.Write(b[:size])
		b = b[size:]
	}

	return sb.String()
}

func (c *Charset) decodeFallback(b byte) string {
	if c.fallback == nil {
		return string(utf8.RuneError)
	}

	decoded, err := c.fallback.encoding.NewDecoder().Bytes([]byte{b})
	if err != nil || len(decoded) == 0 {
		return string(utf8.RuneError)
	}

	return string(decoded)
}
