// Package pending holds the bytes a resumable parser could not interpret yet
// because a multi-byte sequence was cut off at the end of a chunk.
package pending

// Tail is the unconsumed end of a byte stream. It is owned by exactly one
// parser and only ever contains the start of a sequence that has not been
// interpreted.
type Tail struct {
	buffer     []byte
	startIndex int
	endIndex   int
}

// NewTail creates a Tail with room for size bytes before it needs to grow.
func NewTail(size int) *Tail {
	if size < 1 {
		size = 1
	}

	return &Tail{
		buffer: make([]byte, size),
	}
}

func (t *Tail) straighten() {
	if t.startIndex == 0 {
		return
	}

	length := t.endIndex - t.startIndex

	if length > 0 {
		copy(t.buffer[:length], t.buffer[t.startIndex:t.endIndex])
	}

	t.startIndex = 0
	t.endIndex = length
}

func (t *Tail) grow(required int) {
	newSize := len(t.buffer) * 2
	if newSize < required {
		newSize = required
	}

	newBuffer := make([]byte, newSize)
	copy(newBuffer, t.buffer[t.startIndex:t.endIndex])
	t.endIndex -= t.startIndex
	t.startIndex = 0
	t.buffer = newBuffer
}

// Append adds bytes to the end of the tail.
func (t *Tail) Append(b ...byte) {
	if len(b) == 0 {
		return
	}

	if t.endIndex+len(b) > len(t.buffer) {
		t.straighten()
	}

	if t.endIndex+len(b) > len(t.buffer) {
		t.grow(t.endIndex + len(b))
	}

	copy(t.buffer[t.endIndex:], b)
	t.endIndex += len(b)
}

// Bytes returns the held bytes. The slice is only valid until the next call
// that modifies the tail.
func (t *Tail) Bytes() []byte {
	return t.buffer[t.startIndex:t.endIndex]
}

// Drop discards the first n held bytes.
func (t *Tail) Drop(n int) {
	newStart := t.startIndex + n
	if newStart > t.endIndex {
		t.startIndex = t.endIndex
	} else {
		t.startIndex = newStart
	}

	if t.startIndex == t.endIndex {
		t.startIndex = 0
		t.endIndex = 0
	}
}

// Len returns how many bytes are held.
func (t *Tail) Len() int {
	return t.endIndex - t.startIndex
}

// Reset discards everything held.
func (t *Tail) Reset() {
	t.startIndex = 0
	t.endIndex = 0
}

// Window returns the bytes a parser should scan next: the held tail followed by
// chunk. When nothing is held, chunk is returned as-is without copying.
func (t *Tail) Window(chunk []byte) []byte {
	if t.Len() == 0 {
		return chunk
	}

	t.Append(chunk...)
	return t.Bytes()
}

// Keep replaces the held bytes with rest, the unscanned end of a slice returned
// by Window. rest may alias the tail's own storage.
func (t *Tail) Keep(rest []byte) {
	if len(rest) == 0 {
		t.Reset()
		return
	}

	if len(rest) > len(t.buffer) {
		newBuffer := make([]byte, max(len(rest), len(t.buffer)*2))
		copy(newBuffer, rest)
		t.buffer = newBuffer
	} else {
		copy(t.buffer, rest)
	}

	t.startIndex = 0
	t.endIndex = len(rest)
}
