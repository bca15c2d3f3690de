package codec

import (
	"errors"
	"io"
	"testing"
)

type sliceHandler struct {
	data    []byte
	out     []byte
	fail    bool
	putOnly bool
}

func (h *sliceHandler) PutByte(b byte) int {
	if h.fail {
		return 0
	}
	h.out = append(h.out, b)
	return 1
}

func (h *sliceHandler) WriteBytes(p []byte, size, count int) int {
	if h.fail || h.putOnly {
		return 0
	}
	h.out = append(h.out, p[:size*count]...)
	return size * count
}

func (h *sliceHandler) ReadBytes(p []byte, size, count int) int {
	if h.fail {
		return -1
	}
	units := 0
	for units < count && len(h.data) >= size {
		copy(p[units*size:], h.data[:size])
		h.data = h.data[size:]
		units++
	}
	return units
}

func (h *sliceHandler) ReadEOF() int {
	if len(h.data) == 0 {
		return 1
	}
	return 0
}

func TestIOStreamRead(t *testing.T) {
	h := &sliceHandler{data: []byte("hello")}
	s := NewIOStream(h)
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("unexpected data %q", got)
	}
	if s.BytesRead() != 5 {
		t.Fatalf("unexpected byte count %d", s.BytesRead())
	}
}

func TestIOStreamReadFault(t *testing.T) {
	s := NewIOStream(&sliceHandler{data: []byte("x"), fail: true})
	if _, err := s.Read(make([]byte, 4)); !errors.Is(err, ErrIOStreamFault) {
		t.Fatalf("expected ErrIOStreamFault, got %v", err)
	}
}

func TestIOStreamWrite(t *testing.T) {
	h := &sliceHandler{}
	s := NewIOStream(h)
	if _, err := s.WriteString("ab"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.WriteByte('c'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(h.out) != "abc" || s.BytesWritten() != 3 {
		t.Fatalf("unexpected output %q (%d)", h.out, s.BytesWritten())
	}

	h.putOnly = true
	if n, err := s.Write([]byte("zz")); n != 0 || !errors.Is(err, ErrIOStreamFault) {
		t.Fatalf("expected fault, got %d %v", n, err)
	}
}
