package codec

import (
	"io"
)

// IOStreamHandler is the byte protocol codecs use to reach a channel.
// Implementations report faults through return values and never panic.
type IOStreamHandler interface {
	// PutByte writes one byte and returns 1, or 0 on fault.
	PutByte(b byte) int
	// WriteBytes writes size*count bytes from p and returns the number of
	// bytes accepted, or 0 on fault.
	WriteBytes(p []byte, size, count int) int
	// ReadBytes reads up to count whole units of size bytes into p and
	// returns the number of whole units read, or -1 on fault.
	ReadBytes(p []byte, size, count int) int
	// ReadEOF returns 1 once the channel is exhausted, 0 otherwise.
	ReadEOF() int
}

// IOStream adapts an IOStreamHandler to io.Reader and io.Writer.
type IOStream struct {
	handler IOStreamHandler
	read    int64
	written int64
}

// NewIOStream wraps a handler.
func NewIOStream(h IOStreamHandler) *IOStream {
	return &IOStream{handler: h}
}

// Read implements io.Reader.
func (s *IOStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.handler.ReadEOF() == 1 {
		return 0, io.EOF
	}
	n := s.handler.ReadBytes(p, 1, len(p))
	switch {
	case n < 0:
		return 0, ErrIOStreamFault
	case n == 0:
		return 0, io.EOF
	}
	s.read += int64(n)
	return n, nil
}

// Write implements io.Writer.
func (s *IOStream) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := s.handler.WriteBytes(p, 1, len(p))
	s.written += int64(n)
	if n < len(p) {
		return n, ErrIOStreamFault
	}
	return n, nil
}

// WriteByte implements io.ByteWriter.
func (s *IOStream) WriteByte(c byte) error {
	if s.handler.PutByte(c) != 1 {
		return ErrIOStreamFault
	}
	s.written++
	return nil
}

// WriteString writes s through the bulk write path.
func (s *IOStream) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// BytesRead reports how many bytes were delivered to readers.
func (s *IOStream) BytesRead() int64 { return s.read }

// BytesWritten reports how many bytes the channel accepted.
func (s *IOStream) BytesWritten() int64 { return s.written }
