package rdf

import (
	"bufio"
	"errors"
	"io"

	"github.com/geoknoesis/rdfstore/internal/codec"
)

// IOStream carries bytes between a Go reader or writer and the codecs.
// Its four byte operations never return errors or panic: faults are
// reported through their return values.
type IOStream struct {
	ch     *channel
	stream *codec.IOStream
}

// NewIOStreamFromReader returns an input stream reading from r.
func NewIOStreamFromReader(r io.Reader) *IOStream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return newIOStream(&channel{r: br})
}

// NewIOStreamToWriter returns an output stream writing to w.
func NewIOStreamToWriter(w io.Writer) *IOStream {
	return newIOStream(&channel{w: w})
}

func newIOStream(ch *channel) *IOStream {
	return &IOStream{ch: ch, stream: codec.NewIOStream(ch)}
}

// PutByte writes one byte. It returns 1 on success and 0 on any fault.
func (s *IOStream) PutByte(b byte) int { return s.ch.PutByte(b) }

// WriteBytes writes size*count bytes of p in one operation. It returns the
// number of bytes written, or 0 on any fault.
func (s *IOStream) WriteBytes(p []byte, size, count int) int { return s.ch.WriteBytes(p, size, count) }

// ReadBytes reads up to count whole units of size bytes into p and returns
// the number of whole units read. A unit cut short by the end of input is
// discarded. The count is clamped to the units that fit in p. It returns 0
// once the input is exhausted, and -1 on a fault or when p cannot hold a
// single unit.
func (s *IOStream) ReadBytes(p []byte, size, count int) int { return s.ch.ReadBytes(p, size, count) }

// ReadEOF returns 1 if the input is exhausted and 0 otherwise. A fault
// while checking is reported as 1.
func (s *IOStream) ReadEOF() int { return s.ch.ReadEOF() }

// Read implements io.Reader on top of ReadBytes.
func (s *IOStream) Read(p []byte) (int, error) { return s.stream.Read(p) }

// Write implements io.Writer on top of WriteBytes.
func (s *IOStream) Write(p []byte) (int, error) { return s.stream.Write(p) }

// BytesRead reports how many bytes Read delivered.
func (s *IOStream) BytesRead() int64 { return s.stream.BytesRead() }

// BytesWritten reports how many bytes Write and WriteByte accepted.
func (s *IOStream) BytesWritten() int64 { return s.stream.BytesWritten() }

// channel implements codec.IOStreamHandler over a reader or a writer.
type channel struct {
	r *bufio.Reader
	w io.Writer
	// eof is set once a read reached the end of input.
	eof bool
	// fault is set when the reader failed after some units were delivered;
	// the next ReadBytes reports it.
	fault bool
}

func (c *channel) PutByte(b byte) (n int) {
	if c.w == nil {
		return 0
	}
	defer recoverInto(&n, 0)
	if bw, ok := c.w.(io.ByteWriter); ok {
		if bw.WriteByte(b) != nil {
			return 0
		}
		return 1
	}
	if _, err := c.w.Write([]byte{b}); err != nil {
		return 0
	}
	return 1
}

func (c *channel) WriteBytes(p []byte, size, count int) (n int) {
	if c.w == nil || size <= 0 || count <= 0 {
		return 0
	}
	defer recoverInto(&n, 0)
	total := size * count
	if total > len(p) {
		total = len(p)
	}
	written, err := c.w.Write(p[:total])
	if err != nil {
		return 0
	}
	return written
}

func (c *channel) ReadBytes(p []byte, size, count int) (n int) {
	if c.r == nil || c.fault {
		return -1
	}
	if c.eof || size <= 0 || count <= 0 {
		return 0
	}
	if len(p) < size {
		return -1
	}
	defer recoverInto(&n, -1)
	if fit := len(p) / size; count > fit {
		count = fit
	}
	units := 0
	for units < count {
		_, err := io.ReadFull(c.r, p[units*size:(units+1)*size])
		if err == nil {
			units++
			continue
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			c.eof = true
			break
		}
		if units == 0 {
			return -1
		}
		c.fault = true
		break
	}
	return units
}

func (c *channel) ReadEOF() (n int) {
	if c.r == nil || c.eof || c.fault {
		return 1
	}
	defer recoverInto(&n, 1)
	if _, err := c.r.Peek(1); err != nil {
		return 1
	}
	return 0
}

// recoverInto turns a panic raised by the underlying reader or writer into
// the sentinel value for the current operation.
func recoverInto(n *int, sentinel int) {
	if recover() != nil {
		*n = sentinel
	}
}
