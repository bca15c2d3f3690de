package codec

import (
	"fmt"
	"io"
)

// Decoder streams quads from an input.
type Decoder interface {
	// Next returns the next quad, or io.EOF when the input is exhausted.
	Next() (Quad, error)
	Close() error
}

// Encoder streams quads to an output.
type Encoder interface {
	Write(Quad) error
	Flush() error
	Close() error
}

// NewDecoder creates a decoder for the given format.
func NewDecoder(r io.Reader, format Format, opts DecodeOptions) (Decoder, error) {
	switch format {
	case FormatTurtle:
		return newTurtleDecoder(r, opts), nil
	case FormatNTriples:
		return newNTriplesDecoder(r, opts), nil
	case FormatNQuads:
		return newNQuadsDecoder(r, opts), nil
	case FormatJSONLD:
		return newJSONLDDecoder(r, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// NewEncoder creates an encoder for the given format.
func NewEncoder(w io.Writer, format Format, opts EncodeOptions) (Encoder, error) {
	switch format {
	case FormatTurtle:
		return newTurtleEncoder(w, opts), nil
	case FormatNTriples:
		return newNTriplesEncoder(w), nil
	case FormatNQuads:
		return newNQuadsEncoder(w), nil
	case FormatJSONLD:
		return newJSONLDEncoder(w, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeAll reads every quad from r.
func DecodeAll(r io.Reader, format Format, opts DecodeOptions) ([]Quad, error) {
	dec, err := NewDecoder(r, format, opts)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	var out []Quad
	for {
		q, err := dec.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, q)
	}
}

// EncodeAll writes quads to w and closes the encoder.
func EncodeAll(w io.Writer, format Format, opts EncodeOptions, quads []Quad) error {
	enc, err := NewEncoder(w, format, opts)
	if err != nil {
		return err
	}
	for _, q := range quads {
		if err := enc.Write(q); err != nil {
			return err
		}
	}
	return enc.Close()
}
