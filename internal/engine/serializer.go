package engine

import (
	"fmt"
	"io"

	"github.com/geoknoesis/rdfstore/internal/codec"
)

// Serializer writes statements in one syntax.
type Serializer struct {
	resource
	format     codec.Format
	namespaces map[string]string
}

// CheckSerializerName reports whether name selects a known syntax.
func CheckSerializerName(name string) bool {
	_, ok := codec.ParseFormat(name)
	return ok
}

// NewSerializer selects a syntax by name, MIME type or format URI, in that
// order. All empty selects Turtle. An unknown selector yields nil.
func NewSerializer(w *World, name, mimeType, typeURI string) *Serializer {
	format, ok := codec.ResolveFormat(name, mimeType, typeURI)
	if !ok {
		if w.usable() {
			w.fail("new serializer", fmt.Errorf("%w: %q", codec.ErrUnsupportedFormat, name+mimeType+typeURI))
		}
		return nil
	}
	s := &Serializer{format: format, namespaces: map[string]string{}}
	if !s.init(w, KindSerializer) {
		return nil
	}
	return s
}

// Free releases the serializer.
func (s *Serializer) Free() { s.free() }

// Format returns the selected syntax.
func (s *Serializer) Format() codec.Format { return s.format }

// SetNamespace registers prefix for uri. Empty URIs are rejected.
func (s *Serializer) SetNamespace(uri *URI, prefix string) bool {
	if uri == nil {
		return false
	}
	s.namespaces[prefix] = uri.String()
	return true
}

// Namespaces returns a copy of the registered prefixes.
func (s *Serializer) Namespaces() map[string]string {
	out := make(map[string]string, len(s.namespaces))
	for k, v := range s.namespaces {
		out[k] = v
	}
	return out
}

func (s *Serializer) encoder(w io.Writer, base string) (codec.Encoder, bool) {
	enc, err := codec.NewEncoder(w, s.format, codec.EncodeOptions{Prefixes: s.Namespaces(), BaseIRI: base})
	if err != nil {
		s.world.fail("serialize", err)
		return nil, false
	}
	return enc, true
}

// SerializeModel writes every statement of model to w.
func (s *Serializer) SerializeModel(w io.Writer, base string, model *Model) bool {
	quads, err := model.be().find(pattern{anyGraph: true})
	if err != nil {
		s.world.fail("serialize", err)
		return false
	}
	enc, ok := s.encoder(w, base)
	if !ok {
		return false
	}
	for _, q := range quads {
		if err := enc.Write(q); err != nil {
			s.world.fail("serialize", err)
			return false
		}
	}
	if err := enc.Close(); err != nil {
		s.world.fail("serialize", err)
		return false
	}
	return true
}

// SerializeStream writes the remaining statements of stream to w. The
// stream is consumed but not freed.
func (s *Serializer) SerializeStream(w io.Writer, base string, stream *Stream) bool {
	enc, ok := s.encoder(w, base)
	if !ok {
		return false
	}
	for !stream.End() {
		st := stream.Object()
		if st == nil || !st.Valid() {
			s.world.fail("serialize", ErrInvalidStatement)
			return false
		}
		q := st.Quad()
		if ctx := stream.Context(); ctx != nil {
			q.G = ctx.Term()
		}
		if err := enc.Write(q); err != nil {
			s.world.fail("serialize", err)
			return false
		}
		stream.Next()
	}
	if err := enc.Close(); err != nil {
		s.world.fail("serialize", err)
		return false
	}
	return true
}
