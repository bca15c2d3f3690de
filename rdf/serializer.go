package rdf

import (
	"io"
	"strings"

	"github.com/geoknoesis/rdfstore/internal/engine"
)

// CheckSerializerName reports whether name selects a known output syntax.
func CheckSerializerName(name string) bool { return engine.CheckSerializerName(name) }

// Serializer writes statements in one syntax.
type Serializer struct {
	h handle[*engine.Serializer]
}

// NewSerializer selects a syntax by name, MIME type or format URI, tried
// in that order. All three empty selects Turtle.
func NewSerializer(w *World, name, mimeType, typeURI string) (*Serializer, error) {
	es := engine.NewSerializer(w.engine(), name, mimeType, typeURI)
	if es == nil {
		return nil, allocError(w.engine(), "new serializer")
	}
	s := &Serializer{}
	s.h.reset(es)
	return s, nil
}

func (s *Serializer) engineSerializer() *engine.Serializer {
	if s == nil {
		return nil
	}
	return s.h.get()
}

// Move transfers ownership to a new Serializer and leaves s empty.
func (s *Serializer) Move() *Serializer {
	m := &Serializer{}
	m.h.take(&s.h)
	return m
}

// Close frees the serializer.
func (s *Serializer) Close() { s.h.close() }

// IsValid reports whether s holds a serializer.
func (s *Serializer) IsValid() bool { return s.engineSerializer() != nil }

// Format returns the selected syntax name.
func (s *Serializer) Format() string {
	if es := s.engineSerializer(); es != nil {
		return string(es.Format())
	}
	return ""
}

// SetNamespace registers prefix as an abbreviation for uri.
func (s *Serializer) SetNamespace(uri *URI, prefix string) bool {
	es := s.engineSerializer()
	return es != nil && es.SetNamespace(uri.engineURI(), prefix)
}

// RegisterNamespaces registers every prefix of ns. It stops at the first
// namespace URI that cannot be allocated.
func (s *Serializer) RegisterNamespaces(ns *Namespaces) bool {
	es := s.engineSerializer()
	if es == nil {
		return false
	}
	for _, prefix := range ns.sortedPrefixes() {
		uri := engine.NewURI(es.World(), ns.prefixes[prefix])
		if uri == nil {
			return false
		}
		es.SetNamespace(uri, prefix)
		uri.Free()
	}
	return true
}

// Namespaces returns a copy of the registered prefixes.
func (s *Serializer) Namespaces() map[string]string {
	if es := s.engineSerializer(); es != nil {
		return es.Namespaces()
	}
	return nil
}

// SerializeModelToIOStream writes every statement of model to out.
func (s *Serializer) SerializeModelToIOStream(out *IOStream, base *URI, model *Model) bool {
	es := s.engineSerializer()
	em := model.engineModel()
	if es == nil || em == nil || out == nil {
		return false
	}
	return es.SerializeModel(out, base.String(), em)
}

// SerializeModel is SerializeModelToIOStream over w.
func (s *Serializer) SerializeModel(w io.Writer, base *URI, model *Model) bool {
	return s.SerializeModelToIOStream(NewIOStreamToWriter(w), base, model)
}

// SerializeModelToString renders model as a string.
func (s *Serializer) SerializeModelToString(base *URI, model *Model) (string, bool) {
	var b strings.Builder
	if !s.SerializeModel(&b, base, model) {
		return "", false
	}
	return b.String(), true
}

// SerializeStreamToIOStream writes the remaining statements of stream to
// out. The stream is consumed but stays open.
func (s *Serializer) SerializeStreamToIOStream(out *IOStream, base *URI, stream *Stream) bool {
	es := s.engineSerializer()
	st := stream.engineStream()
	if es == nil || st == nil || out == nil {
		return false
	}
	return es.SerializeStream(out, base.String(), st)
}

// SerializeStream is SerializeStreamToIOStream over w.
func (s *Serializer) SerializeStream(w io.Writer, base *URI, stream *Stream) bool {
	return s.SerializeStreamToIOStream(NewIOStreamToWriter(w), base, stream)
}
