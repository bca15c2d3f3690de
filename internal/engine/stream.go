package engine

import (
	"github.com/geoknoesis/rdfstore/internal/codec"
)

// GetMethod selects what a sequence source returns for its current position.
type GetMethod int

const (
	// GetObject requests the current element.
	GetObject GetMethod = iota
	// GetContext requests the context node associated with the current element.
	GetContext
)

// StreamSource is the pull protocol behind a Stream. Get returns borrowed
// values: a *Statement for GetObject and a *Node (or nil) for GetContext.
// Values returned by Get stay valid until the next call to Next or Finished.
type StreamSource interface {
	End() bool
	// Next advances and reports whether an element is now available.
	Next() bool
	Get(method GetMethod) any
	Finished()
}

// Stream is a forward-only sequence of statements.
type Stream struct {
	resource
	src StreamSource
}

// NewStream wraps a source. Finished is called on the source when the
// stream is freed, including when allocation fails.
func NewStream(w *World, src StreamSource) *Stream {
	s := &Stream{src: src}
	if !s.init(w, KindStream) {
		src.Finished()
		return nil
	}
	return s
}

// NewEmptyStream allocates a stream that is already at its end.
func NewEmptyStream(w *World) *Stream {
	return NewStream(w, &quadSource{})
}

// End reports whether the stream is exhausted. It has no side effects.
func (s *Stream) End() bool { return s.src.End() }

// Next advances the stream. It returns false if the stream was already at
// its end or reached it now.
func (s *Stream) Next() bool {
	if s.src.End() {
		return false
	}
	return s.src.Next()
}

// Object returns the current statement, borrowed until the next advance.
func (s *Stream) Object() *Statement {
	if s.src.End() {
		return nil
	}
	st, _ := s.src.Get(GetObject).(*Statement)
	return st
}

// Context returns the current context node, borrowed until the next advance.
func (s *Stream) Context() *Node {
	if s.src.End() {
		return nil
	}
	n, _ := s.src.Get(GetContext).(*Node)
	return n
}

// Free releases the stream and finishes its source.
func (s *Stream) Free() {
	s.free()
	s.src.Finished()
}

// quadSource serves a snapshot of quads and materializes one statement at
// a time.
type quadSource struct {
	world   *World
	quads   []codec.Quad
	pos     int
	current *Statement
	context *Node
}

func newQuadSource(w *World, quads []codec.Quad) *quadSource {
	return &quadSource{world: w, quads: quads}
}

func (q *quadSource) End() bool { return q.pos >= len(q.quads) }

func (q *quadSource) Next() bool {
	q.dropCurrent()
	q.pos++
	return !q.End()
}

func (q *quadSource) Get(method GetMethod) any {
	if q.End() {
		return nil
	}
	quad := q.quads[q.pos]
	switch method {
	case GetObject:
		if q.current == nil {
			q.current = NewStatementFromQuad(q.world, quad)
		}
		if q.current == nil {
			return nil
		}
		return q.current
	case GetContext:
		if quad.G == nil {
			return nil
		}
		if q.context == nil {
			q.context = NewNodeFromTerm(q.world, quad.G)
		}
		if q.context == nil {
			return nil
		}
		return q.context
	default:
		return nil
	}
}

func (q *quadSource) Finished() {
	q.dropCurrent()
	q.quads = nil
}

func (q *quadSource) dropCurrent() {
	if q.current != nil {
		q.current.Free()
		q.current = nil
	}
	if q.context != nil {
		q.context.Free()
		q.context = nil
	}
}
