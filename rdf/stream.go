package rdf

import (
	"iter"

	"github.com/geoknoesis/rdfstore/internal/engine"
)

// Stream is a forward-only sequence of statements. The statement under the
// cursor can be viewed with Current or copied with Object; views are
// invalidated by Next and Close.
type Stream struct {
	h handle[*engine.Stream]
}

func wrapStream(es *engine.Stream) *Stream {
	s := &Stream{}
	s.h.reset(es)
	return s
}

func (s *Stream) engineStream() *engine.Stream {
	if s == nil {
		return nil
	}
	return s.h.get()
}

// NewEmptyStream returns a stream that is already at its end.
func NewEmptyStream(w *World) (*Stream, error) {
	es := engine.NewEmptyStream(w.engine())
	if es == nil {
		return nil, allocError(w.engine(), "new empty stream")
	}
	return wrapStream(es), nil
}

// NewStreamFromStatements returns a stream over copies of stmts. The
// caller keeps ownership of stmts.
func NewStreamFromStatements(w *World, stmts []*Statement) (*Stream, error) {
	src := &statementsSource{}
	for _, st := range stmts {
		es := st.engineStatement()
		if es == nil {
			continue
		}
		c := es.Clone()
		if c == nil {
			src.Finished()
			return nil, allocError(w.engine(), "new stream from statements")
		}
		src.items = append(src.items, c)
	}
	es := engine.NewStream(w.engine(), src)
	if es == nil {
		return nil, allocError(w.engine(), "new stream from statements")
	}
	return wrapStream(es), nil
}

// NewStreamFromSeq returns a stream that pulls from seq lazily and holds a
// copy of each yielded statement while it is current. Empty statements
// are skipped. The sequence is stopped when the stream is closed.
func NewStreamFromSeq(w *World, seq iter.Seq[*Statement]) (*Stream, error) {
	src := newSeqSource(seq)
	es := engine.NewStream(w.engine(), src)
	if es == nil {
		return nil, allocError(w.engine(), "new stream from seq")
	}
	return wrapStream(es), nil
}

// Move transfers ownership to a new Stream and leaves s empty.
func (s *Stream) Move() *Stream {
	m := &Stream{}
	m.h.take(&s.h)
	return m
}

// Close frees the stream and whatever its source still holds.
func (s *Stream) Close() { s.h.close() }

// IsValid reports whether s holds a stream.
func (s *Stream) IsValid() bool { return s.engineStream() != nil }

// End reports whether the stream is exhausted. An empty Stream is at its end.
func (s *Stream) End() bool {
	es := s.engineStream()
	return es == nil || es.End()
}

// Next advances the stream. It returns false if the stream was already
// at its end or has now reached it.
func (s *Stream) Next() bool {
	es := s.engineStream()
	return es != nil && es.Next()
}

// Current returns a borrowed view of the current statement, or nil at the end.
func (s *Stream) Current() *Statement {
	if s.End() {
		return nil
	}
	return borrowStatement(s.engineStream().Object())
}

// CurrentContext returns a borrowed view of the current statement's
// context, or nil when it has none.
func (s *Stream) CurrentContext() *Node {
	if s.End() {
		return nil
	}
	return borrowNode(s.engineStream().Context())
}

// Object returns an owned copy of the current statement, or nil at the end.
func (s *Stream) Object() (*Statement, error) {
	if s.End() {
		return nil, nil
	}
	es := s.engineStream()
	cur := es.Object()
	if cur == nil {
		return nil, allocError(es.World(), "stream object")
	}
	c := cur.Clone()
	if c == nil {
		return nil, allocError(es.World(), "stream object")
	}
	return wrapStatement(c), nil
}

// Context returns an owned copy of the current statement's context, or
// nil when it has none.
func (s *Stream) Context() (*Node, error) {
	if s.End() {
		return nil, nil
	}
	es := s.engineStream()
	cur := es.Context()
	if cur == nil {
		return nil, nil
	}
	c := cur.Clone()
	if c == nil {
		return nil, allocError(es.World(), "stream context")
	}
	return wrapNode(c), nil
}

// Copy drains the stream into owned copies.
func (s *Stream) Copy() ([]*Statement, error) {
	return s.CopyN(-1)
}

// CopyN copies at most n statements, advancing past each one. A negative
// n copies everything that remains. On failure the copies made so far are
// freed.
func (s *Stream) CopyN(n int) ([]*Statement, error) {
	var out []*Statement
	for !s.End() && (n < 0 || len(out) < n) {
		st, err := s.Object()
		if err != nil {
			for _, c := range out {
				c.Close()
			}
			return nil, err
		}
		out = append(out, st)
		s.Next()
	}
	return out, nil
}

// All yields a borrowed view of each remaining statement. The view is
// valid only during its iteration step. Breaking out of the loop leaves
// the stream on the statement last yielded.
func (s *Stream) All() iter.Seq[*Statement] {
	return func(yield func(*Statement) bool) {
		for !s.End() {
			cur := s.Current()
			if cur == nil {
				return
			}
			if !yield(cur) {
				return
			}
			s.Next()
		}
	}
}

// statementsSource serves a fixed list of owned statements and frees each
// one as the cursor moves past it.
type statementsSource struct {
	items []*engine.Statement
	pos   int
}

func (s *statementsSource) End() bool { return s.pos >= len(s.items) }

func (s *statementsSource) Next() bool {
	if s.End() {
		return false
	}
	s.items[s.pos].Free()
	s.items[s.pos] = nil
	s.pos++
	return !s.End()
}

func (s *statementsSource) Get(method engine.GetMethod) any {
	if s.End() || method != engine.GetObject {
		return nil
	}
	return s.items[s.pos]
}

func (s *statementsSource) Finished() {
	for i := s.pos; i < len(s.items); i++ {
		s.items[i].Free()
	}
	s.items = nil
	s.pos = 0
}

// seqSource pulls statements from an iter.Seq one at a time.
type seqSource struct {
	next    func() (*Statement, bool)
	stop    func()
	current *engine.Statement
	done    bool
}

func newSeqSource(seq iter.Seq[*Statement]) *seqSource {
	next, stop := iter.Pull(seq)
	src := &seqSource{next: next, stop: stop}
	src.advance()
	return src
}

func (s *seqSource) advance() {
	for {
		st, ok := s.next()
		if !ok {
			s.done = true
			return
		}
		es := st.engineStatement()
		if es == nil {
			continue
		}
		if s.current = es.Clone(); s.current == nil {
			s.done = true
			s.stop()
		}
		return
	}
}

func (s *seqSource) End() bool { return s.done }

func (s *seqSource) Next() bool {
	if s.done {
		return false
	}
	s.dropCurrent()
	s.advance()
	return !s.done
}

func (s *seqSource) Get(method engine.GetMethod) any {
	if s.done || s.current == nil || method != engine.GetObject {
		return nil
	}
	return s.current
}

func (s *seqSource) Finished() {
	s.dropCurrent()
	s.done = true
	s.stop()
}

func (s *seqSource) dropCurrent() {
	if s.current != nil {
		s.current.Free()
		s.current = nil
	}
}
