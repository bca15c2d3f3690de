package engine

import (
	"github.com/geoknoesis/rdfstore/internal/codec"
)

// Statement is an engine-allocated (subject, predicate, object) triple.
// Nil parts act as wildcards when the statement is used as a pattern.
type Statement struct {
	resource
	subject   *Node
	predicate *Node
	obj       *Node
}

// NewStatement allocates an empty statement.
func NewStatement(w *World) *Statement {
	s := &Statement{}
	if !s.init(w, KindStatement) {
		return nil
	}
	return s
}

// NewStatementFromNodes allocates a statement that takes ownership of the
// given nodes. The nodes are freed if allocation fails.
func NewStatementFromNodes(w *World, subject, predicate, object *Node) *Statement {
	s := NewStatement(w)
	if s == nil {
		freeNodes(subject, predicate, object)
		return nil
	}
	s.subject, s.predicate, s.obj = subject, predicate, object
	return s
}

// NewStatementFromQuad allocates a statement holding the quad's triple.
func NewStatementFromQuad(w *World, q codec.Quad) *Statement {
	var subject, predicate, object *Node
	if q.S != nil {
		if subject = NewNodeFromTerm(w, q.S); subject == nil {
			return nil
		}
	}
	if q.P.Value != "" {
		if predicate = NewNodeFromTerm(w, q.P); predicate == nil {
			freeNodes(subject)
			return nil
		}
	}
	if q.O != nil {
		if object = NewNodeFromTerm(w, q.O); object == nil {
			freeNodes(subject, predicate)
			return nil
		}
	}
	return NewStatementFromNodes(w, subject, predicate, object)
}

func freeNodes(nodes ...*Node) {
	for _, n := range nodes {
		if n != nil {
			n.Free()
		}
	}
}

func cloneNode(n *Node) (*Node, bool) {
	if n == nil {
		return nil, true
	}
	c := n.Clone()
	return c, c != nil
}

// Clone allocates a deep copy.
func (s *Statement) Clone() *Statement {
	subject, ok := cloneNode(s.subject)
	if !ok {
		return nil
	}
	predicate, ok := cloneNode(s.predicate)
	if !ok {
		freeNodes(subject)
		return nil
	}
	object, ok := cloneNode(s.obj)
	if !ok {
		freeNodes(subject, predicate)
		return nil
	}
	return NewStatementFromNodes(s.world, subject, predicate, object)
}

// Free releases the statement and the nodes it owns.
func (s *Statement) Free() {
	freeNodes(s.subject, s.predicate, s.obj)
	s.subject, s.predicate, s.obj = nil, nil, nil
	s.free()
}

// Subject returns the borrowed subject node.
func (s *Statement) Subject() *Node { return s.subject }

// Predicate returns the borrowed predicate node.
func (s *Statement) Predicate() *Node { return s.predicate }

// Object returns the borrowed object node.
func (s *Statement) Object() *Node { return s.obj }

// SetSubject takes ownership of n and frees the previous subject.
func (s *Statement) SetSubject(n *Node) { s.subject = replaceNode(s.subject, n) }

// SetPredicate takes ownership of n and frees the previous predicate.
func (s *Statement) SetPredicate(n *Node) { s.predicate = replaceNode(s.predicate, n) }

// SetObject takes ownership of n and frees the previous object.
func (s *Statement) SetObject(n *Node) { s.obj = replaceNode(s.obj, n) }

func replaceNode(old, n *Node) *Node {
	if old != nil && old != n {
		old.Free()
	}
	return n
}

// IsComplete reports whether all three parts are set.
func (s *Statement) IsComplete() bool {
	return s.subject != nil && s.predicate != nil && s.obj != nil
}

// Matches reports whether s matches pattern; nil pattern parts match anything.
func (s *Statement) Matches(pattern *Statement) bool {
	if pattern == nil {
		return true
	}
	return partMatches(s.subject, pattern.subject) &&
		partMatches(s.predicate, pattern.predicate) &&
		partMatches(s.obj, pattern.obj)
}

func partMatches(n, want *Node) bool {
	return want == nil || n.Equals(want)
}

// Quad returns the triple in codec form. Unset parts are zero.
func (s *Statement) Quad() codec.Quad {
	var q codec.Quad
	if s.subject != nil {
		q.S = s.subject.Term()
	}
	if s.predicate != nil {
		if iri, ok := s.predicate.Term().(codec.IRI); ok {
			q.P = iri
		}
	}
	if s.obj != nil {
		q.O = s.obj.Term()
	}
	return q
}

// Valid reports whether the statement can be stored: all parts set, a
// non-literal subject and a resource predicate.
func (s *Statement) Valid() bool {
	return s.IsComplete() && !s.subject.IsLiteral() && s.predicate.IsResource()
}

// String renders the statement for diagnostics.
func (s *Statement) String() string {
	part := func(n *Node) string {
		if n == nil {
			return "?"
		}
		return n.String()
	}
	return "{" + part(s.subject) + ", " + part(s.predicate) + ", " + part(s.obj) + "}"
}
