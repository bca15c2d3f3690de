package rdf

import (
	"github.com/geoknoesis/rdfstore/internal/engine"
)

// Statement is a (subject, predicate, object) triple. Unset parts act as
// wildcards when the statement is used as a query pattern.
type Statement struct {
	h        handle[*engine.Statement]
	borrowed bool
}

func wrapStatement(es *engine.Statement) *Statement {
	s := &Statement{}
	s.h.reset(es)
	return s
}

func borrowStatement(es *engine.Statement) *Statement {
	if es == nil {
		return nil
	}
	s := &Statement{borrowed: true}
	s.h.reset(es)
	return s
}

// NewStatement creates a statement with every part unset.
func NewStatement(w *World) (*Statement, error) {
	es := engine.NewStatement(w.engine())
	if es == nil {
		return nil, allocError(w.engine(), "new statement")
	}
	return wrapStatement(es), nil
}

// NewStatementFromNodes creates a statement that takes the given nodes.
// Owned nodes are left empty; borrowed views are copied. Nil nodes leave
// the part unset. On failure every owned node passed in is freed.
func NewStatementFromNodes(w *World, subject, predicate, object *Node) (*Statement, error) {
	parts, ok := consumeNodes(subject, predicate, object)
	if !ok {
		return nil, allocError(w.engine(), "new statement")
	}
	es := engine.NewStatementFromNodes(w.engine(), parts[0], parts[1], parts[2])
	if es == nil {
		return nil, allocError(w.engine(), "new statement")
	}
	return wrapStatement(es), nil
}

// consumeNodes takes every node. If any copy fails the ones already taken
// are freed.
func consumeNodes(nodes ...*Node) ([]*engine.Node, bool) {
	out := make([]*engine.Node, len(nodes))
	ok := true
	for i, n := range nodes {
		en, taken := n.consume()
		out[i] = en
		ok = ok && taken
	}
	if !ok {
		for _, en := range out {
			if en != nil {
				en.Free()
			}
		}
		return nil, false
	}
	return out, true
}

func (s *Statement) engineStatement() *engine.Statement {
	if s == nil {
		return nil
	}
	return s.h.get()
}

// Clone returns an independent owned deep copy, also for borrowed views.
func (s *Statement) Clone() (*Statement, error) {
	es := s.engineStatement()
	if es == nil {
		return nil, allocError(nil, "clone statement")
	}
	c := es.Clone()
	if c == nil {
		return nil, allocError(es.World(), "clone statement")
	}
	return wrapStatement(c), nil
}

// Move transfers what s holds to a new Statement and leaves s empty.
func (s *Statement) Move() *Statement {
	m := &Statement{borrowed: s.borrowed}
	m.h.take(&s.h)
	s.borrowed = false
	return m
}

// Close frees an owned statement and its nodes, or detaches a borrowed view.
func (s *Statement) Close() {
	if s == nil {
		return
	}
	if s.borrowed {
		s.h.release()
		return
	}
	s.h.close()
}

// IsValid reports whether s holds a statement.
func (s *Statement) IsValid() bool { return s.engineStatement() != nil }

// IsBorrowed reports whether s is a view owned by something else.
func (s *Statement) IsBorrowed() bool { return s != nil && s.borrowed }

// Subject returns a borrowed view of the subject, or nil when unset.
func (s *Statement) Subject() *Node {
	if es := s.engineStatement(); es != nil {
		return borrowNode(es.Subject())
	}
	return nil
}

// Predicate returns a borrowed view of the predicate, or nil when unset.
func (s *Statement) Predicate() *Node {
	if es := s.engineStatement(); es != nil {
		return borrowNode(es.Predicate())
	}
	return nil
}

// Object returns a borrowed view of the object, or nil when unset.
func (s *Statement) Object() *Node {
	if es := s.engineStatement(); es != nil {
		return borrowNode(es.Object())
	}
	return nil
}

// SetSubject replaces the subject with n, consuming it like
// NewStatementFromNodes. It reports false if s is empty or n could not be taken.
func (s *Statement) SetSubject(n *Node) bool {
	return s.setPart(n, (*engine.Statement).SetSubject)
}

// SetPredicate replaces the predicate with n.
func (s *Statement) SetPredicate(n *Node) bool {
	return s.setPart(n, (*engine.Statement).SetPredicate)
}

// SetObject replaces the object with n.
func (s *Statement) SetObject(n *Node) bool {
	return s.setPart(n, (*engine.Statement).SetObject)
}

func (s *Statement) setPart(n *Node, set func(*engine.Statement, *engine.Node)) bool {
	es := s.engineStatement()
	if es == nil {
		return false
	}
	en, ok := n.consume()
	if !ok {
		return false
	}
	set(es, en)
	return true
}

// IsComplete reports whether all three parts are set.
func (s *Statement) IsComplete() bool {
	es := s.engineStatement()
	return es != nil && es.IsComplete()
}

// Matches reports whether s matches pattern. Unset pattern parts match
// anything and a nil pattern matches every statement.
func (s *Statement) Matches(pattern *Statement) bool {
	es := s.engineStatement()
	if es == nil {
		return false
	}
	return es.Matches(pattern.engineStatement())
}

// Equal reports whether both statements are complete and have equal parts.
func (s *Statement) Equal(other *Statement) bool {
	if !s.IsComplete() || !other.IsComplete() {
		return false
	}
	return s.Matches(other)
}

// String renders the statement for diagnostics.
func (s *Statement) String() string {
	if es := s.engineStatement(); es != nil {
		return es.String()
	}
	return "{}"
}
