package rdf

import (
	"github.com/geoknoesis/rdfstore/internal/engine"
)

// Model is a graph of statements held by a Storage. Operations on an
// empty model report false (or an AllocError for those returning objects).
type Model struct {
	h handle[*engine.Model]
}

// NewModel creates a model over storage. The storage is not consumed and
// may be closed before the model.
func NewModel(w *World, storage *Storage, options string) (*Model, error) {
	em := engine.NewModel(w.engine(), storage.engineStorage(), options)
	if em == nil {
		return nil, allocError(w.engine(), "new model")
	}
	return wrapModel(em), nil
}

func wrapModel(em *engine.Model) *Model {
	m := &Model{}
	m.h.reset(em)
	return m
}

func (m *Model) engineModel() *engine.Model {
	if m == nil {
		return nil
	}
	return m.h.get()
}

// Clone creates a model over a copy of m's storage.
func (m *Model) Clone() (*Model, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "clone model")
	}
	c := engine.NewModelFromModel(em)
	if c == nil {
		return nil, allocError(em.World(), "clone model")
	}
	return wrapModel(c), nil
}

// Move transfers ownership to a new Model and leaves m empty.
func (m *Model) Move() *Model {
	c := &Model{}
	c.h.take(&m.h)
	return c
}

// Close frees the model and its storage reference.
func (m *Model) Close() { m.h.close() }

// IsValid reports whether m holds a model.
func (m *Model) IsValid() bool { return m.engineModel() != nil }

// SupportsContexts reports whether the storage partitions statements by context.
func (m *Model) SupportsContexts() bool {
	em := m.engineModel()
	return em != nil && em.SupportsContexts()
}

// AddStatement copies st into the default graph. Adding a statement that
// is already present succeeds and stores nothing new.
func (m *Model) AddStatement(st *Statement) bool {
	em := m.engineModel()
	return em != nil && em.AddStatement(st.engineStatement())
}

// Add stores (s, p, o) in the default graph. The nodes are not consumed.
func (m *Model) Add(s, p, o *Node) bool {
	return m.AddInContext(nil, s, p, o)
}

// AddInContext stores (s, p, o) in the graph named by ctx, or in the
// default graph when ctx is nil. The nodes are not consumed.
func (m *Model) AddInContext(ctx, s, p, o *Node) bool {
	em := m.engineModel()
	if em == nil {
		return false
	}
	st := patternFrom(em.World(), s, p, o)
	if st == nil {
		return false
	}
	defer st.Free()
	if !st.IsComplete() {
		return false
	}
	if ctx == nil {
		return em.AddStatement(st)
	}
	return em.ContextAddStatement(ctx.engineNode(), st)
}

// ContextAddStatement copies st into the graph named by ctx.
func (m *Model) ContextAddStatement(ctx *Node, st *Statement) bool {
	em := m.engineModel()
	return em != nil && em.ContextAddStatement(ctx.engineNode(), st.engineStatement())
}

// AddStatements adds the remaining statements of stream to the default
// graph. The stream is consumed but stays open.
func (m *Model) AddStatements(stream *Stream) bool {
	em := m.engineModel()
	es := stream.engineStream()
	return em != nil && es != nil && em.AddStatements(es)
}

// RemoveStatement removes st from the default graph. It reports false if
// the statement was not there.
func (m *Model) RemoveStatement(st *Statement) bool {
	em := m.engineModel()
	return em != nil && em.RemoveStatement(st.engineStatement())
}

// ContextRemoveStatement removes st from the graph named by ctx.
func (m *Model) ContextRemoveStatement(ctx *Node, st *Statement) bool {
	em := m.engineModel()
	return em != nil && em.ContextRemoveStatement(ctx.engineNode(), st.engineStatement())
}

// ContextRemoveStatements removes every statement in the graph named by ctx.
func (m *Model) ContextRemoveStatements(ctx *Node) bool {
	em := m.engineModel()
	return em != nil && em.ContextRemoveStatements(ctx.engineNode())
}

// RemoveAllStatements empties the model.
func (m *Model) RemoveAllStatements() bool {
	em := m.engineModel()
	return em != nil && em.RemoveAllStatements()
}

// HasStatement reports whether st is stored in any graph.
func (m *Model) HasStatement(st *Statement) bool {
	em := m.engineModel()
	return em != nil && em.ContainsStatement(st.engineStatement())
}

// ContainsContext reports whether the graph named by ctx holds any statement.
func (m *Model) ContainsContext(ctx *Node) bool {
	em := m.engineModel()
	return em != nil && em.ContainsContext(ctx.engineNode())
}

// Size returns the number of stored statements, or -1 on failure.
func (m *Model) Size() int {
	em := m.engineModel()
	if em == nil {
		return -1
	}
	return em.Size()
}

// Sync flushes the storage.
func (m *Model) Sync() bool {
	em := m.engineModel()
	return em != nil && em.Sync()
}

// AsStream returns every statement in every graph.
func (m *Model) AsStream() (*Stream, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "model as stream")
	}
	es := em.AsStream()
	if es == nil {
		return nil, allocError(em.World(), "model as stream")
	}
	return wrapStream(es), nil
}

// FindStatements returns the statements in any graph matching pattern.
// A nil pattern matches everything.
func (m *Model) FindStatements(pattern *Statement) (*Stream, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "find statements")
	}
	es := em.FindStatements(pattern.engineStatement())
	if es == nil {
		return nil, allocError(em.World(), "find statements")
	}
	return wrapStream(es), nil
}

// FindStatementsInContext returns the statements matching pattern in the
// graph named by ctx, or in the default graph when ctx is nil.
func (m *Model) FindStatementsInContext(pattern *Statement, ctx *Node) (*Stream, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "find statements in context")
	}
	es := em.FindStatementsInContext(pattern.engineStatement(), ctx.engineNode())
	if es == nil {
		return nil, allocError(em.World(), "find statements in context")
	}
	return wrapStream(es), nil
}

// ContextAsStream returns every statement in the graph named by ctx.
func (m *Model) ContextAsStream(ctx *Node) (*Stream, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "context as stream")
	}
	es := em.ContextAsStream(ctx.engineNode())
	if es == nil {
		return nil, allocError(em.World(), "context as stream")
	}
	return wrapStream(es), nil
}

// Find returns owned copies of every statement matching pattern.
func (m *Model) Find(pattern *Statement) ([]*Statement, error) {
	stream, err := m.FindStatements(pattern)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	return stream.Copy()
}

// FindFirst returns an owned copy of the first statement matching
// pattern, or nil if none does.
func (m *Model) FindFirst(pattern *Statement) (*Statement, error) {
	stream, err := m.FindStatements(pattern)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	if stream.End() {
		return nil, nil
	}
	return stream.Object()
}

// FindNodes returns owned copies of the statements matching (s, p, o).
// Nil nodes are wildcards and none of the nodes are consumed.
func (m *Model) FindNodes(s, p, o *Node) ([]*Statement, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "find nodes")
	}
	pattern := patternFrom(em.World(), s, p, o)
	if pattern == nil {
		return nil, allocError(em.World(), "find nodes")
	}
	defer pattern.Free()
	return m.Find(borrowStatement(pattern))
}

// patternFrom builds an engine statement holding copies of the given
// nodes. Nil or empty nodes leave the part unset.
func patternFrom(w *engine.World, s, p, o *Node) *engine.Statement {
	var parts [3]*engine.Node
	for i, n := range []*Node{s, p, o} {
		en := n.engineNode()
		if en == nil {
			continue
		}
		if parts[i] = en.Clone(); parts[i] == nil {
			for _, c := range parts[:i] {
				if c != nil {
					c.Free()
				}
			}
			return nil
		}
	}
	return engine.NewStatementFromNodes(w, parts[0], parts[1], parts[2])
}

// Contexts iterates the named graphs.
func (m *Model) Contexts() (*Iterator, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "contexts")
	}
	it := em.Contexts()
	if it == nil {
		return nil, allocError(em.World(), "contexts")
	}
	return wrapIterator(it), nil
}

// Targets iterates the distinct objects of statements (source, arc, ?).
func (m *Model) Targets(source, arc *Node) (*Iterator, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "targets")
	}
	it := em.Targets(source.engineNode(), arc.engineNode())
	if it == nil {
		return nil, allocError(em.World(), "targets")
	}
	return wrapIterator(it), nil
}

// Sources iterates the distinct subjects of statements (?, arc, target).
func (m *Model) Sources(arc, target *Node) (*Iterator, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "sources")
	}
	it := em.Sources(arc.engineNode(), target.engineNode())
	if it == nil {
		return nil, allocError(em.World(), "sources")
	}
	return wrapIterator(it), nil
}

// Arcs iterates the distinct predicates of statements (source, ?, target).
func (m *Model) Arcs(source, target *Node) (*Iterator, error) {
	em := m.engineModel()
	if em == nil {
		return nil, allocError(nil, "arcs")
	}
	it := em.Arcs(source.engineNode(), target.engineNode())
	if it == nil {
		return nil, allocError(em.World(), "arcs")
	}
	return wrapIterator(it), nil
}
