package engine

import (
	"fmt"

	"github.com/geoknoesis/rdfstore/internal/codec"
)

// Model is a graph of statements held by a storage.
type Model struct {
	resource
	storage *Storage
	options map[string]string
}

// NewModel creates a model over storage. The model keeps the storage open
// until both are freed.
func NewModel(w *World, storage *Storage, options string) *Model {
	if storage == nil || !w.usable() {
		return nil
	}
	opts, err := ParseOptions(options)
	if err != nil {
		w.fail("new model", err)
		return nil
	}
	m := &Model{storage: storage, options: opts}
	if !m.init(w, KindModel) {
		return nil
	}
	storage.ref()
	return m
}

// NewModelFromModel creates a model over a copy of m's storage.
func NewModelFromModel(m *Model) *Model {
	storage := NewStorageFromStorage(m.storage)
	if storage == nil {
		return nil
	}
	c := &Model{storage: storage, options: m.options}
	if !c.init(m.world, KindModel) {
		storage.Free()
		return nil
	}
	// The copy owns the only reference to its storage.
	storage.free()
	return c
}

// Free releases the model and its storage reference.
func (m *Model) Free() {
	m.free()
	m.storage.unref()
}

// Storage returns the borrowed storage.
func (m *Model) Storage() *Storage { return m.storage }

// SupportsContexts reports whether the storage partitions statements by context.
func (m *Model) SupportsContexts() bool { return m.storage.contexts }

func (m *Model) be() backend { return m.storage.be }

func (m *Model) storable(op string, st *Statement) (codec.Quad, bool) {
	if st == nil || !st.Valid() {
		m.world.fail(op, ErrInvalidStatement)
		return codec.Quad{}, false
	}
	return st.Quad(), true
}

func (m *Model) contextTerm(op string, ctx *Node) (codec.Term, bool) {
	if !m.SupportsContexts() {
		m.world.fail(op, ErrNoContexts)
		return nil, false
	}
	if ctx == nil || ctx.IsLiteral() {
		m.world.fail(op, fmt.Errorf("%w: context must be a resource or blank node", ErrInvalidStatement))
		return nil, false
	}
	return ctx.Term(), true
}

// AddStatement copies st into the default graph. Adding a statement that is
// already present succeeds.
func (m *Model) AddStatement(st *Statement) bool {
	q, ok := m.storable("add statement", st)
	if !ok {
		return false
	}
	return m.add("add statement", q)
}

// ContextAddStatement copies st into the graph named by ctx.
func (m *Model) ContextAddStatement(ctx *Node, st *Statement) bool {
	g, ok := m.contextTerm("context add statement", ctx)
	if !ok {
		return false
	}
	q, ok := m.storable("context add statement", st)
	if !ok {
		return false
	}
	q.G = g
	return m.add("context add statement", q)
}

func (m *Model) add(op string, q codec.Quad) bool {
	if err := m.store(q); err != nil {
		m.world.fail(op, err)
		return false
	}
	return true
}

// store normalizes q and hands it to the backend. Every quad entering the
// model passes through here.
func (m *Model) store(q codec.Quad) error {
	_, err := m.be().add(normalizeQuad(q))
	return err
}

// AddStatements adds every statement of a stream to the default graph.
// The stream is consumed but not freed.
func (m *Model) AddStatements(stream *Stream) bool {
	ok := true
	for !stream.End() {
		if st := stream.Object(); st == nil || !m.AddStatement(st) {
			ok = false
		}
		stream.Next()
	}
	return ok
}

// RemoveStatement removes st from the default graph. It fails when the
// statement is not stored there.
func (m *Model) RemoveStatement(st *Statement) bool {
	q, ok := m.storable("remove statement", st)
	if !ok {
		return false
	}
	return m.remove("remove statement", q)
}

// ContextRemoveStatement removes st from the graph named by ctx.
func (m *Model) ContextRemoveStatement(ctx *Node, st *Statement) bool {
	g, ok := m.contextTerm("context remove statement", ctx)
	if !ok {
		return false
	}
	q, ok := m.storable("context remove statement", st)
	if !ok {
		return false
	}
	q.G = g
	return m.remove("context remove statement", q)
}

func (m *Model) remove(op string, q codec.Quad) bool {
	removed, err := m.be().remove(q)
	if err != nil {
		m.world.fail(op, err)
		return false
	}
	if !removed {
		m.world.fail(op, ErrNotFound)
	}
	return removed
}

// ContextRemoveStatements removes every statement in the graph named by ctx.
func (m *Model) ContextRemoveStatements(ctx *Node) bool {
	g, ok := m.contextTerm("context remove statements", ctx)
	if !ok {
		return false
	}
	if err := m.be().removeGraph(g); err != nil {
		m.world.fail("context remove statements", err)
		return false
	}
	return true
}

// RemoveAllStatements empties the model.
func (m *Model) RemoveAllStatements() bool {
	if err := m.be().removeAll(); err != nil {
		m.world.fail("remove all statements", err)
		return false
	}
	return true
}

// ContainsStatement reports whether st is stored in any graph.
func (m *Model) ContainsStatement(st *Statement) bool {
	if st == nil || !st.Valid() {
		return false
	}
	q := st.Quad()
	p := exactPattern(q)
	p.anyGraph = true
	found, err := m.be().find(p)
	if err != nil {
		m.world.fail("contains statement", err)
		return false
	}
	return len(found) > 0
}

// ContainsContext reports whether any statement is stored in the graph named by ctx.
func (m *Model) ContainsContext(ctx *Node) bool {
	if !m.SupportsContexts() || ctx == nil {
		return false
	}
	found, err := m.be().find(pattern{g: ctx.Term()})
	if err != nil {
		m.world.fail("contains context", err)
		return false
	}
	return len(found) > 0
}

// Size returns the number of stored statements, or -1 on failure.
func (m *Model) Size() int {
	n, err := m.be().size()
	if err != nil {
		m.world.fail("size", err)
		return -1
	}
	return n
}

// Sync flushes the storage.
func (m *Model) Sync() bool {
	if err := m.be().sync(); err != nil {
		m.world.fail("sync", err)
		return false
	}
	return true
}

// queryPattern converts a statement pattern. It reports false when the
// pattern can never match.
func queryPattern(st *Statement) (pattern, bool) {
	var p pattern
	if st == nil {
		return p, true
	}
	if n := st.Subject(); n != nil {
		p.s = n.Term()
	}
	if n := st.Predicate(); n != nil {
		if !n.IsResource() {
			return p, false
		}
		p.p = n.Term()
	}
	if n := st.Object(); n != nil {
		p.o = n.Term()
	}
	return p, true
}

func (m *Model) query(op string, p pattern, ok bool) *Stream {
	if !ok {
		return NewEmptyStream(m.world)
	}
	quads, err := m.be().find(p)
	if err != nil {
		m.world.fail(op, err)
		return nil
	}
	return NewStream(m.world, newQuadSource(m.world, quads))
}

// AsStream returns every statement in every graph.
func (m *Model) AsStream() *Stream {
	return m.query("as stream", pattern{anyGraph: true}, true)
}

// FindStatements returns statements in any graph matching pattern.
func (m *Model) FindStatements(patternSt *Statement) *Stream {
	p, ok := queryPattern(patternSt)
	p.anyGraph = true
	return m.query("find statements", p, ok)
}

// FindStatementsInContext returns statements matching pattern in the graph
// named by ctx, or in the default graph when ctx is nil.
func (m *Model) FindStatementsInContext(patternSt *Statement, ctx *Node) *Stream {
	p, ok := queryPattern(patternSt)
	if ctx != nil {
		if !m.SupportsContexts() {
			m.world.fail("find statements in context", ErrNoContexts)
			return nil
		}
		p.g = ctx.Term()
	}
	return m.query("find statements in context", p, ok)
}

// ContextAsStream returns every statement in the graph named by ctx.
func (m *Model) ContextAsStream(ctx *Node) *Stream {
	g, ok := m.contextTerm("context as stream", ctx)
	if !ok {
		return nil
	}
	return m.query("context as stream", pattern{g: g}, true)
}

// Contexts iterates the named graphs in first-use order.
func (m *Model) Contexts() *Iterator {
	if !m.SupportsContexts() {
		m.world.fail("contexts", ErrNoContexts)
		return nil
	}
	graphs, err := m.be().graphs()
	if err != nil {
		m.world.fail("contexts", err)
		return nil
	}
	items := make([]termItem, len(graphs))
	for i, g := range graphs {
		items[i] = termItem{term: g}
	}
	return NewIterator(m.world, &termSource{world: m.world, items: items})
}

// Targets iterates the distinct objects of statements (source, arc, ?).
func (m *Model) Targets(source, arc *Node) *Iterator {
	return m.project("targets", source, arc, nil, func(q codec.Quad) codec.Term { return q.O })
}

// Sources iterates the distinct subjects of statements (?, arc, target).
func (m *Model) Sources(arc, target *Node) *Iterator {
	return m.project("sources", nil, arc, target, func(q codec.Quad) codec.Term { return q.S })
}

// Arcs iterates the distinct predicates of statements (source, ?, target).
func (m *Model) Arcs(source, target *Node) *Iterator {
	return m.project("arcs", source, nil, target, func(q codec.Quad) codec.Term { return q.P })
}

func (m *Model) project(op string, s, p, o *Node, pick func(codec.Quad) codec.Term) *Iterator {
	var pat pattern
	pat.anyGraph = true
	if s != nil {
		pat.s = s.Term()
	}
	if p != nil {
		pat.p = p.Term()
	}
	if o != nil {
		pat.o = o.Term()
	}
	quads, err := m.be().find(pat)
	if err != nil {
		m.world.fail(op, err)
		return nil
	}
	seen := map[string]bool{}
	var items []termItem
	for _, q := range quads {
		term := pick(q)
		key := codec.TermKey(term)
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, termItem{term: term, context: q.G})
	}
	return NewIterator(m.world, &termSource{world: m.world, items: items})
}
