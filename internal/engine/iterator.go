package engine

import (
	"github.com/geoknoesis/rdfstore/internal/codec"
)

// IteratorSource is the pull protocol behind an Iterator. Get returns a
// borrowed *Node for both GetObject and GetContext, or nil.
type IteratorSource interface {
	End() bool
	Next() bool
	Get(method GetMethod) any
	Finished()
}

// Iterator is a forward-only sequence of nodes.
type Iterator struct {
	resource
	src IteratorSource
}

// NewIterator wraps a source. Finished is called on the source when the
// iterator is freed, including when allocation fails.
func NewIterator(w *World, src IteratorSource) *Iterator {
	it := &Iterator{src: src}
	if !it.init(w, KindIterator) {
		src.Finished()
		return nil
	}
	return it
}

// End reports whether the iterator is exhausted.
func (it *Iterator) End() bool { return it.src.End() }

// Next advances the iterator. It returns false once the end is reached.
func (it *Iterator) Next() bool {
	if it.src.End() {
		return false
	}
	return it.src.Next()
}

// Object returns the current node, borrowed until the next advance.
func (it *Iterator) Object() *Node {
	if it.src.End() {
		return nil
	}
	n, _ := it.src.Get(GetObject).(*Node)
	return n
}

// Context returns the context of the current node, borrowed until the next advance.
func (it *Iterator) Context() *Node {
	if it.src.End() {
		return nil
	}
	n, _ := it.src.Get(GetContext).(*Node)
	return n
}

// Free releases the iterator and finishes its source.
func (it *Iterator) Free() {
	it.free()
	it.src.Finished()
}

type termItem struct {
	term    codec.Term
	context codec.Term
}

// termSource serves a snapshot of terms.
type termSource struct {
	world   *World
	items   []termItem
	pos     int
	current *Node
	context *Node
}

func (t *termSource) End() bool { return t.pos >= len(t.items) }

func (t *termSource) Next() bool {
	t.dropCurrent()
	t.pos++
	return !t.End()
}

func (t *termSource) Get(method GetMethod) any {
	if t.End() {
		return nil
	}
	item := t.items[t.pos]
	switch method {
	case GetObject:
		if t.current == nil {
			t.current = NewNodeFromTerm(t.world, item.term)
		}
		if t.current == nil {
			return nil
		}
		return t.current
	case GetContext:
		if item.context == nil {
			return nil
		}
		if t.context == nil {
			t.context = NewNodeFromTerm(t.world, item.context)
		}
		if t.context == nil {
			return nil
		}
		return t.context
	default:
		return nil
	}
}

func (t *termSource) Finished() {
	t.dropCurrent()
	t.items = nil
}

func (t *termSource) dropCurrent() {
	if t.current != nil {
		t.current.Free()
		t.current = nil
	}
	if t.context != nil {
		t.context.Free()
		t.context = nil
	}
}
