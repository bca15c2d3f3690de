package rdf

import (
	"iter"

	"github.com/geoknoesis/rdfstore/internal/engine"
)

// Iterator is a forward-only sequence of nodes, produced by model queries
// such as Targets and Contexts.
type Iterator struct {
	h handle[*engine.Iterator]
}

func wrapIterator(it *engine.Iterator) *Iterator {
	i := &Iterator{}
	i.h.reset(it)
	return i
}

func (it *Iterator) engineIterator() *engine.Iterator {
	if it == nil {
		return nil
	}
	return it.h.get()
}

// Move transfers ownership to a new Iterator and leaves it empty.
func (it *Iterator) Move() *Iterator {
	m := &Iterator{}
	m.h.take(&it.h)
	return m
}

// Close frees the iterator.
func (it *Iterator) Close() { it.h.close() }

// IsValid reports whether it holds an iterator.
func (it *Iterator) IsValid() bool { return it.engineIterator() != nil }

// End reports whether the iterator is exhausted.
func (it *Iterator) End() bool {
	ei := it.engineIterator()
	return ei == nil || ei.End()
}

// Next advances the iterator. It returns false once the end is reached.
func (it *Iterator) Next() bool {
	ei := it.engineIterator()
	return ei != nil && ei.Next()
}

// Current returns a borrowed view of the current node, or nil at the end.
func (it *Iterator) Current() *Node {
	if it.End() {
		return nil
	}
	return borrowNode(it.engineIterator().Object())
}

// Object returns an owned copy of the current node, or nil at the end.
func (it *Iterator) Object() (*Node, error) {
	if it.End() {
		return nil, nil
	}
	ei := it.engineIterator()
	cur := ei.Object()
	if cur == nil {
		return nil, allocError(ei.World(), "iterator object")
	}
	c := cur.Clone()
	if c == nil {
		return nil, allocError(ei.World(), "iterator object")
	}
	return wrapNode(c), nil
}

// Context returns an owned copy of the current node's context, or nil.
func (it *Iterator) Context() (*Node, error) {
	if it.End() {
		return nil, nil
	}
	ei := it.engineIterator()
	cur := ei.Context()
	if cur == nil {
		return nil, nil
	}
	c := cur.Clone()
	if c == nil {
		return nil, allocError(ei.World(), "iterator context")
	}
	return wrapNode(c), nil
}

// Copy drains the iterator into owned copies.
func (it *Iterator) Copy() ([]*Node, error) {
	var out []*Node
	for !it.End() {
		n, err := it.Object()
		if err != nil {
			for _, c := range out {
				c.Close()
			}
			return nil, err
		}
		out = append(out, n)
		it.Next()
	}
	return out, nil
}

// All yields a borrowed view of each remaining node.
func (it *Iterator) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for !it.End() {
			cur := it.Current()
			if cur == nil || !yield(cur) {
				return
			}
			it.Next()
		}
	}
}
