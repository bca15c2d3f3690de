package engine

import (
	"fmt"
	"sort"

	"github.com/geoknoesis/rdfstore/internal/codec"
)

type memEntry struct {
	seq  uint64
	quad codec.Quad
}

// memoryBackend keeps quads in insertion order. With indexed set it also
// maintains subject, predicate and object hashes to narrow lookups.
type memoryBackend struct {
	indexed bool
	seq     uint64
	entries map[string]memEntry
	index   [3]map[string]map[string]struct{}
}

func newMemoryBackend(indexed bool) *memoryBackend {
	m := &memoryBackend{indexed: indexed, entries: map[string]memEntry{}}
	if indexed {
		for i := range m.index {
			m.index[i] = map[string]map[string]struct{}{}
		}
	}
	return m
}

func openMemoryBackend(_ *World, _ string, opts map[string]string) (backend, bool, error) {
	return newMemoryBackend(false), boolOption(opts, "contexts"), nil
}

func openHashesBackend(_ *World, _ string, opts map[string]string) (backend, bool, error) {
	if hashType := opts["hash-type"]; hashType != "memory" {
		return nil, false, fmt.Errorf("%w: hashes requires hash-type='memory', got %q", ErrBadOptions, hashType)
	}
	return newMemoryBackend(true), boolOption(opts, "contexts"), nil
}

func quadParts(q codec.Quad) [3]string {
	return [3]string{codec.TermKey(q.S), codec.TermKey(q.P), codec.TermKey(q.O)}
}

func (m *memoryBackend) add(q codec.Quad) (bool, error) {
	key := codec.QuadKey(q)
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.seq++
	m.entries[key] = memEntry{seq: m.seq, quad: q}
	if m.indexed {
		for i, part := range quadParts(q) {
			set, ok := m.index[i][part]
			if !ok {
				set = map[string]struct{}{}
				m.index[i][part] = set
			}
			set[key] = struct{}{}
		}
	}
	return true, nil
}

func (m *memoryBackend) remove(q codec.Quad) (bool, error) {
	key := codec.QuadKey(q)
	if _, ok := m.entries[key]; !ok {
		return false, nil
	}
	m.drop(key, q)
	return true, nil
}

func (m *memoryBackend) drop(key string, q codec.Quad) {
	delete(m.entries, key)
	if !m.indexed {
		return
	}
	for i, part := range quadParts(q) {
		set := m.index[i][part]
		delete(set, key)
		if len(set) == 0 {
			delete(m.index[i], part)
		}
	}
}

// candidates returns the keys worth checking for p, or nil when every
// entry must be scanned.
func (m *memoryBackend) candidates(p pattern) (map[string]struct{}, bool) {
	if !m.indexed {
		return nil, false
	}
	var best map[string]struct{}
	found := false
	for i, term := range []codec.Term{p.s, p.p, p.o} {
		if term == nil {
			continue
		}
		set := m.index[i][codec.TermKey(term)]
		if !found || len(set) < len(best) {
			best = set
			found = true
		}
	}
	return best, found
}

func (m *memoryBackend) find(p pattern) ([]codec.Quad, error) {
	var hits []memEntry
	if keys, ok := m.candidates(p); ok {
		for key := range keys {
			if e := m.entries[key]; p.matches(e.quad) {
				hits = append(hits, e)
			}
		}
	} else {
		for _, e := range m.entries {
			if p.matches(e.quad) {
				hits = append(hits, e)
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })
	out := make([]codec.Quad, len(hits))
	for i, e := range hits {
		out[i] = e.quad
	}
	return out, nil
}

func (m *memoryBackend) removeGraph(g codec.Term) error {
	for key, e := range m.entries {
		if codec.SameTerm(e.quad.G, g) {
			m.drop(key, e.quad)
		}
	}
	return nil
}

func (m *memoryBackend) removeAll() error {
	fresh := newMemoryBackend(m.indexed)
	m.entries = fresh.entries
	m.index = fresh.index
	return nil
}

func (m *memoryBackend) size() (int, error) {
	return len(m.entries), nil
}

func (m *memoryBackend) graphs() ([]codec.Term, error) {
	all, _ := m.find(pattern{anyGraph: true})
	seen := map[string]bool{}
	var out []codec.Term
	for _, q := range all {
		if q.G == nil {
			continue
		}
		key := codec.TermKey(q.G)
		if !seen[key] {
			seen[key] = true
			out = append(out, q.G)
		}
	}
	return out, nil
}

func (m *memoryBackend) sync() error { return nil }

func (m *memoryBackend) close() error {
	m.entries = nil
	return nil
}

func (m *memoryBackend) clone() (backend, error) {
	c := newMemoryBackend(m.indexed)
	all, _ := m.find(pattern{anyGraph: true})
	for _, q := range all {
		if _, err := c.add(q); err != nil {
			return nil, err
		}
	}
	return c, nil
}
