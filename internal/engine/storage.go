package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/geoknoesis/rdfstore/internal/codec"
)

// pattern selects stored quads. Nil terms match anything. When anyGraph is
// false only quads whose graph equals g are selected, nil meaning the
// default graph.
type pattern struct {
	s, p, o  codec.Term
	g        codec.Term
	anyGraph bool
}

func (p pattern) matches(q codec.Quad) bool {
	if p.s != nil && !codec.SameTerm(p.s, q.S) {
		return false
	}
	if p.p != nil && !codec.SameTerm(p.p, q.P) {
		return false
	}
	if p.o != nil && !codec.SameTerm(p.o, q.O) {
		return false
	}
	return p.anyGraph || codec.SameTerm(p.g, q.G)
}

func exactPattern(q codec.Quad) pattern {
	return pattern{s: q.S, p: q.P, o: q.O, g: q.G}
}

// backend is a storage implementation. Results come back in insertion order.
type backend interface {
	add(q codec.Quad) (bool, error)
	remove(q codec.Quad) (bool, error)
	find(p pattern) ([]codec.Quad, error)
	removeGraph(g codec.Term) error
	removeAll() error
	size() (int, error)
	graphs() ([]codec.Term, error)
	sync() error
	close() error
	clone() (backend, error)
}

type backendFactory struct {
	description string
	open        func(w *World, name string, opts map[string]string) (backend, bool, error)
}

var backends = map[string]backendFactory{
	"memory": {
		description: "In-memory list of statements",
		open:        openMemoryBackend,
	},
	"hashes": {
		description: "Indexed in-memory statements",
		open:        openHashesBackend,
	},
	"sqlite": {
		description: "SQLite database",
		open:        openSQLiteBackend,
	},
}

// Backends returns the registered storage backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storage is a reference-counted handle on a storage backend.
type Storage struct {
	resource
	backendName string
	name        string
	options     map[string]string
	contexts    bool
	be          backend
	refs        int
}

// NewStorage opens a storage backend. options is a comma separated list of
// key='value' pairs. It returns nil if the backend is unknown, the options are
// malformed or the backend fails to open.
func NewStorage(w *World, backendName, name, options string) *Storage {
	if !w.usable() {
		return nil
	}
	factory, ok := backends[backendName]
	if !ok {
		w.fail("new storage", fmt.Errorf("%w: %q", ErrUnknownBackend, backendName))
		return nil
	}
	opts, err := ParseOptions(options)
	if err != nil {
		w.fail("new storage", err)
		return nil
	}
	be, contexts, err := factory.open(w, name, opts)
	if err != nil {
		w.fail("new storage "+backendName, err)
		return nil
	}
	s := &Storage{backendName: backendName, name: name, options: opts, contexts: contexts, be: be, refs: 1}
	if !s.init(w, KindStorage) {
		_ = be.close()
		return nil
	}
	w.logger.Debug("storage opened", "backend", backendName, "name", name)
	return s
}

// NewStorageFromStorage copies a storage. In-memory contents are duplicated;
// database-backed storages reopen the same database.
func NewStorageFromStorage(old *Storage) *Storage {
	w := old.world
	if !w.usable() {
		return nil
	}
	be, err := old.be.clone()
	if err != nil {
		w.fail("copy storage", err)
		return nil
	}
	s := &Storage{backendName: old.backendName, name: old.name, options: old.options, contexts: old.contexts, be: be, refs: 1}
	if !s.init(w, KindStorage) {
		_ = be.close()
		return nil
	}
	return s
}

// Free drops the caller's reference. The backend closes once no model uses it.
func (s *Storage) Free() {
	s.free()
	s.unref()
}

func (s *Storage) ref() { s.refs++ }

func (s *Storage) unref() {
	s.refs--
	if s.refs > 0 {
		return
	}
	if err := s.be.close(); err != nil {
		s.world.fail("close storage", err)
	}
}

// BackendName returns the backend the storage was opened with.
func (s *Storage) BackendName() string { return s.backendName }

// Name returns the storage name.
func (s *Storage) Name() string { return s.name }

// SupportsContexts reports whether statements can be partitioned by context.
func (s *Storage) SupportsContexts() bool { return s.contexts }

// ParseOptions parses a storage option string of the form
// key='value',key2="value2". Keys are case sensitive.
func ParseOptions(s string) (map[string]string, error) {
	opts := map[string]string{}
	rest := strings.TrimSpace(s)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadOptions, s)
		}
		key := strings.TrimSpace(rest[:eq])
		rest = strings.TrimSpace(rest[eq+1:])
		if rest == "" || (rest[0] != '\'' && rest[0] != '"') {
			return nil, fmt.Errorf("%w: value of %q must be quoted", ErrBadOptions, key)
		}
		end := strings.IndexByte(rest[1:], rest[0])
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated value of %q", ErrBadOptions, key)
		}
		opts[key] = rest[1 : end+1]
		rest = strings.TrimSpace(rest[end+2:])
		if rest == "" {
			break
		}
		if rest[0] != ',' {
			return nil, fmt.Errorf("%w: expected ',' after %q", ErrBadOptions, key)
		}
		rest = strings.TrimSpace(rest[1:])
	}
	return opts, nil
}

func boolOption(opts map[string]string, key string) bool {
	switch strings.ToLower(opts[key]) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
