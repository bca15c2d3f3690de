package rdf

import (
	"github.com/geoknoesis/rdfstore/internal/engine"
)

// Storage names of the built-in backends.
const (
	BackendMemory = "memory"
	BackendHashes = "hashes"
	BackendSQLite = "sqlite"
)

// Backends lists the registered storage backends.
func Backends() []string { return engine.Backends() }

// Storage holds statements for one or more models. Closing the storage
// only drops this handle's reference; a model created over it keeps the
// backend open until the model is closed too.
type Storage struct {
	h handle[*engine.Storage]
}

// NewStorage opens a backend. options is a comma separated list of
// key='value' pairs, for example "hash-type='memory',contexts='yes'".
func NewStorage(w *World, backend, name, options string) (*Storage, error) {
	es := engine.NewStorage(w.engine(), backend, name, options)
	if es == nil {
		return nil, allocError(w.engine(), "new storage")
	}
	return wrapStorage(es), nil
}

func wrapStorage(es *engine.Storage) *Storage {
	s := &Storage{}
	s.h.reset(es)
	return s
}

func (s *Storage) engineStorage() *engine.Storage {
	if s == nil {
		return nil
	}
	return s.h.get()
}

// Clone copies the storage. In-memory backends duplicate their contents;
// the sqlite backend reopens the same database.
func (s *Storage) Clone() (*Storage, error) {
	es := s.engineStorage()
	if es == nil {
		return nil, allocError(nil, "clone storage")
	}
	c := engine.NewStorageFromStorage(es)
	if c == nil {
		return nil, allocError(es.World(), "clone storage")
	}
	return wrapStorage(c), nil
}

// Move transfers ownership to a new Storage and leaves s empty.
func (s *Storage) Move() *Storage {
	m := &Storage{}
	m.h.take(&s.h)
	return m
}

// Close drops this handle's reference.
func (s *Storage) Close() { s.h.close() }

// IsValid reports whether s holds a storage.
func (s *Storage) IsValid() bool { return s.engineStorage() != nil }

// Backend returns the backend name, or "" when empty.
func (s *Storage) Backend() string {
	if es := s.engineStorage(); es != nil {
		return es.BackendName()
	}
	return ""
}

// Name returns the storage name.
func (s *Storage) Name() string {
	if es := s.engineStorage(); es != nil {
		return es.Name()
	}
	return ""
}

// SupportsContexts reports whether statements can be partitioned by context.
func (s *Storage) SupportsContexts() bool {
	es := s.engineStorage()
	return es != nil && es.SupportsContexts()
}
