package rdf

import (
	"github.com/geoknoesis/rdfstore/internal/engine"
)

// URI is an owned, NFC-normalized URI.
type URI struct {
	h handle[*engine.URI]
}

// NewURI creates a URI. An empty string is an allocation failure.
func NewURI(w *World, s string) (*URI, error) {
	eu := engine.NewURI(w.engine(), s)
	if eu == nil {
		return nil, allocError(w.engine(), "new uri")
	}
	return wrapURI(eu), nil
}

func wrapURI(eu *engine.URI) *URI {
	u := &URI{}
	u.h.reset(eu)
	return u
}

// Clone returns an independent copy.
func (u *URI) Clone() (*URI, error) {
	eu := u.h.get()
	if eu == nil {
		return nil, allocError(nil, "clone uri")
	}
	c := eu.Clone()
	if c == nil {
		return nil, allocError(eu.World(), "clone uri")
	}
	return wrapURI(c), nil
}

// Move transfers ownership to a new URI and leaves u empty.
func (u *URI) Move() *URI {
	m := &URI{}
	m.h.take(&u.h)
	return m
}

// Close frees the URI. Closing an empty URI is a no-op.
func (u *URI) Close() { u.h.close() }

// IsValid reports whether u holds a URI.
func (u *URI) IsValid() bool { return u != nil && u.h.valid() }

// String returns the normalized URI, or "" when empty.
func (u *URI) String() string {
	if eu := u.engineURI(); eu != nil {
		return eu.String()
	}
	return ""
}

// Equal compares normalized strings. Two empty URIs are equal.
func (u *URI) Equal(other *URI) bool {
	return u.engineURI().Equals(other.engineURI())
}

func (u *URI) engineURI() *engine.URI {
	if u == nil {
		return nil
	}
	return u.h.get()
}
