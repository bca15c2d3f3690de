package engine

import (
	"golang.org/x/text/unicode/norm"
)

// URI is an engine-allocated, NFC-normalized URI string.
type URI struct {
	resource
	value string
}

// NewURI allocates a URI. It returns nil for an empty string.
func NewURI(w *World, s string) *URI {
	if s == "" {
		return nil
	}
	u := &URI{value: norm.NFC.String(s)}
	if !u.init(w, KindURI) {
		return nil
	}
	return u
}

// Clone allocates an independent copy.
func (u *URI) Clone() *URI {
	return NewURI(u.world, u.value)
}

// Free releases the URI.
func (u *URI) Free() { u.free() }

// String returns the normalized URI.
func (u *URI) String() string { return u.value }

// Equals compares normalized strings.
func (u *URI) Equals(other *URI) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.value == other.value
}
