package rdf

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Namespaces maps prefixes to namespace URIs.
type Namespaces struct {
	prefixes map[string]string
}

// NewNamespaces returns an empty prefix table.
func NewNamespaces() *Namespaces {
	return &Namespaces{prefixes: map[string]string{}}
}

// LoadNamespaces reads a YAML mapping of prefix to namespace URI:
//
//	ex: http://example.org/
//	foaf: http://xmlns.com/foaf/0.1/
func LoadNamespaces(r io.Reader) (*Namespaces, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("load namespaces: %w", err)
	}
	ns := NewNamespaces()
	for prefix, uri := range raw {
		ns.Add(prefix, uri)
	}
	return ns, nil
}

// Add registers prefix for uri, replacing any earlier binding.
func (n *Namespaces) Add(prefix, uri string) {
	if n.prefixes == nil {
		n.prefixes = map[string]string{}
	}
	n.prefixes[prefix] = uri
}

// Expand replaces a known prefix in a qualified name such as "ex:Foo"
// with its namespace URI. Anything else is returned unchanged.
func (n *Namespaces) Expand(qname string) string {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok || n == nil {
		return qname
	}
	uri, ok := n.prefixes[prefix]
	if !ok {
		return qname
	}
	return uri + local
}

// Prefixes returns a copy of the table.
func (n *Namespaces) Prefixes() map[string]string {
	if n == nil {
		return map[string]string{}
	}
	return maps.Clone(n.prefixes)
}

// Len returns the number of registered prefixes.
func (n *Namespaces) Len() int {
	if n == nil {
		return 0
	}
	return len(n.prefixes)
}

func (n *Namespaces) sortedPrefixes() []string {
	if n == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(n.prefixes))
}
