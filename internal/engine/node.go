package engine

import (
	"github.com/geoknoesis/rdfstore/internal/codec"
	"golang.org/x/text/unicode/norm"
)

// NodeType classifies a node.
type NodeType int

const (
	NodeTypeUnknown NodeType = iota
	NodeTypeResource
	NodeTypeLiteral
	NodeTypeBlank
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeResource:
		return "resource"
	case NodeTypeLiteral:
		return "literal"
	case NodeTypeBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Node is an engine-allocated RDF term.
type Node struct {
	resource
	term codec.Term
}

func newNode(w *World, term codec.Term) *Node {
	n := &Node{term: term}
	if !n.init(w, KindNode) {
		return nil
	}
	return n
}

// NewURINode allocates a resource node. It returns nil for an empty URI.
func NewURINode(w *World, uri string) *Node {
	if uri == "" {
		return nil
	}
	return newNode(w, codec.IRI{Value: norm.NFC.String(uri)})
}

// NewURINodeFromURI allocates a resource node from a URI object.
func NewURINodeFromURI(w *World, uri *URI) *Node {
	if uri == nil {
		return nil
	}
	return newNode(w, codec.IRI{Value: uri.String()})
}

// NewLiteralNode allocates a plain or language-tagged literal. When
// wellFormedXML is set the literal is typed rdf:XMLLiteral and lang is ignored.
// An invalid language tag yields nil.
func NewLiteralNode(w *World, value, lang string, wellFormedXML bool) *Node {
	if wellFormedXML {
		return newNode(w, codec.Literal{Lexical: value, Datatype: codec.IRI{Value: codec.RDFXMLLiteral}})
	}
	if lang != "" && !codec.IsValidLangTag(lang) {
		if w.usable() {
			w.fail("new literal", errInvalidLanguage(lang))
		}
		return nil
	}
	return newNode(w, codec.Literal{Lexical: value, Lang: lang})
}

// NewTypedLiteralNode allocates a typed literal. A nil datatype yields nil.
func NewTypedLiteralNode(w *World, value string, datatype *URI) *Node {
	if datatype == nil {
		return nil
	}
	return newNode(w, codec.Literal{Lexical: value, Datatype: codec.IRI{Value: datatype.String()}})
}

// NewBlankNode allocates a blank node. An empty id mints a fresh one.
func NewBlankNode(w *World, id string) *Node {
	if id == "" {
		if !w.usable() {
			return nil
		}
		id = w.MintBlankID()
	}
	return newNode(w, codec.BlankNode{ID: id})
}

// NewNodeFromTerm allocates a node holding a codec term.
func NewNodeFromTerm(w *World, term codec.Term) *Node {
	switch t := term.(type) {
	case codec.IRI:
		return NewURINode(w, t.Value)
	case codec.BlankNode:
		if t.ID == "" {
			return nil
		}
		return newNode(w, t)
	case codec.Literal:
		if t.Lang != "" && !codec.IsValidLangTag(t.Lang) {
			return nil
		}
		return newNode(w, normalizeTerm(t))
	default:
		return nil
	}
}

// normalizeTerm applies the NFC normalization node constructors use to every
// IRI in term, including a literal's datatype.
func normalizeTerm(term codec.Term) codec.Term {
	switch t := term.(type) {
	case codec.IRI:
		return codec.IRI{Value: norm.NFC.String(t.Value)}
	case codec.Literal:
		if t.Datatype.Value != "" {
			t.Datatype = codec.IRI{Value: norm.NFC.String(t.Datatype.Value)}
		}
		return t
	default:
		return term
	}
}

// normalizeQuad normalizes every term of q so stored records compare equal
// to nodes built from the same text.
func normalizeQuad(q codec.Quad) codec.Quad {
	if q.S != nil {
		q.S = normalizeTerm(q.S)
	}
	if q.P.Value != "" {
		q.P = codec.IRI{Value: norm.NFC.String(q.P.Value)}
	}
	if q.O != nil {
		q.O = normalizeTerm(q.O)
	}
	if q.G != nil {
		q.G = normalizeTerm(q.G)
	}
	return q
}

// Clone allocates an independent copy.
func (n *Node) Clone() *Node {
	return newNode(n.world, n.term)
}

// Free releases the node.
func (n *Node) Free() { n.free() }

// Type returns the node classification.
func (n *Node) Type() NodeType {
	switch n.term.(type) {
	case codec.IRI:
		return NodeTypeResource
	case codec.Literal:
		return NodeTypeLiteral
	case codec.BlankNode:
		return NodeTypeBlank
	default:
		return NodeTypeUnknown
	}
}

func (n *Node) IsResource() bool { return n.Type() == NodeTypeResource }
func (n *Node) IsLiteral() bool  { return n.Type() == NodeTypeLiteral }
func (n *Node) IsBlank() bool    { return n.Type() == NodeTypeBlank }

// Term returns the codec representation.
func (n *Node) Term() codec.Term { return n.term }

// URIString returns the URI of a resource node, or "".
func (n *Node) URIString() string {
	if iri, ok := n.term.(codec.IRI); ok {
		return iri.Value
	}
	return ""
}

// BlankID returns the identifier of a blank node, or "".
func (n *Node) BlankID() string {
	if b, ok := n.term.(codec.BlankNode); ok {
		return b.ID
	}
	return ""
}

// LiteralValue returns the lexical form of a literal, or "".
func (n *Node) LiteralValue() string {
	if l, ok := n.term.(codec.Literal); ok {
		return l.Lexical
	}
	return ""
}

// Language returns the language tag of a literal, or "".
func (n *Node) Language() string {
	if l, ok := n.term.(codec.Literal); ok {
		return l.Lang
	}
	return ""
}

// Datatype returns the datatype URI of a literal, or "".
func (n *Node) Datatype() string {
	if l, ok := n.term.(codec.Literal); ok {
		return l.Datatype.Value
	}
	return ""
}

// Equals reports structural equality.
func (n *Node) Equals(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return codec.SameTerm(n.term, other.term)
}

// String renders the node in N-Triples term syntax.
func (n *Node) String() string {
	return codec.FormatTerm(n.term)
}
