package rdf

import (
	"strconv"

	"github.com/geoknoesis/rdfstore/internal/codec"
	"github.com/geoknoesis/rdfstore/internal/engine"
)

// NodeType classifies a node.
type NodeType = engine.NodeType

// Node types.
const (
	NodeTypeUnknown  = engine.NodeTypeUnknown
	NodeTypeResource = engine.NodeTypeResource
	NodeTypeLiteral  = engine.NodeTypeLiteral
	NodeTypeBlank    = engine.NodeTypeBlank
)

// Node is an RDF term. A Node either owns its engine object or is a
// borrowed view handed out by a Statement, Stream or Iterator; a view is
// only valid until its owner changes and closing it never frees anything.
type Node struct {
	h        handle[*engine.Node]
	borrowed bool
}

func wrapNode(en *engine.Node) *Node {
	n := &Node{}
	n.h.reset(en)
	return n
}

func borrowNode(en *engine.Node) *Node {
	if en == nil {
		return nil
	}
	n := &Node{borrowed: true}
	n.h.reset(en)
	return n
}

// NewURINode creates a resource node.
func NewURINode(w *World, uri string) (*Node, error) {
	en := engine.NewURINode(w.engine(), uri)
	if en == nil {
		return nil, allocError(w.engine(), "new uri node")
	}
	return wrapNode(en), nil
}

// NewURINodeFromURI creates a resource node from a URI. The URI is not consumed.
func NewURINodeFromURI(w *World, uri *URI) (*Node, error) {
	en := engine.NewURINodeFromURI(w.engine(), uri.engineURI())
	if en == nil {
		return nil, allocError(w.engine(), "new uri node")
	}
	return wrapNode(en), nil
}

// NewLiteralNode creates a literal with an optional language tag. When
// wellFormedXML is set the literal is typed rdf:XMLLiteral and lang is ignored.
func NewLiteralNode(w *World, value, lang string, wellFormedXML bool) (*Node, error) {
	en := engine.NewLiteralNode(w.engine(), value, lang, wellFormedXML)
	if en == nil {
		return nil, allocError(w.engine(), "new literal node")
	}
	return wrapNode(en), nil
}

// NewPlainLiteralNode creates a literal with no language or datatype.
func NewPlainLiteralNode(w *World, value string) (*Node, error) {
	en := engine.NewLiteralNode(w.engine(), value, "", false)
	if en == nil {
		return nil, allocError(w.engine(), "new literal node")
	}
	return wrapNode(en), nil
}

// NewTypedLiteralNode creates a typed literal. The datatype is not consumed.
func NewTypedLiteralNode(w *World, value string, datatype *URI) (*Node, error) {
	en := engine.NewTypedLiteralNode(w.engine(), value, datatype.engineURI())
	if en == nil {
		return nil, allocError(w.engine(), "new typed literal node")
	}
	return wrapNode(en), nil
}

// NewBlankNode creates a blank node with a freshly minted identifier.
func NewBlankNode(w *World) (*Node, error) {
	en := engine.NewBlankNode(w.engine(), "")
	if en == nil {
		return nil, allocError(w.engine(), "new blank node")
	}
	return wrapNode(en), nil
}

// NewBlankNodeWithID creates a blank node with the given identifier. An
// empty id mints a fresh one.
func NewBlankNodeWithID(w *World, id string) (*Node, error) {
	en := engine.NewBlankNode(w.engine(), id)
	if en == nil {
		return nil, allocError(w.engine(), "new blank node")
	}
	return wrapNode(en), nil
}

// NewDoubleNode creates an xsd:double literal using the shortest
// representation that round-trips, e.g. 3.5 becomes "3.5".
func NewDoubleNode(w *World, v float64) (*Node, error) {
	en := newTypedTerm(w, strconv.FormatFloat(v, 'g', -1, 64), codec.XSDDouble)
	if en == nil {
		return nil, allocError(w.engine(), "new double node")
	}
	return wrapNode(en), nil
}

// NewFloatNode creates an xsd:float literal.
func NewFloatNode(w *World, v float32) (*Node, error) {
	en := newTypedTerm(w, strconv.FormatFloat(float64(v), 'g', -1, 32), codec.XSDFloat)
	if en == nil {
		return nil, allocError(w.engine(), "new float node")
	}
	return wrapNode(en), nil
}

// NewStringNode creates an xsd:string literal.
func NewStringNode(w *World, s string) (*Node, error) {
	en := newTypedTerm(w, s, codec.XSDString)
	if en == nil {
		return nil, allocError(w.engine(), "new string node")
	}
	return wrapNode(en), nil
}

func newTypedTerm(w *World, lexical, datatype string) *engine.Node {
	return engine.NewNodeFromTerm(w.engine(), codec.Literal{Lexical: lexical, Datatype: codec.IRI{Value: datatype}})
}

func (n *Node) engineNode() *engine.Node {
	if n == nil {
		return nil
	}
	return n.h.get()
}

// Clone returns an independent owned copy, also for borrowed views.
func (n *Node) Clone() (*Node, error) {
	en := n.engineNode()
	if en == nil {
		return nil, allocError(nil, "clone node")
	}
	c := en.Clone()
	if c == nil {
		return nil, allocError(en.World(), "clone node")
	}
	return wrapNode(c), nil
}

// Move transfers what n holds to a new Node and leaves n empty.
func (n *Node) Move() *Node {
	m := &Node{borrowed: n.borrowed}
	m.h.take(&n.h)
	n.borrowed = false
	return m
}

// Close frees an owned node and detaches a borrowed view.
func (n *Node) Close() {
	if n == nil {
		return
	}
	if n.borrowed {
		n.h.release()
		return
	}
	n.h.close()
}

// IsValid reports whether n holds a node.
func (n *Node) IsValid() bool { return n.engineNode() != nil }

// IsBorrowed reports whether n is a view owned by something else.
func (n *Node) IsBorrowed() bool { return n != nil && n.borrowed }

// Type returns the node classification.
func (n *Node) Type() NodeType {
	if en := n.engineNode(); en != nil {
		return en.Type()
	}
	return NodeTypeUnknown
}

// IsResource reports whether n is a URI node.
func (n *Node) IsResource() bool { return n.Type() == NodeTypeResource }

// IsLiteral reports whether n is a literal.
func (n *Node) IsLiteral() bool { return n.Type() == NodeTypeLiteral }

// IsBlank reports whether n is a blank node.
func (n *Node) IsBlank() bool { return n.Type() == NodeTypeBlank }

// URI returns the URI of a resource node, or "".
func (n *Node) URI() string {
	if en := n.engineNode(); en != nil {
		return en.URIString()
	}
	return ""
}

// BlankID returns the identifier of a blank node, or "".
func (n *Node) BlankID() string {
	if en := n.engineNode(); en != nil {
		return en.BlankID()
	}
	return ""
}

// Language returns the language tag of a literal, or "".
func (n *Node) Language() string {
	if en := n.engineNode(); en != nil {
		return en.Language()
	}
	return ""
}

// Datatype returns the datatype URI of a literal, or "".
func (n *Node) Datatype() string {
	if en := n.engineNode(); en != nil {
		return en.Datatype()
	}
	return ""
}

// String projects the node to text: the identifier of a blank node, the
// lexical form of a literal and the URI of a resource. An empty node
// projects to "".
func (n *Node) String() string {
	en := n.engineNode()
	if en == nil {
		return ""
	}
	switch en.Type() {
	case NodeTypeBlank:
		return en.BlankID()
	case NodeTypeLiteral:
		return en.LiteralValue()
	default:
		return en.URIString()
	}
}

// NTriples renders the node in N-Triples term syntax.
func (n *Node) NTriples() string {
	if en := n.engineNode(); en != nil {
		return en.String()
	}
	return ""
}

// Equal reports structural equality. Two empty nodes are equal.
func (n *Node) Equal(other *Node) bool {
	return n.engineNode().Equals(other.engineNode())
}

// consume hands the engine node to a new owner and leaves n empty. A
// borrowed view is cloned instead. A nil or empty n yields nil.
func (n *Node) consume() (*engine.Node, bool) {
	en := n.engineNode()
	if en == nil {
		return nil, true
	}
	if n.borrowed {
		c := en.Clone()
		n.h.release()
		return c, c != nil
	}
	return n.h.release(), true
}
