package rdf

import (
	"strings"

	"github.com/geoknoesis/rdfstore/internal/codec"
	"github.com/geoknoesis/rdfstore/internal/engine"
)

// nodeKey identifies a node by kind and content. Literals with the same
// lexical form but different language or datatype get different keys.
type nodeKey struct {
	kind     NodeType
	value    string
	language string
	datatype string
}

func keyOf(n *engine.Node) nodeKey {
	k := nodeKey{kind: n.Type()}
	switch k.kind {
	case NodeTypeBlank:
		k.value = n.BlankID()
	case NodeTypeLiteral:
		k.value = n.LiteralValue()
		k.language = strings.ToLower(n.Language())
		k.datatype = n.Datatype()
	default:
		k.value = n.URIString()
	}
	return k
}

// Visited records the nodes a reachability walk has expanded. Sharing one
// across several AppendReachable calls keeps statements from being
// emitted twice.
type Visited struct {
	nodes      map[nodeKey]struct{}
	statements map[string]struct{}
}

// NewVisited returns an empty set.
func NewVisited() *Visited {
	return &Visited{nodes: map[nodeKey]struct{}{}, statements: map[string]struct{}{}}
}

// Contains reports whether n has been expanded.
func (v *Visited) Contains(n *Node) bool {
	en := n.engineNode()
	if v == nil || en == nil {
		return false
	}
	_, ok := v.nodes[keyOf(en)]
	return ok
}

// Len returns the number of expanded nodes.
func (v *Visited) Len() int {
	if v == nil {
		return 0
	}
	return len(v.nodes)
}

// ReachableStatements returns owned copies of every statement reachable
// from anchor: the statements whose subject is anchor, followed depth
// first by those reachable from each blank-node object.
func ReachableStatements(model *Model, anchor *Node) ([]*Statement, error) {
	return AppendReachable(nil, model, anchor, NewVisited())
}

// AppendReachable appends the statements reachable from anchor to dst.
// Nodes already in visited are not expanded again. On failure dst is
// returned with the statements found so far.
func AppendReachable(dst []*Statement, model *Model, anchor *Node, visited *Visited) ([]*Statement, error) {
	em := model.engineModel()
	en := anchor.engineNode()
	if em == nil || en == nil {
		return dst, allocError(nil, "reachable statements")
	}
	if visited == nil {
		visited = NewVisited()
	}
	return appendReachable(dst, em, en, visited)
}

func appendReachable(dst []*Statement, em *engine.Model, node *engine.Node, visited *Visited) ([]*Statement, error) {
	key := keyOf(node)
	if _, seen := visited.nodes[key]; seen {
		return dst, nil
	}
	visited.nodes[key] = struct{}{}

	w := em.World()
	subject := node.Clone()
	if subject == nil {
		return dst, allocError(w, "reachable statements")
	}
	pattern := engine.NewStatementFromNodes(w, subject, nil, nil)
	if pattern == nil {
		return dst, allocError(w, "reachable statements")
	}
	stream := em.FindStatements(pattern)
	pattern.Free()
	if stream == nil {
		return dst, allocError(w, "reachable statements")
	}
	defer stream.Free()

	for ; !stream.End(); stream.Next() {
		cur := stream.Object()
		if cur == nil {
			return dst, allocError(w, "reachable statements")
		}
		q := cur.Quad()
		sk := codec.TermKey(q.S) + "\x01" + codec.TermKey(q.P) + "\x01" + codec.TermKey(q.O)
		if _, dup := visited.statements[sk]; dup {
			continue
		}
		visited.statements[sk] = struct{}{}
		c := cur.Clone()
		if c == nil {
			return dst, allocError(w, "reachable statements")
		}
		dst = append(dst, wrapStatement(c))
		if obj := c.Object(); obj != nil && obj.IsBlank() {
			var err error
			if dst, err = appendReachable(dst, em, obj, visited); err != nil {
				return dst, err
			}
		}
	}
	return dst, nil
}
