package rdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdfstore/internal/codec"
)

func TestNodeStringProjection(t *testing.T) {
	w := newWorld(t)

	uri := node(t, w, "http://example.org/a")
	defer uri.Close()
	assert.Equal(t, "http://example.org/a", uri.String())
	assert.True(t, uri.IsResource())

	blank := node(t, w, "_:b1")
	defer blank.Close()
	assert.Equal(t, "b1", blank.String())
	assert.Equal(t, "_:b1", blank.NTriples())
	assert.True(t, blank.IsBlank())

	lit, err := NewLiteralNode(w, "chat", "fr", false)
	require.NoError(t, err)
	defer lit.Close()
	assert.Equal(t, "chat", lit.String())
	assert.Equal(t, "fr", lit.Language())
	assert.Equal(t, `"chat"@fr`, lit.NTriples())

	var empty Node
	assert.Equal(t, "", empty.String())
	assert.Equal(t, NodeTypeUnknown, empty.Type())
}

func TestNumericNodes(t *testing.T) {
	w := newWorld(t)
	cases := []struct {
		name     string
		build    func() (*Node, error)
		lexical  string
		datatype string
	}{
		{"double", func() (*Node, error) { return NewDoubleNode(w, 3.5) }, "3.5", codec.XSDDouble},
		{"double integral", func() (*Node, error) { return NewDoubleNode(w, 1) }, "1", codec.XSDDouble},
		{"double large", func() (*Node, error) { return NewDoubleNode(w, 1e21) }, "1e+21", codec.XSDDouble},
		{"double negative", func() (*Node, error) { return NewDoubleNode(w, -0.25) }, "-0.25", codec.XSDDouble},
		{"float", func() (*Node, error) { return NewFloatNode(w, 0.1) }, "0.1", codec.XSDFloat},
		{"string", func() (*Node, error) { return NewStringNode(w, "x y") }, "x y", codec.XSDString},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := tc.build()
			require.NoError(t, err)
			defer n.Close()
			assert.True(t, n.IsLiteral())
			assert.Equal(t, tc.lexical, n.String())
			assert.Equal(t, tc.datatype, n.Datatype())
			assert.Empty(t, n.Language())
		})
	}
}

func TestLiteralConstructors(t *testing.T) {
	w := newWorld(t)

	xml, err := NewLiteralNode(w, "<b>x</b>", "en", true)
	require.NoError(t, err)
	defer xml.Close()
	assert.Equal(t, codec.RDFXMLLiteral, xml.Datatype())
	assert.Empty(t, xml.Language())

	dt, err := NewURI(w, codec.XSDInteger)
	require.NoError(t, err)
	defer dt.Close()
	typed, err := NewTypedLiteralNode(w, "5", dt)
	require.NoError(t, err)
	defer typed.Close()
	assert.Equal(t, codec.XSDInteger, typed.Datatype())
	assert.True(t, dt.IsValid(), "the datatype is not consumed")

	_, err = NewTypedLiteralNode(w, "5", nil)
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestNodeConstructionFailures(t *testing.T) {
	w := newWorld(t)

	_, err := NewURINode(w, "")
	require.Error(t, err)
	var alloc *AllocError
	require.True(t, errors.As(err, &alloc))
	assert.Equal(t, "new uri node", alloc.Op)
	assert.Contains(t, alloc.Caller, "node_test.go:")

	_, err = NewLiteralNode(w, "x", "not a tag!", false)
	require.ErrorAs(t, err, &alloc)
	assert.Error(t, alloc.Cause, "an invalid language tag is recorded as the cause")
	assert.Equal(t, 0, w.Live(KindNode))
}

func TestBlankNodesAreMintedPerWorld(t *testing.T) {
	w := newWorld(t)
	a, err := NewBlankNode(w)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewBlankNodeWithID(w, "")
	require.NoError(t, err)
	defer b.Close()

	assert.NotEqual(t, a.BlankID(), b.BlankID())
	assert.Contains(t, a.BlankID(), w.ID())
	assert.False(t, a.Equal(b))
}

func TestNodeEquality(t *testing.T) {
	w := newWorld(t)
	a := node(t, w, "http://example.org/caf\u00e9")
	defer a.Close()
	b := node(t, w, "http://example.org/cafe\u0301")
	defer b.Close()
	assert.True(t, a.Equal(b), "URIs compare after NFC normalization")

	en, err := NewLiteralNode(w, "x", "en", false)
	require.NoError(t, err)
	defer en.Close()
	enUS, err := NewLiteralNode(w, "x", "EN", false)
	require.NoError(t, err)
	defer enUS.Close()
	assert.True(t, en.Equal(enUS), "language tags compare case-insensitively")

	plain := node(t, w, `"x"`)
	defer plain.Close()
	assert.False(t, en.Equal(plain))

	var e1, e2 Node
	assert.True(t, e1.Equal(&e2))
	assert.False(t, e1.Equal(plain))
}

func TestNodeMove(t *testing.T) {
	w := newWorld(t)
	a := node(t, w, "http://example.org/a")
	b := a.Move()
	assert.False(t, a.IsValid())
	assert.Equal(t, "", a.String())
	assert.Equal(t, "http://example.org/a", b.String())

	a.Close()
	b.Close()
	b.Close()
	assert.Equal(t, 0, w.Live(KindNode))
}

func TestURI(t *testing.T) {
	w := newWorld(t)
	u, err := NewURI(w, "http://example.org/café")
	require.NoError(t, err)
	defer u.Close()
	c, err := u.Clone()
	require.NoError(t, err)
	defer c.Close()
	assert.True(t, u.Equal(c))

	n, err := NewURINodeFromURI(w, u)
	require.NoError(t, err)
	defer n.Close()
	assert.Equal(t, u.String(), n.URI())

	_, err = NewURI(w, "")
	assert.ErrorIs(t, err, ErrAllocation)
}
