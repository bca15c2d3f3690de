package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/geoknoesis/rdfstore/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTurtle = `@prefix ex: <http://example.org/> .
ex:s ex:p ex:o ;
     ex:n "3.5"^^<http://www.w3.org/2001/XMLSchema#double> .
_:b ex:p ex:s .
`

func TestNewParserSelection(t *testing.T) {
	w := openWorld(t, Config{})
	defer w.Free()

	p := NewParser(w, "", "", "")
	require.NotNil(t, p)
	assert.Equal(t, codec.FormatTurtle, p.Format())
	p.Free()

	p = NewParser(w, "", "application/n-triples", "")
	require.NotNil(t, p)
	assert.Equal(t, codec.FormatNTriples, p.Format())
	p.Free()

	assert.Nil(t, NewParser(w, "rdfxml", "", ""))
	assert.ErrorIs(t, w.LastError(), codec.ErrUnsupportedFormat)
	assert.True(t, CheckParserName("ttl"))
	assert.False(t, CheckSerializerName("rdfxml"))
}

func TestParseAsStream(t *testing.T) {
	w := openWorld(t, Config{})
	defer w.Free()
	p := NewParser(w, "turtle", "", "")
	require.NotNil(t, p)
	defer p.Free()

	stream := p.ParseAsStream(strings.NewReader(sampleTurtle), "")
	require.NotNil(t, stream)
	var count int
	for !stream.End() {
		st := stream.Object()
		require.NotNil(t, st)
		assert.True(t, st.Valid())
		count++
		stream.Next()
	}
	assert.False(t, stream.Next(), "advancing at the end fails")
	stream.Free()
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, w.Live(KindStatement))
}

func TestParseAsStreamStopsOnError(t *testing.T) {
	w := openWorld(t, Config{})
	defer w.Free()
	p := NewParser(w, "ntriples", "", "")
	defer p.Free()

	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\nbroken\n"
	stream := p.ParseAsStream(strings.NewReader(input), "")
	require.NotNil(t, stream)
	require.False(t, stream.End())
	assert.False(t, stream.Next())
	assert.True(t, stream.End())
	stream.Free()

	var parseErr *codec.ParseError
	assert.ErrorAs(t, w.LastError(), &parseErr)
}

func TestParseIntoModelAndSerialize(t *testing.T) {
	w := openWorld(t, Config{})
	defer w.Free()
	storage := NewStorage(w, "hashes", "", "hash-type='memory'")
	model := NewModel(w, storage, "")
	storage.Free()
	defer model.Free()

	p := NewParser(w, "turtle", "", "")
	defer p.Free()
	require.True(t, p.ParseIntoModel(strings.NewReader(sampleTurtle), "", model))
	assert.Equal(t, 3, model.Size())

	s := NewSerializer(w, "ntriples", "", "")
	require.NotNil(t, s)
	defer s.Free()
	var buf bytes.Buffer
	require.True(t, s.SerializeModel(&buf, "", model))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, `<http://example.org/s> <http://example.org/p> <http://example.org/o> .`, lines[0])

	assert.False(t, p.ParseIntoModel(strings.NewReader("ex:s ex:p ex:o .\n"), "", model))
}

func TestParseQuadsIntoContexts(t *testing.T) {
	w := openWorld(t, Config{})
	defer w.Free()
	storage := NewStorage(w, "memory", "", "contexts='yes'")
	model := NewModel(w, storage, "")
	storage.Free()
	defer model.Free()

	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n"
	p := NewParser(w, "nquads", "", "")
	defer p.Free()
	require.True(t, p.ParseIntoModel(strings.NewReader(input), "", model))

	g := NewURINode(w, "http://example.org/g")
	defer g.Free()
	assert.True(t, model.ContainsContext(g))

	s := NewSerializer(w, "nquads", "", "")
	defer s.Free()
	stream := model.AsStream()
	var buf bytes.Buffer
	require.True(t, s.SerializeStream(&buf, "", stream))
	assert.True(t, stream.End())
	stream.Free()
	assert.Equal(t, input, buf.String())
}

func TestSerializerNamespaces(t *testing.T) {
	w := openWorld(t, Config{})
	defer w.Free()
	storage := NewStorage(w, "memory", "", "")
	model := NewModel(w, storage, "")
	storage.Free()
	defer model.Free()

	st := NewStatementFromNodes(w,
		NewURINode(w, "http://example.org/s"),
		NewURINode(w, codec.RDFType),
		NewURINode(w, "http://example.org/T"))
	require.True(t, model.AddStatement(st))
	st.Free()

	s := NewSerializer(w, "turtle", "", "")
	defer s.Free()
	ns := NewURI(w, "http://example.org/")
	assert.True(t, s.SetNamespace(ns, "ex"))
	ns.Free()
	assert.False(t, s.SetNamespace(nil, "none"))

	var buf bytes.Buffer
	require.True(t, s.SerializeModel(&buf, "", model))
	assert.Equal(t, "@prefix ex: <http://example.org/> .\n\nex:s a ex:T .\n", buf.String())
}

func TestParsedIRIsAreNormalized(t *testing.T) {
	const decomposed = "http://example.org/cafe\u0301"
	const composed = "http://example.org/caf\u00e9"
	input := "<" + decomposed + "> <http://example.org/p> \"x\"^^<" + decomposed + "> <" + decomposed + "> .\n" +
		"<" + decomposed + "> <http://example.org/p> \"y\" .\n"

	for _, bc := range backendCases {
		t.Run(bc.name, func(t *testing.T) {
			w := openWorld(t, Config{})
			defer w.Free()
			model := newTestModel(t, w, bc)
			defer model.Free()
			p := NewParser(w, "nquads", "", "")
			require.NotNil(t, p)
			defer p.Free()
			require.True(t, p.ParseIntoModel(strings.NewReader(input), "", model))
			require.Equal(t, 2, model.Size())

			g := NewURINode(w, decomposed)
			require.NotNil(t, g)
			defer g.Free()
			assert.True(t, model.ContainsContext(g))

			stream := model.AsStream()
			require.NotNil(t, stream)
			var found []*Statement
			for ; !stream.End(); stream.Next() {
				found = append(found, stream.Object().Clone())
			}
			stream.Free()
			require.Len(t, found, 2)

			for _, st := range found {
				assert.Equal(t, composed, st.Subject().URIString())
				assert.True(t, model.ContainsStatement(st), "a returned statement is a member")
				if st.Object().LiteralValue() == "x" {
					assert.Equal(t, composed, st.Object().Datatype())
					assert.True(t, model.ContextRemoveStatement(g, st))
				} else {
					assert.True(t, model.RemoveStatement(st))
				}
				st.Free()
			}
			assert.Equal(t, 0, model.Size())
		})
	}
}
