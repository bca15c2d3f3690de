package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func decodeTurtle(t *testing.T, input string) []Quad {
	t.Helper()
	quads, err := DecodeAll(strings.NewReader(input), FormatTurtle, DecodeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return quads
}

func TestTurtleDirectiveAndPrefixedName(t *testing.T) {
	quads := decodeTurtle(t, "@prefix ex: <http://example.org/> .\nex:s ex:p \"v\" .\n")
	if len(quads) != 1 {
		t.Fatalf("expected 1 quad, got %d", len(quads))
	}
	if quads[0].P.Value != "http://example.org/p" {
		t.Fatalf("unexpected predicate: %s", quads[0].P.Value)
	}
}

func TestTurtleSPARQLDirectives(t *testing.T) {
	input := "PREFIX ex: <http://example.org/>\nBASE <http://example.org/base/>\n<rel> a ex:Thing .\n"
	quads := decodeTurtle(t, input)
	if len(quads) != 1 {
		t.Fatalf("expected 1 quad, got %d", len(quads))
	}
	if iri, ok := quads[0].S.(IRI); !ok || iri.Value != "http://example.org/base/rel" {
		t.Fatalf("unexpected base IRI resolution: %#v", quads[0].S)
	}
	if quads[0].P.Value != RDFType {
		t.Fatalf("expected rdf:type, got %s", quads[0].P.Value)
	}
}

func TestTurtleBaseIRI(t *testing.T) {
	quads := decodeTurtle(t, "@base <http://example.org/> .\n<rel> <http://example.org/p> <http://example.org/o> .\n")
	if iri, ok := quads[0].S.(IRI); !ok || iri.Value != "http://example.org/rel" {
		t.Fatalf("unexpected base IRI resolution: %#v", quads[0].S)
	}
}

func TestTurtlePredicateObjectLists(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
# subject with two predicates and a repeated object
ex:s ex:p ex:o1 , ex:o2 ;
     ex:q "x" ;
     .
`
	quads := decodeTurtle(t, input)
	if len(quads) != 3 {
		t.Fatalf("expected 3 quads, got %d", len(quads))
	}
	if quads[1].O.(IRI).Value != "http://example.org/o2" || quads[2].P.Value != "http://example.org/q" {
		t.Fatalf("unexpected quads: %#v", quads)
	}
}

func TestTurtleAnonymousBlankNodes(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s ex:p [ ex:q "inner" ] .
[ ex:r ex:o ] .
`
	quads := decodeTurtle(t, input)
	if len(quads) != 3 {
		t.Fatalf("expected 3 quads, got %d", len(quads))
	}
	inner := quads[0]
	outer := quads[1]
	if !SameTerm(inner.S, outer.O) {
		t.Fatalf("expected nested blank node to link: %#v %#v", inner, outer)
	}
	if _, ok := quads[2].S.(BlankNode); !ok {
		t.Fatalf("expected blank subject, got %#v", quads[2].S)
	}
	if SameTerm(quads[2].S, inner.S) {
		t.Fatal("anonymous nodes must be distinct")
	}
}

func TestTurtleLabelsDoNotCollideWithAnonymousNodes(t *testing.T) {
	quads := decodeTurtle(t, `@prefix ex: <http://example.org/> .
_:genid1 ex:p "x" .
[ ex:q "y" ] .
`)
	if len(quads) != 2 {
		t.Fatalf("expected 2 quads, got %d", len(quads))
	}
	if !SameTerm(quads[0].S, BlankNode{ID: "genid1"}) {
		t.Fatalf("expected label to be kept, got %#v", quads[0].S)
	}
	if SameTerm(quads[0].S, quads[1].S) {
		t.Fatalf("labelled and anonymous nodes merged: %#v", quads[1].S)
	}

	quads = decodeTurtle(t, `@prefix ex: <http://example.org/> .
[ ex:q "y" ] .
_:genid1 ex:p "x" .
_:genid1 ex:r "z" .
`)
	if len(quads) != 3 {
		t.Fatalf("expected 3 quads, got %d", len(quads))
	}
	if SameTerm(quads[0].S, quads[1].S) {
		t.Fatalf("labelled and anonymous nodes merged: %#v", quads[1].S)
	}
	if !SameTerm(quads[1].S, quads[2].S) {
		t.Fatalf("one label must decode to one node: %#v %#v", quads[1].S, quads[2].S)
	}
}

func TestTurtleNumericAndBooleanShorthand(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s ex:i 42 ; ex:d -1.5 ; ex:e 3.5e0 ; ex:b true .
`
	quads := decodeTurtle(t, input)
	want := []Literal{
		{Lexical: "42", Datatype: IRI{Value: XSDInteger}},
		{Lexical: "-1.5", Datatype: IRI{Value: XSDDecimal}},
		{Lexical: "3.5e0", Datatype: IRI{Value: XSDDouble}},
		{Lexical: "true", Datatype: IRI{Value: XSDBoolean}},
	}
	if len(quads) != len(want) {
		t.Fatalf("expected %d quads, got %d", len(want), len(quads))
	}
	for i, w := range want {
		if !SameTerm(quads[i].O, w) {
			t.Fatalf("quad %d: got %#v want %#v", i, quads[i].O, w)
		}
	}
}

func TestTurtleLongStringsAndTags(t *testing.T) {
	input := "@prefix ex: <http://example.org/> .\n" +
		"ex:s ex:p \"\"\"multi\nline \"quoted\" text\"\"\" ; ex:q 'single'@en-GB ; ex:r \"7\"^^ex:dt .\n"
	quads := decodeTurtle(t, input)
	if len(quads) != 3 {
		t.Fatalf("expected 3 quads, got %d", len(quads))
	}
	if lit := quads[0].O.(Literal); lit.Lexical != "multi\nline \"quoted\" text" {
		t.Fatalf("unexpected long string %q", lit.Lexical)
	}
	if lit := quads[1].O.(Literal); lit.Lang != "en-GB" || lit.Lexical != "single" {
		t.Fatalf("unexpected tagged literal %#v", lit)
	}
	if lit := quads[2].O.(Literal); lit.Datatype.Value != "http://example.org/dt" {
		t.Fatalf("unexpected datatype %#v", lit)
	}
}

func TestTurtleCollection(t *testing.T) {
	quads := decodeTurtle(t, "@prefix ex: <http://example.org/> .\nex:s ex:list ( ex:a ex:b ) .\n")
	if len(quads) != 5 {
		t.Fatalf("expected 5 quads, got %d", len(quads))
	}
	last := quads[len(quads)-1]
	if last.P.Value != "http://example.org/list" {
		t.Fatalf("expected list head statement last, got %#v", last)
	}
	var nilCount int
	for _, q := range quads {
		if iri, ok := q.O.(IRI); ok && iri.Value == RDFNil {
			nilCount++
		}
	}
	if nilCount != 1 {
		t.Fatalf("expected one rdf:nil terminator, got %d", nilCount)
	}
}

func TestTurtleUndefinedPrefix(t *testing.T) {
	input := "@prefix ex: <http://example.org/> .\nex:s ex:p ex:o .\nzz:s ex:p ex:o .\n"
	dec, _ := NewDecoder(strings.NewReader(input), FormatTurtle, DecodeOptions{})
	if _, err := dec.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := dec.Next()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Line != 3 {
		t.Fatalf("expected error on line 3, got %d", parseErr.Line)
	}
	if !strings.Contains(parseErr.Error(), "zz") {
		t.Fatalf("expected prefix in message: %v", parseErr)
	}
}

func TestTurtleInvalidPredicate(t *testing.T) {
	dec, _ := NewDecoder(strings.NewReader("_:b1 \"literal\" <http://example.org/o> .\n"), FormatTurtle, DecodeOptions{})
	if _, err := dec.Next(); err == nil {
		t.Fatal("expected predicate error")
	}
}

func TestTurtleEncodeGroupsSubjects(t *testing.T) {
	var buf bytes.Buffer
	s := IRI{Value: "http://example.org/s"}
	p := IRI{Value: "http://example.org/p"}
	quads := []Quad{
		{S: s, P: IRI{Value: RDFType}, O: IRI{Value: "http://example.org/T"}},
		{S: s, P: p, O: Literal{Lexical: "v"}},
		{S: s, P: p, O: Literal{Lexical: "w", Lang: "en"}},
		{S: BlankNode{ID: "b1"}, P: IRI{Value: "http://example.org/q"}, O: Literal{Lexical: "3.5", Datatype: IRI{Value: XSDDouble}}},
	}
	opts := EncodeOptions{Prefixes: map[string]string{"ex": "http://example.org/"}}
	if err := EncodeAll(&buf, FormatTurtle, opts, quads); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "@prefix ex: <http://example.org/> .\n\n" +
		"ex:s a ex:T ;\n" +
		"    ex:p \"v\" ,\n" +
		"        \"w\"@en .\n" +
		"_:b1 ex:q \"3.5\"^^<http://www.w3.org/2001/XMLSchema#double> .\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestAbbreviateQNamePrefersLongestNamespace(t *testing.T) {
	prefixes := map[string]string{
		"ex":  "http://example.org/",
		"exv": "http://example.org/vocab#",
	}
	got, ok := abbreviateQName("http://example.org/vocab#term", prefixes, true)
	if !ok || got != "exv:term" {
		t.Fatalf("unexpected abbreviation %q", got)
	}
	if _, ok := abbreviateQName("http://example.org/a/b", prefixes, true); ok {
		t.Fatal("expected no abbreviation for local name with slash")
	}
}
