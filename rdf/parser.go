package rdf

import (
	"io"
	"strings"

	"github.com/geoknoesis/rdfstore/internal/engine"
)

// CheckParserName reports whether name selects a known input syntax.
func CheckParserName(name string) bool { return engine.CheckParserName(name) }

// Parser reads statements in one syntax.
type Parser struct {
	h handle[*engine.Parser]
}

// NewParser selects a syntax by name, MIME type or format URI, tried in
// that order. All three empty selects Turtle.
func NewParser(w *World, name, mimeType, typeURI string) (*Parser, error) {
	ep := engine.NewParser(w.engine(), name, mimeType, typeURI)
	if ep == nil {
		return nil, allocError(w.engine(), "new parser")
	}
	p := &Parser{}
	p.h.reset(ep)
	return p, nil
}

func (p *Parser) engineParser() *engine.Parser {
	if p == nil {
		return nil
	}
	return p.h.get()
}

// Move transfers ownership to a new Parser and leaves p empty.
func (p *Parser) Move() *Parser {
	m := &Parser{}
	m.h.take(&p.h)
	return m
}

// Close frees the parser.
func (p *Parser) Close() { p.h.close() }

// IsValid reports whether p holds a parser.
func (p *Parser) IsValid() bool { return p.engineParser() != nil }

// Format returns the selected syntax name.
func (p *Parser) Format() string {
	if ep := p.engineParser(); ep != nil {
		return string(ep.Format())
	}
	return ""
}

// SetLimits bounds the size of input lines and statements. Zero keeps the
// default and a negative value disables the limit.
func (p *Parser) SetLimits(maxLineBytes, maxStatementBytes int) {
	if ep := p.engineParser(); ep != nil {
		ep.SetLimits(maxLineBytes, maxStatementBytes)
	}
}

// ParseIOStreamAsStream returns a stream that parses in lazily. A syntax
// error ends the stream early and is recorded on the world.
func (p *Parser) ParseIOStreamAsStream(in *IOStream, base *URI) (*Stream, error) {
	ep := p.engineParser()
	if ep == nil || in == nil {
		return nil, allocError(nil, "parse as stream")
	}
	es := ep.ParseAsStream(in, base.String())
	if es == nil {
		return nil, allocError(ep.World(), "parse as stream")
	}
	return wrapStream(es), nil
}

// ParseAsStream is ParseIOStreamAsStream over r.
func (p *Parser) ParseAsStream(r io.Reader, base *URI) (*Stream, error) {
	return p.ParseIOStreamAsStream(NewIOStreamFromReader(r), base)
}

// ParseStringAsStream is ParseIOStreamAsStream over s.
func (p *Parser) ParseStringAsStream(s string, base *URI) (*Stream, error) {
	return p.ParseIOStreamAsStream(NewIOStreamFromReader(strings.NewReader(s)), base)
}

// ParseIOStreamIntoModel adds every statement read from in to model. It
// reports false on the first syntax or storage failure; statements read
// before the failure stay in the model.
func (p *Parser) ParseIOStreamIntoModel(in *IOStream, base *URI, model *Model) bool {
	ep := p.engineParser()
	em := model.engineModel()
	if ep == nil || em == nil || in == nil {
		return false
	}
	return ep.ParseIntoModel(in, base.String(), em)
}

// ParseIntoModel is ParseIOStreamIntoModel over r.
func (p *Parser) ParseIntoModel(r io.Reader, base *URI, model *Model) bool {
	return p.ParseIOStreamIntoModel(NewIOStreamFromReader(r), base, model)
}

// ParseStringIntoModel is ParseIOStreamIntoModel over s.
func (p *Parser) ParseStringIntoModel(s string, base *URI, model *Model) bool {
	return p.ParseIOStreamIntoModel(NewIOStreamFromReader(strings.NewReader(s)), base, model)
}
