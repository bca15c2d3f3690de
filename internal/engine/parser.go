package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/geoknoesis/rdfstore/internal/codec"
)

// Parser reads statements in one syntax.
type Parser struct {
	resource
	format codec.Format
	opts   codec.DecodeOptions
}

// CheckParserName reports whether name selects a known syntax.
func CheckParserName(name string) bool {
	_, ok := codec.ParseFormat(name)
	return ok
}

// NewParser selects a syntax by name, MIME type or format URI, in that
// order. All empty selects Turtle. An unknown selector yields nil.
func NewParser(w *World, name, mimeType, typeURI string) *Parser {
	format, ok := codec.ResolveFormat(name, mimeType, typeURI)
	if !ok {
		if w.usable() {
			w.fail("new parser", fmt.Errorf("%w: %q", codec.ErrUnsupportedFormat, name+mimeType+typeURI))
		}
		return nil
	}
	p := &Parser{format: format, opts: codec.DefaultDecodeOptions()}
	if !p.init(w, KindParser) {
		return nil
	}
	return p
}

// Free releases the parser.
func (p *Parser) Free() { p.free() }

// Format returns the selected syntax.
func (p *Parser) Format() codec.Format { return p.format }

// SetLimits overrides the decoder line and statement limits.
func (p *Parser) SetLimits(maxLineBytes, maxStatementBytes int) {
	p.opts.MaxLineBytes = maxLineBytes
	p.opts.MaxStatementBytes = maxStatementBytes
}

func (p *Parser) decoder(r io.Reader, base string) (codec.Decoder, bool) {
	opts := p.opts
	opts.BaseIRI = base
	dec, err := codec.NewDecoder(r, p.format, opts)
	if err != nil {
		p.world.fail("parse", err)
		return nil, false
	}
	return dec, true
}

// ParseAsStream returns a stream that decodes lazily from r. A syntax error
// ends the stream early and is recorded on the world.
func (p *Parser) ParseAsStream(r io.Reader, base string) *Stream {
	dec, ok := p.decoder(r, base)
	if !ok {
		return nil
	}
	src := &decoderSource{world: p.world, dec: dec}
	src.advance()
	return NewStream(p.world, src)
}

// ParseIntoModel decodes r into model. Quads naming a graph go into that
// context when the model supports contexts, otherwise into the default graph.
func (p *Parser) ParseIntoModel(r io.Reader, base string, model *Model) bool {
	dec, ok := p.decoder(r, base)
	if !ok {
		return false
	}
	defer dec.Close()
	for {
		q, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return true
		}
		if err != nil {
			p.world.fail("parse", err)
			return false
		}
		if q.G != nil && !model.SupportsContexts() {
			q.G = nil
		}
		if err := model.store(q); err != nil {
			p.world.fail("parse", err)
			return false
		}
	}
}

// decoderSource pulls one quad ahead so End has no side effects.
type decoderSource struct {
	world   *World
	dec     codec.Decoder
	quad    codec.Quad
	done    bool
	current *Statement
	context *Node
}

func (d *decoderSource) advance() {
	q, err := d.dec.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			d.world.fail("parse", err)
		}
		d.done = true
		return
	}
	d.quad = q
}

func (d *decoderSource) End() bool { return d.done }

func (d *decoderSource) Next() bool {
	d.dropCurrent()
	d.advance()
	return !d.done
}

func (d *decoderSource) Get(method GetMethod) any {
	if d.done {
		return nil
	}
	switch method {
	case GetObject:
		if d.current == nil {
			d.current = NewStatementFromQuad(d.world, d.quad)
		}
		if d.current == nil {
			return nil
		}
		return d.current
	case GetContext:
		if d.quad.G == nil {
			return nil
		}
		if d.context == nil {
			d.context = NewNodeFromTerm(d.world, d.quad.G)
		}
		if d.context == nil {
			return nil
		}
		return d.context
	default:
		return nil
	}
}

func (d *decoderSource) Finished() {
	d.dropCurrent()
	d.done = true
	_ = d.dec.Close()
}

func (d *decoderSource) dropCurrent() {
	if d.current != nil {
		d.current.Free()
		d.current = nil
	}
	if d.context != nil {
		d.context.Free()
		d.context = nil
	}
}
