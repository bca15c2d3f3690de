package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type ntDecoder struct {
	reader *bufio.Reader
	opts   DecodeOptions
	format Format
	line   int
	err    error
}

func newNTriplesDecoder(r io.Reader, opts DecodeOptions) Decoder {
	return &ntDecoder{reader: bufio.NewReader(r), opts: normalizeDecodeOptions(opts), format: FormatNTriples}
}

func newNQuadsDecoder(r io.Reader, opts DecodeOptions) Decoder {
	return &ntDecoder{reader: bufio.NewReader(r), opts: normalizeDecodeOptions(opts), format: FormatNQuads}
}

func (d *ntDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	for {
		line, err := readLineWithLimit(d.reader, d.opts.MaxLineBytes)
		if err != nil {
			if err != io.EOF {
				err = wrapParseError(string(d.format), "", d.line+1, 0, err)
			}
			d.err = err
			return Quad{}, err
		}
		d.line++
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quad, err := parseNTLine(line, d.format)
		if err != nil {
			d.err = wrapParseError(string(d.format), line, d.line, 0, err)
			return Quad{}, d.err
		}
		return quad, nil
	}
}

func (d *ntDecoder) Close() error {
	return nil
}

func parseNTLine(line string, format Format) (Quad, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseTerm(false)
	if err != nil {
		return Quad{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Quad{}, err
	}
	object, err := cursor.parseTerm(true)
	if err != nil {
		return Quad{}, err
	}

	var graph Term
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '.' {
		if format != FormatNQuads {
			return Quad{}, cursor.errorf("graph term not allowed in N-Triples")
		}
		graph, err = cursor.parseTerm(false)
		if err != nil {
			return Quad{}, err
		}
	}
	if !cursor.consume('.') {
		return Quad{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Quad{}, cursor.errorf("unexpected content after '.'")
	}
	return Quad{S: subject, P: predicate, O: object, G: graph}, nil
}

// ParseTerm parses a single term written in N-Triples syntax.
func ParseTerm(input string) (Term, error) {
	cursor := &ntCursor{input: input}
	term, err := cursor.parseTerm(true)
	if err != nil {
		return nil, err
	}
	cursor.skipWS()
	if cursor.pos != len(cursor.input) {
		return nil, cursor.errorf("unexpected trailing input")
	}
	return term, nil
}

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token")
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		if c.input[c.pos] == ' ' || c.input[c.pos] == '<' {
			return IRI{}, c.errorf("unterminated IRI")
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	value := c.input[start:c.pos]
	c.pos++
	if strings.Contains(value, `\u`) || strings.Contains(value, `\U`) {
		decoded, err := unescapeUChars(value)
		if err != nil {
			return IRI{}, c.errorf("%v", err)
		}
		value = decoded
	}
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A trailing '.' belongs to the statement, not the label.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.pos++ // opening quote
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch == '\\' {
			n, err := c.readEscape(&builder)
			if err != nil {
				return Literal{}, err
			}
			c.pos += n
			continue
		}
		builder.WriteByte(ch)
		c.pos++
	}
	if !closed {
		return Literal{}, c.errorf("unterminated string literal")
	}
	lexical := builder.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
			c.pos++
		}
		lang := c.input[start:c.pos]
		if !IsValidLangTag(lang) {
			return Literal{}, c.errorf("invalid language tag %q", lang)
		}
		return Literal{Lexical: lexical, Lang: lang}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

func (c *ntCursor) readEscape(builder *strings.Builder) (int, error) {
	n, err := decodeEscape(c.input, c.pos, builder)
	if err != nil {
		return 0, c.errorf("%v", err)
	}
	return n, nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return &ParseError{Format: "ntriples", Column: c.pos + 1, Err: fmt.Errorf(format, args...)}
}

func unescapeUChars(value string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		if value[i] != '\\' || i+1 >= len(value) || (value[i+1] != 'u' && value[i+1] != 'U') {
			b.WriteByte(value[i])
			continue
		}
		size := 4
		if value[i+1] == 'U' {
			size = 8
		}
		if i+2+size > len(value) {
			return "", fmt.Errorf("short unicode escape")
		}
		r := decodeUChar(value[i+2 : i+2+size])
		if r < 0 {
			return "", fmt.Errorf("invalid unicode escape")
		}
		b.WriteRune(r)
		i += 1 + size
	}
	return b.String(), nil
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', ',', ';', ')', ']':
		return true
	default:
		return false
	}
}

type ntEncoder struct {
	writer *bufio.Writer
	format Format
	err    error
}

func newNTriplesEncoder(w io.Writer) Encoder {
	return &ntEncoder{writer: bufio.NewWriter(w), format: FormatNTriples}
}

func newNQuadsEncoder(w io.Writer) Encoder {
	return &ntEncoder{writer: bufio.NewWriter(w), format: FormatNQuads}
}

func (e *ntEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return fmt.Errorf("%s: missing statement fields", e.format)
	}
	line := FormatTerm(q.S) + " " + FormatTerm(q.P) + " " + FormatTerm(q.O)
	if e.format == FormatNQuads && q.G != nil {
		line += " " + FormatTerm(q.G)
	}
	line += " .\n"
	_, err := e.writer.WriteString(line)
	if err != nil {
		e.err = err
	}
	return err
}

func (e *ntEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntEncoder) Close() error {
	if err := e.Flush(); err != nil {
		return err
	}
	e.err = ErrWriterClosed
	return nil
}

// FormatTerm renders a term in N-Triples syntax.
func FormatTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return "<" + value.Value + ">"
	case BlankNode:
		return value.String()
	case Literal:
		lexical := `"` + escapeString(value.Lexical) + `"`
		if value.Lang != "" {
			return lexical + "@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return lexical + "^^<" + value.Datatype.Value + ">"
		}
		return lexical
	default:
		return ""
	}
}
