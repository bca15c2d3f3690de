package codec

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

type turtleDecoder struct {
	reader   *bufio.Reader
	opts     DecodeOptions
	cursor   *turtleCursor
	pending  []Quad
	prefixes map[string]string
	baseIRI  string
	anon     int
	// labels maps blank node labels written in the document to the ids
	// they decode to; minted holds ids given to anonymous nodes.
	labels map[string]string
	minted map[string]bool
	err    error
}

func newTurtleDecoder(r io.Reader, opts DecodeOptions) Decoder {
	opts = normalizeDecodeOptions(opts)
	return &turtleDecoder{
		reader:   bufio.NewReader(r),
		opts:     opts,
		prefixes: map[string]string{},
		baseIRI:  opts.BaseIRI,
		labels:   map[string]string{},
		minted:   map[string]bool{},
	}
}

func (d *turtleDecoder) Next() (Quad, error) {
	if len(d.pending) > 0 {
		q := d.pending[0]
		d.pending = d.pending[1:]
		return q, nil
	}
	if d.err != nil {
		return Quad{}, d.err
	}
	if d.cursor == nil {
		if err := d.load(); err != nil {
			d.err = err
			return Quad{}, err
		}
	}
	c := d.cursor
	for len(d.pending) == 0 {
		c.skipWS()
		if c.eof() {
			d.err = io.EOF
			return Quad{}, io.EOF
		}
		start := c.pos
		if err := d.parseStatement(); err != nil {
			line, col := c.position(c.pos)
			d.err = wrapParseError("turtle", c.excerpt(start), line, col, err)
			d.pending = nil
			return Quad{}, d.err
		}
		if d.opts.MaxStatementBytes > 0 && c.pos-start > d.opts.MaxStatementBytes {
			line, _ := c.position(start)
			d.err = wrapParseError("turtle", c.excerpt(start), line, 0, ErrStatementTooLong)
			d.pending = nil
			return Quad{}, d.err
		}
	}
	q := d.pending[0]
	d.pending = d.pending[1:]
	return q, nil
}

func (d *turtleDecoder) Close() error {
	return nil
}

func (d *turtleDecoder) load() error {
	var b strings.Builder
	line := 0
	for {
		text, err := readLineWithLimit(d.reader, d.opts.MaxLineBytes)
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return wrapParseError("turtle", "", line, 0, err)
		}
		b.WriteString(text)
	}
	d.cursor = &turtleCursor{input: b.String()}
	return nil
}

func (d *turtleDecoder) emit(s Term, p IRI, o Term) {
	d.pending = append(d.pending, Quad{S: s, P: p, O: o})
}

// freshBlank mints an id for an anonymous node that no document label
// decodes to.
func (d *turtleDecoder) freshBlank() BlankNode {
	for {
		d.anon++
		id := fmt.Sprintf("genid%d", d.anon)
		if _, used := d.labels[id]; !used {
			d.minted[id] = true
			return BlankNode{ID: id}
		}
	}
}

// parseBlankNodeLabel keeps document labels as written unless an anonymous
// node already holds that id, in which case the label gets a fresh one.
func (d *turtleDecoder) parseBlankNodeLabel() (Term, error) {
	t, err := d.cursor.parseBlankNodeLabel()
	if err != nil {
		return nil, err
	}
	label := t.(BlankNode).ID
	if id, ok := d.labels[label]; ok {
		return BlankNode{ID: id}, nil
	}
	id := label
	if d.minted[id] {
		id = d.freshBlank().ID
	}
	d.labels[label] = id
	return BlankNode{ID: id}, nil
}

func (d *turtleDecoder) parseStatement() error {
	c := d.cursor
	switch {
	case c.hasPrefix("@prefix"):
		c.pos += len("@prefix")
		if err := d.parsePrefixDirective(); err != nil {
			return err
		}
		return c.expect('.')
	case c.hasPrefix("@base"):
		c.pos += len("@base")
		if err := d.parseBaseDirective(); err != nil {
			return err
		}
		return c.expect('.')
	case c.hasKeyword("PREFIX"):
		c.pos += len("PREFIX")
		return d.parsePrefixDirective()
	case c.hasKeyword("BASE"):
		c.pos += len("BASE")
		return d.parseBaseDirective()
	}

	if c.peek() == '[' {
		subject, err := d.parseBlankNodePropertyList()
		if err != nil {
			return err
		}
		c.skipWS()
		if c.peek() != '.' {
			if err := d.parsePredicateObjectList(subject); err != nil {
				return err
			}
		}
		return c.expect('.')
	}

	subject, err := d.parseSubject()
	if err != nil {
		return err
	}
	if err := d.parsePredicateObjectList(subject); err != nil {
		return err
	}
	return c.expect('.')
}

func (d *turtleDecoder) parsePrefixDirective() error {
	c := d.cursor
	c.skipWS()
	start := c.pos
	for !c.eof() && c.peek() != ':' {
		if !isNameChar(c.peek()) {
			return c.errorf("invalid prefix name")
		}
		c.pos++
	}
	if c.eof() {
		return c.errorf("expected ':' in prefix declaration")
	}
	prefix := c.input[start:c.pos]
	c.pos++
	c.skipWS()
	iri, err := d.parseIRIRef()
	if err != nil {
		return err
	}
	d.prefixes[prefix] = iri.Value
	return nil
}

func (d *turtleDecoder) parseBaseDirective() error {
	d.cursor.skipWS()
	iri, err := d.parseIRIRef()
	if err != nil {
		return err
	}
	d.baseIRI = iri.Value
	return nil
}

func (d *turtleDecoder) parsePredicateObjectList(subject Term) error {
	c := d.cursor
	for {
		c.skipWS()
		predicate, err := d.parseVerb()
		if err != nil {
			return err
		}
		if err := d.parseObjectList(subject, predicate); err != nil {
			return err
		}
		c.skipWS()
		if c.peek() != ';' {
			return nil
		}
		for c.peek() == ';' {
			c.pos++
			c.skipWS()
		}
		if c.eof() || c.peek() == '.' || c.peek() == ']' {
			return nil
		}
	}
}

func (d *turtleDecoder) parseObjectList(subject Term, predicate IRI) error {
	c := d.cursor
	for {
		object, err := d.parseObject()
		if err != nil {
			return err
		}
		d.emit(subject, predicate, object)
		c.skipWS()
		if c.peek() != ',' {
			return nil
		}
		c.pos++
	}
}

func (d *turtleDecoder) parseVerb() (IRI, error) {
	c := d.cursor
	if c.peek() == 'a' && (c.pos+1 >= len(c.input) || isTurtleDelimiter(c.input[c.pos+1])) {
		c.pos++
		return IRI{Value: RDFType}, nil
	}
	return d.parseIRI()
}

func (d *turtleDecoder) parseSubject() (Term, error) {
	c := d.cursor
	c.skipWS()
	switch {
	case c.peek() == '<':
		return d.parseIRIRef()
	case c.hasPrefix("_:"):
		return d.parseBlankNodeLabel()
	case c.peek() == '(':
		return d.parseCollection()
	default:
		return d.parsePrefixedName()
	}
}

func (d *turtleDecoder) parseObject() (Term, error) {
	c := d.cursor
	c.skipWS()
	if c.eof() {
		return nil, c.errorf("unexpected end of input")
	}
	ch := c.peek()
	switch {
	case ch == '<':
		return d.parseIRIRef()
	case c.hasPrefix("_:"):
		return d.parseBlankNodeLabel()
	case ch == '(':
		return d.parseCollection()
	case ch == '[':
		return d.parseBlankNodePropertyList()
	case ch == '"' || ch == '\'':
		return d.parseLiteral()
	case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
		return c.parseNumeric()
	case c.hasBareWord("true"):
		c.pos += 4
		return Literal{Lexical: "true", Datatype: IRI{Value: XSDBoolean}}, nil
	case c.hasBareWord("false"):
		c.pos += 5
		return Literal{Lexical: "false", Datatype: IRI{Value: XSDBoolean}}, nil
	default:
		return d.parsePrefixedName()
	}
}

func (d *turtleDecoder) parseIRI() (IRI, error) {
	if d.cursor.peek() == '<' {
		return d.parseIRIRef()
	}
	return d.parsePrefixedName()
}

func (d *turtleDecoder) parseIRIRef() (IRI, error) {
	c := d.cursor
	if c.peek() != '<' {
		return IRI{}, c.errorf("expected IRI")
	}
	c.pos++
	start := c.pos
	for !c.eof() && c.peek() != '>' {
		switch c.peek() {
		case ' ', '\t', '\n', '\r', '<', '"':
			return IRI{}, c.errorf("invalid character in IRI")
		}
		c.pos++
	}
	if c.eof() {
		return IRI{}, c.errorf("unterminated IRI")
	}
	value := c.input[start:c.pos]
	c.pos++
	if strings.ContainsRune(value, '\\') {
		decoded, err := unescapeUChars(value)
		if err != nil {
			return IRI{}, c.errorf("%v", err)
		}
		value = decoded
	}
	if d.baseIRI != "" {
		value = resolveIRI(d.baseIRI, value)
	}
	return IRI{Value: value}, nil
}

func (d *turtleDecoder) parsePrefixedName() (IRI, error) {
	c := d.cursor
	start := c.pos
	for !c.eof() && c.peek() != ':' {
		if !isNameChar(c.peek()) {
			return IRI{}, c.errorf("unexpected character %q", c.peek())
		}
		c.pos++
	}
	if c.eof() {
		return IRI{}, c.errorf("expected prefixed name")
	}
	prefix := c.input[start:c.pos]
	c.pos++
	var local strings.Builder
	for !c.eof() && !isTurtleDelimiter(c.peek()) {
		if c.peek() == '\\' && c.pos+1 < len(c.input) {
			local.WriteByte(c.input[c.pos+1])
			c.pos += 2
			continue
		}
		local.WriteByte(c.peek())
		c.pos++
	}
	name := local.String()
	for strings.HasSuffix(name, ".") {
		name = name[:len(name)-1]
		c.pos--
	}
	ns, ok := d.prefixes[prefix]
	if !ok {
		return IRI{}, c.errorf("undefined prefix %q", prefix)
	}
	return IRI{Value: ns + name}, nil
}

func (d *turtleDecoder) parseBlankNodePropertyList() (Term, error) {
	c := d.cursor
	if err := c.expect('['); err != nil {
		return nil, err
	}
	node := d.freshBlank()
	c.skipWS()
	if c.peek() == ']' {
		c.pos++
		return node, nil
	}
	if err := d.parsePredicateObjectList(node); err != nil {
		return nil, err
	}
	if err := c.expect(']'); err != nil {
		return nil, err
	}
	return node, nil
}

func (d *turtleDecoder) parseCollection() (Term, error) {
	c := d.cursor
	if err := c.expect('('); err != nil {
		return nil, err
	}
	c.skipWS()
	if c.peek() == ')' {
		c.pos++
		return IRI{Value: RDFNil}, nil
	}
	head := d.freshBlank()
	current := head
	for {
		item, err := d.parseObject()
		if err != nil {
			return nil, err
		}
		d.emit(current, IRI{Value: RDFFirst}, item)
		c.skipWS()
		if c.eof() {
			return nil, c.errorf("unterminated collection")
		}
		if c.peek() == ')' {
			c.pos++
			d.emit(current, IRI{Value: RDFRest}, IRI{Value: RDFNil})
			return head, nil
		}
		next := d.freshBlank()
		d.emit(current, IRI{Value: RDFRest}, next)
		current = next
	}
}

func (d *turtleDecoder) parseLiteral() (Term, error) {
	c := d.cursor
	quote := c.peek()
	long := c.hasPrefix(strings.Repeat(string(quote), 3))
	if long {
		c.pos += 3
	} else {
		c.pos++
	}
	var lexical strings.Builder
	for {
		if c.eof() {
			return nil, c.errorf("unterminated string literal")
		}
		ch := c.peek()
		if ch == '\\' {
			n, err := decodeEscape(c.input, c.pos, &lexical)
			if err != nil {
				return nil, c.errorf("%v", err)
			}
			c.pos += n
			continue
		}
		if long {
			if c.hasPrefix(strings.Repeat(string(quote), 3)) {
				c.pos += 3
				break
			}
		} else {
			if ch == quote {
				c.pos++
				break
			}
			if ch == '\n' || ch == '\r' {
				return nil, c.errorf("newline in short string literal")
			}
		}
		lexical.WriteByte(ch)
		c.pos++
	}

	switch {
	case c.peek() == '@':
		c.pos++
		start := c.pos
		for !c.eof() && (isNameChar(c.peek()) && c.peek() != '.' && c.peek() != '_') {
			c.pos++
		}
		lang := c.input[start:c.pos]
		if !IsValidLangTag(lang) {
			return nil, c.errorf("invalid language tag %q", lang)
		}
		return Literal{Lexical: lexical.String(), Lang: lang}, nil
	case c.hasPrefix("^^"):
		c.pos += 2
		datatype, err := d.parseIRI()
		if err != nil {
			return nil, err
		}
		return Literal{Lexical: lexical.String(), Datatype: datatype}, nil
	default:
		return Literal{Lexical: lexical.String()}, nil
	}
}

type turtleCursor struct {
	input string
	pos   int
}

func (c *turtleCursor) eof() bool {
	return c.pos >= len(c.input)
}

func (c *turtleCursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.input[c.pos]
}

func (c *turtleCursor) hasPrefix(s string) bool {
	return strings.HasPrefix(c.input[c.pos:], s)
}

// hasKeyword matches a SPARQL-style directive keyword case-insensitively.
func (c *turtleCursor) hasKeyword(word string) bool {
	end := c.pos + len(word)
	if end >= len(c.input) || !strings.EqualFold(c.input[c.pos:end], word) {
		return false
	}
	switch c.input[end] {
	case ' ', '\t', '\n', '\r', '<':
		return true
	}
	return false
}

func (c *turtleCursor) hasBareWord(word string) bool {
	if !c.hasPrefix(word) {
		return false
	}
	end := c.pos + len(word)
	return end == len(c.input) || isTurtleDelimiter(c.input[end]) || c.input[end] == '.'
}

func (c *turtleCursor) skipWS() {
	for !c.eof() {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		case '#':
			for !c.eof() && c.input[c.pos] != '\n' {
				c.pos++
			}
		default:
			return
		}
	}
}

func (c *turtleCursor) expect(ch byte) error {
	c.skipWS()
	if c.peek() != ch {
		if c.eof() {
			return c.errorf("expected %q, got end of input", ch)
		}
		return c.errorf("expected %q, got %q", ch, c.peek())
	}
	c.pos++
	return nil
}

func (c *turtleCursor) parseBlankNodeLabel() (Term, error) {
	c.pos += 2
	start := c.pos
	for !c.eof() && (isNameChar(c.peek()) || c.peek() >= 0x80) {
		c.pos++
	}
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if c.pos == start {
		return nil, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *turtleCursor) parseNumeric() (Term, error) {
	start := c.pos
	if c.peek() == '+' || c.peek() == '-' {
		c.pos++
	}
	digits := c.scanDigits()
	datatype := XSDInteger
	if c.peek() == '.' && c.pos+1 < len(c.input) && isDigit(c.input[c.pos+1]) {
		c.pos++
		c.scanDigits()
		datatype = XSDDecimal
	} else if digits == 0 && c.peek() != 'e' && c.peek() != 'E' {
		return nil, c.errorf("invalid numeric literal")
	}
	if c.peek() == 'e' || c.peek() == 'E' {
		c.pos++
		if c.peek() == '+' || c.peek() == '-' {
			c.pos++
		}
		if c.scanDigits() == 0 {
			return nil, c.errorf("invalid exponent")
		}
		datatype = XSDDouble
	}
	return Literal{Lexical: c.input[start:c.pos], Datatype: IRI{Value: datatype}}, nil
}

func (c *turtleCursor) scanDigits() int {
	start := c.pos
	for !c.eof() && isDigit(c.peek()) {
		c.pos++
	}
	return c.pos - start
}

// position converts a byte offset into a 1-based line and column.
func (c *turtleCursor) position(offset int) (int, int) {
	if offset > len(c.input) {
		offset = len(c.input)
	}
	line := 1 + strings.Count(c.input[:offset], "\n")
	col := offset - strings.LastIndex(c.input[:offset], "\n")
	return line, col
}

func (c *turtleCursor) excerpt(start int) string {
	end := strings.IndexByte(c.input[start:], '\n')
	if end < 0 {
		return strings.TrimSpace(c.input[start:])
	}
	return strings.TrimSpace(c.input[start : start+end])
}

func (c *turtleCursor) errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isTurtleDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', ',', ';', '(', ')', '[', ']', '<', '"', '\'', '#':
		return true
	default:
		return false
	}
}

type turtleEncoder struct {
	writer      *bufio.Writer
	opts        EncodeOptions
	started     bool
	open        bool
	lastSubject string
	lastPred    string
	err         error
}

func newTurtleEncoder(w io.Writer, opts EncodeOptions) Encoder {
	if opts.Indent == "" {
		opts.Indent = "    "
	}
	return &turtleEncoder{writer: bufio.NewWriter(w), opts: opts}
}

func (e *turtleEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return fmt.Errorf("turtle: missing statement fields")
	}
	if !e.started {
		if err := e.writeHeader(); err != nil {
			return err
		}
	}
	subject := e.renderTerm(q.S)
	predicate := e.renderIRI(q.P)
	object := e.renderTerm(q.O)

	var out string
	switch {
	case e.open && subject == e.lastSubject && predicate == e.lastPred:
		out = " ,\n" + e.opts.Indent + e.opts.Indent + object
	case e.open && subject == e.lastSubject:
		out = " ;\n" + e.opts.Indent + predicate + " " + object
	default:
		if e.open {
			out = " .\n"
		}
		out += subject + " " + predicate + " " + object
	}
	e.open = true
	e.lastSubject = subject
	e.lastPred = predicate
	return e.write(out)
}

func (e *turtleEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if e.open {
		e.open = false
		if err := e.write(" .\n"); err != nil {
			return err
		}
	}
	if err := e.writer.Flush(); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *turtleEncoder) Close() error {
	if err := e.Flush(); err != nil {
		return err
	}
	e.err = ErrWriterClosed
	return nil
}

func (e *turtleEncoder) write(s string) error {
	if _, err := e.writer.WriteString(s); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *turtleEncoder) writeHeader() error {
	e.started = true
	if e.opts.BaseIRI != "" {
		if err := e.write("@base <" + e.opts.BaseIRI + "> .\n"); err != nil {
			return err
		}
	}
	if len(e.opts.Prefixes) == 0 {
		return nil
	}
	for _, prefix := range sortedPrefixKeys(e.opts.Prefixes) {
		if err := e.write("@prefix " + prefix + ": <" + e.opts.Prefixes[prefix] + "> .\n"); err != nil {
			return err
		}
	}
	return e.write("\n")
}

func (e *turtleEncoder) renderIRI(iri IRI) string {
	if iri.Value == RDFType {
		return "a"
	}
	return e.renderIRIValue(iri)
}

func (e *turtleEncoder) renderIRIValue(iri IRI) string {
	if qname, ok := abbreviateQName(iri.Value, e.opts.Prefixes, true); ok {
		return qname
	}
	return "<" + iri.Value + ">"
}

func (e *turtleEncoder) renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return e.renderIRIValue(value)
	case BlankNode:
		return value.String()
	case Literal:
		lexical := `"` + escapeString(value.Lexical) + `"`
		if value.Lang != "" {
			return lexical + "@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return lexical + "^^" + e.renderIRIValue(value.Datatype)
		}
		return lexical
	default:
		return ""
	}
}

func sortedPrefixKeys(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// abbreviateQName picks the longest registered namespace that leaves a valid local name.
func abbreviateQName(iri string, prefixes map[string]string, allowEmptyPrefix bool) (string, bool) {
	bestNS := ""
	bestPrefix := ""
	found := false
	for prefix, ns := range prefixes {
		if (prefix == "" && !allowEmptyPrefix) || ns == "" {
			continue
		}
		if !strings.HasPrefix(iri, ns) {
			continue
		}
		if !isQNameLocal(iri[len(ns):]) {
			continue
		}
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS = ns
			bestPrefix = prefix
			found = true
		}
	}
	if !found {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestNS):], true
}
