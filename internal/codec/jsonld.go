package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

type jsonldDecoder struct {
	reader io.Reader
	opts   DecodeOptions
	inner  Decoder
	err    error
}

func newJSONLDDecoder(r io.Reader, opts DecodeOptions) Decoder {
	return &jsonldDecoder{reader: r, opts: normalizeDecodeOptions(opts)}
}

func (d *jsonldDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	if d.inner == nil {
		if err := d.load(); err != nil {
			d.err = &ParseError{Format: string(FormatJSONLD), Err: err}
			return Quad{}, d.err
		}
	}
	q, err := d.inner.Next()
	if err != nil {
		d.err = err
	}
	return q, err
}

func (d *jsonldDecoder) Close() error {
	return nil
}

// load expands the whole document through json-gold and re-reads the
// resulting dataset as N-Quads.
func (d *jsonldDecoder) load() error {
	reader := d.reader
	if d.opts.MaxStatementBytes > 0 {
		reader = io.LimitReader(d.reader, int64(d.opts.MaxStatementBytes)+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if d.opts.MaxStatementBytes > 0 && len(raw) > d.opts.MaxStatementBytes {
		return ErrStatementTooLong
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, ld.NewJsonLdOptions(d.opts.BaseIRI))
	if err != nil {
		return err
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return fmt.Errorf("unexpected ToRDF result %T", result)
	}
	serialized, err := (&ld.NQuadRDFSerializer{}).Serialize(dataset)
	if err != nil {
		return err
	}
	nquads, ok := serialized.(string)
	if !ok {
		return fmt.Errorf("unexpected N-Quads result %T", serialized)
	}
	d.inner = newNQuadsDecoder(strings.NewReader(nquads), DecodeOptions{MaxLineBytes: -1})
	return nil
}

// jsonldEncoder buffers every quad and writes a single document on Close.
type jsonldEncoder struct {
	writer io.Writer
	opts   EncodeOptions
	quads  []Quad
	closed bool
}

func newJSONLDEncoder(w io.Writer, opts EncodeOptions) Encoder {
	return &jsonldEncoder{writer: w, opts: opts}
}

func (e *jsonldEncoder) Write(q Quad) error {
	if e.closed {
		return ErrWriterClosed
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return fmt.Errorf("jsonld: missing statement fields")
	}
	e.quads = append(e.quads, q)
	return nil
}

func (e *jsonldEncoder) Flush() error {
	if e.closed {
		return ErrWriterClosed
	}
	return nil
}

func (e *jsonldEncoder) Close() error {
	if e.closed {
		return ErrWriterClosed
	}
	e.closed = true

	var buf bytes.Buffer
	if err := EncodeAll(&buf, FormatNQuads, EncodeOptions{}, e.quads); err != nil {
		return err
	}
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions(e.opts.BaseIRI)
	opts.Format = "application/n-quads"
	doc, err := proc.FromRDF(buf.String(), opts)
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	if len(e.opts.Prefixes) > 0 {
		context := map[string]interface{}{}
		for prefix, ns := range e.opts.Prefixes {
			if prefix != "" {
				context[prefix] = ns
			}
		}
		compacted, err := proc.Compact(doc, map[string]interface{}{"@context": context}, ld.NewJsonLdOptions(e.opts.BaseIRI))
		if err != nil {
			return fmt.Errorf("jsonld: %w", err)
		}
		doc = compacted
	}
	indent := e.opts.Indent
	if indent == "" {
		indent = "  "
	}
	out, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	out = append(out, '\n')
	_, err = e.writer.Write(out)
	return err
}
