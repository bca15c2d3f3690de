package rdf

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/geoknoesis/rdfstore/internal/codec"
)

// FormatInfo describes how a syntax is named.
type FormatInfo = codec.FormatInfo

// Formats lists the supported syntaxes.
func Formats() []FormatInfo { return codec.Formats() }

// FormatFromPath infers a syntax name from a filename extension.
func FormatFromPath(path string) (string, bool) {
	f, ok := codec.FormatFromPath(path)
	return string(f), ok
}

// SerializeRDF writes model to w in the named format after registering ns
// with the serializer. An empty format selects Turtle.
func SerializeRDF(w io.Writer, world *World, model *Model, ns *Namespaces, format string) error {
	ser, err := NewSerializer(world, format, "", "")
	if err != nil {
		return err
	}
	defer ser.Close()
	if !ser.RegisterNamespaces(ns) || !ser.SerializeModel(w, nil, model) {
		return operationError(world, "serialize rdf")
	}
	return nil
}

// SerializeRDFToString renders model in the named format.
func SerializeRDFToString(world *World, model *Model, ns *Namespaces, format string) (string, error) {
	var b strings.Builder
	if err := SerializeRDF(&b, world, model, ns, format); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SerializeRDFToFile writes model to the file at path, replacing it.
func SerializeRDFToFile(path string, world *World, model *Model, ns *Namespaces, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("serialize rdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("serialize rdf: %w", cerr)
		}
	}()
	return SerializeRDF(f, world, model, ns, format)
}

// ParseRDF reads the file at path into model. An empty format is inferred
// from the file extension and falls back to Turtle. An empty base leaves
// relative IRIs unresolved.
func ParseRDF(path, base string, world *World, model *Model, format string) error {
	if format == "" {
		format, _ = FormatFromPath(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("parse rdf: %w", err)
	}
	defer f.Close()
	return parseInto(f, base, world, model, format)
}

// ParseRDFFromString reads s into model.
func ParseRDFFromString(s, base string, world *World, model *Model, format string) error {
	return parseInto(strings.NewReader(s), base, world, model, format)
}

func parseInto(r io.Reader, base string, world *World, model *Model, format string) error {
	parser, err := NewParser(world, format, "", "")
	if err != nil {
		return err
	}
	defer parser.Close()
	var baseURI *URI
	if base != "" {
		if baseURI, err = NewURI(world, base); err != nil {
			return err
		}
		defer baseURI.Close()
	}
	if !parser.ParseIntoModel(r, baseURI, model) {
		return operationError(world, "parse rdf")
	}
	return nil
}

// operationError wraps the failure recorded on the world, if any.
func operationError(w *World, op string) error {
	cause := w.LastError()
	w.ClearError()
	if cause == nil {
		return fmt.Errorf("%s: %w", op, ErrOperationFailed)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrOperationFailed, cause)
}
