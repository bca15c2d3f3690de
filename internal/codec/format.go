package codec

import (
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatJSONLD   Format = "jsonld"
)

// FormatInfo describes how a format is named on the wire.
type FormatInfo struct {
	Format     Format
	Label      string
	Aliases    []string
	MIMETypes  []string
	URI        string
	Extensions []string
	// Quads reports whether the format can carry graph names.
	Quads bool
}

var formats = []FormatInfo{
	{
		Format:     FormatTurtle,
		Label:      "Turtle Terse RDF Triple Language",
		Aliases:    []string{"ttl"},
		MIMETypes:  []string{"text/turtle", "application/x-turtle"},
		URI:        "http://www.w3.org/ns/formats/Turtle",
		Extensions: []string{".ttl"},
	},
	{
		Format:     FormatNTriples,
		Label:      "N-Triples",
		Aliases:    []string{"nt", "n-triples"},
		MIMETypes:  []string{"application/n-triples", "text/plain"},
		URI:        "http://www.w3.org/ns/formats/N-Triples",
		Extensions: []string{".nt"},
	},
	{
		Format:     FormatNQuads,
		Label:      "N-Quads",
		Aliases:    []string{"nq", "n-quads"},
		MIMETypes:  []string{"application/n-quads"},
		URI:        "http://www.w3.org/ns/formats/N-Quads",
		Extensions: []string{".nq"},
		Quads:      true,
	},
	{
		Format:     FormatJSONLD,
		Label:      "JSON-LD",
		Aliases:    []string{"json-ld", "json"},
		MIMETypes:  []string{"application/ld+json"},
		URI:        "http://www.w3.org/ns/formats/JSON-LD",
		Extensions: []string{".jsonld", ".json"},
		Quads:      true,
	},
}

// Formats returns the registered formats.
func Formats() []FormatInfo {
	out := make([]FormatInfo, len(formats))
	copy(out, formats)
	return out
}

// Info returns the registration for a format.
func Info(f Format) (FormatInfo, bool) {
	for _, info := range formats {
		if info.Format == f {
			return info, true
		}
	}
	return FormatInfo{}, false
}

// ParseFormat normalizes a format name or alias.
func ParseFormat(value string) (Format, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, info := range formats {
		if string(info.Format) == value {
			return info.Format, true
		}
		for _, alias := range info.Aliases {
			if alias == value {
				return info.Format, true
			}
		}
	}
	return "", false
}

// FormatFromMIME resolves a content type, ignoring parameters.
func FormatFromMIME(contentType string) (Format, bool) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	for _, info := range formats {
		for _, mime := range info.MIMETypes {
			if mime == mediaType {
				return info.Format, true
			}
		}
	}
	return "", false
}

// FormatFromURI resolves a format-identifying URI.
func FormatFromURI(uri string) (Format, bool) {
	for _, info := range formats {
		if info.URI == uri {
			return info.Format, true
		}
	}
	return "", false
}

// FormatFromPath infers a format from a filename extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, info := range formats {
		for _, e := range info.Extensions {
			if e == ext {
				return info.Format, true
			}
		}
	}
	return "", false
}

// ResolveFormat selects a format by name, then MIME type, then format URI.
// The first non-empty selector decides; if all are empty, Turtle is used.
func ResolveFormat(name, mimeType, uri string) (Format, bool) {
	switch {
	case name != "":
		return ParseFormat(name)
	case mimeType != "":
		return FormatFromMIME(mimeType)
	case uri != "":
		return FormatFromURI(uri)
	default:
		return FormatTurtle, true
	}
}
