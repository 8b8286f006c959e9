package rdf

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for a serialization format name that is not
// supported.
var ErrUnknownFormat = errors.New("unknown RDF format")

// Format names a graph serialization.
type Format string

const (
	FormatTurtle Format = "turtle"
	FormatNQuads Format = "nquads"
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about a serialization format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNQuads: {
		Name:        FormatNQuads,
		MIMEType:    "application/n-quads",
		Extension:   ".nq",
		Description: "N-Quads - Line-based RDF dataset format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

var formatAliases = map[string]Format{
	"turtle":  FormatTurtle,
	"ttl":     FormatTurtle,
	"nquads":  FormatNQuads,
	"n-quads": FormatNQuads,
	"nq":      FormatNQuads,
	"nt":      FormatNQuads,
	"jsonld":  FormatJSONLD,
	"json-ld": FormatJSONLD,
}

// ParseFormat resolves a format name or common alias.
func ParseFormat(name string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, info := range FormatRegistry {
		if info.Extension == ext {
			return info.Name, true
		}
	}
	if ext == ".nt" {
		return FormatNQuads, true
	}
	return "", false
}
