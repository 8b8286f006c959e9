package rdf

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/piprate/json-gold/ld"

	"github.com/twinfer/ricograph"
)

// Write serializes statements in the given format. Statements are expected
// in sorted order (Store.Statements returns them that way); prefixes maps
// prefix names to namespace IRIs.
func Write(w io.Writer, format Format, statements []ricograph.Statement, prefixes map[string]string) error {
	switch format {
	case FormatTurtle:
		return WriteTurtle(w, statements, prefixes)
	case FormatNQuads:
		return WriteNQuads(w, statements)
	case FormatJSONLD:
		return WriteJSONLD(w, statements, prefixes)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteTurtle writes statements as a Turtle document.
func WriteTurtle(w io.Writer, statements []ricograph.Statement, prefixes map[string]string) error {
	tw := NewTurtleWriter(prefixes)
	tw.WritePrefixes()
	tw.WriteStatements(statements)
	if _, err := io.WriteString(w, tw.String()); err != nil {
		return fmt.Errorf("failed to write Turtle: %w", err)
	}
	return nil
}

// WriteNQuads writes statements as N-Quads using json-gold's serializer.
func WriteNQuads(w io.Writer, statements []ricograph.Statement) error {
	serializer := &ld.NQuadRDFSerializer{}
	out, err := serializer.Serialize(ToDataset(statements))
	if err != nil {
		return fmt.Errorf("failed to serialize N-Quads: %w", err)
	}
	text, ok := out.(string)
	if !ok {
		return fmt.Errorf("unexpected N-Quads output type %T", out)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("failed to write N-Quads: %w", err)
	}
	return nil
}

// ToJSONLD converts statements to a compacted JSON-LD document whose
// @context declares the given prefixes.
func ToJSONLD(statements []ricograph.Statement, prefixes map[string]string) (map[string]any, error) {
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.UseNativeTypes = true

	expanded, err := proc.FromRDF(ToDataset(statements), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to convert RDF to JSON-LD: %w", err)
	}

	context := make(map[string]any, len(prefixes))
	for prefix, ns := range prefixes {
		if isPrefixName(prefix) {
			context[prefix] = ns
		}
	}
	compacted, err := proc.Compact(expanded, map[string]any{"@context": context}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compact JSON-LD: %w", err)
	}
	return compacted, nil
}

// WriteJSONLD writes statements as an indented, compacted JSON-LD document.
func WriteJSONLD(w io.Writer, statements []ricograph.Statement, prefixes map[string]string) error {
	doc, err := ToJSONLD(statements, prefixes)
	if err != nil {
		return err
	}
	if err := json.MarshalWrite(w, doc, json.Deterministic(true), jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("failed to encode JSON-LD: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write JSON-LD: %w", err)
	}
	return nil
}
