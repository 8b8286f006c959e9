package rdf

import (
	"fmt"
	"io"
	"slices"

	"github.com/piprate/json-gold/ld"

	"github.com/twinfer/ricograph"
)

// fromDataset converts the default graph of dataset back to statements in
// sorted order.
func fromDataset(dataset *ld.RDFDataset) ([]ricograph.Statement, error) {
	quads := dataset.GetQuads(DefaultGraph)
	out := make([]ricograph.Statement, 0, len(quads))
	for _, quad := range quads {
		subject, err := nodeToTerm(quad.Subject)
		if err != nil || !subject.IsIRI() {
			return nil, fmt.Errorf("subject %v is not an IRI", quad.Subject)
		}
		predicate, err := nodeToTerm(quad.Predicate)
		if err != nil || !predicate.IsIRI() {
			return nil, fmt.Errorf("predicate %v is not an IRI", quad.Predicate)
		}
		object, err := nodeToTerm(quad.Object)
		if err != nil {
			return nil, err
		}
		out = append(out, ricograph.Statement{Subject: subject.Value, Predicate: predicate.Value, Object: object})
	}
	slices.SortFunc(out, ricograph.CompareStatements)
	return out, nil
}

func nodeToTerm(node ld.Node) (ricograph.Term, error) {
	switch n := node.(type) {
	case ld.IRI:
		return ricograph.IRI(n.Value), nil
	case *ld.IRI:
		return ricograph.IRI(n.Value), nil
	case ld.Literal:
		return ricograph.Literal(n.Value, n.Datatype), nil
	case *ld.Literal:
		return ricograph.Literal(n.Value, n.Datatype), nil
	default:
		return ricograph.Term{}, fmt.Errorf("unsupported object node %v", node)
	}
}

func readNQuads(r io.Reader) ([]ricograph.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dataset, err := (&ld.NQuadRDFSerializer{}).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse N-Quads: %w", err)
	}
	return fromDataset(dataset)
}

// jsonLDToStatements expands a JSON-LD document back to statements.
func jsonLDToStatements(doc any) ([]ricograph.Statement, error) {
	out, err := ld.NewJsonLdProcessor().ToRDF(doc, ld.NewJsonLdOptions(""))
	if err != nil {
		return nil, fmt.Errorf("failed to convert JSON-LD to RDF: %w", err)
	}
	dataset, ok := out.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("unexpected ToRDF output %T", out)
	}
	return fromDataset(dataset)
}
