// Package rdf converts graph statements to json-gold RDF datasets and
// serializes them as Turtle, N-Quads or JSON-LD.
package rdf

import (
	"github.com/piprate/json-gold/ld"

	"github.com/twinfer/ricograph"
)

// DefaultGraph is the dataset graph every statement is written to.
const DefaultGraph = "@default"

// ToDataset converts statements to an RDF dataset with a single default graph.
func ToDataset(statements []ricograph.Statement) *ld.RDFDataset {
	dataset := ld.NewRDFDataset()
	quads := make([]*ld.Quad, 0, len(statements))
	for _, st := range statements {
		quads = append(quads, ld.NewQuad(
			ld.NewIRI(st.Subject),
			ld.NewIRI(st.Predicate),
			termToNode(st.Object),
			DefaultGraph,
		))
	}
	dataset.Graphs[DefaultGraph] = quads
	return dataset
}

// termToNode converts an object term to an RDF node.
func termToNode(t ricograph.Term) ld.Node {
	if t.IsIRI() {
		return ld.NewIRI(t.Value)
	}
	return ld.NewLiteral(t.Value, t.Datatype, "")
}
