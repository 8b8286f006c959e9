package mapping

import (
	"fmt"

	"github.com/twinfer/ricograph"
	"github.com/twinfer/ricograph/namespace"
)

// PropagationReport counts the work done by Propagate.
type PropagationReport struct {
	// Links is the number of intermediate sender links consumed.
	Links int
	// Propagated is the number of new hasSender statements.
	Propagated int
}

// Propagate gives every child of a container that has an intermediate
// sender a direct hasSender statement to that sender, then removes the
// intermediate links. Children are found through includes and
// directlyIncludes in both directions, one level deep.
func Propagate(store *ricograph.Store, reg *namespace.Registry) (PropagationReport, error) {
	var report PropagationReport
	intermediate := reg.Resolve(namespace.PrefixTemp).IRI(namespace.TempIntermediateSender)

	links, err := store.Collect(ricograph.Pattern{Predicate: intermediate, ObjectKind: ricograph.IRIKind})
	if err != nil {
		return report, fmt.Errorf("failed to list sender links: %w", err)
	}

	for _, link := range links {
		children, err := childrenOf(store, link.Subject)
		if err != nil {
			return report, err
		}
		for _, child := range children {
			if store.Add(ricograph.Statement{
				Subject:   child,
				Predicate: namespace.RiCOHasSender,
				Object:    link.Object,
			}) {
				report.Propagated++
			}
		}
	}

	for _, link := range links {
		if store.Remove(link) {
			report.Links++
		}
	}
	return report, nil
}

func childrenOf(store *ricograph.Store, parent string) ([]string, error) {
	var children []string
	for _, p := range []string{namespace.RiCOIncludes, namespace.RiCODirectlyIncludes} {
		sts, err := store.Collect(ricograph.Pattern{Subject: parent, Predicate: p, ObjectKind: ricograph.IRIKind})
		if err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", parent, err)
		}
		for _, st := range sts {
			children = append(children, st.Object.Value)
		}
	}
	for _, p := range []string{namespace.RiCOIsIncludedIn, namespace.RiCOIsDirectlyIncludedIn} {
		sts, err := store.Collect(ricograph.Pattern{Predicate: p, Object: ricograph.IRI(parent)})
		if err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", parent, err)
		}
		for _, st := range sts {
			children = append(children, st.Subject)
		}
	}
	return children, nil
}
