// Package namespace holds the prefix registry used to mint and resolve
// identifiers, the safe-label derivation applied to every minted local
// name, and the vocabulary constants of the generated graph.
package namespace

import (
	"strings"
)

// DefaultBase is the root every domain namespace is minted under.
const DefaultBase = "http://www.w3.org/ns/DigitalAlbini#"

// Namespace is an IRI prefix.
type Namespace string

// IRI returns the namespace IRI followed by local.
func (n Namespace) IRI(local string) string {
	return string(n) + local
}

// Contains reports whether iri lies inside the namespace.
func (n Namespace) Contains(iri string) bool {
	return n != "" && strings.HasPrefix(iri, string(n))
}

// Registry maps short prefixes to namespaces. It only grows, and the first
// binding of a prefix wins. A Registry is not safe for concurrent use.
type Registry struct {
	base     Namespace
	prefixes map[string]Namespace
}

// NewRegistry returns a registry rooted at base with the standard
// vocabularies and the domain namespaces already bound.
func NewRegistry(base string) *Registry {
	if base == "" {
		base = DefaultBase
	}
	r := &Registry{
		base:     Namespace(base),
		prefixes: make(map[string]Namespace),
	}
	for _, v := range standardVocabularies {
		r.Bind(v.prefix, Namespace(v.iri))
	}
	for _, p := range domainPrefixes {
		r.Bind(p.prefix, r.base+Namespace(p.path+"/"))
	}
	// identifier is an alias of internalIdentifier.
	r.Bind(PrefixIdentifier, r.prefixes[PrefixInternalIdentifier])
	return r
}

// Base returns the root namespace.
func (r *Registry) Base() Namespace {
	return r.base
}

// Resolve returns the namespace bound to prefix, creating base+prefix+"/"
// when the prefix is unknown.
func (r *Registry) Resolve(prefix string) Namespace {
	if ns, ok := r.Lookup(prefix); ok {
		return ns
	}
	ns := r.base + Namespace(prefix+"/")
	r.prefixes[prefix] = ns
	return ns
}

// Lookup returns the namespace bound to prefix without creating one.
func (r *Registry) Lookup(prefix string) (Namespace, bool) {
	ns, ok := r.prefixes[prefix]
	return ns, ok
}

// Bind registers ns under prefix unless the prefix is already bound. It
// reports whether the binding was added.
func (r *Registry) Bind(prefix string, ns Namespace) bool {
	if _, ok := r.prefixes[prefix]; ok {
		return false
	}
	r.prefixes[prefix] = ns
	return true
}

// ResolveTerm turns "prefix:local" into an IRI, creating the prefix when it
// is unknown. Terms that are not prefixed are returned unchanged with ok
// false.
func (r *Registry) ResolveTerm(term string) (iri string, ok bool) {
	prefix, local, ok := SplitPrefixed(term)
	if !ok {
		return term, false
	}
	return r.Resolve(prefix).IRI(local), true
}

// Expand turns "prefix:local" into an IRI when the prefix is already bound.
func (r *Registry) Expand(term string) (string, bool) {
	prefix, local, ok := SplitPrefixed(term)
	if !ok {
		return "", false
	}
	ns, ok := r.Lookup(prefix)
	if !ok {
		return "", false
	}
	return ns.IRI(local), true
}

// Prefixes returns a copy of the prefix table.
func (r *Registry) Prefixes() map[string]string {
	out := make(map[string]string, len(r.prefixes))
	for k, v := range r.prefixes {
		out[k] = string(v)
	}
	return out
}

// Len returns the number of bound prefixes.
func (r *Registry) Len() int {
	return len(r.prefixes)
}

// IsPrefixed reports whether term has the "prefix:local" shape. Anything
// starting with "http" is an absolute IRI, not a prefixed name.
func IsPrefixed(term string) bool {
	return strings.Contains(term, ":") && !strings.HasPrefix(term, "http")
}

// SplitPrefixed splits "prefix:local" at the first colon.
func SplitPrefixed(term string) (prefix, local string, ok bool) {
	if !IsPrefixed(term) {
		return "", "", false
	}
	prefix, local, _ = strings.Cut(term, ":")
	return prefix, local, true
}
