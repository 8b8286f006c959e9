// Package geocode resolves place labels to GeoNames features. Lookups are
// best effort: every failure is reported as a NotFound result, never as an
// error.
package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Place is a gazetteer feature. Coordinates are kept in their lexical form
// so they can be written as decimal literals unchanged.
type Place struct {
	GeonameID    int64
	Name         string
	Latitude     string
	Longitude    string
	FeatureClass string
	FeatureCode  string
}

// URI returns the GeoNames semantic web identifier of the feature.
func (p Place) URI() string {
	return fmt.Sprintf("http://sws.geonames.org/%d/", p.GeonameID)
}

// HasCoordinates reports whether both latitude and longitude are known.
func (p Place) HasCoordinates() bool {
	return p.Latitude != "" && p.Longitude != ""
}

// Result is the outcome of a lookup.
type Result struct {
	Found bool
	Place Place
}

// NotFound is the empty result.
func NotFound() Result { return Result{} }

// Found wraps a resolved place.
func Found(p Place) Result { return Result{Found: true, Place: p} }

// Provider resolves a place label. Implementations swallow their own errors.
type Provider interface {
	Lookup(ctx context.Context, label string) Result
}

// Source is one gazetteer backend: a name search and a detail fetch by id.
type Source interface {
	Search(ctx context.Context, label string) (int64, bool)
	Details(ctx context.Context, id int64) (Place, bool)
}

// Disabled is a Provider that never finds anything.
type Disabled struct{}

// Lookup implements Provider.
func (Disabled) Lookup(context.Context, string) Result { return NotFound() }

// Stats counts resolver activity.
type Stats struct {
	Lookups   uint64
	CacheHits uint64
	Found     uint64
}

// Resolver queries its sources in order, the first source that knows the
// label wins the search, and memoizes results per label in an LRU cache.
type Resolver struct {
	sources []Source
	cache   *lru.Cache[string, Result]
	logger  *slog.Logger

	lookups   atomic.Uint64
	cacheHits atomic.Uint64
	found     atomic.Uint64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// DefaultCacheSize is the number of labels memoized when no size is given.
const DefaultCacheSize = 1024

// NewResolver returns a resolver over sources, typically a local Gazetteer
// followed by a remote Client. cacheSize <= 0 selects DefaultCacheSize.
func NewResolver(cacheSize int, sources []Source, opts ...ResolverOption) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, Result](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode cache: %w", err)
	}
	r := &Resolver{
		sources: sources,
		cache:   cache,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Lookup implements Provider.
func (r *Resolver) Lookup(ctx context.Context, label string) Result {
	r.lookups.Add(1)
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return NotFound()
	}
	if res, ok := r.cache.Get(key); ok {
		r.cacheHits.Add(1)
		return res
	}

	res := r.resolve(ctx, strings.TrimSpace(label))
	// A cancelled lookup says nothing about the label.
	if ctx.Err() == nil {
		r.cache.Add(key, res)
	}
	if res.Found {
		r.found.Add(1)
	}
	return res
}

func (r *Resolver) resolve(ctx context.Context, label string) Result {
	var id int64
	for _, src := range r.sources {
		if found, ok := src.Search(ctx, label); ok {
			id = found
			break
		}
	}
	if id == 0 {
		r.logger.Debug("place not found", "label", label)
		return NotFound()
	}

	place := Place{GeonameID: id, Name: label}
	for _, src := range r.sources {
		details, ok := src.Details(ctx, id)
		if !ok {
			continue
		}
		details.GeonameID = id
		if details.Name == "" {
			details.Name = label
		}
		place = details
		if details.HasCoordinates() {
			break
		}
	}
	return Found(place)
}

// Stats returns a snapshot of the resolver counters.
func (r *Resolver) Stats() Stats {
	return Stats{
		Lookups:   r.lookups.Load(),
		CacheHits: r.cacheHits.Load(),
		Found:     r.found.Load(),
	}
}
