package geocode

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column positions in the GeoNames dump format (cities15000.txt and
// friends): tab separated, no header.
const (
	colGeonameID    = 0
	colName         = 1
	colASCIIName    = 2
	colLatitude     = 4
	colLongitude    = 5
	colFeatureClass = 6
	colFeatureCode  = 7
	colPopulation   = 14
	minColumns      = colFeatureCode + 1
)

type gazetteerEntry struct {
	place      Place
	population int64
}

// Gazetteer is an in-memory index of a GeoNames dump, searched by exact
// case-insensitive name. When several features share a name the most
// populous wins.
type Gazetteer struct {
	byName map[string]int64
	byID   map[int64]gazetteerEntry
}

var _ Source = (*Gazetteer)(nil)

// OpenGazetteer loads a GeoNames dump file.
func OpenGazetteer(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gazetteer: %w", err)
	}
	defer f.Close()
	return LoadGazetteer(f)
}

// LoadGazetteer reads a GeoNames dump. Malformed lines are skipped.
func LoadGazetteer(r io.Reader) (*Gazetteer, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	g := &Gazetteer{
		byName: make(map[string]int64),
		byID:   make(map[int64]gazetteerEntry),
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("failed to read gazetteer: %w", err)
		}
		if len(rec) < minColumns {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rec[colGeonameID]), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		entry := gazetteerEntry{place: Place{
			GeonameID:    id,
			Name:         rec[colName],
			Latitude:     strings.TrimSpace(rec[colLatitude]),
			Longitude:    strings.TrimSpace(rec[colLongitude]),
			FeatureClass: strings.TrimSpace(rec[colFeatureClass]),
			FeatureCode:  strings.TrimSpace(rec[colFeatureCode]),
		}}
		if len(rec) > colPopulation {
			entry.population, _ = strconv.ParseInt(strings.TrimSpace(rec[colPopulation]), 10, 64)
		}
		g.byID[id] = entry
		g.index(rec[colName], entry)
		g.index(rec[colASCIIName], entry)
	}
	return g, nil
}

func (g *Gazetteer) index(name string, e gazetteerEntry) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return
	}
	if prev, ok := g.byName[key]; ok && g.byID[prev].population >= e.population {
		return
	}
	g.byName[key] = e.place.GeonameID
}

// Len returns the number of features loaded.
func (g *Gazetteer) Len() int { return len(g.byID) }

// Search implements Source.
func (g *Gazetteer) Search(_ context.Context, label string) (int64, bool) {
	id, ok := g.byName[strings.ToLower(strings.TrimSpace(label))]
	return id, ok
}

// Details implements Source.
func (g *Gazetteer) Details(_ context.Context, id int64) (Place, bool) {
	e, ok := g.byID[id]
	return e.place, ok
}
