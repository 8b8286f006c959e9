package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/twinfer/ricograph"
	"github.com/twinfer/ricograph/geocode"
	"github.com/twinfer/ricograph/internal/config"
	"github.com/twinfer/ricograph/internal/logging"
	"github.com/twinfer/ricograph/internal/metrics"
	"github.com/twinfer/ricograph/mapping"
	"github.com/twinfer/ricograph/namespace"
	"github.com/twinfer/ricograph/rdf"
	"github.com/twinfer/ricograph/source"
)

// convert runs one conversion described by cfg and writes the graph.
func convert(ctx context.Context, cfg *config.Config, logw io.Writer) (mapping.Report, error) {
	started := time.Now()
	logger := logging.WithFields(
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format, logw),
		"run_id", uuid.NewString(),
	)

	rules, err := source.Open(cfg.Input.Mapping)
	if err != nil {
		return mapping.Report{}, fmt.Errorf("open mapping workbook: %w", err)
	}
	data, err := source.Open(cfg.Input.Instances)
	if err != nil {
		return mapping.Report{}, fmt.Errorf("open instance workbook: %w", err)
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		return mapping.Report{}, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	geocoder, resolver, err := newGeocoder(cfg.Geocoding, logger)
	if err != nil {
		return mapping.Report{}, err
	}

	reg := namespace.NewRegistry(cfg.BaseNamespace)
	engine := mapping.NewEngine(store, reg,
		mapping.WithLogger(logger),
		mapping.WithGeocoder(geocoder),
		mapping.WithIgnoredSheets(cfg.IgnoreSheets...),
	)

	logger.Info("conversion started",
		"mapping", cfg.Input.Mapping,
		"instances", cfg.Input.Instances,
		"store", cfg.Store.Backend)

	report, err := engine.Run(ctx, rules, data)
	if err != nil {
		return report, fmt.Errorf("convert: %w", err)
	}

	if err := writeGraph(cfg.Output, store, reg); err != nil {
		return report, err
	}
	logger.Info("conversion finished",
		"output", cfg.Output.Path,
		"format", cfg.Output.Format,
		"report", report,
		"elapsed", time.Since(started))

	if cfg.Metrics.Textfile != "" {
		m := metrics.New()
		m.ObserveReport(report)
		if resolver != nil {
			m.ObserveGeocoder(resolver.Stats())
		}
		m.ObserveRun(time.Since(started), time.Now())
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return report, err
		}
	}
	return report, nil
}

// openStore opens the configured backend. Persistent backends are emptied
// so every run rebuilds the graph from the workbooks alone.
func openStore(cfg config.StoreConfig) (*ricograph.Store, error) {
	var (
		facts *ricograph.FactStoreDB
		err   error
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		facts, err = ricograph.NewFactStoreSQLite(cfg.DSN)
	case config.BackendPostgres:
		facts, err = ricograph.NewFactStorePostgreSQL(cfg.DSN)
	default:
		return ricograph.NewMemoryStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	if err := facts.Reset(); err != nil {
		facts.Close()
		return nil, fmt.Errorf("reset %s store: %w", cfg.Backend, err)
	}
	return ricograph.NewStore(facts), nil
}

// newGeocoder builds the place provider. The resolver is nil when
// enrichment is disabled or has no source.
func newGeocoder(cfg config.GeocodingConfig, logger *slog.Logger) (geocode.Provider, *geocode.Resolver, error) {
	if !cfg.Enabled {
		return geocode.Disabled{}, nil, nil
	}

	var sources []geocode.Source
	if cfg.Gazetteer != "" {
		g, err := geocode.OpenGazetteer(cfg.Gazetteer)
		if err != nil {
			return nil, nil, fmt.Errorf("load gazetteer: %w", err)
		}
		logger.Info("gazetteer loaded", "path", cfg.Gazetteer, "places", g.Len())
		sources = append(sources, g)
	}
	if cfg.Username != "" {
		sources = append(sources, geocode.NewClient(cfg.Username,
			geocode.WithEndpoint(cfg.Endpoint),
			geocode.WithTimeout(cfg.Timeout),
			geocode.WithClientLogger(logger),
		))
	}
	if len(sources) == 0 {
		logger.Warn("geocoding enabled without gazetteer or GeoNames username; places are not enriched")
		return geocode.Disabled{}, nil, nil
	}

	r, err := geocode.NewResolver(cfg.CacheSize, sources, geocode.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return r, r, nil
}

func writeGraph(cfg config.OutputConfig, store *ricograph.Store, reg *namespace.Registry) error {
	format, err := rdf.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	statements, err := store.Statements()
	if err != nil {
		return fmt.Errorf("read statements: %w", err)
	}

	if cfg.Path == "-" {
		return rdf.Write(os.Stdout, format, statements, reg.Prefixes())
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := rdf.Write(w, format, statements, reg.Prefixes()); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", format, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
