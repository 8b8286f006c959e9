// Package main provides the ricograph binary entry point.
// ricograph converts archival inventory spreadsheets into a RiC-O graph,
// driven by a mapping workbook.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twinfer/ricograph/internal/config"
	"github.com/twinfer/ricograph/rdf"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ricograph"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Archival spreadsheet to RiC-O converter",
		Long: `ricograph reads a mapping workbook and an instance workbook and writes
the Records in Contexts (RiC-O) graph they describe.

Workbooks are .xlsx files or directories of <sheet>.csv files. Places can be
enriched from a local GeoNames dump and the GeoNames web service.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(convertCmd(), versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// flags holds the convert command line; only flags the user set override
// the loaded configuration.
type flags struct {
	configPath string
	mapping    string
	instances  string
	out        string
	format     string
	store      string
	dsn        string
	noGeocode  bool
	logLevel   string
}

func convertCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the instance workbook into a RiC-O graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			_, err = convert(ctx, cfg, cmd.ErrOrStderr())
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	fs.StringVar(&f.mapping, "mapping", "", "Mapping workbook (.xlsx or CSV directory)")
	fs.StringVar(&f.instances, "instances", "", "Instance workbook (.xlsx or CSV directory)")
	fs.StringVarP(&f.out, "out", "o", "", `Output file, "-" for stdout`)
	fs.StringVar(&f.format, "format", "", "Output format (turtle, nquads, jsonld)")
	fs.StringVar(&f.store, "store", "", "Statement store (memory, sqlite, postgres)")
	fs.StringVar(&f.dsn, "dsn", "", "Store DSN: SQLite file path or PostgreSQL connection string")
	fs.BoolVar(&f.noGeocode, "no-geocode", false, "Disable place enrichment")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	return cmd
}

// apply copies the flags the user set onto cfg and validates the result.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("mapping") {
		cfg.Input.Mapping = f.mapping
	}
	if changed("instances") {
		cfg.Input.Instances = f.instances
	}
	if changed("out") {
		cfg.Output.Path = f.out
		if !changed("format") {
			if format, ok := rdf.FormatFromPath(f.out); ok {
				cfg.Output.Format = string(format)
			}
		}
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("store") {
		cfg.Store.Backend = f.store
	}
	if changed("dsn") {
		cfg.Store.DSN = f.dsn
	}
	if f.noGeocode {
		cfg.Geocoding.Enabled = false
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
