package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	corecfg "github.com/powergen-lab/powergen-etl/internal/core/config"
	"github.com/powergen-lab/powergen-etl/internal/core/storage/postgres"
	"github.com/powergen-lab/powergen-etl/internal/ingestion"
	"github.com/powergen-lab/powergen-etl/internal/logging"
	"github.com/powergen-lab/powergen-etl/internal/metrics"
	"github.com/powergen-lab/powergen-etl/internal/migrations"
	"github.com/powergen-lab/powergen-etl/internal/schema"
	"github.com/powergen-lab/powergen-etl/internal/validation"
)

// app is the state shared by every command once config is loaded.
type app struct {
	configPath string
	cfg        *corecfg.Config
	registry   *schema.Registry
	engine     *validation.Engine
	metrics    *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "powergen",
		Short: "Validate and load power generation records into PostgreSQL",
		Long: `powergen validates JSONL generation records from the npp, eia and entsoe
feeds, writes a validation report per batch and bulk-loads the valid records.

Examples:
  powergen setup                                   # Create tables
  powergen load-data npp npp_2024-03-01.jsonl      # Validate and load one file
  powergen load-data eia eia.jsonl.gz -s           # Refuse the batch on any bad record
  powergen validate entsoe entsoe.jsonl -r rep.json
  powergen stats                                   # Row counts per table
  powergen serve                                   # HTTP ingestion API`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to configuration file (YAML)")

	root.AddCommand(
		newSetupCmd(a),
		newLoadDataCmd(a),
		newValidateCmd(a),
		newLoadMetadataCmd(a),
		newStatsCmd(a),
		newServeCmd(a),
		newReportCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := corecfg.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(logging.Config{Format: cfg.Logging.Format, Level: cfg.Logging.Level})

	a.registry = schema.Default()
	if cfg.Schema.Dir != "" {
		reg, err := schema.LoadRegistry(os.DirFS(cfg.Schema.Dir), ".")
		if err != nil {
			return fmt.Errorf("failed to load schema definitions from %s: %w", cfg.Schema.Dir, err)
		}
		a.registry = reg
		slog.Info("Loaded schema definitions", "dir", cfg.Schema.Dir, "sources", reg.Sources())
	}
	a.engine = validation.NewEngine(a.registry)
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.Namespace)
	}
	return nil
}

// openStore connects to PostgreSQL with the configured pool and retry policy.
func (a *app) openStore(ctx context.Context) (*postgres.Adapter, error) {
	db := a.cfg.Database
	return postgres.NewAdapter(ctx, postgres.Options{
		DSN:          db.EffectiveDSN(),
		MaxOpenConns: db.MaxOpenConns,
		MaxIdleConns: db.MaxIdleConns,
		Retry: postgres.RetryPolicy{
			Attempts: db.Retry.Attempts,
			MinWait:  db.Retry.MinWait,
			MaxWait:  db.Retry.MaxWait,
		},
		OnRetry: a.metrics.IncDBRetry,
	})
}

// prepareSchema migrates when auto_migrate is on, otherwise checks that
// setup has been run.
func (a *app) prepareSchema(ctx context.Context, store *postgres.Adapter) error {
	if a.cfg.Database.AutoMigrate {
		if err := migrations.Run(store.DB(), true); err != nil {
			return err
		}
	}
	return store.ValidateSchema(ctx, a.tables())
}

// tables lists every table the commands read or write.
func (a *app) tables() []string {
	tables := a.recordTables()
	return append(tables, "extraction_metadata")
}

func (a *app) recordTables() []string {
	var tables []string
	for _, source := range a.registry.Sources() {
		s, err := a.registry.Get(source)
		if err != nil {
			continue
		}
		tables = append(tables, s.Table)
	}
	return tables
}

func (a *app) newService(store *postgres.Adapter) *ingestion.Service {
	opts := ingestion.Options{
		ReportDir:     a.cfg.Ingest.ReportDir,
		Strict:        a.cfg.Ingest.Strict,
		Workers:       a.cfg.Ingest.Workers,
		MaxBodySizeMB: a.cfg.Server.MaxBodySizeMB,
		MaxDecodedMB:  a.cfg.Server.MaxDecodedMB,
		Metrics:       a.metrics,
	}
	// Keep a nil adapter out of the interface so the service sees no store.
	if store == nil {
		return ingestion.NewService(a.registry, a.engine, nil, opts)
	}
	return ingestion.NewService(a.registry, a.engine, store, opts)
}

// parseSource rejects unknown sources before any file or database is touched.
func (a *app) parseSource(arg string) (schema.Source, error) {
	source := schema.Source(arg)
	if _, err := a.registry.Get(source); err != nil {
		return "", fmt.Errorf("%w (supported: %v)", err, a.registry.Sources())
	}
	return source, nil
}

func closeStore(store *postgres.Adapter) {
	if err := store.Close(); err != nil {
		slog.Warn("[Postgres] Failed to close pool", "error", err)
	}
}
