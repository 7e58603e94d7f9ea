// Package container provides dependency injection for the budget-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"os"

	"fjacquet/budget-csv/internal/categorizer"
	"fjacquet/budget-csv/internal/config"
	"fjacquet/budget-csv/internal/export"
	"fjacquet/budget-csv/internal/ingest"
	"fjacquet/budget-csv/internal/ledger"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/report"
	"fjacquet/budget-csv/internal/store"
	"fjacquet/budget-csv/internal/validation"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	backend    store.Backend
	categories *store.CategoryStore
	keywords   *categorizer.KeywordClassifier
	rules      *categorizer.RuleStore
	pipeline   *ingest.Pipeline
	ledger     *ledger.Ledger
	exporter   *export.Exporter
	reports    *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies, using a logger
// configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(context.Background(), cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger wires all dependencies around the given logger. Persisted
// rules and ledger state are loaded before it returns.
func NewContainerWithLogger(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}

	checkDataFilePermissions(cfg.Data.Path, logger)

	backend, err := store.NewBackend(cfg.Data.Backend, cfg.Data.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	c, err := wire(ctx, cfg, logger, backend)
	if err != nil {
		if closeErr := backend.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("Failed to close storage backend")
		}
		return nil, err
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldBackend, backend.Name()),
		logging.F(logging.FieldFile, cfg.Data.Path),
		logging.F(logging.FieldCount, len(c.ledger.Snapshot().Transactions)))
	return c, nil
}

func wire(ctx context.Context, cfg *config.Config, logger logging.Logger, backend store.Backend) (*Container, error) {
	categoryStore := store.NewCategoryStore(cfg.Categories.File, logger)
	groups, err := categoryStore.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load category dictionary: %w", err)
	}
	keywords := categorizer.NewKeywordClassifierFromGroups(groups)

	rules := categorizer.NewRuleStore(backend, keywords, logger)
	if err := rules.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}

	l := ledger.New(backend, logger)
	if err := l.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &Container{
		logger:     logger,
		config:     cfg,
		backend:    backend,
		categories: categoryStore,
		keywords:   keywords,
		rules:      rules,
		pipeline:   ingest.NewPipeline(logger, cfg.CSVDelimiter(), cfg.CSV.DefaultCurrency),
		ledger:     l,
		exporter:   export.NewExporter(logger, cfg.ExportDelimiter()),
		reports:    report.NewReportGenerator(logger),
	}, nil
}

func checkDataFilePermissions(path string, logger logging.Logger) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if err := validation.IsValidFilePermissions(info.Mode().Perm()); err != nil {
		logger.Warn("Data file is readable by other users",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldReason, err.Error()))
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetBackend returns the storage backend shared by the ledger and the rule store.
func (c *Container) GetBackend() store.Backend {
	return c.backend
}

// GetCategoryStore returns the keyword dictionary loader.
func (c *Container) GetCategoryStore() *store.CategoryStore {
	return c.categories
}

// GetKeywordClassifier returns the dictionary classifier used when no rule matches.
func (c *Container) GetKeywordClassifier() *categorizer.KeywordClassifier {
	return c.keywords
}

// GetRuleStore returns the user rule store. It is also the classifier used for imports.
func (c *Container) GetRuleStore() *categorizer.RuleStore {
	return c.rules
}

// GetPipeline returns the CSV ingestion pipeline.
func (c *Container) GetPipeline() *ingest.Pipeline {
	return c.pipeline
}

// GetLedger returns the transaction ledger.
func (c *Container) GetLedger() *ledger.Ledger {
	return c.ledger
}

// GetExporter returns the exporter configured with the export delimiter.
func (c *Container) GetExporter() *export.Exporter {
	return c.exporter
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// Close releases the storage backend.
func (c *Container) Close() error {
	if err := c.backend.Close(); err != nil {
		return fmt.Errorf("failed to close storage backend: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
