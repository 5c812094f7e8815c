// Package container provides dependency injection for the spendwise application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"spendwise/internal/categorizer"
	"spendwise/internal/config"
	"spendwise/internal/ingest"
	"spendwise/internal/llm"
	"spendwise/internal/logging"
	"spendwise/internal/query"
	"spendwise/internal/report"
	"spendwise/internal/store"
	"spendwise/internal/txparser"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation; dependencies are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.Store
	generator  llm.Generator
	closer     io.Closer
	classifier *categorizer.Classifier
	parser     *txparser.Parser
	pipeline   *ingest.Pipeline
	engine     *query.Engine
	reports    *report.ReportGenerator
}

type options struct {
	logger    logging.Logger
	generator llm.Generator
}

// Option customizes container construction.
type Option func(*options)

// WithLogger uses logger instead of building one from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithGenerator uses gen as the language model instead of the configured backend.
func WithGenerator(gen llm.Generator) Option {
	return func(o *options) { o.generator = gen }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	collections := cfg.Collections
	if len(collections) == 0 {
		collections = config.DefaultCollections()
	}

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, collections, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	gen, closer := o.generator, io.Closer(nil)
	if gen == nil && cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			logger.Warn("AI is enabled but no API key is configured, continuing without a language model")
		} else {
			gen, closer, err = llm.New(context.Background(), llm.Options{
				Provider:          cfg.AI.Provider,
				Model:             cfg.AI.Model,
				APIKey:            cfg.AI.APIKey,
				Temperature:       cfg.AI.Temperature,
				RequestsPerMinute: cfg.AI.RequestsPerMinute,
				Timeout:           time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
			}, logger)
			if err != nil {
				_ = st.Close()
				return nil, fmt.Errorf("failed to create AI client: %w", err)
			}
		}
	}
	if gen != nil {
		logger.Info("AI enabled", logging.F(logging.FieldProvider, cfg.AI.Provider), logging.F(logging.FieldModel, cfg.AI.Model))
	} else {
		logger.Info("AI disabled")
	}

	var mapping *categorizer.DirectMapping
	if cfg.Categorization.MerchantsFile != "" {
		mapping = categorizer.NewDirectMapping(categorizer.NewMerchantStore(cfg.Categorization.MerchantsFile, logger), logger)
	}
	classifier := categorizer.NewClassifier(gen, cfg.Categorization.Categories, mapping, cfg.Categorization.AutoLearn, logger)
	parser := txparser.NewParser(cfg.Parser.DescriptionColumn, cfg.Parser.Cities, logger)

	delimiter := ','
	if r := []rune(cfg.CSV.Delimiter); len(r) > 0 {
		delimiter = r[0]
	}
	pipeline := ingest.NewPipeline(nil, parser, classifier, st, ingest.Options{
		ExportCSV: cfg.CSV.Export,
		Delimiter: delimiter,
		UploadDir: cfg.Upload.Directory,
	}, logger)

	engine := query.NewEngine(gen, st, classifier.Categories(), logger)

	logger.Debug("Container initialized",
		logging.F("driver", cfg.Database.Driver),
		logging.F("collections", len(collections)))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      st,
		generator:  gen,
		closer:     closer,
		classifier: classifier,
		parser:     parser,
		pipeline:   pipeline,
		engine:     engine,
		reports:    report.NewReportGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the transaction store.
func (c *Container) GetStore() *store.Store {
	return c.store
}

// GetGenerator returns the language model, or nil when AI is disabled.
func (c *Container) GetGenerator() llm.Generator {
	return c.generator
}

// GetClassifier returns the merchant classifier.
func (c *Container) GetClassifier() *categorizer.Classifier {
	return c.classifier
}

// GetParser returns the transaction parser.
func (c *Container) GetParser() *txparser.Parser {
	return c.parser
}

// GetPipeline returns the ingestion pipeline.
func (c *Container) GetPipeline() *ingest.Pipeline {
	return c.pipeline
}

// GetQueryEngine returns the question answering engine.
func (c *Container) GetQueryEngine() *query.Engine {
	return c.engine
}

// GetReportGenerator returns the summary renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// Close releases the language model client and the database connection.
func (c *Container) Close() error {
	var errs []error
	if c.closer != nil {
		errs = append(errs, c.closer.Close())
	}
	errs = append(errs, c.store.Close())
	c.logger.Debug("Container closed")
	return errors.Join(errs...)
}
