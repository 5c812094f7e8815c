// Package ingest runs the ingestion pipeline: extract the tables of a statement, parse card
// purchases, classify merchants and replace the collection in the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/extractor"
	"spendwise/internal/fileutils"
	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
	"spendwise/internal/txparser"
)

// SupportedExtensions are the document types the pipeline can read.
var SupportedExtensions = []string{".pdf", ".csv", ".xlsx", ".xlsm"}

// Saver persists a collection.
type Saver interface {
	TableFor(collection string) (string, error)
	Save(ctx context.Context, collection string, txs []models.Transaction) error
}

// Classifier fills the categories of parsed transactions.
type Classifier interface {
	Apply(ctx context.Context, txs []models.Transaction) int
}

// ExtractorFunc selects the extractor for a document.
type ExtractorFunc func(path string) (extractor.Extractor, error)

// Options tune the pipeline outputs.
type Options struct {
	// ExportCSV writes the classified table as CSV next to the document.
	ExportCSV bool
	// Delimiter is the CSV export field separator.
	Delimiter rune
	// UploadDir receives uploaded documents.
	UploadDir string
}

// Result describes one ingested document.
type Result struct {
	RunID       string
	Document    string
	Collection  string
	Table       string
	Stats       txparser.Stats
	Categorized int
	Saved       int
	CSVPath     string
	// Empty is set when the document held no table; the collection is left untouched.
	Empty    bool
	Duration time.Duration
}

// Pipeline ingests documents into collections.
type Pipeline struct {
	extractorFor ExtractorFunc
	parser       *txparser.Parser
	classifier   Classifier
	saver        Saver
	opts         Options
	logger       logging.Logger
}

// NewPipeline creates a Pipeline. A nil extractorFor selects extractors by file extension.
func NewPipeline(extractorFor ExtractorFunc, parser *txparser.Parser, classifier Classifier, saver Saver, opts Options, logger logging.Logger) *Pipeline {
	if extractorFor == nil {
		extractorFor = func(path string) (extractor.Extractor, error) {
			return extractor.ForFile(path, logger)
		}
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &Pipeline{
		extractorFor: extractorFor,
		parser:       parser,
		classifier:   classifier,
		saver:        saver,
		opts:         opts,
		logger:       logger,
	}
}

// Ingest replaces collection with the card purchases found in the document at path.
func (p *Pipeline) Ingest(ctx context.Context, path, collection string) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString(), Document: path, Collection: collection}
	log := p.logger.WithFields(
		logging.F(logging.FieldRunID, result.RunID),
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCollection, collection))

	table, err := p.saver.TableFor(collection)
	if err != nil {
		return nil, err
	}
	result.Table = table

	ext, err := p.extractorFor(path)
	if err != nil {
		return nil, err
	}

	log.Info("Ingesting document", logging.F(logging.FieldExtractor, fmt.Sprintf("%T", ext)))
	rows, err := ext.Extract(ctx, path)
	if err != nil {
		var noTables *parsererror.NoTablesFoundError
		if errors.As(err, &noTables) {
			log.Warn("No tables found in document, collection left unchanged")
			result.Empty = true
			result.Duration = time.Since(start)
			return result, nil
		}
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}

	txs, stats := p.parser.ParseRows(rows)
	result.Stats = stats

	if p.classifier != nil && len(txs) > 0 {
		result.Categorized = p.classifier.Apply(ctx, txs)
	}

	if p.opts.ExportCSV {
		csvPath := ExportPath(path)
		if err := WriteCSV(csvPath, txs, p.opts.Delimiter); err != nil {
			log.WithError(err).Warn("CSV export failed")
		} else {
			result.CSVPath = csvPath
			log.Debug("Exported CSV", logging.F(logging.FieldOutputFile, csvPath))
		}
	}

	if err := p.saver.Save(ctx, collection, txs); err != nil {
		return nil, fmt.Errorf("failed to save collection %s: %w", collection, err)
	}
	result.Saved = len(txs)
	result.Duration = time.Since(start)

	log.Info("Document ingested",
		logging.F(logging.FieldTable, table),
		logging.F(logging.FieldCount, result.Saved),
		logging.F("categorized", result.Categorized),
		logging.F(logging.FieldDuration, result.Duration.Milliseconds()))
	return result, nil
}

// Upload copies the document into the upload directory, named after the collection's
// table, and ingests the copy.
func (p *Pipeline) Upload(ctx context.Context, path, collection string) (*Result, error) {
	table, err := p.saver.TableFor(collection)
	if err != nil {
		return nil, err
	}
	dir := p.opts.UploadDir
	if dir == "" {
		dir = "upload_data"
	}
	target := filepath.Join(dir, table+strings.ToLower(filepath.Ext(path)))
	if err := fileutils.CopyFile(path, target); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", path, err)
	}
	p.logger.Info("Uploaded document",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldOutputFile, target))
	return p.Ingest(ctx, target, collection)
}

// Batch ingests every supported document in dir whose base name is the table of a
// configured collection. Documents matching no table are skipped. Failures of one document
// do not stop the others; they are joined into the returned error.
func (p *Pipeline) Batch(ctx context.Context, dir string, collections map[string]string) ([]*Result, error) {
	files, err := fileutils.ListFilesWithExtensions(dir, SupportedExtensions...)
	if err != nil {
		return nil, err
	}

	byTable := make(map[string]string, len(collections))
	for name, table := range collections {
		byTable[table] = name
	}

	var (
		results []*Result
		errs    []error
	)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		collection, ok := byTable[fileutils.BaseName(file)]
		if !ok {
			p.logger.Debug("Skipping document without a matching collection", logging.F(logging.FieldFile, file))
			continue
		}
		result, err := p.Ingest(ctx, file, collection)
		if err != nil {
			p.logger.WithError(err).Error("Failed to ingest document", logging.F(logging.FieldFile, file))
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(file), err))
			continue
		}
		results = append(results, result)
	}

	p.logger.Info("Batch ingestion finished",
		logging.F("documents", len(files)),
		logging.F("ingested", len(results)),
		logging.F("failed", len(errs)))
	return results, errors.Join(errs...)
}
