package extractor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/gocarina/gocsv"
	"golang.org/x/net/html/charset"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
)

// CSVExtractor reads a CSV statement as a single table.
type CSVExtractor struct {
	logger logging.Logger
}

// NewCSVExtractor creates a CSVExtractor.
func NewCSVExtractor(logger logging.Logger) *CSVExtractor {
	return &CSVExtractor{logger: logger}
}

// Extract implements Extractor. Non UTF-8 files are decoded from the detected charset.
func (e *CSVExtractor) Extract(ctx context.Context, path string) (iter.Seq[models.RawRow], error) {
	file, err := os.Open(path)
	if err != nil {
		return emptyRows, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, path))
		}
	}()

	table, err := ReadCSVTable(file)
	if err != nil {
		return emptyRows, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "CSV",
			Msg:            err.Error(),
		}
	}

	e.logger.Debug("Read CSV table",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(table.Rows)))

	var tables []Table
	if len(table.Rows) > 0 {
		tables = append(tables, table)
	}
	return rowsFromTables(path, tables, e.logger)
}

// ReadCSVTable reads a header and all records from r. Ragged records are kept as is.
func ReadCSVTable(r io.Reader) (Table, error) {
	decoded, err := charset.NewReader(r, "text/csv")
	if err != nil {
		return Table{}, fmt.Errorf("error detecting charset: %w", err)
	}

	reader := gocsv.LazyCSVReader(decoded)
	var table Table
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !errors.Is(err, csv.ErrFieldCount) {
			return Table{}, fmt.Errorf("error parsing CSV: %w", err)
		}
		if table.Header == nil {
			table.Header = cleanCells(record)
			continue
		}
		table.Rows = append(table.Rows, cleanCells(record))
	}
	return table, nil
}
