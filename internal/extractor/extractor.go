// Package extractor pulls raw tabular rows out of statement documents.
//
// Each supported document type (PDF, CSV, XLSX) is read into one or more tables whose first
// row is the header. Tables are then concatenated by position under the first table's
// header, producing a single ordered sequence of models.RawRow.
package extractor

import (
	"context"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
)

// Extractor reads the tabular rows of a document.
type Extractor interface {
	// Extract returns the rows of every table in document order. When the document holds
	// no table it returns an empty sequence and a *parsererror.NoTablesFoundError.
	Extract(ctx context.Context, path string) (iter.Seq[models.RawRow], error)
}

// Table is one detected table: a header row and its data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ForFile returns the extractor matching the document's extension.
func ForFile(path string, logger logging.Logger) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFExtractor(NewPDFToText(), logger), nil
	case ".csv":
		return NewCSVExtractor(logger), nil
	case ".xlsx", ".xlsm":
		return NewXLSXExtractor(logger), nil
	default:
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "pdf, csv or xlsx",
			Msg:            "unsupported document type",
		}
	}
}

func emptyRows(yield func(models.RawRow) bool) {}

// rowsFromTables concatenates tables by position under the first table's header.
// A table whose header differs is still appended; the mismatch is only logged.
func rowsFromTables(path string, tables []Table, logger logging.Logger) (iter.Seq[models.RawRow], error) {
	tables = slices.DeleteFunc(tables, func(t Table) bool { return len(t.Header) == 0 })
	if len(tables) == 0 {
		return emptyRows, &parsererror.NoTablesFoundError{FilePath: path}
	}

	columns := tables[0].Header
	return func(yield func(models.RawRow) bool) {
		for i, table := range tables {
			if i > 0 && !slices.Equal(table.Header, columns) {
				logger.Warn("Table header differs from the first table, concatenating by position",
					logging.F(logging.FieldFile, path),
					logging.F(logging.FieldTableIndex, i),
					logging.F("header", strings.Join(table.Header, "|")))
			}
			for _, values := range table.Rows {
				if !yield(models.RawRow{Columns: columns, Values: values}) {
					return
				}
			}
		}
	}, nil
}

func cleanCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
