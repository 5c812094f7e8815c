package extractor

import (
	"context"
	"fmt"
	"iter"

	"github.com/xuri/excelize/v2"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
)

// XLSXExtractor reads every non-empty worksheet of a workbook as a table.
type XLSXExtractor struct {
	logger logging.Logger
}

// NewXLSXExtractor creates an XLSXExtractor.
func NewXLSXExtractor(logger logging.Logger) *XLSXExtractor {
	return &XLSXExtractor{logger: logger}
}

// Extract implements Extractor.
func (e *XLSXExtractor) Extract(ctx context.Context, path string) (iter.Seq[models.RawRow], error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return emptyRows, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "XLSX",
			Msg:            fmt.Sprintf("failed to open workbook: %v", err),
		}
	}
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close workbook", logging.F(logging.FieldFile, path))
		}
	}()

	var tables []Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return emptyRows, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		table := Table{Header: cleanCells(rows[0])}
		for _, row := range rows[1:] {
			table.Rows = append(table.Rows, cleanCells(row))
		}
		tables = append(tables, table)
	}

	e.logger.Debug("Read workbook",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(tables)))
	return rowsFromTables(path, tables, e.logger)
}
