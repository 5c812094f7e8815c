package ingest

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"spendwise/internal/fileutils"
	"spendwise/internal/models"
)

// ExportPath is where the CSV export of a document goes: the document path with a .csv
// extension, or <name>_parsed.csv when the document is itself a CSV.
func ExportPath(document string) string {
	ext := filepath.Ext(document)
	base := strings.TrimSuffix(document, ext)
	if strings.EqualFold(ext, ".csv") {
		return base + "_parsed.csv"
	}
	return base + ".csv"
}

// WriteCSV writes transactions as CSV with the given delimiter.
func WriteCSV(path string, txs []models.Transaction, delimiter rune) (err error) {
	records := make([]models.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		records = append(records, tx.ToRecord())
	}

	file, err := fileutils.CreateFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing CSV file: %w", cerr)
		}
	}()

	w := csv.NewWriter(file)
	w.Comma = delimiter
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(w)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}
