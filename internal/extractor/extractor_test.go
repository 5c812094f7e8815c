package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spendwise/internal/logging"
	"spendwise/internal/parsererror"
)

func TestForFile(t *testing.T) {
	logger := logging.NewMockLogger()
	tests := []struct {
		path     string
		expected interface{}
	}{
		{"july.pdf", &PDFExtractor{}},
		{"JULY.PDF", &PDFExtractor{}},
		{"august.csv", &CSVExtractor{}},
		{"sep.xlsx", &XLSXExtractor{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			e, err := ForFile(tt.path, logger)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, e)
		})
	}

	_, err := ForFile("notes.docx", logger)
	var formatErr *parsererror.InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestCSVExtractor_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "july.csv")
	content := "Date,Description,Amount\n" +
		"01-07-2023,\"CARD NO.123456********1234 STARBUCKS DUBAI:AE 1234 01-07-2023 45.00,AED\",45.00\n" +
		"02-07-2023,short\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	rows, err := NewCSVExtractor(logging.NewMockLogger()).Extract(context.Background(), path)
	require.NoError(t, err)

	collected := slices.Collect(rows)
	require.Len(t, collected, 2)
	desc, _ := collected[0].Get("Description")
	assert.Equal(t, "CARD NO.123456********1234 STARBUCKS DUBAI:AE 1234 01-07-2023 45.00,AED", desc)
	amount, ok := collected[1].Get("Amount")
	assert.True(t, ok)
	assert.Empty(t, amount)
}

func TestCSVExtractor_Latin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.csv")
	content := []byte("Date,Description,Amount\n01-07-2023,Caf\xe9 Nero,10.00\n")
	require.NoError(t, os.WriteFile(path, content, 0600))

	rows, err := NewCSVExtractor(logging.NewMockLogger()).Extract(context.Background(), path)
	require.NoError(t, err)

	collected := slices.Collect(rows)
	require.Len(t, collected, 1)
	desc, _ := collected[0].Get("Description")
	assert.Equal(t, "Café Nero", desc)
}

func TestCSVExtractor_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Description,Amount\n"), 0600))

	_, err := NewCSVExtractor(logging.NewMockLogger()).Extract(context.Background(), path)
	var noTables *parsererror.NoTablesFoundError
	assert.True(t, errors.As(err, &noTables))
}

func TestCSVExtractor_MissingFile(t *testing.T) {
	_, err := NewCSVExtractor(logging.NewMockLogger()).Extract(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestXLSXExtractor_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "august.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Date", "Description", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"01-08-2023", "first", "1.00"}))
	_, err := f.NewSheet("Sheet2")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet2", "A1", &[]interface{}{"Date", "Details", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet2", "A2", &[]interface{}{"02-08-2023", "second", "2.00"}))
	_, err = f.NewSheet("Empty")
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	logger := logging.NewMockLogger()
	rows, err := NewXLSXExtractor(logger).Extract(context.Background(), path)
	require.NoError(t, err)

	collected := slices.Collect(rows)
	require.Len(t, collected, 2)
	desc, _ := collected[1].Get("Description")
	assert.Equal(t, "second", desc)
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 1)
}
