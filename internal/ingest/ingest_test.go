package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/categorizer"
	"spendwise/internal/llm"
	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/query"
	"spendwise/internal/store"
	"spendwise/internal/txparser"
)

const statementCSV = `Date,Description,Debit,Credit
05-07-2024,"CARD NO.1234********5678 STARBUCKS DUBAI:AE 9988 05-07-2024 45.00,AED",45.00,
06-07-2024,IPI TT REF: ABC123 JOHN DOE SMITH rent payment,5000.00,
07-07-2024,SALARY CREDIT,,20000.00
`

var testCollections = map[string]string{
	"july":          "bank_statement_july",
	"uploaded_file": "new_file",
}

type fixture struct {
	store    *store.Store
	gen      *llm.Scripted
	logger   *logging.MockLogger
	pipeline *Pipeline
}

func newFixture(t *testing.T, opts Options, responses ...string) *fixture {
	t.Helper()
	logger := logging.NewMockLogger()
	st, err := store.Open("sqlite", ":memory:", testCollections, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	gen := llm.NewScripted(responses...)
	classifier := categorizer.NewClassifier(gen, nil, nil, false, logger)
	parser := txparser.NewParser("Description", nil, logger)
	return &fixture{
		store:    st,
		gen:      gen,
		logger:   logger,
		pipeline: NewPipeline(nil, parser, classifier, st, opts, logger),
	}
}

func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestIngestAndAskTotalExpenditure(t *testing.T) {
	f := newFixture(t, Options{},
		`{"STARBUCKS": "restaurants and cafes"}`,
		"SELECT SUM(Amount) FROM bank_statement_july;",
		"Your total expenditure is AED 45.0.",
	)
	doc := writeDocument(t, t.TempDir(), "bank_statement_july.csv", statementCSV)

	result, err := f.pipeline.Ingest(context.Background(), doc, "july")
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "bank_statement_july", result.Table)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Categorized)
	assert.Equal(t, txparser.Stats{Rows: 3, CardPurchases: 1, WireTransfers: 1, Unrecognized: 1, Kept: 1}, result.Stats)

	txs, err := f.store.Transactions(context.Background(), "july")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "starbucks", txs[0].Merchant)
	assert.Equal(t, "Dubai", txs[0].Location)
	assert.True(t, time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC).Equal(txs[0].Date), txs[0].Date)
	assert.True(t, decimal.RequireFromString("45.00").Equal(txs[0].Amount), txs[0].Amount)
	assert.Equal(t, "1234********5678", txs[0].CardNumber)
	assert.Equal(t, "9988", txs[0].TransactionID)
	assert.Equal(t, "restaurants and cafes", txs[0].CategoryFreetextOr(""))
	require.NotNil(t, txs[0].Category)
	assert.Equal(t, models.CategoryRestaurants, *txs[0].Category)

	engine := query.NewEngine(f.gen, f.store, nil, f.logger)
	answer, err := engine.Run(context.Background(), "Total expenditure", "july")
	require.NoError(t, err)
	assert.Contains(t, answer, "AED 45")

	reqs := f.gen.Requests()
	require.Len(t, reqs, 3)
	assert.Contains(t, reqs[0].Prompt, "starbucks")
	assert.Contains(t, reqs[2].Prompt, "SQL Result: [(45.0,)]")
}

func TestIngestOverwritesCollection(t *testing.T) {
	f := newFixture(t, Options{}, `{"starbucks": "restaurants and cafes"}`, `{"starbucks": "restaurants and cafes"}`)
	doc := writeDocument(t, t.TempDir(), "statement.csv", statementCSV)

	for i := 0; i < 2; i++ {
		_, err := f.pipeline.Ingest(context.Background(), doc, "july")
		require.NoError(t, err)
	}

	txs, err := f.store.Transactions(context.Background(), "july")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestIngestClassificationUnavailable(t *testing.T) {
	f := newFixture(t, Options{}, "this is not json")
	doc := writeDocument(t, t.TempDir(), "statement.csv", statementCSV)

	result, err := f.pipeline.Ingest(context.Background(), doc, "july")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Zero(t, result.Categorized)

	txs, err := f.store.Transactions(context.Background(), "july")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Nil(t, txs[0].CategoryFreetext)
	assert.Nil(t, txs[0].Category)
	assert.True(t, f.logger.HasEntry("WARN", "Merchant classification unavailable, continuing without categories"))
}

func TestIngestDocumentWithoutTables(t *testing.T) {
	f := newFixture(t, Options{})
	doc := writeDocument(t, t.TempDir(), "statement.csv", "Date,Description\n")

	result, err := f.pipeline.Ingest(context.Background(), doc, "july")
	require.NoError(t, err)
	assert.True(t, result.Empty)
	assert.Empty(t, f.gen.Requests())

	_, err = f.store.Transactions(context.Background(), "july")
	assert.Error(t, err, "collection must not be created")
}

func TestIngestUnknownCollection(t *testing.T) {
	f := newFixture(t, Options{})
	doc := writeDocument(t, t.TempDir(), "statement.csv", statementCSV)

	_, err := f.pipeline.Ingest(context.Background(), doc, "december")
	assert.Error(t, err)
}

func TestIngestUnsupportedDocument(t *testing.T) {
	f := newFixture(t, Options{})
	doc := writeDocument(t, t.TempDir(), "statement.docx", "x")

	_, err := f.pipeline.Ingest(context.Background(), doc, "july")
	assert.Error(t, err)
}

func TestIngestExportsCSV(t *testing.T) {
	f := newFixture(t, Options{ExportCSV: true, Delimiter: ';'}, `{"starbucks": "restaurants and cafes"}`)
	doc := writeDocument(t, t.TempDir(), "statement.csv", statementCSV)

	result, err := f.pipeline.Ingest(context.Background(), doc, "july")
	require.NoError(t, err)
	assert.Equal(t, ExportPath(doc), result.CSVPath)

	data, err := os.ReadFile(result.CSVPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Merchant;Location;Date;Amount;Category_freetext;Category;Card_number;Country_code;Transaction_id;Currency", lines[0])
	assert.Equal(t, "starbucks;Dubai;2024-07-05;45.00;restaurants and cafes;restaurants and cafes;1234********5678;AE;9988;AED", lines[1])
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "july.csv"), ExportPath(filepath.Join("data", "july.pdf")))
	assert.Equal(t, filepath.Join("data", "july_parsed.csv"), ExportPath(filepath.Join("data", "july.CSV")))
}

func TestUpload(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "upload_data")
	f := newFixture(t, Options{UploadDir: uploadDir}, `{"starbucks": "restaurants and cafes"}`)
	doc := writeDocument(t, t.TempDir(), "my statement.csv", statementCSV)

	result, err := f.pipeline.Upload(context.Background(), doc, "uploaded_file")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(uploadDir, "new_file.csv"), result.Document)
	assert.FileExists(t, result.Document)

	infos, err := f.store.Collections(context.Background())
	require.NoError(t, err)
	assert.Contains(t, infos, store.CollectionInfo{Name: "uploaded_file", Table: "new_file", Exists: true, Rows: 1})
}

func TestBatch(t *testing.T) {
	f := newFixture(t, Options{}, `{"starbucks": "restaurants and cafes"}`)
	dir := t.TempDir()
	writeDocument(t, dir, "bank_statement_july.csv", statementCSV)
	writeDocument(t, dir, "bank_statement_august.csv", statementCSV)
	writeDocument(t, dir, "readme.txt", "ignored")

	results, err := f.pipeline.Batch(context.Background(), dir, testCollections)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "july", results[0].Collection)
	assert.True(t, f.logger.HasEntry("DEBUG", "Skipping document without a matching collection"))
}

func TestBatchCollectsFailures(t *testing.T) {
	f := newFixture(t, Options{})
	dir := t.TempDir()
	writeDocument(t, dir, "bank_statement_july.xlsx", "not a workbook")

	results, err := f.pipeline.Batch(context.Background(), dir, testCollections)
	assert.Error(t, err)
	assert.Empty(t, results)
}
