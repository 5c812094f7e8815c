package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
)

type StoreTestSuite struct {
	suite.Suite
	store  *Store
	logger *logging.MockLogger
	ctx    context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.logger = logging.NewMockLogger()
	st, err := Open("sqlite", ":memory:", map[string]string{
		"july":     "bank_statement_july",
		"uploaded": "uploaded_file",
	}, s.logger)
	require.NoError(s.T(), err)
	s.store = st
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) transaction(merchant string, amount float64, category string) models.Transaction {
	return models.Transaction{
		Merchant:         merchant,
		Location:         "Dubai",
		Date:             time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		Amount:           decimal.NewFromFloat(amount),
		CategoryFreetext: models.StringPtr(category),
		CardNumber:       "4111XXXXXXXX1111",
		CountryCode:      "ARE",
		TransactionID:    gofakeit.DigitN(6),
		Currency:         "AED",
	}
}

func (s *StoreTestSuite) TestSaveAndQuery() {
	err := s.store.Save(s.ctx, "july", []models.Transaction{s.transaction("starbucks", 45, "restaurants and cafes")})
	s.Require().NoError(err)

	out := s.store.Query(s.ctx, "july", "SELECT Merchant, Amount FROM bank_statement_july;")
	s.Equal(OutcomeRows, out.Kind)
	s.Equal("[('starbucks', 45.0)]", out.Text)
	s.Equal([]string{"Merchant", "Amount"}, out.Columns)

	out = s.store.Query(s.ctx, "july", "SELECT SUM(Amount) FROM bank_statement_july;")
	s.Equal(OutcomeRows, out.Kind)
	s.Equal("[(45.0,)]", out.Text)

	s.True(s.logger.HasEntry("INFO", "Saved collection"))
}

func (s *StoreTestSuite) TestDatesAreStoredAsDateTimeText() {
	tx := s.transaction("starbucks", 45, "restaurants and cafes")
	tx.Date = time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Save(s.ctx, "july", []models.Transaction{tx}))

	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"raw text", "SELECT Date || '|' FROM bank_statement_july;", "[('2024-07-05 00:00:00|',)]"},
		{"exact day", "SELECT SUM(Amount) FROM bank_statement_july WHERE Date = '2024-07-05 00:00:00';", "[(45.0,)]"},
		{"range", "SELECT SUM(Amount) FROM bank_statement_july WHERE Date >= '2024-07-01' AND Date < '2024-07-06';", "[(45.0,)]"},
		{"date function", "SELECT SUM(Amount) FROM bank_statement_july WHERE date(Date) = '2024-07-05';", "[(45.0,)]"},
		{"month", "SELECT SUM(Amount) FROM bank_statement_july WHERE strftime('%m', Date) = '07';", "[(45.0,)]"},
		{"other day", "SELECT SUM(Amount) FROM bank_statement_july WHERE Date = '2024-07-06 00:00:00';", "[(None,)]"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			out := s.store.Query(s.ctx, "july", tt.sql)
			s.Equal(OutcomeRows, out.Kind, out.Text)
			s.Equal(tt.want, out.Text)
		})
	}

	txs, err := s.store.Transactions(s.ctx, "july")
	s.Require().NoError(err)
	s.Require().Len(txs, 1)
	s.True(tx.Date.Equal(txs[0].Date))
}

func (s *StoreTestSuite) TestQueryCannotModifyCollection() {
	s.Require().NoError(s.store.Save(s.ctx, "july", []models.Transaction{s.transaction("starbucks", 45, "restaurants and cafes")}))

	statements := []string{
		"WITH x AS (SELECT 1) DELETE FROM bank_statement_july;",
		"WITH x AS (SELECT 1) UPDATE bank_statement_july SET Amount = 0;",
		"WITH x AS (SELECT 1) INSERT INTO bank_statement_july (Merchant) SELECT 'noon' FROM x;",
	}
	for _, sql := range statements {
		out := s.store.Query(s.ctx, "july", sql)
		s.Equal(OutcomeError, out.Kind, sql)
		s.Contains(out.Text, "Error executing query: ")
	}

	out := s.store.Query(s.ctx, "july", "SELECT COUNT(*), SUM(Amount) FROM bank_statement_july;")
	s.Equal("[(1, 45.0)]", out.Text)

	// The connection is writable again once the query is done.
	s.Require().NoError(s.store.Save(s.ctx, "july", []models.Transaction{s.transaction("noon", 10, "e-commerce")}))
	out = s.store.Query(s.ctx, "july", "SELECT Merchant FROM bank_statement_july;")
	s.Equal("[('noon',)]", out.Text)
}

func (s *StoreTestSuite) TestSaveOverwritesCollection() {
	first := make([]models.Transaction, 0, 5)
	for i := 0; i < 5; i++ {
		first = append(first, s.transaction(strings.ToLower(gofakeit.Company()), gofakeit.Float64Range(1, 500), "shopping"))
	}
	s.Require().NoError(s.store.Save(s.ctx, "july", first))
	s.Require().NoError(s.store.Save(s.ctx, "july", first))

	txs, err := s.store.Transactions(s.ctx, "july")
	s.Require().NoError(err)
	s.Len(txs, 5)

	second := []models.Transaction{s.transaction("carrefour", 120.5, "groceries")}
	s.Require().NoError(s.store.Save(s.ctx, "july", second))

	txs, err = s.store.Transactions(s.ctx, "july")
	s.Require().NoError(err)
	s.Require().Len(txs, 1)
	s.Equal("carrefour", txs[0].Merchant)
	s.True(decimal.NewFromFloat(120.5).Equal(txs[0].Amount))
	s.Equal("groceries", txs[0].CategoryFreetextOr(""))
	s.Nil(txs[0].Category)
	s.Equal("2023-07-01", txs[0].Date.Format("2006-01-02"))
}

func (s *StoreTestSuite) TestSaveSkipsRowsWithoutMerchant() {
	txs := []models.Transaction{s.transaction("noon", 10, "shopping"), s.transaction("  ", 5, "shopping")}
	s.Require().NoError(s.store.Save(s.ctx, "july", txs))

	out := s.store.Query(s.ctx, "july", "SELECT COUNT(*) FROM bank_statement_july;")
	s.Equal("[(1,)]", out.Text)
}

func (s *StoreTestSuite) TestSaveEmptyCreatesTable() {
	s.Require().NoError(s.store.Save(s.ctx, "july", nil))

	out := s.store.Query(s.ctx, "july", "SELECT * FROM bank_statement_july;")
	s.Equal(OutcomeEmpty, out.Kind)
	s.Equal(EmptyResultText, out.Text)
}

func (s *StoreTestSuite) TestUnknownCollection() {
	err := s.store.Save(s.ctx, "august", nil)
	var unknown *parsererror.UnknownCollectionError
	s.ErrorAs(err, &unknown)
	s.Equal("august", unknown.Collection)

	out := s.store.Query(s.ctx, "august", "SELECT 1;")
	s.Equal(OutcomeError, out.Kind)
	s.True(strings.HasPrefix(out.Text, "Error executing query: "))
}

func (s *StoreTestSuite) TestQueryErrorsBecomeOutcomes() {
	out := s.store.Query(s.ctx, "july", "SELECT * FROM bank_statement_july;")
	s.Equal(OutcomeError, out.Kind)
	s.Contains(out.Text, "Error executing query: ")
	s.Error(out.Err)

	out = s.store.Query(s.ctx, "july", "DROP TABLE bank_statement_july;")
	s.Equal(OutcomeError, out.Kind)
	s.Contains(out.Text, "only SELECT statements")
}

func (s *StoreTestSuite) TestCollections() {
	s.Require().NoError(s.store.Save(s.ctx, "july", []models.Transaction{s.transaction("starbucks", 45, "restaurants and cafes")}))

	infos, err := s.store.Collections(s.ctx)
	s.Require().NoError(err)
	s.Equal([]CollectionInfo{
		{Name: "july", Table: "bank_statement_july", Exists: true, Rows: 1},
		{Name: "uploaded", Table: "uploaded_file"},
	}, infos)
}

func (s *StoreTestSuite) TestTransactionsBeforeIngest() {
	_, err := s.store.Transactions(s.ctx, "uploaded")
	s.Error(err)
}

func (s *StoreTestSuite) TestDialect() {
	s.Equal("sqlite", s.store.Dialect())
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "dsn", nil, logging.NewMockLogger())
	assert.Error(t, err)
}

func TestFormatRows(t *testing.T) {
	tests := []struct {
		name string
		rows [][]interface{}
		want string
	}{
		{"strings and floats", [][]interface{}{{"starbucks", 45.0}, {"noon", 12.5}}, "[('starbucks', 45.0), ('noon', 12.5)]"},
		{"single column", [][]interface{}{{int64(3)}}, "[(3,)]"},
		{"null", [][]interface{}{{nil, "x"}}, "[(None, 'x')]"},
		{"quote in string", [][]interface{}{{"mcdonald's"}}, `[("mcdonald's",)]`},
		{"bytes", [][]interface{}{{[]byte("abc")}}, "[('abc',)]"},
		{"time", [][]interface{}{{time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)}}, "[('2023-07-01 00:00:00',)]"},
		{"bool", [][]interface{}{{true, false}}, "[(True, False)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRows(tt.rows))
		})
	}
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "rows", OutcomeRows.String())
	assert.Equal(t, "empty", OutcomeEmpty.String())
	assert.Equal(t, "error", OutcomeError.String())
}
