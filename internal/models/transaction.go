// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a parsed and categorized card purchase. The gorm column names form the
// persisted table layout that generated SQL is written against.
type Transaction struct {
	Merchant         string          `gorm:"column:Merchant;not null"`
	Location         string          `gorm:"column:Location"`
	Date             time.Time       `gorm:"column:Date;type:timestamp;serializer:sqldatetime"`
	Amount           decimal.Decimal `gorm:"column:Amount;type:double precision"`
	CategoryFreetext *string         `gorm:"column:Category_freetext"`
	Category         *string         `gorm:"column:Category"`
	CardNumber       string          `gorm:"column:Card_number"`
	CountryCode      string          `gorm:"column:Country_code"`
	TransactionID    string          `gorm:"column:Transaction_id"`
	Currency         string          `gorm:"column:Currency"`
}

// QueryColumns are the columns described to the model when it writes SQL.
var QueryColumns = []string{"Merchant", "Location", "Date", "Amount", "Category_freetext", "Category"}

// TransactionRecord is the flat CSV form of a Transaction.
type TransactionRecord struct {
	Merchant         string `csv:"Merchant"`
	Location         string `csv:"Location"`
	Date             string `csv:"Date"`
	Amount           string `csv:"Amount"`
	CategoryFreetext string `csv:"Category_freetext"`
	Category         string `csv:"Category"`
	CardNumber       string `csv:"Card_number"`
	CountryCode      string `csv:"Country_code"`
	TransactionID    string `csv:"Transaction_id"`
	Currency         string `csv:"Currency"`
}

// ToRecord flattens the transaction for CSV export.
func (t Transaction) ToRecord() TransactionRecord {
	return TransactionRecord{
		Merchant:         t.Merchant,
		Location:         t.Location,
		Date:             t.Date.Format("2006-01-02"),
		Amount:           t.Amount.StringFixed(2),
		CategoryFreetext: deref(t.CategoryFreetext),
		Category:         deref(t.Category),
		CardNumber:       t.CardNumber,
		CountryCode:      t.CountryCode,
		TransactionID:    t.TransactionID,
		Currency:         t.Currency,
	}
}

// CategoryFreetextOr returns the free-text category or fallback when unmapped.
func (t Transaction) CategoryFreetextOr(fallback string) string {
	if t.CategoryFreetext == nil || *t.CategoryFreetext == "" {
		return fallback
	}
	return *t.CategoryFreetext
}

// ParseAmount parses a statement amount such as "45.00" or "1,045.50" into a decimal.
// An empty amount is zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	if amount == "" {
		return decimal.Zero, nil
	}
	amount = strings.ReplaceAll(amount, ",", "")
	amount = strings.ReplaceAll(amount, " ", "")
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	return dec, nil
}

// ParseDate parses a day-first DD-MM-YYYY date.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(dateStr))
}

// StringPtr returns a pointer to s, or nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
