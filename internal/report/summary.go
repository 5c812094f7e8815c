// Package report computes spending summaries of a collection and renders them as text,
// JSON or YAML.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"spendwise/internal/currencyutils"
	"spendwise/internal/models"
)

// TopN is the number of merchants and locations listed in a summary.
const TopN = 10

// AveragingDays is the divisor of the average daily spending.
const AveragingDays = 30

// NamedTotal is the amount spent for one category, merchant or location.
type NamedTotal struct {
	Name  string          `json:"name" yaml:"name"`
	Total decimal.Decimal `json:"total" yaml:"total"`
}

// DailyTotal is the amount spent on one day.
type DailyTotal struct {
	Date  string          `json:"date" yaml:"date"`
	Total decimal.Decimal `json:"total" yaml:"total"`
}

// Summary is the spending overview of a collection.
type Summary struct {
	Collection   string          `json:"collection" yaml:"collection"`
	Currency     string          `json:"currency" yaml:"currency"`
	Transactions int             `json:"transactions" yaml:"transactions"`
	Total        decimal.Decimal `json:"total_expenditure" yaml:"total_expenditure"`
	AverageDaily decimal.Decimal `json:"average_daily_spending" yaml:"average_daily_spending"`
	Categories   []NamedTotal    `json:"categories" yaml:"categories"`
	TopMerchants []NamedTotal    `json:"top_merchants" yaml:"top_merchants"`
	TopLocations []NamedTotal    `json:"top_locations" yaml:"top_locations"`
	Daily        []DailyTotal    `json:"daily" yaml:"daily"`
}

// Summarize aggregates txs. Transactions without a free-text category are left out of the
// category totals and those without a location out of the location totals; all of them
// count towards the overall and daily totals.
func Summarize(collection string, txs []models.Transaction) *Summary {
	s := &Summary{
		Collection:   collection,
		Currency:     models.DefaultCurrency,
		Transactions: len(txs),
	}

	categories := map[string]decimal.Decimal{}
	merchants := map[string]decimal.Decimal{}
	locations := map[string]decimal.Decimal{}
	daily := map[string]decimal.Decimal{}

	amounts := make([]decimal.Decimal, 0, len(txs))
	for _, tx := range txs {
		amounts = append(amounts, tx.Amount)
		if category := tx.CategoryFreetextOr(""); category != "" {
			add(categories, category, tx.Amount)
		}
		add(merchants, tx.Merchant, tx.Amount)
		if tx.Location != "" {
			add(locations, tx.Location, tx.Amount)
		}
		add(daily, tx.Date.Format("2006-01-02"), tx.Amount)
	}

	s.Total = currencyutils.Sum(amounts...)
	s.AverageDaily = s.Total.Div(decimal.NewFromInt(AveragingDays)).Round(2)
	s.Categories = ranked(categories, 0)
	s.TopMerchants = ranked(merchants, TopN)
	s.TopLocations = ranked(locations, TopN)

	s.Daily = make([]DailyTotal, 0, len(daily))
	for date, total := range daily {
		s.Daily = append(s.Daily, DailyTotal{Date: date, Total: total})
	}
	sort.Slice(s.Daily, func(i, j int) bool { return s.Daily[i].Date < s.Daily[j].Date })
	return s
}

func add(m map[string]decimal.Decimal, key string, amount decimal.Decimal) {
	if cur, ok := m[key]; ok {
		m[key] = cur.Add(amount)
		return
	}
	m[key] = amount
}

// ranked sorts totals descending, ties by name, keeping at most limit entries (0 keeps all).
func ranked(totals map[string]decimal.Decimal, limit int) []NamedTotal {
	out := make([]NamedTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, NamedTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
