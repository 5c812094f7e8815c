package txparser

import (
	"iter"
	"strings"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
)

// Stats summarizes a ParseRows run. Unrecognized descriptions are only counted here.
type Stats struct {
	Rows          int
	Empty         int
	CardPurchases int
	WireTransfers int
	Unrecognized  int
	Invalid       int
	Kept          int
}

// Parser turns extracted rows into transactions.
type Parser struct {
	descriptionColumn string
	cities            []string
	logger            logging.Logger
}

// NewParser creates a Parser reading descriptions from descriptionColumn and resolving
// locations against cities, in order.
func NewParser(descriptionColumn string, cities []string, logger logging.Logger) *Parser {
	if descriptionColumn == "" {
		descriptionColumn = "Description"
	}
	if len(cities) == 0 {
		cities = models.DefaultCities()
	}
	return &Parser{descriptionColumn: descriptionColumn, cities: cities, logger: logger}
}

// ParseDescription parses one description with the parser's city list.
func (p *Parser) ParseDescription(desc string) Parsed {
	return parseDescription(desc, p.cities)
}

// ParseRows parses every row in order. Only card purchases with a merchant and a valid
// date and amount are returned; the order of the input is preserved.
func (p *Parser) ParseRows(rows iter.Seq[models.RawRow]) ([]models.Transaction, Stats) {
	var (
		stats        Stats
		transactions []models.Transaction
	)

	for row := range rows {
		stats.Rows++
		if row.IsEmpty() {
			stats.Empty++
			continue
		}

		desc, _ := row.Get(p.descriptionColumn)
		desc = strings.ReplaceAll(desc, "\n", " ")

		switch parsed := p.ParseDescription(desc).(type) {
		case *CardPurchase:
			stats.CardPurchases++
			tx, err := toTransaction(parsed)
			if err != nil {
				stats.Invalid++
				p.logger.WithError(err).Debug("Dropping card purchase with invalid fields",
					logging.F(logging.FieldMerchant, parsed.Merchant))
				continue
			}
			if tx.Merchant == "" {
				stats.Invalid++
				continue
			}
			transactions = append(transactions, tx)
		case *WireTransfer:
			stats.WireTransfers++
		case *Unrecognized:
			stats.Unrecognized++
		}
	}

	stats.Kept = len(transactions)
	p.logger.Info("Parsed statement rows",
		logging.F("rows", stats.Rows),
		logging.F("card_purchases", stats.CardPurchases),
		logging.F("wire_transfers", stats.WireTransfers),
		logging.F("unrecognized", stats.Unrecognized),
		logging.F("invalid", stats.Invalid),
		logging.F(logging.FieldCount, stats.Kept))
	return transactions, stats
}

func toTransaction(c *CardPurchase) (models.Transaction, error) {
	date, err := models.ParseDate(c.Date)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: "txparser", Field: "date", Value: c.Date, Err: err}
	}
	amount, err := models.ParseAmount(c.Amount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Parser: "txparser", Field: "amount", Value: c.Amount, Err: err}
	}
	return models.Transaction{
		Merchant:      c.Merchant,
		Location:      c.Location,
		Date:          date,
		Amount:        amount,
		CardNumber:    c.CardNumber,
		CountryCode:   c.CountryCode,
		TransactionID: c.TransactionID,
		Currency:      c.Currency,
	}, nil
}
