// Package txparser decomposes statement descriptions into typed transaction variants and
// normalizes extracted rows into models.Transaction records.
package txparser

import (
	"regexp"
	"strings"

	"spendwise/internal/models"
)

var (
	cardPattern = regexp.MustCompile(`CARD NO\.(\d+\*{8}\d{4}) (.+):([A-Z]{2}) (\d+) (\d{2}-\d{2}-\d{4}) ([\d\.]+),([A-Z]+)`)
	wirePattern = regexp.MustCompile(`IPI TT REF: (\w+) ([^\d\s]+ [^\d\s]+ [^\d\s]+) (.+)$`)
)

// Parsed is the result of parsing a description: *CardPurchase, *WireTransfer or *Unrecognized.
type Parsed interface {
	parsed()
}

// CardPurchase is a card payment at a merchant.
type CardPurchase struct {
	CardNumber    string
	Merchant      string
	Location      string
	CountryCode   string
	TransactionID string
	Date          string
	Amount        string
	Currency      string
}

// WireTransfer is an outgoing telegraphic transfer. It carries no merchant.
type WireTransfer struct {
	Reference string
	Details   string
}

// Unrecognized is a description matching no known pattern.
type Unrecognized struct{}

func (*CardPurchase) parsed() {}
func (*WireTransfer) parsed() {}
func (*Unrecognized) parsed() {}

// ParseDescription parses a description using the default city list.
func ParseDescription(desc string) Parsed {
	return parseDescription(desc, models.DefaultCities())
}

func parseDescription(desc string, cities []string) Parsed {
	if m := cardPattern.FindStringSubmatch(desc); m != nil {
		merchantAndCity := strings.TrimSpace(m[2])
		city := ExtractCity(merchantAndCity, cities)
		return &CardPurchase{
			CardNumber:    m[1],
			Merchant:      strings.TrimSpace(removeIgnoreCase(merchantAndCity, city)),
			Location:      city,
			CountryCode:   strings.TrimSpace(m[3]),
			TransactionID: m[4],
			Date:          m[5],
			Amount:        m[6],
			Currency:      m[7],
		}
	}
	if m := wirePattern.FindStringSubmatch(desc); m != nil {
		return &WireTransfer{Reference: m[1], Details: m[2]}
	}
	return &Unrecognized{}
}

// ExtractCity returns the first city whose lower-case form occurs in name, or "".
func ExtractCity(name string, cities []string) string {
	lower := strings.ToLower(name)
	for _, city := range cities {
		if city != "" && strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}

func removeIgnoreCase(s, substr string) string {
	if substr == "" {
		return s
	}
	return regexp.MustCompile(`(?i)`+regexp.QuoteMeta(substr)).ReplaceAllString(s, "")
}
