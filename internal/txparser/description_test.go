package txparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescription_CardPurchase(t *testing.T) {
	parsed := ParseDescription("CARD NO.123456********1234 STARBUCKS DUBAI:AE 1234 01-07-2023 45.00,AED")

	card, ok := parsed.(*CardPurchase)
	require.True(t, ok, "expected *CardPurchase, got %T", parsed)
	assert.Equal(t, &CardPurchase{
		CardNumber:    "123456********1234",
		Merchant:      "STARBUCKS",
		Location:      "Dubai",
		CountryCode:   "AE",
		TransactionID: "1234",
		Date:          "01-07-2023",
		Amount:        "45.00",
		Currency:      "AED",
	}, card)
}

func TestParseDescription_Variants(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		expected Parsed
	}{
		{
			name:     "card purchase embedded in surrounding text",
			desc:     "01/07 POS CARD NO.401234********9876 CARREFOUR ABU DHABI MALL:AE 998877 15-07-2023 120.50,AED trailing",
			expected: &CardPurchase{CardNumber: "401234********9876", Merchant: "CARREFOUR  MALL", Location: "Abu Dhabi", CountryCode: "AE", TransactionID: "998877", Date: "15-07-2023", Amount: "120.50", Currency: "AED"},
		},
		{
			name:     "card purchase without city",
			desc:     "CARD NO.123456********1234 AMAZON MARKETPLACE:US 55 02-07-2023 99.99,USD",
			expected: &CardPurchase{CardNumber: "123456********1234", Merchant: "AMAZON MARKETPLACE", CountryCode: "US", TransactionID: "55", Date: "02-07-2023", Amount: "99.99", Currency: "USD"},
		},
		{
			name:     "wire transfer",
			desc:     "IPI TT REF: ABC123 JOHN DOE SMITH monthly rent",
			expected: &WireTransfer{Reference: "ABC123", Details: "JOHN DOE SMITH"},
		},
		{
			name:     "unrecognized",
			desc:     "SALARY CREDIT JULY",
			expected: &Unrecognized{},
		},
		{
			name:     "card with too few asterisks",
			desc:     "CARD NO.123456*******1234 STARBUCKS DUBAI:AE 1234 01-07-2023 45.00,AED",
			expected: &Unrecognized{},
		},
		{
			name:     "empty",
			desc:     "",
			expected: &Unrecognized{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDescription(tt.desc))
		})
	}
}

func TestParseDescription_CardWinsOverWire(t *testing.T) {
	desc := "IPI TT REF: X1 A B C refund CARD NO.123456********1234 NOON:AE 1 01-07-2023 5.00,AED"
	_, ok := ParseDescription(desc).(*CardPurchase)
	assert.True(t, ok)
}

func TestParseDescription_CityTieBreakFollowsListOrder(t *testing.T) {
	// Both Dubai and Al Ain occur; Dubai comes first in the list and is the only one removed.
	card, ok := ParseDescription("CARD NO.123456********1234 AL AIN DUBAI TRADING:AE 7 03-07-2023 10.00,AED").(*CardPurchase)
	require.True(t, ok)
	assert.Equal(t, "Dubai", card.Location)
	assert.Equal(t, "AL AIN  TRADING", card.Merchant)
}

func TestParseDescription_RemovesEveryCityOccurrence(t *testing.T) {
	card, ok := ParseDescription("CARD NO.123456********1234 dubai mall Dubai:AE 7 03-07-2023 10.00,AED").(*CardPurchase)
	require.True(t, ok)
	assert.Equal(t, "mall", card.Merchant)
}

func TestExtractCity(t *testing.T) {
	cities := []string{"Dubai", "Abu Dhabi", "Al Ain"}
	assert.Equal(t, "Abu Dhabi", ExtractCity("LULU ABU DHABI", cities))
	assert.Equal(t, "", ExtractCity("LULU", cities))
	assert.Equal(t, "Dubai", ExtractCity("al ain dubai", cities))
	assert.Equal(t, "", ExtractCity("dubai", nil))
}
