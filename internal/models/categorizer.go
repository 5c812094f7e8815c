package models

// DefaultCategories returns the closed, ordered category vocabulary. The order matters:
// keyword fallback matching returns the first category found in the text.
func DefaultCategories() []string {
	return []string{
		CategoryFitness,
		CategoryGroceries,
		CategoryRestaurants,
		CategoryHealthcare,
		CategoryClothing,
		CategoryJewelry,
		CategoryTransport,
		CategoryTelecom,
		CategoryMiscellaneous,
		CategoryOthers,
		CategoryECommerce,
		CategoryFoodDelivery,
	}
}

// MerchantsConfig is the YAML layout of the learned merchant -> category mapping file.
type MerchantsConfig struct {
	Merchants map[string]string `yaml:"merchants"`
}

// DefaultCities returns the ordered list of emirates searched for a purchase location.
// The first city contained in a merchant string wins.
func DefaultCities() []string {
	return []string{"Dubai", "Abu Dhabi", "Sharjah", "Ajman", "Ras Al Khaimah", "Fujairah", "Umm Al Quwain", "Al Ain"}
}
