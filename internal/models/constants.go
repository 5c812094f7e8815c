package models

// Spending categories of the closed category set, in declaration order.
const (
	CategoryFitness       = "fitness"
	CategoryGroceries     = "groceries"
	CategoryRestaurants   = "restaurants and cafes"
	CategoryHealthcare    = "healthcare"
	CategoryClothing      = "clothing"
	CategoryJewelry       = "jewelry"
	CategoryTransport     = "transportation"
	CategoryTelecom       = "phone and internet"
	CategoryMiscellaneous = "miscellaneous"
	CategoryOthers        = "others"
	CategoryECommerce     = "e-commerce"
	CategoryFoodDelivery  = "food delivery"
)

// DefaultCurrency is the implied currency of stored amounts.
const DefaultCurrency = "AED"

// DateLayout is the day-first date format used by statement descriptions.
const DateLayout = "02-01-2006"

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
