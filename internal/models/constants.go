package models

// Categories
const (
	CategoryGroceries     = "Groceries"
	CategoryHousing       = "Housing"
	CategoryTransport     = "Transport"
	CategoryLeisure       = "Leisure"
	CategoryHealth        = "Health"
	CategoryShopping      = "Shopping"
	CategorySubscriptions = "Subscriptions"
	CategoryTravel        = "Travel"
	CategoryIncome        = "Income"
	CategoryOther         = "Other"
)

// AllCategories lists the categories offered when a user re-categorizes a transaction.
var AllCategories = []string{
	CategoryGroceries,
	CategoryHousing,
	CategoryTransport,
	CategoryLeisure,
	CategoryHealth,
	CategoryShopping,
	CategorySubscriptions,
	CategoryTravel,
	CategoryIncome,
	CategoryOther,
}

// Ingestion defaults
const (
	DefaultCurrency = "DKK"
	DefaultText     = "Unknown"
	DefaultAmount   = "0"
)

// File permissions
const (
	PermissionDataFile   = 0600
	PermissionDirectory  = 0750
	PermissionExportFile = 0644
)
