package interpret

import (
	"fmt"
	"strings"

	"github.com/zombor/receipt-lens/internal/lexical"
)

// Category is the closed set of expense kinds a receipt can belong to.
type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryShopping       Category = "shopping"
	CategoryBills          Category = "bills"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryTravel         Category = "travel"
	CategoryGroceries      Category = "groceries"
	CategoryUtilities      Category = "utilities"
	CategoryRent           Category = "rent"
	CategoryInsurance      Category = "insurance"
	CategoryOther          Category = "other"
)

var allCategories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryShopping,
	CategoryBills,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryGroceries,
	CategoryUtilities,
	CategoryRent,
	CategoryInsurance,
	CategoryOther,
}

var displayNames = map[Category]string{
	CategoryFood:           "Food & Dining",
	CategoryTransportation: "Transportation",
	CategoryEntertainment:  "Entertainment",
	CategoryShopping:       "Shopping",
	CategoryBills:          "Bills & Utilities",
	CategoryHealthcare:     "Healthcare",
	CategoryEducation:      "Education",
	CategoryTravel:         "Travel",
	CategoryGroceries:      "Groceries",
	CategoryUtilities:      "Utilities",
	CategoryRent:           "Rent & Housing",
	CategoryInsurance:      "Insurance",
	CategoryOther:          "Other",
}

// merchantKeywords maps a category to the merchant-name fragments that
// identify it. classificationOrder fixes which table wins on overlap.
var merchantKeywords = map[Category][]string{
	CategoryFood:           {"restaurant", "cafe", "coffee", "pizza", "burger", "food", "kitchen", "bistro", "grill", "starbucks", "mcdonalds"},
	CategoryShopping:       {"store", "shop", "mart", "market", "retail", "boutique", "target", "walmart"},
	CategoryTransportation: {"uber", "lyft", "taxi", "gas", "fuel", "station", "parking", "shell", "chevron"},
	CategoryEntertainment:  {"cinema", "movie", "theater", "theatre", "concert", "game", "netflix", "spotify"},
	CategoryHealthcare:     {"pharmacy", "drug", "medical", "hospital", "clinic", "doctor", "cvs", "walgreens"},
	CategoryUtilities:      {"electric", "water", "internet", "phone", "utility", "att", "verizon"},
	CategoryTravel:         {"hotel", "airline", "flight", "booking", "airbnb", "expedia"},
}

var classificationOrder = []Category{
	CategoryFood,
	CategoryShopping,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryUtilities,
	CategoryTravel,
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// DisplayName returns the human-readable label for the category.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return displayNames[CategoryOther]
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	_, ok := displayNames[c]
	return ok
}

// Keywords returns the merchant keywords used to classify into c.
func (c Category) Keywords() []string {
	return merchantKeywords[c]
}

// ParseCategory accepts either the raw value ("food") or the display name
// ("Food & Dining", "food and dining").
func ParseCategory(s string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if c := Category(normalized); c.Valid() {
		return c, nil
	}
	normalized = strings.ReplaceAll(normalized, " and ", " & ")
	for c, name := range displayNames {
		if strings.ToLower(name) == normalized {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Classify picks the category of a merchant name by keyword containment.
func Classify(merchant string) Category {
	if strings.TrimSpace(merchant) == "" {
		return CategoryOther
	}
	for _, c := range classificationOrder {
		if lexical.MatchesAnyKeyword(merchant, merchantKeywords[c]) {
			return c
		}
	}
	return CategoryOther
}
