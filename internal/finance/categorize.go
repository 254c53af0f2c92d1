package finance

import "strings"

const (
	CategoryFood          = "food"
	CategoryTransport     = "transport"
	CategoryHousing       = "housing"
	CategoryEntertainment = "entertainment"
	CategoryHealth        = "health"
	CategoryShopping      = "shopping"
	CategoryOther         = "other"
)

// Categories lists every accepted expense category.
var Categories = []string{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryEntertainment,
	CategoryHealth,
	CategoryShopping,
	CategoryOther,
}

// ValidCategory reports whether c is a known expense category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Categorize guesses the expense category from its description.
// Exact match first, then substring match. Falls back to "other".
func Categorize(description string) string {
	d := strings.ToLower(strings.TrimSpace(description))
	if d == "" {
		return CategoryOther
	}
	if cat, ok := exactMatch[d]; ok {
		return cat
	}
	for _, entry := range substringMatches {
		if strings.Contains(d, entry.keyword) {
			return entry.category
		}
	}
	return CategoryOther
}

var exactMatch = map[string]string{
	"groceries": CategoryFood,
	"lunch":     CategoryFood,
	"dinner":    CategoryFood,
	"breakfast": CategoryFood,
	"coffee":    CategoryFood,
	"takeout":   CategoryFood,
	"taxi":      CategoryTransport,
	"uber":      CategoryTransport,
	"gas":       CategoryTransport,
	"fuel":      CategoryTransport,
	"parking":   CategoryTransport,
	"rent":      CategoryHousing,
	"mortgage":  CategoryHousing,
	"internet":  CategoryHousing,
	"cinema":    CategoryEntertainment,
	"movies":    CategoryEntertainment,
	"concert":   CategoryEntertainment,
	"netflix":   CategoryEntertainment,
	"pharmacy":  CategoryHealth,
	"dentist":   CategoryHealth,
	"doctor":    CategoryHealth,
	"gym":       CategoryHealth,
	"clothes":   CategoryShopping,
	"shoes":     CategoryShopping,
	"gift":      CategoryShopping,
}

// Ordered longer/more-specific first.
var substringMatches = []struct {
	keyword  string
	category string
}{
	{"restaurant", CategoryFood},
	{"supermarket", CategoryFood},
	{"grocer", CategoryFood},
	{"pizza", CategoryFood},
	{"cafe", CategoryFood},
	{"train ticket", CategoryTransport},
	{"bus ticket", CategoryTransport},
	{"flight", CategoryTransport},
	{"metro", CategoryTransport},
	{"electricity", CategoryHousing},
	{"utilities", CategoryHousing},
	{"furniture", CategoryHousing},
	{"water bill", CategoryHousing},
	{"ticket", CategoryEntertainment},
	{"theater", CategoryEntertainment},
	{"theatre", CategoryEntertainment},
	{"subscription", CategoryEntertainment},
	{"medicine", CategoryHealth},
	{"clinic", CategoryHealth},
	{"vitamin", CategoryHealth},
	{"jacket", CategoryShopping},
	{"dress", CategoryShopping},
	{"present", CategoryShopping},
}
