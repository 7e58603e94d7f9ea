package categorizer

import (
	"strings"

	"fjacquet/budget-csv/internal/models"

	"github.com/shopspring/decimal"
)

// defaultGroups is the built-in dictionary. Group order is the match priority: a text
// hitting keywords of two groups gets the earlier group.
var defaultGroups = []models.CategoryGroup{
	{Name: models.CategoryGroceries, Keywords: []string{
		"netto", "rema", "fotex", "meny", "lidl", "bilka", "superbrugsen", "kvickly", "fakta", "dagligvare",
	}},
	{Name: models.CategoryHousing, Keywords: []string{
		"husleje", "bolig", "leje", "el", "vand", "varme", "internet", "bredbånd", "forsikring",
	}},
	{Name: models.CategoryTransport, Keywords: []string{
		"transport", "dsb", "taxi", "uber", "benzin", "tank", "parkering", "metro",
	}},
	{Name: models.CategoryLeisure, Keywords: []string{
		"cafe", "restaurant", "bar", "mcdonalds", "burger", "pizza", "biograf", "kino", "tivoli",
	}},
	{Name: models.CategoryHealth, Keywords: []string{
		"fitness", "gym", "sport", "apotek", "læge", "tandlæge",
	}},
	{Name: models.CategoryShopping, Keywords: []string{
		"tøj", "sko", "magasin", "zalando", "hm", "zara", "ikea", "jysk", "silvan", "bauhaus",
	}},
	{Name: models.CategorySubscriptions, Keywords: []string{
		"netflix", "spotify", "hbo", "disney", "viaplay", "tv2", "apple", "google",
	}},
	{Name: models.CategoryTravel, Keywords: []string{
		"rejse", "hotel", "airbnb", "booking.com", "sas", "norwegian", "lufthavn", "fly", "ferie", "hostel",
	}},
}

// DefaultGroups returns a copy of the built-in keyword dictionary.
func DefaultGroups() []models.CategoryGroup {
	return cloneGroups(defaultGroups)
}

// KeywordClassifier is the built-in dictionary classifier. Positive amounts are always
// Income; otherwise the first group with a keyword contained in the lower-cased text
// wins, and Other is returned when nothing matches.
type KeywordClassifier struct {
	groups []models.CategoryGroup
}

// NewKeywordClassifier returns a classifier over the built-in dictionary.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{groups: DefaultGroups()}
}

// NewKeywordClassifierFromGroups returns a classifier over groups, typically loaded
// from categories.yaml. An empty list falls back to the built-in dictionary.
func NewKeywordClassifierFromGroups(groups []models.CategoryGroup) *KeywordClassifier {
	if len(groups) == 0 {
		return NewKeywordClassifier()
	}
	cloned := cloneGroups(groups)
	for i := range cloned {
		for j, k := range cloned[i].Keywords {
			cloned[i].Keywords[j] = strings.ToLower(k)
		}
	}
	return &KeywordClassifier{groups: cloned}
}

// Classify implements Classifier.
func (k *KeywordClassifier) Classify(text string, amount decimal.Decimal) string {
	if amount.IsPositive() {
		return models.CategoryIncome
	}
	if category, _, ok := k.Match(text); ok {
		return category
	}
	return models.CategoryOther
}

// Match returns the first group whose keyword occurs in text, ignoring the amount.
func (k *KeywordClassifier) Match(text string) (category, keyword string, ok bool) {
	lowerText := strings.ToLower(text)
	for _, group := range k.groups {
		for _, kw := range group.Keywords {
			if kw != "" && strings.Contains(lowerText, kw) {
				return group.Name, kw, true
			}
		}
	}
	return "", "", false
}

// Groups returns a copy of the dictionary in priority order.
func (k *KeywordClassifier) Groups() []models.CategoryGroup {
	return cloneGroups(k.groups)
}

func cloneGroups(groups []models.CategoryGroup) []models.CategoryGroup {
	out := make([]models.CategoryGroup, len(groups))
	for i, g := range groups {
		out[i] = models.CategoryGroup{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}
	}
	return out
}
