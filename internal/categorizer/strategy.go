package categorizer

import "github.com/shopspring/decimal"

// Classifier assigns a category to a transaction from its text and signed amount.
// Implementations must be deterministic for a given configuration.
type Classifier interface {
	Classify(text string, amount decimal.Decimal) string
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(text string, amount decimal.Decimal) string

// Classify calls f(text, amount).
func (f ClassifierFunc) Classify(text string, amount decimal.Decimal) string {
	return f(text, amount)
}
