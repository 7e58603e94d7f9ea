package models

import "github.com/shopspring/decimal"

// MonthlyStats is derived from the transaction set and never persisted.
type MonthlyStats struct {
	Month    string          `json:"month" yaml:"month"`
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Expenses decimal.Decimal `json:"expenses" yaml:"expenses"`
}

// Net returns income minus expenses.
func (m MonthlyStats) Net() decimal.Decimal {
	return m.Income.Sub(m.Expenses)
}

// Insights summarizes the extremes of a transaction set.
type Insights struct {
	BiggestDeposit    *Transaction    `json:"biggestDeposit" yaml:"biggestDeposit"`
	BiggestWithdrawal *Transaction    `json:"biggestWithdrawal" yaml:"biggestWithdrawal"`
	CurrentBalance    decimal.Decimal `json:"currentBalance" yaml:"currentBalance"`
}

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category   string          `json:"category" yaml:"category"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
	Percentage decimal.Decimal `json:"percentage" yaml:"percentage"`
}

// LabelTotal is an expense total keyed by an arbitrary label (merchant text or date).
type LabelTotal struct {
	Label  string          `json:"label" yaml:"label"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// BalancePoint is one point of the running-balance curve.
type BalancePoint struct {
	Date    string          `json:"date" yaml:"date"`
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
}

// MonthSummary is the privacy-safe overview of the latest month.
type MonthSummary struct {
	Month          string          `json:"month" yaml:"month"`
	Income         decimal.Decimal `json:"income" yaml:"income"`
	Expenses       decimal.Decimal `json:"expenses" yaml:"expenses"`
	Disposable     decimal.Decimal `json:"disposable" yaml:"disposable"`
	CurrentBalance decimal.Decimal `json:"currentBalance" yaml:"currentBalance"`
	TopCategories  []CategoryTotal `json:"topCategories" yaml:"topCategories"`
	BiggestExpense *Transaction    `json:"biggestExpense" yaml:"biggestExpense"`
}
