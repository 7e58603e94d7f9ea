// Package analytics derives monthly totals, insights and chart series from a
// transaction set. Every function is pure and deterministic: ties are broken by
// input order or by key.
package analytics

import (
	"sort"

	"fjacquet/budget-csv/internal/dateutils"
	"fjacquet/budget-csv/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MonthlyStats groups transactions by YYYY-MM. Positive amounts add to income, all
// others add their absolute value to expenses. The result is sorted by month.
func MonthlyStats(txs []models.Transaction) []models.MonthlyStats {
	byMonth := make(map[string]*models.MonthlyStats)
	for _, t := range txs {
		month := dateutils.MonthKey(t.Date)
		stats, ok := byMonth[month]
		if !ok {
			stats = &models.MonthlyStats{Month: month, Income: decimal.Zero, Expenses: decimal.Zero}
			byMonth[month] = stats
		}
		if t.IsIncome() {
			stats.Income = stats.Income.Add(t.Amount)
		} else {
			stats.Expenses = stats.Expenses.Add(t.Amount.Abs())
		}
	}

	out := make([]models.MonthlyStats, 0, len(byMonth))
	for _, s := range byMonth {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ComputeInsights finds the largest deposit and withdrawal (first occurrence wins on
// ties) and the balance of the latest-dated transaction that carries one (earliest in
// input order wins on equal dates). An empty set yields nil, nil and zero.
func ComputeInsights(txs []models.Transaction) models.Insights {
	insights := models.Insights{CurrentBalance: decimal.Zero}

	var latest *models.Transaction
	for i := range txs {
		t := &txs[i]
		if insights.BiggestDeposit == nil || t.Amount.GreaterThan(insights.BiggestDeposit.Amount) {
			insights.BiggestDeposit = t
		}
		if insights.BiggestWithdrawal == nil || t.Amount.LessThan(insights.BiggestWithdrawal.Amount) {
			insights.BiggestWithdrawal = t
		}
		if t.HasBalance() && (latest == nil || dateutils.CompareDates(t.Date, latest.Date) > 0) {
			latest = t
		}
	}

	if insights.BiggestDeposit != nil {
		deposit := insights.BiggestDeposit.Clone()
		insights.BiggestDeposit = &deposit
	}
	if insights.BiggestWithdrawal != nil {
		withdrawal := insights.BiggestWithdrawal.Clone()
		insights.BiggestWithdrawal = &withdrawal
	}
	if latest != nil {
		insights.CurrentBalance = *latest.Balance
	}
	return insights
}

// CategoryBreakdown totals expenses per category, skipping uncategorized ones, with
// each category's share of the total in percent. Sorted by amount, largest first.
func CategoryBreakdown(txs []models.Transaction) []models.CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.IsExpense() && t.Category != "" {
			totals[t.Category] = totals[t.Category].Add(t.Amount.Abs())
		}
	}
	return withPercentages(totals)
}

// TopExpenses totals expenses by transaction text and returns the n largest. A
// non-positive n returns every group.
func TopExpenses(txs []models.Transaction, n int) []models.LabelTotal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		key := t.Text
		if key == "" {
			key = models.DefaultText
		}
		totals[key] = totals[key].Add(t.Amount.Abs())
	}

	out := sortedLabelTotals(totals)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DailySpending totals expenses per date, in date order.
func DailySpending(txs []models.Transaction) []models.LabelTotal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.IsExpense() {
			totals[t.Date] = totals[t.Date].Add(t.Amount.Abs())
		}
	}

	out := make([]models.LabelTotal, 0, len(totals))
	for date, amount := range totals {
		out = append(out, models.LabelTotal{Label: date, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return dateutils.CompareDates(out[i].Label, out[j].Label) < 0 })
	return out
}

// BalanceTrend returns one point per transaction that carries a balance, in date
// order; transactions on the same date keep their input order.
func BalanceTrend(txs []models.Transaction) []models.BalancePoint {
	points := make([]models.BalancePoint, 0, len(txs))
	for _, t := range txs {
		if t.HasBalance() {
			points = append(points, models.BalancePoint{Date: t.Date, Balance: *t.Balance})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return dateutils.CompareDates(points[i].Date, points[j].Date) < 0 })
	return points
}

// CurrentMonthSummary summarizes the latest month present: its income and expenses,
// what is left, the three largest expense categories (uncategorized counts as Other)
// and the single largest expense. CurrentBalance covers the whole set.
func CurrentMonthSummary(txs []models.Transaction) models.MonthSummary {
	summary := models.MonthSummary{
		Income:         decimal.Zero,
		Expenses:       decimal.Zero,
		Disposable:     decimal.Zero,
		CurrentBalance: ComputeInsights(txs).CurrentBalance,
		TopCategories:  []models.CategoryTotal{},
	}

	monthly := MonthlyStats(txs)
	if len(monthly) == 0 {
		return summary
	}
	current := monthly[len(monthly)-1]
	summary.Month = current.Month
	summary.Income = current.Income
	summary.Expenses = current.Expenses
	summary.Disposable = current.Net()

	totals := make(map[string]decimal.Decimal)
	var biggest *models.Transaction
	for i := range txs {
		t := &txs[i]
		if dateutils.MonthKey(t.Date) != current.Month || !t.IsExpense() {
			continue
		}
		category := t.Category
		if category == "" {
			category = models.CategoryOther
		}
		totals[category] = totals[category].Add(t.Amount.Abs())
		if biggest == nil || t.Amount.LessThan(biggest.Amount) {
			biggest = t
		}
	}

	top := withPercentages(totals)
	if len(top) > 3 {
		top = top[:3]
	}
	summary.TopCategories = top
	if biggest != nil {
		b := biggest.Clone()
		summary.BiggestExpense = &b
	}
	return summary
}

func withPercentages(totals map[string]decimal.Decimal) []models.CategoryTotal {
	grand := decimal.Zero
	for _, amount := range totals {
		grand = grand.Add(amount)
	}

	out := make([]models.CategoryTotal, 0, len(totals))
	for _, lt := range sortedLabelTotals(totals) {
		pct := decimal.Zero
		if grand.IsPositive() {
			pct = lt.Amount.Mul(hundred).Div(grand).Round(2)
		}
		out = append(out, models.CategoryTotal{Category: lt.Label, Amount: lt.Amount, Percentage: pct})
	}
	return out
}

// sortedLabelTotals orders by amount descending, then label ascending.
func sortedLabelTotals(totals map[string]decimal.Decimal) []models.LabelTotal {
	out := make([]models.LabelTotal, 0, len(totals))
	for label, amount := range totals {
		out = append(out, models.LabelTotal{Label: label, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Label < out[j].Label
	})
	return out
}
