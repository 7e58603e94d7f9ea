// Package report renders aggregate views of the ledger as text tables, JSON or YAML.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"fjacquet/budget-csv/internal/currencyutils"
	"fjacquet/budget-csv/internal/logging"
	"fjacquet/budget-csv/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is one aggregate view. Headers and Rows drive the text rendering; Data is
// encoded as-is for JSON and YAML.
type Report struct {
	Title   string
	Headers []string
	Rows    [][]string
	Data    interface{}
}

// ReportGenerator renders reports in the supported formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{logger: logger}
}

// GenerateReport renders the report in the given format (text, json or yaml).
func (g *ReportGenerator) GenerateReport(report *Report, format string) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("cannot render nil report")
	}
	switch strings.ToLower(format) {
	case FormatText, "":
		return g.generateTextReport(report)
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatYAML, "yml":
		return g.generateYAMLReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateTextReport(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if report.Title != "" {
		fmt.Fprintf(&buf, "%s\n\n", report.Title)
	}
	if len(report.Rows) == 0 {
		buf.WriteString("No data.\n")
		return buf.Bytes(), nil
	}

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	if len(report.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(report.Headers, "\t"))
	}
	for _, row := range report.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) generateJSONReport(report *Report) ([]byte, error) {
	jsonReport, err := json.MarshalIndent(report.Data, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(jsonReport, '\n'), nil
}

func (g *ReportGenerator) generateYAMLReport(report *Report) ([]byte, error) {
	yamlReport, err := yaml.Marshal(report.Data)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return yamlReport, nil
}

func money(d decimal.Decimal, currency string) string {
	return currencyutils.FormatAmount(d, currency)
}

// MonthlyReport lists income, expenses and net per month.
func MonthlyReport(stats []models.MonthlyStats, currency string) *Report {
	rows := make([][]string, 0, len(stats))
	for _, m := range stats {
		rows = append(rows, []string{
			m.Month,
			money(m.Income, currency),
			money(m.Expenses, currency),
			money(m.Net(), currency),
		})
	}
	if stats == nil {
		stats = []models.MonthlyStats{}
	}
	return &Report{
		Title:   "Monthly overview",
		Headers: []string{"MONTH", "INCOME", "EXPENSES", "NET"},
		Rows:    rows,
		Data:    stats,
	}
}

// InsightsReport shows the biggest deposit, biggest withdrawal and current balance.
func InsightsReport(insights models.Insights, currency string) *Report {
	describe := func(t *models.Transaction) string {
		if t == nil {
			return "-"
		}
		return fmt.Sprintf("%s %s (%s)", t.Date, t.Text, money(t.Amount, currency))
	}
	return &Report{
		Title:   "Insights",
		Headers: []string{"METRIC", "VALUE"},
		Rows: [][]string{
			{"Biggest deposit", describe(insights.BiggestDeposit)},
			{"Biggest withdrawal", describe(insights.BiggestWithdrawal)},
			{"Current balance", money(insights.CurrentBalance, currency)},
		},
		Data: insights,
	}
}

// CategoryReport lists expense totals per category with their share.
func CategoryReport(totals []models.CategoryTotal, currency string) *Report {
	rows := make([][]string, 0, len(totals))
	for _, c := range totals {
		rows = append(rows, []string{c.Category, money(c.Amount, currency), c.Percentage.StringFixed(2) + "%"})
	}
	if totals == nil {
		totals = []models.CategoryTotal{}
	}
	return &Report{
		Title:   "Spending by category",
		Headers: []string{"CATEGORY", "AMOUNT", "SHARE"},
		Rows:    rows,
		Data:    totals,
	}
}

// LabelReport lists label totals, such as top merchants or daily spending.
func LabelReport(title, labelHeader string, totals []models.LabelTotal, currency string) *Report {
	rows := make([][]string, 0, len(totals))
	for _, l := range totals {
		rows = append(rows, []string{l.Label, money(l.Amount, currency)})
	}
	if totals == nil {
		totals = []models.LabelTotal{}
	}
	return &Report{
		Title:   title,
		Headers: []string{strings.ToUpper(labelHeader), "AMOUNT"},
		Rows:    rows,
		Data:    totals,
	}
}

// BalanceReport lists the running balance per transaction date.
func BalanceReport(points []models.BalancePoint, currency string) *Report {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Date, money(p.Balance, currency)})
	}
	if points == nil {
		points = []models.BalancePoint{}
	}
	return &Report{
		Title:   "Balance trend",
		Headers: []string{"DATE", "BALANCE"},
		Rows:    rows,
		Data:    points,
	}
}

// SummaryReport describes the latest month.
func SummaryReport(summary models.MonthSummary, currency string) *Report {
	rows := [][]string{
		{"Month", summary.Month},
		{"Income", money(summary.Income, currency)},
		{"Expenses", money(summary.Expenses, currency)},
		{"Disposable", money(summary.Disposable, currency)},
		{"Current balance", money(summary.CurrentBalance, currency)},
	}
	for i, c := range summary.TopCategories {
		rows = append(rows, []string{
			fmt.Sprintf("Top category %d", i+1),
			fmt.Sprintf("%s (%s)", c.Category, money(c.Amount, currency)),
		})
	}
	if summary.BiggestExpense != nil {
		rows = append(rows, []string{
			"Biggest expense",
			fmt.Sprintf("%s %s (%s)", summary.BiggestExpense.Date, summary.BiggestExpense.Text,
				money(summary.BiggestExpense.Amount, currency)),
		})
	}
	if summary.Month == "" {
		rows = nil
	}
	return &Report{
		Title:   "Current month",
		Headers: []string{"METRIC", "VALUE"},
		Rows:    rows,
		Data:    summary,
	}
}

// TransactionsReport lists transactions in ledger order.
func TransactionsReport(txs []models.Transaction) *Report {
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		balance := ""
		if t.HasBalance() {
			balance = t.Balance.StringFixed(2)
		}
		rows = append(rows, []string{t.ID, t.Date, t.Text, money(t.Amount, t.Currency), t.Category, balance})
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return &Report{
		Title:   fmt.Sprintf("Transactions (%d)", len(txs)),
		Headers: []string{"ID", "DATE", "TEXT", "AMOUNT", "CATEGORY", "BALANCE"},
		Rows:    rows,
		Data:    txs,
	}
}

// FilesReport lists the uploaded-file manifest.
func FilesReport(files []models.UploadedFile) *Report {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.ID, f.Name, f.Date.Format("2006-01-02 15:04"), fmt.Sprintf("%d", f.Count)})
	}
	if files == nil {
		files = []models.UploadedFile{}
	}
	return &Report{
		Title:   "Uploaded files",
		Headers: []string{"ID", "NAME", "IMPORTED", "TRANSACTIONS"},
		Rows:    rows,
		Data:    files,
	}
}

// RulesReport lists the user category rules in match order.
func RulesReport(rules []models.CategoryRule) *Report {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{r.TextPattern, r.Category, r.ID})
	}
	if rules == nil {
		rules = []models.CategoryRule{}
	}
	return &Report{
		Title:   "Category rules",
		Headers: []string{"PATTERN", "CATEGORY", "ID"},
		Rows:    rows,
		Data:    rules,
	}
}
