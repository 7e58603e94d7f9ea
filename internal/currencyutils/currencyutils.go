// Package currencyutils normalizes amount cells from bank-statement exports into decimals.
//
// Danish and most continental exports write "1.234,50" for 1234.50 and mark debits
// with a trailing minus ("6500,00-"). Cells may still carry the quote characters of
// the CSV they were cut from.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StandardizeAmount rewrites a raw amount cell into the canonical form accepted by
// decimal.NewFromString. It never fails; the result may still be unparseable.
func StandardizeAmount(raw string) string {
	amountStr := strings.ReplaceAll(raw, `"`, "")
	if strings.TrimSpace(amountStr) == "" {
		return "0"
	}

	negative := false
	trimmed := strings.TrimSpace(amountStr)
	if strings.HasSuffix(trimmed, "-") {
		negative = true
		amountStr = strings.TrimSpace(strings.TrimSuffix(trimmed, "-"))
	}

	hasComma := strings.Contains(amountStr, ",")
	hasDot := strings.Contains(amountStr, ".")
	switch {
	case hasComma && hasDot:
		// 1.234,50: dots group thousands, the comma is the decimal point
		amountStr = strings.ReplaceAll(amountStr, ".", "")
		amountStr = strings.Replace(amountStr, ",", ".", 1)
	case hasComma:
		amountStr = strings.Replace(amountStr, ",", ".", 1)
	}

	if negative {
		amountStr = "-" + amountStr
	}
	return strings.TrimSpace(amountStr)
}

// ParseAmount standardizes raw and parses it, reporting unparseable input.
func ParseAmount(raw string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(raw)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", raw, err)
	}
	return amount, nil
}

// NormalizeAmount is ParseAmount with unparseable input coerced to zero.
// It is idempotent on its own canonical output.
func NormalizeAmount(raw string) decimal.Decimal {
	amount, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// FormatAmount renders an amount with two decimals followed by the currency code,
// e.g. "-6500.00 DKK".
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)
	if currency == "" {
		return formatted
	}
	return formatted + " " + strings.ToUpper(currency)
}
