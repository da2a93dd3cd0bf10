// Package currencyutils provides cleaning and parsing of currency cell
// values from statement exports.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CleanAmount strips the currency symbol and thousands separators from a raw
// cell value, leaving something decimal.NewFromString can parse.
func CleanAmount(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	// Accounting exports sometimes wrap negatives in parentheses.
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	return cleaned
}

// ParseAmount parses a required currency cell into an exact decimal.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := CleanAmount(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}

// ParseOptionalAmount parses a currency cell that may legitimately be blank.
// A blank cell parses to an invalid NullDecimal rather than zero, so callers
// can tell "no value" apart from an actual zero when resolving signs.
func ParseOptionalAmount(raw string) (decimal.NullDecimal, error) {
	cleaned := CleanAmount(raw)
	if cleaned == "" {
		return decimal.NullDecimal{}, nil
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return decimal.NullDecimal{Decimal: amount, Valid: true}, nil
}
