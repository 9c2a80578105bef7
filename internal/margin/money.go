package margin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	errNoStrikeSeparator = errors.New("strikes: missing '/' separator")
	errStrikeCount       = errors.New("strikes: expected exactly two values")
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders d as "$1,234.56".
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg())
	}
	return printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// parseDollars parses "$22.50" (symbol and surrounding space optional).
func parseDollars(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(strings.ReplaceAll(s, "$", ""))
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// ParseStrikes splits "$H/$L" into the call and put strikes. The higher value
// is always taken as the call (see CallIsHigherStrike).
func ParseStrikes(s string) (call, put decimal.Decimal, err error) {
	if !strings.Contains(s, "/") {
		return decimal.Zero, decimal.Zero, errNoStrikeSeparator
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return decimal.Zero, decimal.Zero, errStrikeCount
	}
	a, err := parseDollars(parts[0])
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	b, err := parseDollars(parts[1])
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return decimal.Max(a, b), decimal.Min(a, b), nil
}

// ParseNetCost reads "$0.20 DB" / "$0.40 CR". An empty remainder is zero.
// With signed set, credits come back negative; otherwise the magnitude is
// returned for both.
func ParseNetCost(s string, signed bool) (decimal.Decimal, error) {
	credit := strings.Contains(s, "CR")
	v := strings.NewReplacer("$", "", "DB", "", "CR", "").Replace(s)
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse net cost %q: %w", s, err)
	}
	if signed && credit {
		d = d.Abs().Neg()
	}
	return d, nil
}
