// Package margin estimates the Reg-T margin impact of the top-ranked risk
// reversal using only the strings the report displays.
package margin

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"vegaedge/internal/types"
)

// CallIsHigherStrike records the structural assumption behind ParseStrikes:
// of the two strikes in a row, the higher is the long call and the lower is
// the short put. It is not derived from the report.
const CallIsHigherStrike = true

const (
	// UnavailableValue is shown when no estimate can be made.
	UnavailableValue = "N/A"
	// Note explains what the figure approximates.
	Note = "(IBKR RegT est. for risk reversal: short call margin)"
)

var (
	breakevenPattern = regexp.MustCompile(`Breakeven: \$([0-9.]+)`)

	contractMultiplier = decimal.NewFromInt(100)
	basePct            = decimal.RequireFromString("0.20")
	minimumPct         = decimal.RequireFromString("0.10")
)

// Options tunes how display strings are interpreted.
type Options struct {
	// SignedNetCost restores the debit/credit sign on NetCost (credit negative).
	SignedNetCost bool
}

// Estimator computes margin estimates. The zero value is ready to use.
type Estimator struct {
	opts Options
}

// NewEstimator returns an Estimator with the given options.
func NewEstimator(opts Options) *Estimator {
	return &Estimator{opts: opts}
}

// Estimate uses the report's first row and summary. It never fails: any
// parse problem yields the unavailable estimate.
func (e *Estimator) Estimate(r types.ParsedReport) types.MarginEstimate {
	if len(r.Top5) == 0 {
		return Unavailable()
	}
	est, err := e.compute(r.Top5[0], r.Summary)
	if err != nil {
		return Unavailable()
	}
	return est
}

// Estimate is Estimator.Estimate with default options.
func Estimate(r types.ParsedReport) types.MarginEstimate {
	var e Estimator
	return e.Estimate(r)
}

// Unavailable is the estimate shown when there is nothing to compute from.
func Unavailable() types.MarginEstimate {
	return types.MarginEstimate{
		Value: UnavailableValue,
		Text:  "Margin Impact: " + UnavailableValue,
	}
}

func (e *Estimator) compute(row types.TradeRow, summary string) (types.MarginEstimate, error) {
	callStrike, putStrike, err := ParseStrikes(row.Strikes)
	if err != nil {
		return types.MarginEstimate{}, err
	}
	netCost, err := ParseNetCost(row.NetCost, e.opts.SignedNetCost)
	if err != nil {
		return types.MarginEstimate{}, err
	}
	underlying, fromBreakeven, err := underlyingPrice(summary, callStrike, putStrike)
	if err != nil {
		return types.MarginEstimate{}, err
	}

	amount := ShortCallMargin(decimal.Zero, underlying, callStrike)
	value := FormatMoney(amount)
	return types.MarginEstimate{
		Available:       true,
		Value:           value,
		Text:            fmt.Sprintf("Margin Impact: %s %s", value, Note),
		Amount:          amount,
		CallStrike:      callStrike,
		PutStrike:       putStrike,
		NetCost:         netCost,
		UnderlyingPrice: underlying,
		FromBreakeven:   fromBreakeven,
	}, nil
}

// underlyingPrice uses the summary's breakeven as a proxy for the stock
// price, falling back to the strike midpoint.
func underlyingPrice(summary string, callStrike, putStrike decimal.Decimal) (decimal.Decimal, bool, error) {
	if m := breakevenPattern.FindStringSubmatch(summary); m != nil {
		d, err := decimal.NewFromString(m[1])
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("parse breakeven %q: %w", m[1], err)
		}
		return d, true, nil
	}
	return callStrike.Add(putStrike).Div(decimal.NewFromInt(2)), false, nil
}

// ShortCallMargin applies the Reg-T short call formula per contract:
//
//	premium*100 + max((20% of underlying - OTM amount)*100, 10% of underlying*100)
func ShortCallMargin(callPrice, underlying, callStrike decimal.Decimal) decimal.Decimal {
	otm := decimal.Max(decimal.Zero, callStrike.Sub(underlying))
	base := basePct.Mul(underlying).Sub(otm).Mul(contractMultiplier)
	floor := minimumPct.Mul(underlying).Mul(contractMultiplier)
	return callPrice.Mul(contractMultiplier).Add(decimal.Max(base, floor))
}
