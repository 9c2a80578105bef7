package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StrategySide selects which risk reversal the engine analyzes.
type StrategySide string

const (
	Bullish StrategySide = "Bullish"
	Bearish StrategySide = "Bearish"
)

// ParseStrategySide accepts the side in any case ("bullish", "BEARISH", ...).
func ParseStrategySide(s string) (StrategySide, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullish":
		return Bullish, true
	case "bearish":
		return Bearish, true
	}
	return "", false
}

// Slug is the lower-case form used in backend paths and file names.
func (s StrategySide) Slug() string { return strings.ToLower(string(s)) }

// Section identifies the report section a line belongs to.
type Section int

const (
	SectionNone Section = iota
	SectionSummary
	SectionRisk
	SectionPricing
	SectionTop5
)

func (s Section) String() string {
	switch s {
	case SectionSummary:
		return "SUMMARY"
	case SectionRisk:
		return "RISK"
	case SectionPricing:
		return "PRICING"
	case SectionTop5:
		return "TOP5"
	default:
		return "NONE"
	}
}

// TradeRowWidth is the number of columns in a ranked-combination row.
const TradeRowWidth = 7

// TradeRow is one ranked combination exactly as the report displays it.
type TradeRow struct {
	Rank       string
	Expiration string
	Strikes    string
	NetCost    string
	NetVega    string
	Efficiency string
	Score      string
}

// NewTradeRow builds a row from the first TradeRowWidth cells.
func NewTradeRow(cells []string) TradeRow {
	return TradeRow{
		Rank:       cells[0],
		Expiration: cells[1],
		Strikes:    cells[2],
		NetCost:    cells[3],
		NetVega:    cells[4],
		Efficiency: cells[5],
		Score:      cells[6],
	}
}

// Cells returns the row in column order.
func (r TradeRow) Cells() [TradeRowWidth]string {
	return [TradeRowWidth]string{r.Rank, r.Expiration, r.Strikes, r.NetCost, r.NetVega, r.Efficiency, r.Score}
}

// MarshalJSON encodes the row as a 7-element array, the shape UI clients expect.
func (r TradeRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Cells())
}

// TradeRowHeaders are the column titles in Cells order.
var TradeRowHeaders = [TradeRowWidth]string{"Rank", "Expiration", "Strikes", "Net Cost", "Net Vega", "Efficiency", "Score"}

// ParsedReport is the structured form of one engine report.
type ParsedReport struct {
	Summary           string     `json:"summary"`
	Risk              string     `json:"risk"`
	PricingComparison string     `json:"pricing_comparison"`
	Top5              []TradeRow `json:"top_5"`
}

// MarginEstimate is the approximate Reg-T margin for the top-ranked trade.
type MarginEstimate struct {
	Available bool   `json:"available"`
	Value     string `json:"value"` // "$454.00" or "N/A"
	Text      string `json:"text"`  // full display line

	Amount          decimal.Decimal `json:"amount"`
	CallStrike      decimal.Decimal `json:"call_strike"`
	PutStrike       decimal.Decimal `json:"put_strike"`
	NetCost         decimal.Decimal `json:"net_cost"`
	UnderlyingPrice decimal.Decimal `json:"underlying_price"`
	FromBreakeven   bool            `json:"from_breakeven"`
}

// AnalysisRequest is the input the engine needs to produce a report.
type AnalysisRequest struct {
	Ticker string       `json:"ticker" validate:"required,ticker"`
	MinDTE int          `json:"min_dte" validate:"gte=0"`
	MaxDTE int          `json:"max_dte" validate:"gte=0,gtefield=MinDTE"`
	Side   StrategySide `json:"side" validate:"oneof=Bullish Bearish"`
}

// AnalysisView splits the ranked rows the way the results tab shows them.
type AnalysisView struct {
	TopResults  []TradeRow `json:"top_results"`
	NextResults []TradeRow `json:"next_results"`
}

// AnalysisResult is everything produced by one analysis run.
type AnalysisResult struct {
	ID          string          `json:"id"`
	Request     AnalysisRequest `json:"request"`
	Report      ParsedReport    `json:"report"`
	Margin      MarginEstimate  `json:"margin"`
	View        AnalysisView    `json:"view"`
	NoResults   bool            `json:"no_results"`
	EngineError string          `json:"engine_error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	Duration    time.Duration   `json:"duration_ns"`
}
