package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vegaedge/internal/types"
)

func TestParseSections(t *testing.T) {
	got := Parse(sampleReport)

	assert.Equal(t, "Expiration: 2025-11-21 (151 days)\n"+
		"Strikes: Long Call: $22.50, Short Put: $17.50\n"+
		"Net Cost: $0.20 DEBIT\n"+
		"Breakeven: $22.70", got.Summary)
	assert.Equal(t, "A Bullish Risk Reversal (Long OTM Call, Short OTM Put) creates a synthetic long stock position.\n"+
		"If the stock price falls below $17.50, you may be assigned 100 shares per contract.", got.Risk)
	assert.Equal(t, "Current Method (Worst-case): $0.20 DEBIT\n"+
		"Mid-Price Method (Robinhood likely): $-0.10 CREDIT", got.PricingComparison)

	require.Len(t, got.Top5, 3)
	assert.Equal(t, types.TradeRow{
		Rank: "1", Expiration: "2025-11-21", Strikes: "$22.50/$17.50",
		NetCost: "$0.20 DB", NetVega: "0.005", Efficiency: "-4.0%", Score: "0.973",
	}, got.Top5[0])
	assert.Equal(t, "2", got.Top5[1].Rank)
	assert.Equal(t, "$0.40 CR", got.Top5[2].NetCost)
}

func TestParseNoResultsOverridesEverything(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"alone", "No valid strategies found"},
		{"after sections", sampleReport + "\nNo valid strategies found for SRPT in 100-500 DTE\n"},
		{"before sections", "No valid strategies found.\n" + sampleReport},
		{"inside table", strings.Replace(sampleReport, "2 | 2026-01-16", "No valid strategies found\n2 | 2026-01-16", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			assert.Equal(t, NoResults(), got)
			assert.Equal(t, NoResultsMessage, got.Summary)
			assert.Empty(t, got.Risk)
			assert.Empty(t, got.PricingComparison)
			assert.Empty(t, got.Top5)
		})
	}
}

func TestParseNoResultsMarkerIsCaseSensitive(t *testing.T) {
	text := "TOP RECOMMENDED TRADE\nno valid strategies found\n"
	got := Parse(text)
	assert.Equal(t, "no valid strategies found", got.Summary)
}

func TestParseMarkersAreCaseInsensitive(t *testing.T) {
	text := "top recommended trade\nline a\nPricing Comparison\nline b\n"
	got := Parse(text)
	assert.Equal(t, "line a", got.Summary)
	assert.Equal(t, "line b", got.PricingComparison)
}

func TestParseRiskMarkerWinsOverLaterMarkers(t *testing.T) {
	// "RISK" is checked before "TOP 5 COMBINATIONS", so this opens the risk section.
	got := Parse("TOP 5 COMBINATIONS BY RISK\n1 | a | b | c | d | e | f\n")
	assert.Empty(t, got.Top5)
	assert.Equal(t, "1 | a | b | c | d | e | f", got.Risk)
}

func TestParseEmptyInput(t *testing.T) {
	for _, text := range []string{"", "\n\n   \n\t\n"} {
		got := Parse(text)
		assert.Empty(t, got.Summary)
		assert.Empty(t, got.Risk)
		assert.Empty(t, got.PricingComparison)
		assert.NotNil(t, got.Top5)
		assert.Empty(t, got.Top5)
	}
}

func TestParseDiscardsLinesBeforeFirstMarker(t *testing.T) {
	got := Parse("preamble\n1 | a | b | c | d | e | f\n")
	assert.Equal(t, types.ParsedReport{Top5: []types.TradeRow{}}, got)
}

func TestParseHandlesCRLF(t *testing.T) {
	got := Parse(strings.ReplaceAll(sampleReport, "\n", "\r\n"))
	assert.Len(t, got.Top5, 3)
	assert.NotContains(t, got.Summary, "\r")
}

func TestParseIsNotSelfComposable(t *testing.T) {
	first := Parse(sampleReport)
	again := Parse(first.Summary + "\n" + first.Risk + "\n" + first.PricingComparison)

	// Without the section headers the summary and pricing lines land in the
	// NONE section and are discarded. The risk text only survives because
	// its own prose happens to contain "Risk".
	assert.Empty(t, again.Summary)
	assert.Empty(t, again.PricingComparison)
	assert.Empty(t, again.Top5)
}

func TestFailed(t *testing.T) {
	got := Failed(errors.New("backend unreachable"))
	assert.Equal(t, "Analysis Error: backend unreachable", got.Summary)
	assert.Empty(t, got.Risk)
	assert.Empty(t, got.PricingComparison)
	assert.Empty(t, got.Top5)
}
