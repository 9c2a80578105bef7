// Package report converts the analysis engine's text report into a
// types.ParsedReport.
//
// The report is a sequence of sections opened by marker lines
// ("TOP RECOMMENDED TRADE", "STRATEGY OVERVIEW & RISK", "PRICING COMPARISON",
// "TOP 5 COMBINATIONS"). Lines before the first marker are ignored, and a
// "No valid strategies found" line anywhere replaces the whole result with
// the no-results report.
//
// Parsing is not self-composable: the joined section text carries no markers,
// so feeding it back through Parse yields empty sections.
package report

import (
	"fmt"
	"strings"

	"vegaedge/internal/types"
)

// Parse segments report text into sections and ranked rows. It never fails;
// unrecognised content is dropped.
func Parse(text string) types.ParsedReport {
	var s segmenter
	for _, line := range strings.Split(text, "\n") {
		if !s.feed(line) {
			break
		}
	}
	return s.result()
}

// NoResults is the fixed report returned when the engine found nothing.
func NoResults() types.ParsedReport {
	return types.ParsedReport{
		Summary: NoResultsMessage,
		Top5:    []types.TradeRow{},
	}
}

// Failed is the degenerate report shown when the engine itself errored.
func Failed(err error) types.ParsedReport {
	return types.ParsedReport{
		Summary: fmt.Sprintf("Analysis Error: %v", err),
		Top5:    []types.TradeRow{},
	}
}

// IsNoResults reports whether r is the no-results report.
func IsNoResults(r types.ParsedReport) bool {
	return r.Summary == NoResultsMessage && len(r.Top5) == 0
}
