package report

import (
	"strings"

	"vegaedge/internal/types"
)

// NoResultsMarker ends a parse immediately. Unlike the section markers it is
// matched case-sensitively.
const NoResultsMarker = "No valid strategies found"

// NoResultsMessage is the summary placed in the sentinel report.
const NoResultsMessage = "No valid strategies found for these parameters."

// sectionMarkers are checked in order against the upper-cased line.
var sectionMarkers = []struct {
	phrases []string
	section types.Section
}{
	{[]string{"TOP RECOMMENDED TRADE"}, types.SectionSummary},
	{[]string{"STRATEGY OVERVIEW", "RISK"}, types.SectionRisk},
	{[]string{"PRICING COMPARISON"}, types.SectionPricing},
	{[]string{"TOP 5 COMBINATIONS"}, types.SectionTop5},
}

// classify reports whether line is a section marker and which section it opens.
func classify(line string) (types.Section, bool) {
	upper := strings.ToUpper(line)
	for _, m := range sectionMarkers {
		for _, p := range m.phrases {
			if strings.Contains(upper, p) {
				return m.section, true
			}
		}
	}
	return types.SectionNone, false
}

// segmenter accumulates lines per section in a single forward pass.
type segmenter struct {
	current   types.Section
	summary   []string
	risk      []string
	pricing   []string
	rows      []types.TradeRow
	noResults bool
}

// feed consumes one raw line. It returns false once the no-results marker
// has been seen; callers must stop feeding at that point.
func (s *segmenter) feed(raw string) bool {
	line := strings.TrimSpace(raw)
	if line == "" {
		return true
	}
	if sec, ok := classify(line); ok {
		s.current = sec
		return true
	}
	if strings.Contains(line, NoResultsMarker) {
		s.noResults = true
		return false
	}

	switch s.current {
	case types.SectionSummary:
		s.summary = append(s.summary, line)
	case types.SectionRisk:
		s.risk = append(s.risk, line)
	case types.SectionPricing:
		s.pricing = append(s.pricing, line)
	case types.SectionTop5:
		if row, ok := ExtractRow(line); ok {
			s.rows = append(s.rows, row)
		}
	}
	return true
}

func (s *segmenter) result() types.ParsedReport {
	if s.noResults {
		return NoResults()
	}
	rows := s.rows
	if rows == nil {
		rows = []types.TradeRow{}
	}
	return types.ParsedReport{
		Summary:           strings.Join(s.summary, "\n"),
		Risk:              strings.Join(s.risk, "\n"),
		PricingComparison: strings.Join(s.pricing, "\n"),
		Top5:              rows,
	}
}
