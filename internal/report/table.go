package report

import (
	"strings"

	"vegaedge/internal/types"
)

const (
	cellSeparator = "|"
	ruleSeparator = "---"
)

// ExtractRow turns one line of the ranked-combinations table into a TradeRow.
// Borders, the column header and rows with fewer than seven non-empty cells
// yield ok == false. Cells past the seventh are dropped.
func ExtractRow(line string) (types.TradeRow, bool) {
	if !strings.Contains(line, cellSeparator) {
		return types.TradeRow{}, false
	}
	if strings.HasPrefix(strings.TrimSpace(line), ruleSeparator) {
		return types.TradeRow{}, false
	}
	if isHeader(line) {
		return types.TradeRow{}, false
	}

	cells := make([]string, 0, types.TradeRowWidth)
	for _, part := range strings.Split(line, cellSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			cells = append(cells, p)
		}
	}
	if len(cells) < types.TradeRowWidth {
		return types.TradeRow{}, false
	}
	return types.NewTradeRow(cells[:types.TradeRowWidth]), true
}

func isHeader(line string) bool {
	upper := strings.ToUpper(line)
	return strings.Contains(upper, "RANK") && strings.Contains(upper, "EXPIRATION")
}
