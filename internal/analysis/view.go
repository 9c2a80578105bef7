package analysis

import "vegaedge/internal/types"

// BuildView splits ranked rows into the first topCount and the following rows
// up to displayLimit. Rows past displayLimit are not shown.
func BuildView(rows []types.TradeRow, topCount, displayLimit int) types.AnalysisView {
	topCount = max(topCount, 0)
	if displayLimit < topCount {
		displayLimit = topCount
	}
	top := min(topCount, len(rows))
	end := min(displayLimit, len(rows))

	view := types.AnalysisView{
		TopResults:  append([]types.TradeRow{}, rows[:top]...),
		NextResults: []types.TradeRow{},
	}
	if end > top {
		view.NextResults = append(view.NextResults, rows[top:end]...)
	}
	return view
}
