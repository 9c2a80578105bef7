package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vegaedge/internal/history"
	"vegaedge/internal/metrics"
	"vegaedge/internal/types"
)

const srptReport = `=== TOP RECOMMENDED TRADE ===
Strikes: Long Call: $22.50, Short Put: $17.50
Breakeven: $22.70

=== STRATEGY OVERVIEW & RISK ===
Assignment below $17.50.

=== PRICING COMPARISON ===
Mid-Price Method: $-0.10 CREDIT

=== TOP 5 COMBINATIONS ===
Rank | Expiration | Strikes | Net Cost | Net Vega | Efficiency | Score
1 | 2025-11-21 | $22.50/$17.50 | $0.20 DB | 0.005 | -4.0% | 0.973
2 | 2026-01-16 | $25.00/$17.50 | $0.30 DB | 0.007 | -8.0% | 0.664
`

type fakeEngine struct {
	mu    sync.Mutex
	text  map[types.StrategySide]string
	err   error
	calls []types.AnalysisRequest
	block bool
}

func (f *fakeEngine) Run(ctx context.Context, req types.AnalysisRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text[req.Side], nil
}

func rows(n int) string {
	var b strings.Builder
	b.WriteString("TOP 5 COMBINATIONS\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d | 2026-01-16 | $25.00/$20.00 | $0.10 CR | 0.01 | 1%% | 0.5\n", i)
	}
	return b.String()
}

func TestAnalyzeParsesAndEstimates(t *testing.T) {
	eng := &fakeEngine{text: map[types.StrategySide]string{types.Bullish: srptReport}}
	m := metrics.New()
	svc := NewService(eng, DefaultConfig(), WithMetrics(m))

	res, err := svc.Analyze(context.Background(), types.AnalysisRequest{
		Ticker: " srpt ", MinDTE: 100, MaxDTE: 500, Side: "bullish",
	})
	require.NoError(t, err)

	require.Len(t, eng.calls, 1)
	assert.Equal(t, types.AnalysisRequest{Ticker: "SRPT", MinDTE: 100, MaxDTE: 500, Side: types.Bullish}, eng.calls[0])

	assert.NotEmpty(t, res.ID)
	assert.Contains(t, res.Report.Summary, "Breakeven: $22.70")
	assert.Equal(t, "Assignment below $17.50.", res.Report.Risk)
	require.Len(t, res.Report.Top5, 2)
	assert.True(t, res.Margin.Available)
	assert.Equal(t, "$454.00", res.Margin.Value)
	assert.Len(t, res.View.TopResults, 2)
	assert.Empty(t, res.View.NextResults)
	assert.False(t, res.NoResults)

	n, err := testutil.GatherAndCount(m.Registry(), "vegaedge_analyses_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAnalyzeEngineErrorIsNotReturned(t *testing.T) {
	eng := &fakeEngine{err: errors.New("Backend error: 502")}
	svc := NewService(eng, DefaultConfig())

	res, err := svc.Analyze(context.Background(), types.AnalysisRequest{Ticker: "SPY", MaxDTE: 30, Side: types.Bearish})
	require.NoError(t, err)

	assert.Equal(t, "Analysis Error: Backend error: 502", res.Report.Summary)
	assert.Empty(t, res.Report.Risk)
	assert.Empty(t, res.Report.PricingComparison)
	assert.Empty(t, res.Report.Top5)
	assert.Equal(t, "Backend error: 502", res.EngineError)
	assert.False(t, res.Margin.Available)
	assert.Equal(t, "N/A", res.Margin.Value)
}

func TestAnalyzeTimeout(t *testing.T) {
	eng := &fakeEngine{block: true}
	cfg := DefaultConfig()
	cfg.EngineTimeout = 10 * time.Millisecond
	svc := NewService(eng, cfg)

	res, err := svc.Analyze(context.Background(), types.AnalysisRequest{Ticker: "SPY", MaxDTE: 30, Side: types.Bullish})
	require.NoError(t, err)
	assert.Equal(t, "Analysis Error: analysis timed out", res.Report.Summary)
}

func TestAnalyzeNoResults(t *testing.T) {
	eng := &fakeEngine{text: map[types.StrategySide]string{
		types.Bullish: "TOP RECOMMENDED TRADE\nNo valid strategies found in window\n",
	}}
	svc := NewService(eng, DefaultConfig())

	res, err := svc.Analyze(context.Background(), types.AnalysisRequest{Ticker: "SPY", MaxDTE: 30, Side: types.Bullish})
	require.NoError(t, err)
	assert.True(t, res.NoResults)
	assert.Equal(t, "No valid strategies found for these parameters.", res.Report.Summary)
	assert.Equal(t, "N/A", res.Margin.Value)
}

func TestAnalyzeValidation(t *testing.T) {
	tests := []struct {
		name string
		req  types.AnalysisRequest
		msg  string
	}{
		{"empty ticker", types.AnalysisRequest{Ticker: "  ", MaxDTE: 10, Side: types.Bullish}, "Ticker Symbol cannot be empty."},
		{"bad ticker", types.AnalysisRequest{Ticker: "SP Y", MaxDTE: 10, Side: types.Bullish}, "Ticker Symbol must be 1-10 letters, digits, '.' or '-'."},
		{"negative dte", types.AnalysisRequest{Ticker: "SPY", MinDTE: -1, MaxDTE: 10, Side: types.Bullish}, "DTEs must be non-negative and Min DTE <= Max DTE."},
		{"min above max", types.AnalysisRequest{Ticker: "SPY", MinDTE: 50, MaxDTE: 10, Side: types.Bullish}, "DTEs must be non-negative and Min DTE <= Max DTE."},
		{"unknown side", types.AnalysisRequest{Ticker: "SPY", MaxDTE: 10, Side: "Neutral"}, "Strategy side must be Bullish or Bearish."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &fakeEngine{}
			svc := NewService(eng, DefaultConfig())

			res, err := svc.Analyze(context.Background(), tt.req)
			assert.Nil(t, res)
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.EqualError(t, err, tt.msg)
			assert.Empty(t, eng.calls, "engine must not run for an invalid request")
		})
	}
}

func TestAnalyzeSides(t *testing.T) {
	eng := &fakeEngine{text: map[types.StrategySide]string{
		types.Bullish: srptReport,
		types.Bearish: rows(7),
	}}
	svc := NewService(eng, DefaultConfig())

	results, err := svc.AnalyzeSides(context.Background(),
		types.AnalysisRequest{Ticker: "SRPT", MinDTE: 100, MaxDTE: 500},
		types.Bullish, types.Bearish)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, types.Bullish, results[0].Request.Side)
	assert.Equal(t, types.Bearish, results[1].Request.Side)
	assert.Len(t, results[1].View.TopResults, 5)
	assert.Len(t, results[1].View.NextResults, 2)
}

func TestAnalyzeSidesInvalid(t *testing.T) {
	svc := NewService(&fakeEngine{}, DefaultConfig())
	_, err := svc.AnalyzeSides(context.Background(), types.AnalysisRequest{MaxDTE: 10}, types.Bullish, types.Bearish)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	eng := &fakeEngine{text: map[types.StrategySide]string{types.Bullish: srptReport}}
	svc := NewService(eng, DefaultConfig(), WithHistory(history.New(dir)))

	_, err := svc.Analyze(context.Background(), types.AnalysisRequest{Ticker: "SRPT", MaxDTE: 500, Side: types.Bullish})
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "analyses", "*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	b, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"ticker":"SRPT"`)
	assert.Contains(t, string(b), `"margin":"$454.00"`)
}

func TestEvaluate(t *testing.T) {
	svc := NewService(&fakeEngine{}, DefaultConfig())
	res := svc.Evaluate(types.AnalysisRequest{Ticker: "srpt", Side: types.Bullish}, srptReport)
	assert.Equal(t, "SRPT", res.Request.Ticker)
	assert.Equal(t, "$454.00", res.Margin.Value)
}

func TestBuildView(t *testing.T) {
	r := make([]types.TradeRow, 20)
	for i := range r {
		r[i].Rank = fmt.Sprint(i + 1)
	}

	v := BuildView(r, 5, 15)
	assert.Len(t, v.TopResults, 5)
	assert.Len(t, v.NextResults, 10)
	assert.Equal(t, "6", v.NextResults[0].Rank)
	assert.Equal(t, "15", v.NextResults[9].Rank)

	v = BuildView(r[:3], 5, 15)
	assert.Len(t, v.TopResults, 3)
	assert.NotNil(t, v.NextResults)
	assert.Empty(t, v.NextResults)

	v = BuildView(nil, 5, 15)
	assert.NotNil(t, v.TopResults)
	assert.Empty(t, v.TopResults)
}

func TestAnalyzeSidesValidatesBeforeRunning(t *testing.T) {
	dir := t.TempDir()
	eng := &fakeEngine{text: map[types.StrategySide]string{types.Bullish: srptReport}}
	m := metrics.New()
	svc := NewService(eng, DefaultConfig(), WithHistory(history.New(dir)), WithMetrics(m))

	_, err := svc.AnalyzeSides(context.Background(),
		types.AnalysisRequest{Ticker: "SRPT", MinDTE: 100, MaxDTE: 500},
		types.Bullish, "Sideways")
	require.ErrorIs(t, err, ErrInvalidRequest)

	assert.Empty(t, eng.calls)
	files, err := filepath.Glob(filepath.Join(dir, "analyses", "*.txt"))
	require.NoError(t, err)
	assert.Empty(t, files)

	n, err := testutil.GatherAndCount(m.Registry(), "vegaedge_analyses_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the invalid side is counted")
}

func TestSideLabel(t *testing.T) {
	assert.Equal(t, "Bearish", sideLabel("bearish"))
	assert.Equal(t, metrics.SideUnknown, sideLabel("junk42"))
	assert.Equal(t, metrics.SideUnknown, sideLabel(""))
}
