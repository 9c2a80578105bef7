package engineobs

import (
	"context"
	"time"

	"vegaedge/internal/interfaces"
	"vegaedge/internal/logger"
	"vegaedge/internal/metrics"
	"vegaedge/internal/trace"
	"vegaedge/internal/types"
)

type observableEngine struct {
	engine  interfaces.ReportEngine
	source  string
	metrics *metrics.Metrics
}

var _ interfaces.ReportEngine = (*observableEngine)(nil)

// Wrap decorates eng with a span, start/finish logs and the engine duration
// histogram. m may be nil.
func Wrap(eng interfaces.ReportEngine, source string, m *metrics.Metrics) interfaces.ReportEngine {
	return &observableEngine{
		engine:  eng,
		source:  source,
		metrics: m,
	}
}

func (oe *observableEngine) Run(ctx context.Context, req types.AnalysisRequest) (string, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Run",
		trace.RequestAttributes(req.Ticker, string(req.Side), req.MinDTE, req.MaxDTE))
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Requesting report",
		"source", oe.source,
		"ticker", req.Ticker,
		"side", string(req.Side),
		"min_dte", req.MinDTE,
		"max_dte", req.MaxDTE,
	)

	text, err := oe.engine.Run(ctx, req)
	elapsed := time.Since(start)
	oe.metrics.ObserveEngine(oe.source, elapsed)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Report engine failed", err,
			"source", oe.source,
			"ticker", req.Ticker,
			"duration_ms", elapsed.Milliseconds(),
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Report received",
		"source", oe.source,
		"ticker", req.Ticker,
		"bytes", len(text),
		"duration_ms", elapsed.Milliseconds(),
	)

	return text, nil
}
