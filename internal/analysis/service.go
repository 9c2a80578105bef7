// Package analysis runs one options analysis end to end: it validates the
// request, asks the report engine for text, parses it, estimates margin for
// the top trade and records the outcome.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vegaedge/internal/history"
	"vegaedge/internal/interfaces"
	"vegaedge/internal/logger"
	"vegaedge/internal/margin"
	"vegaedge/internal/metrics"
	"vegaedge/internal/report"
	"vegaedge/internal/types"
)

// Config holds the tunables taken from store.Config.
type Config struct {
	TopCount      int
	DisplayLimit  int
	EngineTimeout time.Duration
	Margin        margin.Options
}

// DefaultConfig mirrors the results tab: five highlighted rows, fifteen shown.
func DefaultConfig() Config {
	return Config{TopCount: 5, DisplayLimit: 15, EngineTimeout: 120 * time.Second}
}

type Service struct {
	engine    interfaces.ReportEngine
	cfg       Config
	estimator *margin.Estimator
	validator *validator.Validate
	history   *history.Log
	metrics   *metrics.Metrics
	now       func() time.Time
}

var _ interfaces.Analyzer = (*Service)(nil)

type Option func(*Service)

// WithHistory records every analysis to h.
func WithHistory(h *history.Log) Option {
	return func(s *Service) { s.history = h }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(eng interfaces.ReportEngine, cfg Config, opts ...Option) *Service {
	s := &Service{
		engine:    eng,
		cfg:       cfg,
		estimator: margin.NewEstimator(cfg.Margin),
		validator: newValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs one analysis. Only request validation errors are returned; an
// engine failure yields a result whose summary reads "Analysis Error: ...".
func (s *Service) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisResult, error) {
	req = Normalize(req)
	timer := logger.StartOperation(ctx, "analysis.Analyze",
		"ticker", req.Ticker,
		"side", string(req.Side),
	)
	ctx = timer.Context()

	if err := s.reject(req); err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	start := s.now()
	text, err := s.runEngine(ctx, req)

	res := s.build(req, text, err)
	res.StartedAt = start
	res.Duration = s.now().Sub(start)

	s.record(ctx, res)
	timer.End("rows", len(res.Report.Top5))
	return res, nil
}

// AnalyzeSides runs base once per side concurrently. Results keep the order
// of sides. Every request is validated before any engine call starts.
func (s *Service) AnalyzeSides(ctx context.Context, base types.AnalysisRequest, sides ...types.StrategySide) ([]*types.AnalysisResult, error) {
	reqs := make([]types.AnalysisRequest, len(sides))
	for i, side := range sides {
		reqs[i] = base
		reqs[i].Side = side
		reqs[i] = Normalize(reqs[i])
		if err := s.reject(reqs[i]); err != nil {
			return nil, err
		}
	}

	results := make([]*types.AnalysisResult, len(sides))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := s.Analyze(ctx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Evaluate builds a result from report text obtained elsewhere (a saved
// report file). Nothing is recorded.
func (s *Service) Evaluate(req types.AnalysisRequest, text string) *types.AnalysisResult {
	res := s.build(Normalize(req), text, nil)
	res.StartedAt = s.now()
	return res
}

// reject validates req and counts a failure as an invalid analysis.
func (s *Service) reject(req types.AnalysisRequest) error {
	err := s.validate(req)
	if err != nil {
		s.metrics.ObserveAnalysis(sideLabel(req.Side), metrics.OutcomeInvalid, 0, false)
	}
	return err
}

// sideLabel keeps the metrics side label to a fixed set whatever the caller sent.
func sideLabel(side types.StrategySide) string {
	if s, ok := types.ParseStrategySide(string(side)); ok {
		return string(s)
	}
	return metrics.SideUnknown
}

func (s *Service) runEngine(ctx context.Context, req types.AnalysisRequest) (string, error) {
	if s.cfg.EngineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.EngineTimeout)
		defer cancel()
	}
	text, err := s.engine.Run(ctx, req)
	if errors.Is(err, context.DeadlineExceeded) {
		return "", errors.New("analysis timed out")
	}
	return text, err
}

func (s *Service) build(req types.AnalysisRequest, text string, engineErr error) *types.AnalysisResult {
	res := &types.AnalysisResult{
		ID:      uuid.NewString(),
		Request: req,
	}
	if engineErr != nil {
		res.Report = report.Failed(engineErr)
		res.EngineError = engineErr.Error()
	} else {
		res.Report = report.Parse(text)
		res.NoResults = report.IsNoResults(res.Report)
	}
	res.Margin = s.estimator.Estimate(res.Report)
	res.View = BuildView(res.Report.Top5, s.cfg.TopCount, s.cfg.DisplayLimit)
	return res
}

func (s *Service) record(ctx context.Context, res *types.AnalysisResult) {
	outcome := metrics.OutcomeOK
	switch {
	case res.EngineError != "":
		outcome = metrics.OutcomeEngineError
	case res.NoResults:
		outcome = metrics.OutcomeNoResults
	}
	rows := len(res.Report.Top5)
	s.metrics.ObserveAnalysis(string(res.Request.Side), outcome, rows, res.Margin.Available)

	if s.history != nil {
		if err := s.history.Append(history.NewEntry(res)); err != nil {
			logger.ErrorWithErr(ctx, "Failed to record analysis history", err, "id", res.ID)
		}
	}

	logger.Analysis(ctx, res.Request.Ticker, string(res.Request.Side), rows,
		res.Margin.Available, res.Margin.Value,
		"id", res.ID,
		"outcome", outcome,
		"duration_ms", res.Duration.Milliseconds(),
	)
}
