package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vegaedge/internal/analysis"
	"vegaedge/internal/history"
	"vegaedge/internal/logger"
	"vegaedge/internal/metrics"
	"vegaedge/internal/render"
	"vegaedge/internal/types"
)

type options struct {
	configPath string
	ticker     string
	minDTE     int
	maxDTE     int
	side       string
	serve      bool
	jsonOut    bool
	reportFile string
	summary    string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("vegaedge", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "config.yaml", "path to config file")
	fs.StringVar(&o.ticker, "ticker", "", "ticker symbol, e.g. SRPT")
	fs.IntVar(&o.minDTE, "min-dte", -1, "minimum days to expiration (default from config)")
	fs.IntVar(&o.maxDTE, "max-dte", -1, "maximum days to expiration (default from config)")
	fs.StringVar(&o.side, "side", "Bullish", "Bullish, Bearish or both")
	fs.BoolVar(&o.serve, "serve", false, "run the HTTP API instead of a single analysis")
	fs.BoolVar(&o.jsonOut, "json", false, "print results as JSON")
	fs.StringVar(&o.reportFile, "report", "", "parse a saved report file instead of calling the engine")
	fs.StringVar(&o.summary, "summary", "", "write the daily history summary CSV for YYYY-MM-DD or \"today\" and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// sides expands the -side flag.
func sides(s string) ([]types.StrategySide, error) {
	if strings.EqualFold(s, "both") {
		return []types.StrategySide{types.Bullish, types.Bearish}, nil
	}
	side, ok := types.ParseStrategySide(s)
	if !ok {
		return nil, fmt.Errorf("unknown side %q: want Bullish, Bearish or both", s)
	}
	return []types.StrategySide{side}, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = logger.Shutdown(shutdownCtx)
	}()

	cfg, err := loadConfig(ctx, opts.configPath)
	if err != nil {
		return err
	}

	m := metrics.New()
	hist := history.New(cfg.Analysis.HistoryDir)
	compressOldHistory(ctx, cfg, hist)

	eng, err := initializeEngine(ctx, cfg, m)
	if err != nil {
		return err
	}
	svc := initializeAnalysis(cfg, eng, hist, m)

	if opts.summary != "" {
		return writeSummary(ctx, hist, opts.summary, out)
	}

	if opts.serve {
		err := initializeServer(cfg, svc, m).Run(ctx)
		if p, serr := hist.SummarizeToday(); serr != nil {
			logger.Warn(ctx, "Failed to write daily summary", "error", serr)
		} else if p != "" {
			logger.Info(ctx, "Daily summary written", "path", p)
		}
		return err
	}

	sideList, err := sides(opts.side)
	if err != nil {
		return err
	}
	base := types.AnalysisRequest{
		Ticker: opts.ticker,
		MinDTE: cfg.Analysis.DefaultMinDTE,
		MaxDTE: cfg.Analysis.DefaultMaxDTE,
	}
	if opts.minDTE >= 0 {
		base.MinDTE = opts.minDTE
	}
	if opts.maxDTE >= 0 {
		base.MaxDTE = opts.maxDTE
	}

	var results []*types.AnalysisResult
	if opts.reportFile != "" {
		b, err := os.ReadFile(opts.reportFile)
		if err != nil {
			return err
		}
		base.Side = sideList[0]
		results = append(results, svc.Evaluate(base, string(b)))
	} else {
		results, err = svc.AnalyzeSides(ctx, base, sideList...)
		if err != nil {
			if errors.Is(err, analysis.ErrInvalidRequest) {
				return fmt.Errorf("invalid request: %w", err)
			}
			return err
		}
	}

	return printResults(out, results, opts.jsonOut)
}

func writeSummary(ctx context.Context, hist *history.Log, day string, out io.Writer) error {
	var (
		p   string
		err error
	)
	if strings.EqualFold(day, "today") {
		p, err = hist.SummarizeToday()
	} else {
		t, perr := time.Parse("2006-01-02", day)
		if perr != nil {
			return fmt.Errorf("invalid -summary date %q: %w", day, perr)
		}
		p, err = hist.SummarizeDay(t)
	}
	if err != nil {
		return err
	}
	if p == "" {
		logger.Info(ctx, "No analyses recorded", "day", day)
		return nil
	}
	fmt.Fprintln(out, p)
	return nil
}

func printResults(w io.Writer, results []*types.AnalysisResult, asJSON bool) error {
	if asJSON {
		if len(results) == 1 {
			return render.JSON(w, results[0])
		}
		return render.JSON(w, results)
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := render.Text(w, res); err != nil {
			return err
		}
	}
	return nil
}
