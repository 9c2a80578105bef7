package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"vegaedge/internal/analysis"
	"vegaedge/internal/engine"
	"vegaedge/internal/engine/engineobs"
	"vegaedge/internal/history"
	"vegaedge/internal/interfaces"
	"vegaedge/internal/logger"
	"vegaedge/internal/margin"
	"vegaedge/internal/metrics"
	"vegaedge/internal/server"
	"vegaedge/internal/store"
)

// initializeSystem loads .env and sets up logging and tracing. Logs go to
// stderr so stdout carries only results.
func initializeSystem() error {
	_ = godotenv.Load()

	logCfg, err := logger.LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load log config: %w", err)
	}
	if err := logger.InitWithConfig(logCfg, os.Stderr); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// compressOldHistory gzips analysis history past the configured retention.
func compressOldHistory(ctx context.Context, cfg *store.Config, h *history.Log) {
	if err := h.CompressOlder(cfg.Analysis.HistoryRetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old history", "error", err)
	}
}

// initializeEngine builds the configured report engine with observability.
func initializeEngine(ctx context.Context, cfg *store.Config, m *metrics.Metrics) (interfaces.ReportEngine, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Engine.Source == store.EngineSourceHTTP {
		logger.Info(ctx, "Using analysis backend", "url", cfg.Engine.BackendURL)
	} else {
		logger.Info(ctx, "Using saved reports", "dir", cfg.Engine.StaticDir)
	}

	return engineobs.Wrap(eng, cfg.Engine.Source, m), nil
}

func initializeAnalysis(cfg *store.Config, eng interfaces.ReportEngine, h *history.Log, m *metrics.Metrics) *analysis.Service {
	return analysis.NewService(eng, analysis.Config{
		TopCount:      cfg.Analysis.TopCount,
		DisplayLimit:  cfg.Analysis.DisplayLimit,
		EngineTimeout: cfg.Engine.Timeout,
		Margin:        margin.Options{SignedNetCost: cfg.Margin.SignedNetCost},
	}, analysis.WithHistory(h), analysis.WithMetrics(m))
}

func initializeServer(cfg *store.Config, svc *analysis.Service, m *metrics.Metrics) *server.Server {
	return server.New(svc, m, server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
}
