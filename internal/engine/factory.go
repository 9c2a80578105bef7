package engine

import (
	"fmt"
	"time"

	"vegaedge/internal/api"
	"vegaedge/internal/interfaces"
	"vegaedge/internal/store"
)

// New builds the engine selected by cfg.Engine.Source.
func New(cfg *store.Config) (interfaces.ReportEngine, error) {
	switch cfg.Engine.Source {
	case store.EngineSourceHTTP:
		client := api.NewClient(
			api.WithBaseURL(cfg.Engine.BackendURL),
			api.WithTimeout(cfg.Engine.Timeout),
			api.WithRateLimit(cfg.Engine.RatePerSecond, cfg.Engine.Burst),
			api.WithHeader("User-Agent", "vegaedge/1.0"),
			api.WithLogging(true),
		)
		retry := &api.RetryConfig{
			MaxAttempts: cfg.Engine.RetryAttempts,
			InitialWait: time.Second,
			MaxWait:     5 * time.Second,
		}
		return NewHTTPEngine(client, retry), nil
	case store.EngineSourceStatic:
		return NewStaticEngine(cfg.Engine.StaticDir), nil
	default:
		return nil, fmt.Errorf("unknown engine source %q", cfg.Engine.Source)
	}
}
