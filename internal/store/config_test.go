package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, EngineSourceHTTP, cfg.Engine.Source)
	assert.Equal(t, "http://localhost:8000", cfg.Engine.BackendURL)
	assert.Equal(t, 120*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 100, cfg.Analysis.DefaultMinDTE)
	assert.Equal(t, 500, cfg.Analysis.DefaultMaxDTE)
	assert.Equal(t, 5, cfg.Analysis.TopCount)
	assert.Equal(t, 15, cfg.Analysis.DisplayLimit)
	assert.False(t, cfg.Margin.SignedNetCost)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 135*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadConfigKeepsExplicitZeros(t *testing.T) {
	p := writeConfig(t, `
engine:
  timeout: 30s
analysis:
  default_min_dte: 0
  default_max_dte: 0
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Analysis.DefaultMinDTE)
	assert.Equal(t, 0, cfg.Analysis.DefaultMaxDTE)
	assert.Equal(t, 5, cfg.Analysis.TopCount)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadConfigZeroWindowFromEnv(t *testing.T) {
	t.Setenv("VEGAEDGE_ANALYSIS_DEFAULT_MIN_DTE", "0")
	t.Setenv("VEGAEDGE_ANALYSIS_DEFAULT_MAX_DTE", "0")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Analysis.DefaultMaxDTE)
}

func TestLoadConfigFromYAML(t *testing.T) {
	p := writeConfig(t, `
engine:
  source: STATIC
  static_dir: testdata/reports
  timeout: 30s
analysis:
  default_min_dte: 30
  default_max_dte: 90
  top_count: 3
  display_limit: 10
margin:
  signed_net_cost: true
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, EngineSourceStatic, cfg.Engine.Source)
	assert.Equal(t, "testdata/reports", cfg.Engine.StaticDir)
	assert.Equal(t, 30*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 30, cfg.Analysis.DefaultMinDTE)
	assert.Equal(t, 90, cfg.Analysis.DefaultMaxDTE)
	assert.Equal(t, 3, cfg.Analysis.TopCount)
	assert.Equal(t, 10, cfg.Analysis.DisplayLimit)
	assert.True(t, cfg.Margin.SignedNetCost)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("VEGAEDGE_ENGINE_BACKEND_URL", "https://engine.example.com")
	t.Setenv("VEGAEDGE_SERVER_ADDR", ":9090")

	p := writeConfig(t, "engine:\n  backend_url: http://from-file\n")
	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "https://engine.example.com", cfg.Engine.BackendURL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad source", "engine:\n  source: GRPC\n"},
		{"dte range", "analysis:\n  default_min_dte: 50\n  default_max_dte: 10\n"},
		{"top count above limit", "analysis:\n  top_count: 20\n  display_limit: 15\n"},
		{"negative rate", "engine:\n  rate_per_second: -1\n"},
		{"zero burst", "engine:\n  rate_per_second: 2\n  burst: 0\n"},
		{"zero retries", "engine:\n  retry_attempts: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "engine: [unclosed"))
	assert.Error(t, err)
}
