package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  host: 127.0.0.1
  port: 9100
metrics:
  enabled: true
audit:
  backend: postgres
detection:
  remote:
    enabled: true
    base_url: http://scorer:9000
    threshold: 0.6
    timeout_ms: 2000
    max_failures: 5
policies:
  file: ./policies.yaml
`), 0o600))

	require.NoError(t, Load(dir))
	cfg := GetConfig()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "postgres", cfg.Audit.Backend)
	assert.True(t, cfg.Detection.Remote.Enabled)
	assert.Equal(t, "http://scorer:9000", cfg.Detection.Remote.BaseURL)
	assert.Equal(t, 0.6, cfg.Detection.Remote.Threshold)
	assert.Equal(t, 2000, cfg.Detection.Remote.TimeoutMs)
	assert.Equal(t, uint32(5), cfg.Detection.Remote.MaxFailures)
	assert.Equal(t, "./policies.yaml", cfg.Policies.File)

	// defaults fill what the file left out
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "logs", cfg.Audit.Dir)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	require.NoError(t, Load(t.TempDir()))
	cfg := GetConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "file", cfg.Audit.Backend)
	assert.Equal(t, "logs", cfg.Audit.Dir)
}
