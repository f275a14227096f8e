package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Server.Transport)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "p6risk.db", cfg.DB.Path)
	require.Empty(t, cfg.Snapshot.Path)
	require.Equal(t, 1000, cfg.Simulation.DefaultIterations)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("P6RISK_TRANSPORT", "http")
	t.Setenv("P6RISK_SERVER_PORT", "9090")
	t.Setenv("P6RISK_DB_PATH", "/tmp/snapshots.db")
	t.Setenv("P6RISK_SNAPSHOT_PATH", "/tmp/export.json")
	t.Setenv("P6RISK_DEFAULT_ITERATIONS", "5000")
	t.Setenv("P6RISK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Server.Transport)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/snapshots.db", cfg.DB.Path)
	require.Equal(t, "/tmp/export.json", cfg.Snapshot.Path)
	require.Equal(t, 5000, cfg.Simulation.DefaultIterations)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  transport: http
  port: 3000
simulation:
  default_iterations: 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("P6RISK_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Server.Transport)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, 250, cfg.Simulation.DefaultIterations)

	// File values lose to explicit environment overrides
	t.Setenv("P6RISK_SERVER_PORT", "4000")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("P6RISK_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadInvalidTransport(t *testing.T) {
	t.Setenv("P6RISK_TRANSPORT", "grpc")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadInvalidIterations(t *testing.T) {
	t.Setenv("P6RISK_DEFAULT_ITERATIONS", "0")

	_, err := Load()
	require.Error(t, err)
}
