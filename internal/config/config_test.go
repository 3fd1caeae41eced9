package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./exports", cfg.Export.OutputDir)
	assert.Equal(t, 120, cfg.Chrome.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
export:
  output_dir: /tmp/papers
chrome:
  exec_path: /usr/bin/chromium
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/tmp/papers", cfg.Export.OutputDir)
	assert.Equal(t, "/usr/bin/chromium", cfg.Chrome.ExecPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// unset values keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("PAPERS_OUT", "/data/out")
	path := writeConfig(t, `
export:
  output_dir: ${PAPERS_OUT}
  cleanup_schedule: "${MISSING_VAR:-30 * * * *}"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/out", cfg.Export.OutputDir)
	assert.Equal(t, "30 * * * *", cfg.Export.CleanupSchedule)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("PF_SERVER_PORT", "7070")
	t.Setenv("PF_CHROME_TIMEOUT", "30")
	path := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Chrome.TimeoutSeconds)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty output dir", func(c *Config) { c.Export.OutputDir = "" }},
		{"negative stale hours", func(c *Config) { c.Export.StaleAfterHours = -1 }},
		{"zero chrome timeout", func(c *Config) { c.Chrome.TimeoutSeconds = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8085}
	assert.Equal(t, "127.0.0.1:8085", s.Address())
}
