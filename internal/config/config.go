// Package config provides configuration management for the application.
// It supports YAML configuration files with environment variable overrides.
package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/pkg/logger"
	"github.com/paperforge/paperforge/pkg/telemetry"
)

// DefaultConfigPath is the conventional location of the config file
const DefaultConfigPath = "config/config.yaml"

// Default configuration values
const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultOutputDir       = "./exports"
	defaultCleanupSchedule = "0 * * * *" // hourly
	defaultStaleAfterHours = 6
	defaultChromeTimeout   = 120
	defaultOTLPEndpoint    = "localhost:4317"
	defaultPrometheusPort  = 9090
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Export    ExportConfig     `yaml:"export"`
	Chrome    ChromeConfig     `yaml:"chrome"`
	Logging   logger.Config    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Debug       bool     `yaml:"debug"`
	CORSOrigins []string `yaml:"cors_origins"` // Allowed CORS origins whitelist
}

// ExportConfig holds PDF export configuration
type ExportConfig struct {
	// OutputDir is where finished PDFs are written
	OutputDir string `yaml:"output_dir"`
	// CleanupSchedule is a cron expression for stale temp-file cleanup
	CleanupSchedule string `yaml:"cleanup_schedule"`
	// StaleAfterHours is the age after which a temp file is removed
	StaleAfterHours int `yaml:"stale_after_hours"`
}

// ChromeConfig holds headless browser configuration
type ChromeConfig struct {
	// ExecPath overrides the Chrome binary location; empty uses
	// autodetection or the CHROME_PATH environment variable
	ExecPath string `yaml:"exec_path"`
	// TimeoutSeconds bounds one browser session
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:  defaultHost,
			Port:  defaultPort,
			Debug: false,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:8080",
			},
		},
		Export: ExportConfig{
			OutputDir:       defaultOutputDir,
			CleanupSchedule: defaultCleanupSchedule,
			StaleAfterHours: defaultStaleAfterHours,
		},
		Chrome: ChromeConfig{
			TimeoutSeconds: defaultChromeTimeout,
		},
		Logging: logger.Config{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    100, // Max 100MB per log file
			MaxAge:     7,   // Retain logs for 7 days
			MaxBackups: 5,   // Keep 5 backup files
			Compress:   false,
		},
		Telemetry: telemetry.Config{
			Enabled:     false,
			ServiceName: consts.ServiceName,
			OTLP: telemetry.OTLPConfig{
				Enabled:  false,
				Endpoint: defaultOTLPEndpoint,
				Insecure: true,
			},
			Prometheus: telemetry.PrometheusConfig{
				Enabled: false,
				Port:    defaultPrometheusPort,
			},
		},
	}
}

// Load loads configuration from a YAML file with environment variable
// expansion, then applies PF_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadOrDefault loads the configuration file when it exists and falls
// back to defaults (plus environment overrides) otherwise.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.applyEnvOverrides()
	}
	return cfg
}

// applyEnvOverrides applies PF_*-prefixed environment variables on top
// of the loaded configuration:
//   - PF_SERVER_HOST, PF_SERVER_PORT, PF_SERVER_DEBUG
//   - PF_EXPORT_OUTPUT_DIR
//   - PF_CHROME_PATH, PF_CHROME_TIMEOUT
//   - PF_LOG_LEVEL, PF_LOG_FORMAT, PF_LOG_FILE
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PF_SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PF_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("PF_SERVER_DEBUG"); v != "" {
		c.Server.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("PF_EXPORT_OUTPUT_DIR"); v != "" {
		c.Export.OutputDir = v
	}
	if v := os.Getenv("PF_CHROME_PATH"); v != "" {
		c.Chrome.ExecPath = v
	}
	if v := os.Getenv("PF_CHROME_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Chrome.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("PF_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PF_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("PF_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Only the ${VAR_NAME} form is matched; bare $VAR stays untouched.
func expandEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]

		// Support default values: ${VAR_NAME:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]

		if value := os.Getenv(varName); value != "" {
			return value
		}
		if len(parts) > 1 {
			return parts[1]
		}
		return ""
	})
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
