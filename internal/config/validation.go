// Package config provides configuration management for the application.
// This file contains validation functions for configuration values.
package config

import (
	"fmt"

	"github.com/paperforge/paperforge/pkg/errors"
)

// Validate checks the configuration for values that would fail at
// runtime. It returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("server port %d out of range", c.Server.Port))
	}
	if c.Export.OutputDir == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "export output directory is empty")
	}
	if c.Export.StaleAfterHours < 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("stale_after_hours %d is negative", c.Export.StaleAfterHours))
	}
	if c.Chrome.TimeoutSeconds <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("chrome timeout %ds must be positive", c.Chrome.TimeoutSeconds))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown log format %q", c.Logging.Format))
	}
	return nil
}
