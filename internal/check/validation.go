package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/paperforge/paperforge/internal/chrome"
	"github.com/paperforge/paperforge/internal/config"
)

// ValidationResult represents the result of a config validation
type ValidationResult struct {
	Path     string
	Valid    bool
	Error    error
	Warnings []string
}

// validateConfigs validates the configuration file and the export output
// directory. A missing config file is a warning, not an error, since
// built-in defaults apply.
func (c *Checker) validateConfigs() {
	result := c.validateConfigYaml()
	c.report.AddValidationResult(result)
	printValidationResult(result)

	if result.Valid {
		cfg := config.LoadOrDefault(c.ConfigPath())
		dirResult := validateOutputDir(cfg.Export.OutputDir)
		c.report.AddValidationResult(dirResult)
		printValidationResult(dirResult)
	}
}

// validateConfigYaml parses and validates the config file
func (c *Checker) validateConfigYaml() ValidationResult {
	result := ValidationResult{Path: c.ConfigPath()}

	if !fileExists(c.ConfigPath()) {
		result.Valid = true
		result.Warnings = append(result.Warnings, "file not found, built-in defaults apply")
		return result
	}

	cfg, err := config.Load(c.ConfigPath())
	if err != nil {
		result.Error = err
		return result
	}

	if err := cfg.Validate(); err != nil {
		result.Error = err
		return result
	}

	result.Valid = true
	return result
}

// validateOutputDir checks that the export output directory is writable,
// creating it if necessary
func validateOutputDir(dir string) ValidationResult {
	result := ValidationResult{Path: dir}

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.Error = fmt.Errorf("cannot create output directory: %w", err)
		return result
	}

	probe := filepath.Join(dir, ".paperforge-write-check")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		result.Error = fmt.Errorf("output directory is not writable: %w", err)
		return result
	}
	os.Remove(probe)

	result.Valid = true
	return result
}

// validateConfigNonInteractive validates the config for the non-interactive
// check, appending to the shared result
func (c *Checker) validateConfigNonInteractive(result *CheckResult) {
	yamlResult := c.validateConfigYaml()
	if !yamlResult.Valid {
		result.Success = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Invalid %s: %v", c.ConfigPath(), yamlResult.Error))
		return
	}

	cfg := config.LoadOrDefault(c.ConfigPath())
	dirResult := validateOutputDir(cfg.Export.OutputDir)
	if !dirResult.Valid {
		result.Success = false
		result.Errors = append(result.Errors, dirResult.Error.Error())
	}
}

// checkChrome reports whether a usable browser binary was found
func (c *Checker) checkChrome() {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	path := chrome.Detect(c.chromePath)
	if path != "" {
		green.Printf("  ✓ Browser found: %s\n", path)
		c.report.AddValidationResult(ValidationResult{Path: path, Valid: true})
		return
	}

	yellow.Println("  ⚠ No Chrome/Chromium binary found")
	yellow.Println("    └─ PDF export and browser measurement are unavailable")
	c.report.AddValidationResult(ValidationResult{
		Path:     "chrome",
		Valid:    true,
		Warnings: []string{"no browser binary found"},
	})
}

// printValidationResult prints a single validation result
func printValidationResult(result ValidationResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	if result.Valid {
		green.Printf("  ✓ %s\n", result.Path)
	} else {
		red.Printf("  ✗ %s: %v\n", result.Path, result.Error)
	}

	for _, warning := range result.Warnings {
		yellow.Printf("    └─ %s\n", warning)
	}
}
