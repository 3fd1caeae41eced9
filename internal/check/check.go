// Package check provides interactive environment checking and initialization.
// It helps users set up their local PaperForge configuration properly.
package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/paperforge/paperforge/internal/chrome"
)

// CheckResult represents the result of a non-interactive environment check
type CheckResult struct {
	// Success indicates whether all required checks passed
	Success bool
	// Errors contains critical errors that prevent server startup
	Errors []string
	// Warnings contains non-critical issues that don't block startup
	Warnings []string
	// Suggestions contains helpful tips for fixing issues
	Suggestions []string
}

// Checker handles environment checking and initialization
type Checker struct {
	// configDir is the base directory for configuration files
	configDir string
	// chromePath is the configured browser binary, empty for auto-detection
	chromePath string
	// report collects check results for final output
	report *Report
	// theme for consistent styling
	theme *huh.Theme
}

// NewChecker creates a new environment checker
func NewChecker(chromePath string) *Checker {
	return &Checker{
		configDir:  "config",
		chromePath: chromePath,
		report:     NewReport(),
		theme:      huh.ThemeCharm(),
	}
}

// Run executes the full environment check
func (c *Checker) Run() error {
	c.printHeader()

	// Step 1: Check and create configuration files
	fmt.Println()
	printSection("Checking configuration files")
	if err := c.checkFiles(); err != nil {
		return fmt.Errorf("file check failed: %w", err)
	}

	// Step 2: Validate configuration format and paths
	fmt.Println()
	printSection("Validating configuration")
	c.validateConfigs()

	// Step 3: Check for a usable browser
	fmt.Println()
	printSection("Checking browser availability")
	c.checkChrome()

	// Step 4: Print final report
	fmt.Println()
	c.report.Print()

	return nil
}

// printHeader prints the welcome header
func (c *Checker) printHeader() {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Println(titleStyle.Render("🔍 PaperForge Environment Check"))
}

// printSection prints a section header
func printSection(title string) {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))
	fmt.Println(style.Render(title + "..."))
}

// RequiredFiles returns the list of required configuration files
func (c *Checker) RequiredFiles() []FileConfig {
	return []FileConfig{
		{
			Path:        c.ConfigPath(),
			Description: "Main configuration file (server, export, chrome, logging)",
		},
	}
}

// ConfigPath returns the path to the config file
func (c *Checker) ConfigPath() string {
	return filepath.Join(c.configDir, "config.yaml")
}

// confirmCreate asks user to confirm file creation
func confirmCreate(path string) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Create %s from template?", path)).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()
	if err != nil {
		return false, err
	}
	return confirm, nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ensureDir creates directory if it doesn't exist
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// RunNonInteractive performs a non-interactive environment check.
// Unlike Run(), this method does not prompt for user input and does not
// create files. It returns a CheckResult with errors, warnings, and
// suggestions.
func (c *Checker) RunNonInteractive() *CheckResult {
	result := &CheckResult{
		Success:     true,
		Errors:      make([]string, 0),
		Warnings:    make([]string, 0),
		Suggestions: make([]string, 0),
	}

	// Step 1: Check if the configuration file exists
	if !fileExists(c.ConfigPath()) {
		// A missing config file is not fatal, defaults apply
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Configuration file not found: %s (built-in defaults apply)", c.ConfigPath()))
		result.Suggestions = append(result.Suggestions,
			"Run 'paperforge check' to interactively create configuration files",
		)
	} else {
		// Step 2: Validate configuration file format and values
		c.validateConfigNonInteractive(result)
	}

	// Step 3: A missing browser is a warning, static estimates still work
	// for previews but PDF export needs Chrome
	if chrome.Detect(c.chromePath) == "" {
		result.Warnings = append(result.Warnings,
			"No Chrome/Chromium binary found: previews fall back to static estimates and PDF export is unavailable")
		result.Suggestions = append(result.Suggestions,
			"Install Chrome or Chromium, or set chrome.exec_path / PF_CHROME_PATH",
		)
	}

	return result
}

// PrintCheckResult prints the check result in a formatted way
func PrintCheckResult(result *CheckResult) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if len(result.Errors) > 0 {
		fmt.Println()
		red.Println("[ERROR] Environment check failed")
		fmt.Println()
		for _, err := range result.Errors {
			red.Printf("  ✗ %s\n", err)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		yellow.Println("[WARNING] Configuration warnings:")
		fmt.Println()
		for _, warn := range result.Warnings {
			yellow.Printf("  ⚠ %s\n", warn)
		}
	}

	if len(result.Suggestions) > 0 {
		cyan.Println("\nTo fix these issues:")
		for _, suggestion := range result.Suggestions {
			fmt.Printf("  → %s\n", suggestion)
		}
	}

	fmt.Println()
}
