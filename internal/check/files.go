package check

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/paperforge/paperforge/internal/configfiles"
)

// FileConfig represents a configuration file to check
type FileConfig struct {
	Path        string
	Description string
}

// FileCheckResult represents the result of a file check
type FileCheckResult struct {
	Path        string
	Exists      bool
	Created     bool
	Description string
	Error       error
}

// checkFiles checks all required configuration files
func (c *Checker) checkFiles() error {
	for _, file := range c.RequiredFiles() {
		result := c.checkFile(file)
		c.report.AddFileResult(result)

		if result.Error != nil {
			return result.Error
		}
	}

	return nil
}

// checkFile checks a single file and prompts for creation if missing
func (c *Checker) checkFile(file FileConfig) FileCheckResult {
	result := FileCheckResult{
		Path:        file.Path,
		Description: file.Description,
	}

	if fileExists(file.Path) {
		result.Exists = true
		printFileStatus(file.Path, true, false)
		return result
	}

	result.Exists = false
	printFileStatus(file.Path, false, false)

	// Ask user if they want to create it
	confirm, err := confirmCreate(file.Path)
	if err != nil {
		result.Error = fmt.Errorf("failed to get user confirmation: %w", err)
		return result
	}

	if !confirm {
		// User declined, just note it
		return result
	}

	content, err := configfiles.GetConfigExample()
	if err != nil {
		result.Error = fmt.Errorf("failed to get template: %w", err)
		return result
	}

	if err := ensureDir(file.Path); err != nil {
		result.Error = err
		return result
	}

	if err := os.WriteFile(file.Path, content, 0644); err != nil {
		result.Error = fmt.Errorf("failed to create file %s: %w", file.Path, err)
		return result
	}

	result.Created = true
	printFileCreated(file.Path)

	return result
}

// printFileStatus prints the status of a file check
func printFileStatus(path string, exists bool, created bool) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if exists {
		green.Printf("  ✓ %s\n", path)
	} else if created {
		green.Printf("  ✓ %s (created)\n", path)
	} else {
		yellow.Printf("  ⚠ %s does not exist\n", path)
	}
}

// printFileCreated prints a message when a file is created
func printFileCreated(path string) {
	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created %s\n", path)
}
