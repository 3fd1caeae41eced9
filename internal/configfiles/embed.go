// Package configfiles provides embedded configuration files for PaperForge.
// These files are used as templates for initializing user configuration.
package configfiles

import (
	"embed"
	"os"
)

//go:embed config.example.yaml
var configFS embed.FS

// GetConfigExample returns the example configuration file content
func GetConfigExample() ([]byte, error) {
	return configFS.ReadFile("config.example.yaml")
}

// ConfigExists checks if a config file exists at the given path
func ConfigExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
