// Package main is the entry point for the PaperForge application.
// PaperForge lays out question papers into paginated A4 documents and
// exports them as raster-based PDFs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/internal/check"
	"github.com/paperforge/paperforge/internal/chrome"
	"github.com/paperforge/paperforge/internal/config"
	"github.com/paperforge/paperforge/internal/export"
	"github.com/paperforge/paperforge/internal/imaging"
	"github.com/paperforge/paperforge/internal/layout"
	"github.com/paperforge/paperforge/internal/measure"
	"github.com/paperforge/paperforge/internal/model"
	"github.com/paperforge/paperforge/internal/paperset"
	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/internal/server"
	"github.com/paperforge/paperforge/pkg/logger"
	"github.com/paperforge/paperforge/pkg/telemetry"
)

// Build information - set via ldflags during build
// These variables are linked to consts package for global access
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// init synchronizes build info to consts package for global access
func init() {
	consts.Version = Version
	consts.BuildTime = BuildTime
	consts.GitCommit = GitCommit
}

// configPath holds the path to the configuration file
var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "paperforge",
	Short: "PaperForge - Question Paper Layout and PDF Export Engine",
	Long: `PaperForge turns structured question papers into paginated A4 documents
and exports them as print-ready, raster-based PDFs.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PaperForge server",
	Long: `Start the HTTP server to handle paper, settings, preview and export requests.

On first run, use the check command to interactively set up your environment:
  paperforge check

After initial setup, simply run:
  paperforge serve`,
	Run: runServe,
}

// checkCmd represents the interactive environment check
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run an interactive environment check",
	Long: `Check the local environment and interactively create missing
configuration files from templates. Also verifies the export output
directory and browser availability.`,
	Run: runCheck,
}

// exportCmd represents the one-shot CLI export command
var exportCmd = &cobra.Command{
	Use:   "export <paper.json>",
	Short: "Export a question paper to PDF without starting the server",
	Args:  cobra.ExactArgs(1),
	Run:   runExport,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("PaperForge %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
	},
}

func init() {
	// Disable auto-generated completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: config/config.yaml)")

	// Add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	// Serve command flags
	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	serveCmd.Flags().Bool("debug", false, "enable debug mode")

	// Export command flags
	exportCmd.Flags().String("settings", "", "settings JSON file (defaults apply when empty)")
	exportCmd.Flags().Int("set", 0, "paper set to export (0-based)")
	exportCmd.Flags().String("out", "", "output directory (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfigPath returns the configured or default config file path
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath
}

// runCheck runs the full interactive environment check
func runCheck(cmd *cobra.Command, args []string) {
	cfg := config.LoadOrDefault(resolveConfigPath())
	checker := check.NewChecker(cfg.Chrome.ExecPath)
	if err := checker.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Environment check failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\n✓ Environment check completed successfully")
}

// runServe starts the PaperForge server
func runServe(cmd *cobra.Command, args []string) {
	// Run non-interactive basic check
	cfg := config.LoadOrDefault(resolveConfigPath())
	checker := check.NewChecker(cfg.Chrome.ExecPath)
	result := checker.RunNonInteractive()

	if !result.Success {
		check.PrintCheckResult(result)
		os.Exit(1)
	}

	// Print warnings if any (but don't block startup)
	for _, warn := range result.Warnings {
		fmt.Fprintf(os.Stderr, "[WARNING] %s\n", warn)
	}

	// Record server start time
	consts.SetStartedAt(time.Now())

	// Override config with command line flags
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Server.Debug = true
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting PaperForge",
		zap.String("version", Version),
	)

	// Initialize telemetry (OpenTelemetry traces and metrics)
	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
	}()

	// Create and configure server
	srv := server.New(cfg)
	srv.SetupRoutes()

	if err := srv.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	logger.Info("PaperForge server is running",
		zap.String("address", cfg.Server.Address()),
	)

	// Log access URLs for user convenience
	port := cfg.Server.Port
	logger.Info(fmt.Sprintf("  Local:   http://localhost:%d/health", port))
	if lanIP := getLocalIP(); lanIP != "" {
		logger.Info(fmt.Sprintf("  Network: http://%s:%d/health", lanIP, port))
	}

	// Wait for shutdown
	srv.WaitForShutdown()

	logger.Info("PaperForge stopped")
}

// runExport performs a one-shot export of a paper file to PDF
func runExport(cmd *cobra.Command, args []string) {
	cfg := config.LoadOrDefault(resolveConfigPath())

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	paper, err := loadPaperFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load paper: %v\n", err)
		os.Exit(1)
	}

	settings := model.DefaultExportSettings()
	if path, _ := cmd.Flags().GetString("settings"); path != "" {
		if settings, err = loadSettingsFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
			os.Exit(1)
		}
	}

	outDir := cfg.Export.OutputDir
	if dir, _ := cmd.Flags().GetString("out"); dir != "" {
		outDir = dir
	}
	setIndex, _ := cmd.Flags().GetInt("set")

	chromeOpts := chrome.Options{
		ExecPath: cfg.Chrome.ExecPath,
		Timeout:  time.Duration(cfg.Chrome.TimeoutSeconds) * time.Second,
	}

	renderer := render.NewRenderer(imaging.NewResolver())
	ctx := context.Background()

	// Measure in a browser, fall back to static estimates
	engine := measure.NewEngine(renderer, chromeOpts, telemetry.GetMetrics())
	heights, err := engine.Heights(ctx, paper, settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, "[WARNING] Browser measurement failed, using static estimates")
		heights = layout.MeasureHeights(measure.NewStaticMeasurer(), paper.Sections, settings)
	}

	sets := paperset.MakeSets(paper.Sections, settings)
	if setIndex < 0 || setIndex >= len(sets) {
		fmt.Fprintf(os.Stderr, "Set %d out of range, paper has %d set(s)\n", setIndex, len(sets))
		os.Exit(1)
	}
	set := sets[setIndex]

	pages := layout.Layout(set.Sections, settings, heights)
	if len(pages) == 0 {
		fmt.Fprintln(os.Stderr, "Paper produced no pages")
		os.Exit(1)
	}

	setNumber := set.SetNumber
	if len(sets) == 1 {
		setNumber = -1
	}
	doc := renderer.Document(ctx, paper, pages, settings, setNumber)

	exporter := export.NewExporter(outDir, chromeOpts)
	job := export.NewJob(doc.SetNumber)

	fmt.Printf("Exporting %q (%d pages)...\n", paper.Title, doc.PageCount)
	outPath, err := exporter.ExportToPDF(ctx, doc, job)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote %s\n", outPath)
}

// loadPaperFile reads and decodes a paper JSON file
func loadPaperFile(path string) (*model.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var paper model.Paper
	if err := json.Unmarshal(data, &paper); err != nil {
		return nil, fmt.Errorf("invalid paper JSON: %w", err)
	}
	if len(paper.Sections) == 0 {
		return nil, fmt.Errorf("paper has no sections")
	}
	return &paper, nil
}

// loadSettingsFile reads and decodes a settings JSON file, applied on top
// of the defaults
func loadSettingsFile(path string) (model.ExportSettings, error) {
	settings := model.DefaultExportSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("invalid settings JSON: %w", err)
	}
	return settings, nil
}

// getLocalIP returns the first non-loopback IPv4 address
func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return ""
}
