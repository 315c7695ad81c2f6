package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"news-enricher/pkg/config"
	"news-enricher/pkg/enrich"
	"news-enricher/pkg/table"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "enrich":
		runEnrich(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "version":
		fmt.Printf("news-enricher %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`news-enricher - Bulk article enrichment from web pages

Usage:
  news-enricher <command> [options]

Commands:
  enrich      Enrich an input table of article URLs
  validate    Validate configuration file
  version     Show version info

Run 'news-enricher <command> -h' for command-specific help.`)
}

// loadConfig loads and parses the config file
func loadConfig(path string) (*config.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg config.AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// setupLogger creates a logrus.Logger writing to stderr and, when logDir is
// non-empty, to a fresh per-run timestamped log file.
func setupLogger(logLevelStr, logDir string) (*logrus.Logger, string) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", logLevelStr, err)
	} else {
		log.SetLevel(level)
	}

	if logDir == "" {
		return log, ""
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warnf("Could not create log directory '%s', logging to stderr only: %v", logDir, err)
		return log, ""
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("enrich_%s.log", time.Now().Format("20060102_150405")))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Warnf("Could not open log file '%s', logging to stderr only: %v", logPath, err)
		return log, ""
	}
	log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	return log, logPath
}

// runEnrich handles the enrich subcommand
func runEnrich(args []string) {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	inputDir := fs.String("input", "", "Input directory of CSV files (overrides config)")
	outputDir := fs.String("output", "", "Output directory (overrides config)")
	urlColumn := fs.String("url-column", "", "Name of the URL column (overrides config)")
	logLevel := fs.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: news-enricher enrich [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  news-enricher enrich -config config.yaml\n")
		fmt.Fprintf(os.Stderr, "  news-enricher enrich -input ./input -output ./output\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	executeEnrich(*configFile, *inputDir, *outputDir, *urlColumn, *logLevel)
}

// executeEnrich runs the whole pipeline: read table, enrich, write output.
func executeEnrich(configFile, inputDir, outputDir, urlColumn, logLevelStr string) {
	startTime := time.Now()

	// --- Load Configuration ---
	appCfg, err := loadConfig(configFile)
	if err != nil {
		// Flags can fully describe a run; fall back to an empty config
		if inputDir == "" {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		appCfg = &config.AppConfig{}
	}

	// --- Flag Overrides ---
	if inputDir != "" {
		appCfg.InputDir = inputDir
	}
	if outputDir != "" {
		appCfg.OutputDir = outputDir
	}
	if urlColumn != "" {
		appCfg.URLColumn = urlColumn
	}

	// --- Validate App Config ---
	warnings, err := appCfg.Validate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, logPath := setupLogger(logLevelStr, appCfg.LogDir)
	for _, w := range warnings {
		log.Warn(w)
	}
	if logPath != "" {
		log.Infof("Logging to %s", logPath)
	}

	// --- Handle signals: abort the whole run, no partial output ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warnf("Received signal %v, aborting run...", sig)
		cancel()
	}()

	// --- Read Input Table ---
	log.Infof("Reading input tables from %s", appCfg.InputDir)
	t, err := table.ReadDir(appCfg.InputDir, log)
	if err != nil {
		log.Fatalf("Input error: %v", err)
	}

	// --- Enrich ---
	orchestrator := enrich.NewOrchestrator(appCfg, log)
	log.Infof("Starting enrichment run %s", orchestrator.RunID())

	enriched, err := orchestrator.Run(ctx, t)
	if err != nil {
		log.Fatalf("Enrichment failed: %v", err)
	}

	// --- Write Output ---
	outPath, err := table.Write(enriched, appCfg.OutputDir)
	if err != nil {
		log.Fatalf("Output error: %v", err)
	}

	elapsed := time.Since(startTime)
	log.Infof("Enrichment complete. Output saved to %s", outPath)
	log.Infof("Time elapsed: %v, articles processed: %d", elapsed.Round(time.Millisecond), enriched.RowCount())
}

// runValidate handles the validate subcommand
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: news-enricher validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(doValidate(*configFile, os.Stdout, os.Stderr))
}

// doValidate performs validation and writes output to provided writers.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath string, stdout, stderr io.Writer) int {
	appCfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Configuration valid.")
	return 0
}
