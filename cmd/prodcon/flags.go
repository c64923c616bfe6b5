package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Scenario      string
	ScenarioFile  string
	ListScenarios bool

	Producers     int
	Consumers     int
	Capacity      int
	Items         int
	ProducerDelay time.Duration
	ConsumerDelay time.Duration
	TakeTimeout   time.Duration
	Target        int

	Verbose     bool
	SummaryOnly bool
	MetricsPort int
	LogLevel    string
	LogFormat   string
	ShowVersion bool
	ShowHelp    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.Scenario, "scenario",
		getEnv("PRODCON_SCENARIO", ""),
		"Pre-defined scenario name, empty for a custom run (env: PRODCON_SCENARIO)")

	flag.StringVar(&cfg.ScenarioFile, "scenario-file",
		getEnv("PRODCON_SCENARIO_FILE", ""),
		"Path to a YAML scenario definition (env: PRODCON_SCENARIO_FILE)")

	flag.BoolVar(&cfg.ListScenarios, "list", false, "List available scenarios and exit")

	flag.IntVar(&cfg.Producers, "producers",
		getEnvInt("PRODCON_PRODUCERS", 2),
		"Number of producers (env: PRODCON_PRODUCERS)")

	flag.IntVar(&cfg.Consumers, "consumers",
		getEnvInt("PRODCON_CONSUMERS", 2),
		"Number of consumers (env: PRODCON_CONSUMERS)")

	flag.IntVar(&cfg.Capacity, "capacity",
		getEnvInt("PRODCON_CAPACITY", 5),
		"Buffer capacity (env: PRODCON_CAPACITY)")

	flag.IntVar(&cfg.Items, "items",
		getEnvInt("PRODCON_ITEMS", 10),
		"Items per producer (env: PRODCON_ITEMS)")

	flag.DurationVar(&cfg.ProducerDelay, "producer-delay",
		getEnvDuration("PRODCON_PRODUCER_DELAY", 100*time.Millisecond),
		"Pacing delay between produced items (env: PRODCON_PRODUCER_DELAY)")

	flag.DurationVar(&cfg.ConsumerDelay, "consumer-delay",
		getEnvDuration("PRODCON_CONSUMER_DELAY", 100*time.Millisecond),
		"Pacing delay between consumed items (env: PRODCON_CONSUMER_DELAY)")

	flag.DurationVar(&cfg.TakeTimeout, "take-timeout",
		getEnvDuration("PRODCON_TAKE_TIMEOUT", time.Second),
		"Per-take deadline for consumers (env: PRODCON_TAKE_TIMEOUT)")

	flag.IntVar(&cfg.Target, "target",
		getEnvInt("PRODCON_TARGET", 0),
		"Per-consumer item target, 0 to run until drained (env: PRODCON_TARGET)")

	flag.BoolVar(&cfg.Verbose, "verbose",
		getEnvBool("PRODCON_VERBOSE", false),
		"Print detailed per-event trace lines (env: PRODCON_VERBOSE)")

	flag.BoolVar(&cfg.SummaryOnly, "summary-only", false, "Only print the final summary")

	flag.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("PRODCON_METRICS_PORT", 0),
		"Prometheus metrics port, 0 to disable (env: PRODCON_METRICS_PORT)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("PRODCON_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: PRODCON_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("PRODCON_LOG_FORMAT", "text"),
		"Log format: json, text (env: PRODCON_LOG_FORMAT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp || cfg.ListScenarios {
		return nil
	}

	if cfg.Scenario != "" && cfg.ScenarioFile != "" {
		return fmt.Errorf("--scenario and --scenario-file are mutually exclusive")
	}

	if cfg.ScenarioFile != "" {
		if _, err := os.Stat(cfg.ScenarioFile); err != nil {
			return fmt.Errorf("scenario file not found: %s", cfg.ScenarioFile)
		}
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	// Validate log format
	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	// Validate metrics port
	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Bounded-Buffer Producer/Consumer Lab

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run a pre-defined scenario
  %s --scenario=high-contention

  # Run a custom shape with verbose tracing
  %s --producers=3 --consumers=1 --capacity=2 --items=20 --verbose

  # Run from a YAML scenario file with metrics exported
  %s --scenario-file=burst.yaml --metrics-port=9090

  # Run with environment variables
  export PRODCON_SCENARIO=fast-producer
  export PRODCON_LOG_LEVEL=debug
  %s

  # List the pre-defined scenarios
  %s --list

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
