// Package main implements the entry point for the prodcon lab.
// prodcon runs bounded-buffer producer/consumer simulations and certifies
// data integrity (no loss, no duplication) from the terminal state.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/c360/prodcon/metric"
	"github.com/c360/prodcon/scenario"
	"github.com/c360/prodcon/sim"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "prodcon"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Run failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}
	if cliCfg.ListScenarios {
		fmt.Println(scenario.Describe())
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	var registry *metric.MetricsRegistry
	var metricServer *metric.Server
	if cliCfg.MetricsPort > 0 {
		registry = metric.NewMetricsRegistry()
		metricServer = metric.NewServer(cliCfg.MetricsPort, "/metrics", registry)
	}

	cfg, err := buildConfig(cliCfg, logger, registry)
	if err != nil {
		return err
	}

	if !cliCfg.SummaryOnly {
		printBanner(cfg)
	}

	// SIGINT/SIGTERM cancel the run context; workers stop and the run
	// still ends with a full integrity report.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if metricServer != nil {
		g.Go(metricServer.Start)
	}

	var result *sim.Result
	g.Go(func() error {
		defer func() {
			if metricServer != nil {
				if err := metricServer.Stop(); err != nil {
					logger.Warn("metric server shutdown failed", "error", err)
				}
			}
		}()

		s, err := sim.New(cfg)
		if err != nil {
			return fmt.Errorf("create simulation: %w", err)
		}
		result, err = s.Run(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println(result.Summary())

	if !result.Success() {
		return fmt.Errorf("simulation %s failed integrity checks (%d lost, %d duplicated, %d errors)",
			result.RunID, result.ItemsLost, result.ItemsDuplicated, len(result.Errors))
	}
	return nil
}

// buildConfig resolves the run configuration from a preset name, a scenario
// file, or the individual CLI flags, in that priority order.
func buildConfig(cliCfg *CLIConfig, logger *slog.Logger, registry *metric.MetricsRegistry) (sim.Config, error) {
	var cfg sim.Config

	switch {
	case cliCfg.Scenario != "":
		s, err := scenario.Get(cliCfg.Scenario)
		if err != nil {
			fmt.Fprintln(os.Stderr, scenario.Describe())
			return sim.Config{}, err
		}
		cfg = s.Config
	case cliCfg.ScenarioFile != "":
		s, err := scenario.LoadFile(cliCfg.ScenarioFile)
		if err != nil {
			return sim.Config{}, err
		}
		cfg = s.Config
	default:
		cfg = sim.Config{
			ScenarioName:     "custom",
			NumProducers:     cliCfg.Producers,
			NumConsumers:     cliCfg.Consumers,
			Capacity:         cliCfg.Capacity,
			ItemsPerProducer: cliCfg.Items,
			ProducerDelay:    cliCfg.ProducerDelay,
			ConsumerDelay:    cliCfg.ConsumerDelay,
			TakeTimeout:      cliCfg.TakeTimeout,
			ConsumerTarget:   cliCfg.Target,
		}
	}

	cfg.Verbose = cliCfg.Verbose
	cfg.Logger = logger
	cfg.Metrics = registry
	return cfg, nil
}

func printBanner(cfg sim.Config) {
	fmt.Printf("\n%s\nScenario: %s\n%s\n\n", rule(), cfg.ScenarioName, rule())
	fmt.Println("Config:")
	fmt.Printf("  Producers: %d, Consumers: %d\n", cfg.NumProducers, cfg.NumConsumers)
	fmt.Printf("  Queue capacity: %d\n", cfg.Capacity)
	fmt.Printf("  Items per producer: %d\n", cfg.ItemsPerProducer)
	fmt.Printf("  Producer delay: %s, Consumer delay: %s\n\n", cfg.ProducerDelay, cfg.ConsumerDelay)
}

func rule() string {
	return strings.Repeat("=", 70)
}
