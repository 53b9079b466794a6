// Package main implements a load generator that drives concurrent loan traffic against an in-memory
// circulation coordinator and verifies afterward that no copy was oversold and no loan was duplicated.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	defaultRate            = 500
	defaultWorkers         = 16
	defaultItems           = 50
	defaultCopiesPerItem   = 2
	defaultBorrowers       = 200
	defaultScenarioWeights = "60,30,10" // issue, return, renew
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loadGen, err := NewLoadGenerator(cfg, logger)
	if err != nil {
		logger.Fatal("creating load generator failed", zap.Error(err))
	}

	if err = loadGen.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("load generator failed", zap.Error(err))
	}

	loadGen.logStats("load generator final stats")

	if err = loadGen.Verify(context.Background()); err != nil {
		logger.Fatal("consistency check failed", zap.Error(err))
	}

	logger.Info("consistency check passed")
}

func parseFlags(args []string) (Config, error) {
	flags := flag.NewFlagSet("loadgen", flag.ContinueOnError)

	var (
		rate            = flags.Int("rate", defaultRate, "Requests per second")
		workers         = flags.Int("workers", defaultWorkers, "Concurrent workers")
		duration        = flags.Duration("duration", 30*time.Second, "Run time, 0 runs until interrupted")
		items           = flags.Int("items", defaultItems, "Number of catalog items")
		copies          = flags.Int("copies", defaultCopiesPerItem, "Copies per catalog item")
		borrowers       = flags.Int("borrowers", defaultBorrowers, "Number of borrowers")
		scenarioWeights = flags.String("scenario-weights", defaultScenarioWeights, "Comma-separated weights for issue,return,renew scenarios")
		reportInterval  = flags.Duration("report-interval", 10*time.Second, "Interval between stats reports")
	)

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	weights, err := parseScenarioWeights(*scenarioWeights)
	if err != nil {
		return Config{}, fmt.Errorf("invalid scenario weights '%s': %w", *scenarioWeights, err)
	}

	if *rate < 1 || *workers < 1 || *items < 1 || *copies < 1 || *borrowers < 1 || *reportInterval <= 0 {
		return Config{}, errors.New("rate, workers, items, copies, borrowers and report-interval must be positive")
	}

	return Config{
		Rate:            *rate,
		Workers:         *workers,
		Duration:        *duration,
		Items:           *items,
		CopiesPerItem:   *copies,
		Borrowers:       *borrowers,
		ScenarioWeights: weights,
		ReportInterval:  *reportInterval,
	}, nil
}

func parseScenarioWeights(weightsStr string) ([]int, error) {
	parts := strings.Split(weightsStr, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 weights, got %d", len(parts))
	}

	weights := make([]int, 3)
	total := 0
	for i, part := range parts {
		weight, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weight '%s': %w", part, err)
		}
		if weight < 0 || weight > 100 {
			return nil, fmt.Errorf("weight %d out of range [0, 100]", weight)
		}
		weights[i] = weight
		total += weight
	}

	if total != 100 {
		return nil, fmt.Errorf("weights must sum to 100, got %d", total)
	}

	return weights, nil
}
