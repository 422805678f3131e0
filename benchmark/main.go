// Package main benchmarks the paddock CLI against the live stats API.
// Every command runs several times per cache backend: once with caching off,
// then against a fresh cache where the first successful run is cold and the
// rest are averaged as warm. Results are written to CSV.
//
// Prerequisites:
// - paddock binary installed and available in PATH
// - network access to the stats API
//
// Usage: go run benchmark/main.go [season ...]
//
//	season: finished seasons to benchmark (default 2019 2021 2023)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"
)

// BenchmarkResult holds the timings of one command on one season and backend.
type BenchmarkResult struct {
	Season      string
	Command     string
	Backend     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	Seasons     []string
	Backends    []string
	Commands    [][]string
}

func main() {
	seasons := os.Args[1:]
	if len(seasons) == 0 {
		seasons = []string{"2019", "2021", "2023"}
	}

	config := BenchmarkConfig{
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoCacheRuns: 2,
		CacheRuns:   4,
		Seasons:     seasons,
		Backends:    []string{"sqlite", "bolt"},
		Commands: [][]string{
			{"drivers"},
			{"constructors"},
			{"schedule"},
			{"season"},
		},
	}

	if _, err := exec.LookPath("paddock"); err != nil {
		fmt.Println("Prerequisites check failed: paddock binary not found in PATH")
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "paddock-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	results := runBenchmarks(config, workDir)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks executes every command for every season and backend.
func runBenchmarks(config BenchmarkConfig, workDir string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d seasons, %d backends, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Seasons), len(config.Backends), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, season := range config.Seasons {
		fmt.Printf("Benchmarking season %s\n", season)
		for _, backend := range config.Backends {
			cachePath := filepath.Join(workDir, fmt.Sprintf("%s-%s.cache", season, backend))
			for _, command := range config.Commands {
				results = append(results, runBenchmarkSuite(config, season, backend, cachePath, command))
			}
		}
	}
	return results
}

// runBenchmarkSuite runs the no-cache and cache phases for one command.
func runBenchmarkSuite(config BenchmarkConfig, season, backend, cachePath string, command []string) BenchmarkResult {
	fmt.Printf("Running %s %s with %s\n", command[0], season, backend)

	args := slices.Concat(command, []string{season, "--workers", fmt.Sprint(config.Workers), "--output", "json"})

	_, noCache := runPhase(config, slices.Concat(args, []string{"--cache-backend", "none"}), config.NoCacheRuns)
	cold, warm := runPhase(config, slices.Concat(args, []string{"--cache-backend", backend, "--cache-db-connect", cachePath}), config.CacheRuns)

	coldStr := "FAILED"
	if cold > 0 {
		coldStr = fmt.Sprintf("%.3fs", cold)
	}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCache, coldStr, warm)

	return BenchmarkResult{
		Season:      season,
		Command:     command[0],
		Backend:     backend,
		NoCacheTime: noCache,
		ColdTime:    coldStr,
		WarmTime:    warm,
	}
}

// runPhase runs paddock numRuns times and returns the first time and the average of the rest.
func runPhase(config BenchmarkConfig, args []string, numRuns int) (float64, string) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		if elapsed, ok := timeCommand(config.Timeout, args); ok {
			times = append(times, elapsed)
		}
	}
	if len(times) == 0 {
		return 0, "FAILED"
	}

	rest := times
	if len(times) > 1 {
		rest = times[1:]
	}
	var sum float64
	for _, t := range rest {
		sum += t
	}
	return times[0], fmt.Sprintf("%.3fs", sum/float64(len(rest)))
}

// timeCommand runs paddock once and reports the elapsed seconds of a successful run.
func timeCommand(timeout time.Duration, args []string) (float64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, "paddock", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		fmt.Printf("    run failed: %v\n%s\n", err, output)
		return 0, false
	}
	return time.Since(start).Seconds(), true
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("paddock_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"season", "cmd", "backend", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Season, r.Command, r.Backend, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Println("Benchmark complete")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command[0])
		for _, r := range results {
			if r.Command == command[0] {
				fmt.Printf("  %s %-7s: No-cache: %s, Cold: %s, Warm: %s\n", r.Season, r.Backend, r.NoCacheTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
