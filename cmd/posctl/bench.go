package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pos-workshop/internal/runner"
	"pos-workshop/internal/workloads"
)

var (
	benchWorkload string
	benchStore    string
	benchDataDir  string
	benchSeed     int64
	benchJSON     bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the API's queries against a store",
	Long: "Runs one workload (or all) for a fixed duration and reports throughput\n" +
		"and latency percentiles. Workloads: " + strings.Join(workloads.Names(), ", "),
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.StringVar(&benchWorkload, "workload", "all", "workload to run, or all")
	f.StringVar(&benchStore, "store", "mongo", "backing store: mongo or memory")
	f.StringVar(&benchDataDir, "data-dir", "", "generated files to load with --store memory (default generator.output_dir)")
	f.Int("concurrency", 10, "number of concurrent workers")
	f.String("duration", "30s", "duration of each workload")
	f.Bool("create-indexes", false, "create the lab indexes before running")
	f.Int64Var(&benchSeed, "rng-seed", 1, "seed for the workers' target selection")
	f.BoolVar(&benchJSON, "json", false, "print results as JSON")
}

func runBench(cmd *cobra.Command, args []string) error {
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	duration, err := cfg.BenchmarkSettings.Duration()
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	names := []string{benchWorkload}
	if benchWorkload == "all" {
		// Read workloads first: order_writes grows the orders collection.
		names = workloads.Names()
	}

	dataDir := benchDataDir
	if dataDir == "" {
		dataDir = cfg.Generator.OutputDir
	}
	repo, closeRepo, err := openRepository(ctx, benchStore, dataDir)
	if err != nil {
		return err
	}
	defer closeRepo()

	var results []*runner.Result
	for _, name := range names {
		w, err := workloads.New(name)
		if err != nil {
			return err
		}
		log.Info("Running benchmark", zap.String("workload", name), zap.String("store", benchStore))

		result, err := runner.Run(ctx, repo, w, cfg.BenchmarkSettings.DefaultConcurrency, duration, benchSeed, log)
		if err != nil {
			color.Red("%s failed: %v", name, err)
			return err
		}
		results = append(results, result)
	}

	if benchJSON {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	color.Cyan("%-22s %10s %8s %10s %10s %10s %10s", "WORKLOAD", "OPS", "ERRORS", "OPS/S", "P50", "P95", "P99")
	for _, r := range results {
		line := fmt.Sprintf("%-22s %10d %8d %10.1f %10s %10s %10s",
			r.Workload, r.Operations, r.Errors, r.Throughput, r.P50Latency, r.P95Latency, r.P99Latency)
		if r.Errors > 0 {
			color.Yellow("%s", line)
		} else {
			fmt.Println(line)
		}
	}
	return nil
}
