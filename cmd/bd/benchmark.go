package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Rototu/recursiveSQLDatabase/internal/config"
	"github.com/Rototu/recursiveSQLDatabase/internal/dataset"
	"github.com/Rototu/recursiveSQLDatabase/internal/evaluator"
	"github.com/Rototu/recursiveSQLDatabase/internal/naive"
	"github.com/Rototu/recursiveSQLDatabase/internal/parse"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

const (
	benchNodeCount = 40
	benchBaseEdges = 80
)

var (
	batchNumber int
	queryNumber int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Compare the optimized and standard evaluators at a configured scale",
	Long: `benchmark generates a random graph at the scale named by --batchNumber
(an index into the configured Scales list), runs the canned query named by
--queryNumber through both the optimized evaluator and the naive one, and
reports wall-clock time and row-count agreement for each.`,
	RunE: runBenchmark,
}

func init() {
	benchmarkCmd.Flags().IntVar(&batchNumber, "batchNumber", 1, "1-indexed position into the configured Scales list")
	benchmarkCmd.Flags().IntVar(&queryNumber, "queryNumber", 1, "1-indexed canned query to run (see queries.go)")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if batchNumber < 1 || batchNumber > len(cfg.Scales) {
		return fmt.Errorf("batchNumber must be in [1,%d], got %d", len(cfg.Scales), batchNumber)
	}
	scale := cfg.Scales[batchNumber-1]

	query, err := cannedQuery(queryNumber)
	if err != nil {
		return err
	}
	q, err := parse.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("parsing canned query %d: %w", queryNumber, err)
	}

	shutdown, err := installStdoutMetrics()
	if err != nil {
		return fmt.Errorf("installing metrics exporter: %w", err)
	}
	defer shutdown()

	edgeCount := benchBaseEdges * scale / 100
	if edgeCount < 1 {
		edgeCount = 1
	}

	ctx := context.Background()
	var optimizedTotal, naiveTotal time.Duration
	var timedRuns int
	var optimizedRows, naiveRows int

	for run := 0; run < cfg.Runs; run++ {
		edges := dataset.RandomGraph(benchNodeCount, edgeCount)

		optEngine := catalog.NewEngine(cfg)
		if err := optEngine.AddTable("a", []string{"c1", "c2"}); err != nil {
			return err
		}
		if err := optEngine.InsertRecords("a", edges); err != nil {
			return err
		}
		optStart := time.Now()
		if err := evaluator.Run(ctx, optEngine, q, cfg.BlockJoinSize); err != nil {
			return fmt.Errorf("optimized evaluator: %w", err)
		}
		optElapsed := time.Since(optStart)
		optimizedRows, err = optEngine.GetNumberOfEntries(q.ResultTableName)
		if err != nil {
			return err
		}

		naiveEngine := catalog.NewEngine(cfg)
		if err := naiveEngine.AddTable("a", []string{"c1", "c2"}); err != nil {
			return err
		}
		if err := naiveEngine.InsertRecords("a", edges); err != nil {
			return err
		}
		naiveStart := time.Now()
		if err := naive.Run(ctx, naiveEngine, q, cfg.BlockJoinSize); err != nil {
			return fmt.Errorf("naive evaluator: %w", err)
		}
		naiveElapsed := time.Since(naiveStart)
		naiveRows, err = naiveEngine.GetNumberOfEntries(q.ResultTableName)
		if err != nil {
			return err
		}

		if run > 0 { // first run is warm-up, per config.Config.Runs's doc
			optimizedTotal += optElapsed
			naiveTotal += naiveElapsed
			timedRuns++
		}
	}

	if timedRuns == 0 {
		timedRuns = 1 // Runs==1: nothing to warm up, the single run counts
	}
	avgOpt := optimizedTotal / time.Duration(timedRuns)
	avgNaive := naiveTotal / time.Duration(timedRuns)

	agree := optimizedRows == naiveRows

	fmt.Fprintln(cmd.OutOrStdout(), accentStyle.Render(fmt.Sprintf("scale=%d%% query=%d nodes=%d edges=%d runs=%d (first discarded)",
		scale, queryNumber, benchNodeCount, edgeCount, cfg.Runs)))
	fmt.Fprint(cmd.OutOrStdout(), renderTable(
		[]string{"strategy", "avg time", "rows"},
		[][]string{
			{"optimized", avgOpt.String(), strconv.Itoa(optimizedRows)},
			{"naive", avgNaive.String(), strconv.Itoa(naiveRows)},
		},
	))
	if agree {
		fmt.Fprintln(cmd.OutOrStdout(), passStyle.Render("strategies agree on result row count"))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), failStyle.Render("warning: strategies disagree on result row count"))
	}
	return nil
}

// installStdoutMetrics wires a stdoutmetric exporter into the global
// MeterProvider so the evaluator/naive fixpoint-pass instruments print a
// summary at the end of the run, grounded on the teacher's otel usage in
// internal/storage/dolt/store.go. Returns a func that force-flushes and
// shuts the provider down.
func installStdoutMetrics() (func(), error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	reader := sdkmetric.NewPeriodicReader(exporter)
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)

	return func() {
		ctx := context.Background()
		_ = mp.ForceFlush(ctx)
		_ = mp.Shutdown(ctx)
	}, nil
}
