package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rototu/recursiveSQLDatabase/internal/config"
	"github.com/Rototu/recursiveSQLDatabase/internal/dataset"
	"github.com/Rototu/recursiveSQLDatabase/internal/evaluator"
	"github.com/Rototu/recursiveSQLDatabase/internal/parse"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

var graphN int

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Compute the transitive closure of a random graph",
	Long: `graph generates a random directed graph over --n nodes and runs the
optimized evaluator's transitive-closure query over it.`,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().IntVar(&graphN, "n", 50, "number of graph nodes")
}

func runGraph(cmd *cobra.Command, args []string) error {
	if graphN < 1 {
		return fmt.Errorf("--n must be positive, got %d", graphN)
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	query, err := cannedQuery(1)
	if err != nil {
		return err
	}
	q, err := parse.ParseQuery(query)
	if err != nil {
		return err
	}

	e := catalog.NewEngine(cfg)
	edges := dataset.RandomGraph(graphN, graphN)
	if err := e.AddTable("a", []string{"c1", "c2"}); err != nil {
		return err
	}
	if err := e.InsertRecords("a", edges); err != nil {
		return err
	}

	start := time.Now()
	if err := evaluator.Run(context.Background(), e, q, cfg.BlockJoinSize); err != nil {
		return fmt.Errorf("evaluator: %w", err)
	}
	elapsed := time.Since(start)

	count, err := e.GetNumberOfEntries(q.ResultTableName)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), accentStyle.Render(fmt.Sprintf("nodes=%d seed-edges=%d", graphN, graphN)))
	fmt.Fprint(cmd.OutOrStdout(), renderTable(
		[]string{"closure pairs", "time"},
		[][]string{{strconv.Itoa(count), elapsed.String()}},
	))
	return nil
}
