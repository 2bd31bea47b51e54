// Command bd is the recursiveSQLDatabase CLI: it runs the benchmark, graph,
// and order scenarios of spec.md §6.4 against the optimized (package
// evaluator) and standard (package naive) evaluators.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "bd",
	Short: "Recursive query engine benchmark and scenario driver",
	Long: `bd drives the recursiveSQLDatabase engine through the scenarios
described in spec.md: a batched benchmark comparing the optimized evaluator
against the naive one, a random-graph transitive-closure run, and a
random-permutation ordering run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml (defaults apply if unset)")
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(orderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
