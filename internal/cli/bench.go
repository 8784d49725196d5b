//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brewline/salespipe/internal/bench"
	"github.com/brewline/salespipe/internal/db"
)

var benchIterations int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the query strategies against live data",
	Long: `Run every registered query strategy repeatedly with the configured
store and product, and report per-strategy latency percentiles. All
strategies return the same rows, so the comparison isolates the cost
of the evaluation plan.

Example:
  salespipe bench --iterations 200 --store "King St" --product cappuccino`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 0,
		"recorded runs per strategy")
	benchCmd.Flags().StringVar(&queryStore, "store", "",
		"store name to filter on (exact match)")
	benchCmd.Flags().StringVar(&queryProduct, "product", "",
		"product name to filter on (exact match)")
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchIterations > 0 {
		cfg.Bench.Iterations = benchIterations
	}
	if queryStore != "" {
		cfg.Query.Store = queryStore
	}
	if queryProduct != "" {
		cfg.Query.Product = queryProduct
	}

	if err := cfg.ValidateBench(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.ConnectWithRetry(ctx, cfg.Connection, cfg.ConnectAttempts)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := requireProvisioned(ctx, pool); err != nil {
		return err
	}

	results, err := bench.Run(ctx, pool, cfg.Query.Store, cfg.Query.Product, cfg.Bench.Iterations)
	if err != nil {
		return err
	}

	printBenchResults(results)
	fmt.Printf("\n%d iteration(s) per strategy for product %q at store %q\n",
		cfg.Bench.Iterations, cfg.Query.Product, cfg.Query.Store)

	return nil
}

func printBenchResults(results []bench.Result) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	fmt.Fprintln(w, "STRATEGY\tROWS\tP50\tP95\tP99\tMAX")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			r.Strategy, r.Rows, r.P50, r.P95, r.P99, r.Max)
	}

	w.Flush()
}
