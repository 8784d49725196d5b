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

	"github.com/brewline/salespipe/internal/csvio"
	"github.com/brewline/salespipe/internal/db"
	"github.com/brewline/salespipe/internal/query"
)

var (
	queryStrategy string
	queryStore    string
	queryProduct  string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run the latest-purchase query for a store and product",
	Long: `For the given store and product, list every client who bought that
product at that store, with their most recent purchase date there and
their total spend across all stores and products.

The strategy selects the evaluation plan; all strategies return the
same result set. The naive strategy omits the spend column.

Example:
  salespipe query --store "King St" --product cappuccino --strategy windowed`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryStrategy, "strategy", "",
		"query strategy (see 'salespipe strategies')")
	queryCmd.Flags().StringVar(&queryStore, "store", "",
		"store name to filter on (exact match)")
	queryCmd.Flags().StringVar(&queryProduct, "product", "",
		"product name to filter on (exact match)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryStrategy != "" {
		cfg.Query.Strategy = queryStrategy
	}
	if queryStore != "" {
		cfg.Query.Store = queryStore
	}
	if queryProduct != "" {
		cfg.Query.Product = queryProduct
	}

	if err := cfg.ValidateQuery(); err != nil {
		return err
	}

	strategy, err := query.Get(cfg.Query.Strategy)
	if err != nil {
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

	rows, err := strategy.Run(ctx, pool, cfg.Query.Store, cfg.Query.Product)
	if err != nil {
		return err
	}

	printResults(rows, strategy.ComputesSpend())
	fmt.Printf("\n%d client(s) for product %q at store %q (strategy: %s)\n",
		len(rows), cfg.Query.Product, cfg.Query.Store, strategy.Name())

	return nil
}

func printResults(rows []query.Row, withSpend bool) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	if withSpend {
		fmt.Fprintln(w, "ID\tNAME\tLATEST DATE\tTOTAL SPENT")
	} else {
		fmt.Fprintln(w, "ID\tNAME\tLATEST DATE")
	}

	for _, r := range rows {
		if withSpend {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				r.ClientID, r.ClientName, r.LatestDate.Format(csvio.DateFormat),
				r.TotalSpent.StringFixed(2))
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\n",
				r.ClientID, r.ClientName, r.LatestDate.Format(csvio.DateFormat))
		}
	}

	w.Flush()
}
