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

	"github.com/spf13/cobra"

	"github.com/brewline/salespipe/internal/csvio"
	"github.com/brewline/salespipe/internal/db"
	"github.com/brewline/salespipe/internal/logging"
	"github.com/brewline/salespipe/internal/pipeline"
)

var uploadFile string

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Load a transactions CSV and normalize it",
	Long: `Load a transactions CSV file into the staging area, apply the
configured correction rules, and promote the batch into the normalized
tables: new store, client and representative names, new products under
the per-store uniqueness rule, and new transaction facts.

The batch is all-or-nothing at the staging step: a malformed row or a
reused transaction id stages nothing. Promotion is idempotent; rows
already normalized are never inserted twice.

Example:
  salespipe upload --file transactions.csv`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadFile, "file", "",
		"transactions CSV file to load")
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadFile != "" {
		cfg.Upload.File = uploadFile
	}

	if err := cfg.ValidateUpload(); err != nil {
		return err
	}

	// Parse before touching the database so malformed input never
	// leaves a partial batch behind.
	records, err := csvio.ReadFile(cfg.Upload.File)
	if err != nil {
		return err
	}
	logging.Info().
		Str("file", cfg.Upload.File).
		Int("rows", len(records)).
		Msg("Parsed input file")

	ctx := context.Background()
	pool, err := db.ConnectWithRetry(ctx, cfg.Connection, cfg.ConnectAttempts)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := requireProvisioned(ctx, pool); err != nil {
		return err
	}

	summary, err := pipeline.New(pool, cfg.Upload.Corrections).Run(ctx, records)
	if err != nil {
		return err
	}

	for table, n := range summary.Dimensions {
		logging.Info().
			Str("dimension", table).
			Int64("inserted", n).
			Msg("Dimension upsert")
	}
	logging.Info().
		Int64("staged", summary.Staged).
		Int64("products", summary.Products).
		Int64("facts", summary.Facts).
		Int64("unresolved", summary.Unresolved).
		Msg("Upload complete")

	return nil
}
