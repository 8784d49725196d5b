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

	"github.com/brewline/salespipe/internal/db"
	"github.com/brewline/salespipe/internal/logging"
	"github.com/brewline/salespipe/internal/schema"
)

var setupDropExisting bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the database schema",
	Long: `Create the normalized sales schema (dimension tables, product and
transaction tables) and the transient staging table. Safe to re-run;
existing tables are left untouched unless --drop-existing is given.

Example:
  salespipe setup --connection "postgres://user@localhost/sales"`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&setupDropExisting, "drop-existing", false,
		"drop existing schema (and all data) before provisioning")
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.ConnectWithRetry(ctx, cfg.Connection, cfg.ConnectAttempts)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if setupDropExisting {
		logging.Warn().Msg("Dropping existing schema")
		if err := schema.Drop(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := schema.Create(ctx, pool); err != nil {
		return err
	}

	if err := db.SaveMetadata(ctx, pool, schema.Version); err != nil {
		return err
	}

	logging.Info().
		Int("schema_version", schema.Version).
		Msg("Schema provisioned")

	return nil
}

// requireProvisioned fails with setup guidance when the schema is
// missing.
func requireProvisioned(ctx context.Context, q db.Querier) error {
	ok, err := db.IsProvisioned(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to check provisioning state: %w", err)
	}
	if !ok {
		return fmt.Errorf("database has not been provisioned; run 'salespipe setup' first")
	}
	return nil
}
