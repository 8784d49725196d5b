//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for salespipe.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brewline/salespipe/internal/config"
	"github.com/brewline/salespipe/internal/logging"
	"github.com/brewline/salespipe/internal/query"
	"github.com/brewline/salespipe/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "salespipe",
		Short: "Sales transaction loader and query tool for PostgreSQL",
		Long: `salespipe ingests third-party sales transaction CSV files into a
normalized PostgreSQL schema through a staging and reconciliation
pipeline, and answers "which clients bought this product here most
recently, and what have they spent in total" through interchangeable
query strategies.

A typical session:
  salespipe setup    --connection "postgres://..."
  salespipe upload   --file transactions.csv
  salespipe query    --store "King St" --product cappuccino`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./salespipe.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(strategiesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available query strategies",
	Long: `List the registered query strategies. All strategies answer the same
question and return the same result set; they differ in evaluation
plan. Use 'salespipe bench' to compare them on real data.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available query strategies:")
		cmd.Println()
		for _, s := range query.All() {
			spend := "latest date only"
			if s.ComputesSpend() {
				spend = "latest date + total spend"
			}
			cmd.Println(fmt.Sprintf("  %-10s %s (%s)", s.Name(), s.Description(), spend))
		}
	},
}
