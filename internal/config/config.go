//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for salespipe.
// Configuration is loaded from config files and CLI flags; CLI flags
// take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/brewline/salespipe/internal/pipeline"
)

// Config holds all configuration for salespipe.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// ConnectAttempts is how many times to try connecting before
	// giving up.
	ConnectAttempts int `mapstructure:"connect_attempts"`

	// Upload holds configuration for the upload subcommand.
	Upload UploadConfig `mapstructure:"upload"`

	// Query holds configuration for the query subcommand.
	Query QueryConfig `mapstructure:"query"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Bench holds configuration for the bench subcommand.
	Bench BenchConfig `mapstructure:"bench"`
}

// UploadConfig holds configuration for batch upload.
type UploadConfig struct {
	// File is the transactions CSV to load.
	File string `mapstructure:"file"`

	// Corrections are the reconciliation rules applied to staging
	// before promotion, in order. They are data, not code: new rules
	// need no pipeline changes.
	Corrections []pipeline.Correction `mapstructure:"corrections"`
}

// QueryConfig holds default parameters for the query subcommand.
type QueryConfig struct {
	// Strategy selects the query evaluation strategy by name.
	Strategy string `mapstructure:"strategy"`

	// Store is the store name to filter on (exact match).
	Store string `mapstructure:"store"`

	// Product is the product name to filter on (exact match).
	Product string `mapstructure:"product"`
}

// GenerateConfig holds configuration for sample file generation.
type GenerateConfig struct {
	// Rows is the number of transactions to generate.
	Rows int `mapstructure:"rows"`

	// Output is the file to write.
	Output string `mapstructure:"output"`

	// Seed makes generation reproducible; 0 uses a random seed.
	Seed uint64 `mapstructure:"seed"`
}

// BenchConfig holds configuration for strategy benchmarking.
type BenchConfig struct {
	// Iterations is how many times each strategy runs.
	Iterations int `mapstructure:"iterations"`
}

// DefaultConfig returns a Config with default values. The default
// correction is the canonical cappuccino price fix: one store reports
// an inconsistent price, corrected to the majority value.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		ConnectAttempts: 3,
		Upload: UploadConfig{
			File: "./transactions.csv",
			Corrections: []pipeline.Correction{
				{
					MatchColumn: "product_name",
					MatchValue:  "cappuccino",
					SetColumn:   "price",
					SetValue:    "4.50",
				},
			},
		},
		Query: QueryConfig{
			Strategy: "windowed",
			Store:    "King St",
			Product:  "cappuccino",
		},
		Generate: GenerateConfig{
			Rows:   1000,
			Output: "./transactions.csv",
		},
		Bench: BenchConfig{
			Iterations: 100,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./salespipe.yaml
// 3. ~/.config/salespipe/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("salespipe")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "salespipe"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateUpload checks configuration required for the upload command.
func (c *Config) ValidateUpload() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Upload.File == "" {
		return fmt.Errorf("input file is required for upload")
	}
	for _, correction := range c.Upload.Corrections {
		if err := correction.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuery checks configuration required for the query command.
func (c *Config) ValidateQuery() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Query.Strategy == "" {
		return fmt.Errorf("query strategy is required")
	}
	if c.Query.Store == "" {
		return fmt.Errorf("store name is required")
	}
	if c.Query.Product == "" {
		return fmt.Errorf("product name is required")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if c.Generate.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Generate.Output == "" {
		return fmt.Errorf("output file is required")
	}
	return nil
}

// ValidateBench checks configuration required for the bench command.
func (c *Config) ValidateBench() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Bench.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1")
	}
	return nil
}
