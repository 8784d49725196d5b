//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/brewline/salespipe/internal/logging"
	"github.com/brewline/salespipe/pkg/version"
)

const metadataTable = "salespipe_metadata"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS salespipe_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveMetadata records provisioning metadata after setup. The upload
// and query commands use it to give a clear "run setup first" error
// instead of failing on a missing table.
func SaveMetadata(ctx context.Context, q Querier, schemaVersion int) error {
	if _, err := q.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		"schema_version": fmt.Sprintf("%d", schemaVersion),
		"tool_version":   version.Short(),
		"provisioned_at": time.Now().UTC().Format(time.RFC3339),
	}

	for key, value := range metadata {
		_, err := q.Exec(ctx, `
            INSERT INTO salespipe_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Int("schema_version", schemaVersion).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, q Querier, key string) (string, error) {
	var value string
	err := q.QueryRow(ctx, `
        SELECT value FROM salespipe_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// IsProvisioned reports whether setup has been run against this
// database.
func IsProvisioned(ctx context.Context, q Querier) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, metadataTable).Scan(&exists)
	if err != nil || !exists {
		return false, err
	}

	if _, err := GetMetadataValue(ctx, q, "schema_version"); err != nil {
		return false, nil
	}
	return true, nil
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}
