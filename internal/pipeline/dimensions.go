//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"fmt"

	"github.com/brewline/salespipe/internal/db"
	"github.com/brewline/salespipe/internal/logging"
	"github.com/brewline/salespipe/internal/schema"
)

// upsertDimensionSQL builds the insert-if-absent statement for one
// dimension. The descriptor supplies both the staging source column
// and the existence-check target, so the check can never point at a
// different table than the insert.
func upsertDimensionSQL(dim schema.Dimension) string {
	return fmt.Sprintf(`
INSERT INTO %[1]s (name)
SELECT DISTINCT t.%[2]s
FROM %[3]s t
WHERE NOT EXISTS (
    SELECT 1 FROM %[1]s d WHERE d.name = t.%[2]s
)`, dim.Table, dim.StagingColumn, schema.StagingTable)
}

// UpsertDimension inserts staged names absent from one dimension
// table. Existing names are left untouched, so re-running inserts
// nothing. A unique violation means another writer inserted the same
// name concurrently and surfaces as ErrConcurrentInsertConflict.
func UpsertDimension(ctx context.Context, q db.Querier, dim schema.Dimension) (int64, error) {
	tag, err := q.Exec(ctx, upsertDimensionSQL(dim))
	if err != nil {
		return 0, db.ClassifyUpsertError(fmt.Errorf("upserting %s: %w", dim.Table, err))
	}

	logging.Debug().
		Str("dimension", dim.Table).
		Int64("inserted", tag.RowsAffected()).
		Msg("Upserted dimension")

	return tag.RowsAffected(), nil
}

// UpsertDimensions runs UpsertDimension for every dimension, stores
// first so the product stage can resolve store ids.
func UpsertDimensions(ctx context.Context, q db.Querier) (map[string]int64, error) {
	inserted := make(map[string]int64, len(schema.Dimensions))
	for _, dim := range schema.Dimensions {
		n, err := UpsertDimension(ctx, q, dim)
		if err != nil {
			return inserted, err
		}
		inserted[dim.Table] = n
	}
	return inserted, nil
}
