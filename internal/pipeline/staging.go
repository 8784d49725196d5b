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

	"github.com/jackc/pgx/v5"

	"github.com/brewline/salespipe/internal/csvio"
	"github.com/brewline/salespipe/internal/db"
	"github.com/brewline/salespipe/internal/logging"
	"github.com/brewline/salespipe/internal/schema"
)

// LoadStaging bulk-copies parsed input rows into the staging table.
// The COPY is atomic: a duplicate external transaction id anywhere in
// the batch stages nothing and returns ErrDuplicateKey. No normalized
// table is touched.
func LoadStaging(ctx context.Context, q db.Querier, records []csvio.Record) (int64, error) {
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{
			r.TransactionID,
			r.Date,
			r.ProductName,
			r.Price,
			r.StoreName,
			r.SalesRepName,
			r.ClientName,
		}
	}

	copied, err := q.CopyFrom(ctx,
		pgx.Identifier{schema.StagingTable},
		schema.StagingColumns,
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, db.ClassifyLoadError(fmt.Errorf("staging load failed: %w", err))
	}

	logging.Info().
		Int64("rows", copied).
		Msg("Staged input batch")

	return copied, nil
}
