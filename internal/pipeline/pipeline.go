//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline promotes staged third-party transaction rows into
// the normalized schema: load, reconcile, then upsert dimensions,
// products and facts. The stages are stateless functions over a
// storage handle; Pipeline sequences them for one upload run.
package pipeline

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/brewline/salespipe/internal/csvio"
	"github.com/brewline/salespipe/internal/db"
	"github.com/brewline/salespipe/internal/logging"
)

// Summary reports what one upload run changed.
type Summary struct {
	// Staged is the number of rows copied into the staging table.
	Staged int64

	// Corrected is the number of staging row updates performed by
	// reconciliation rules.
	Corrected int64

	// Dimensions maps each dimension table to its inserted row count.
	Dimensions map[string]int64

	// Products is the number of product rows inserted.
	Products int64

	// Facts is the number of fact rows inserted.
	Facts int64

	// Unresolved is the number of staging rows skipped because their
	// dimension names did not all resolve.
	Unresolved int64
}

// Pipeline runs the five-stage upload against one storage handle.
// It holds no connection state of its own and is safe to discard
// after a run.
type Pipeline struct {
	db          db.Querier
	corrections []Correction
}

// New creates a pipeline over the given storage handle.
func New(q db.Querier, corrections []Correction) *Pipeline {
	return &Pipeline{db: q, corrections: corrections}
}

// Run executes the full upload: stage the batch, apply corrections,
// then normalize. Designed for single-writer sequential batches; a
// failed stage aborts the run and leaves earlier committed stages in
// place (the staging load commits independently of normalization).
func (p *Pipeline) Run(ctx context.Context, records []csvio.Record) (*Summary, error) {
	staged, err := LoadStaging(ctx, p.db, records)
	if err != nil {
		return nil, err
	}

	corrected, err := ApplyCorrections(ctx, p.db, p.corrections)
	if err != nil {
		return nil, err
	}

	summary, err := p.Normalize(ctx)
	if err != nil {
		return nil, err
	}
	summary.Staged = staged
	summary.Corrected = corrected

	logging.Info().
		Int64("staged", summary.Staged).
		Int64("corrected", summary.Corrected).
		Int64("products", summary.Products).
		Int64("facts", summary.Facts).
		Int64("unresolved", summary.Unresolved).
		Msg("Upload run complete")

	return summary, nil
}

// Normalize promotes the current staging content: dimension, product
// and fact upserts run inside one transaction, so a failure in any of
// the three rolls back all three. Every stage checks existence before
// inserting, making Normalize safe to re-run; a second pass over the
// same staging content inserts zero rows.
func (p *Pipeline) Normalize(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	err := pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		dims, err := UpsertDimensions(ctx, tx)
		if err != nil {
			return err
		}
		summary.Dimensions = dims

		products, err := UpsertProducts(ctx, tx)
		if err != nil {
			return err
		}
		summary.Products = products

		facts, unresolved, err := UpsertFacts(ctx, tx)
		if err != nil {
			return err
		}
		summary.Facts = facts
		summary.Unresolved = unresolved

		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}
