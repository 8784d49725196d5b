//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package bench compares the query strategies against live data,
// making the naive-to-windowed optimization progression measurable.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/brewline/salespipe/internal/db"
	"github.com/brewline/salespipe/internal/logging"
	"github.com/brewline/salespipe/internal/query"
)

// warmupRuns are executed per strategy before recording, so plan and
// buffer cache effects do not land on the first samples.
const warmupRuns = 3

// Result holds latency percentiles for one strategy.
type Result struct {
	Strategy   string
	Iterations int
	Rows       int
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
	Max        time.Duration
}

// Run executes every registered strategy iterations times with the
// given parameters and reports per-strategy latency percentiles.
func Run(ctx context.Context, q db.Querier, store, product string, iterations int) ([]Result, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be at least 1")
	}

	results := make([]Result, 0, len(query.Names()))
	for _, s := range query.All() {
		res, err := runStrategy(ctx, q, s, store, product, iterations)
		if err != nil {
			return results, fmt.Errorf("benchmarking %s: %w", s.Name(), err)
		}
		results = append(results, res)
	}
	return results, nil
}

func runStrategy(ctx context.Context, q db.Querier, s query.Strategy, store, product string, iterations int) (Result, error) {
	for i := 0; i < warmupRuns; i++ {
		if _, err := s.Run(ctx, q, store, product); err != nil {
			return Result{}, err
		}
	}

	// Microsecond samples up to one minute per query.
	histogram := hdrhistogram.New(1, 60_000_000, 3)
	var rows int

	logging.Debug().
		Str("strategy", s.Name()).
		Int("iterations", iterations).
		Msg("Benchmarking strategy")

	for i := 0; i < iterations; i++ {
		start := time.Now()
		out, err := s.Run(ctx, q, store, product)
		if err != nil {
			return Result{}, err
		}
		if err := histogram.RecordValue(time.Since(start).Microseconds()); err != nil {
			return Result{}, err
		}
		rows = len(out)
	}

	return Result{
		Strategy:   s.Name(),
		Iterations: iterations,
		Rows:       rows,
		P50:        time.Duration(histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:        time.Duration(histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:        time.Duration(histogram.ValueAtQuantile(99)) * time.Microsecond,
		Max:        time.Duration(histogram.Max()) * time.Microsecond,
	}, nil
}
