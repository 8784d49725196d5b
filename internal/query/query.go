//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package query answers the recurring analytical question: for a given
// store and product, which clients bought it most recently and how
// much has each spent in total. Three registered strategies share one
// result contract and must return identical result sets; they differ
// only in evaluation plan.
package query

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/brewline/salespipe/internal/db"
)

// Row is one client in the answer set. TotalSpent is nil for
// strategies that do not compute spend.
type Row struct {
	ClientID   int
	ClientName string
	LatestDate time.Time
	TotalSpent *decimal.Decimal
}

// Strategy is one evaluation plan for the latest-purchase question.
type Strategy interface {
	// Name is the selector used on the command line.
	Name() string

	// Description summarizes the evaluation plan.
	Description() string

	// ComputesSpend reports whether result rows carry TotalSpent.
	ComputesSpend() bool

	// Run evaluates the query for an exact store and product name.
	// An empty result set is a normal outcome, not an error.
	Run(ctx context.Context, q db.Querier, store, product string) ([]Row, error)
}

var (
	registry = make(map[string]Strategy)
	mu       sync.RWMutex
)

// Register adds a strategy to the registry.
func Register(s Strategy) {
	mu.Lock()
	defer mu.Unlock()
	registry[s.Name()] = s
}

// Get retrieves a strategy by name.
func Get(name string) (Strategy, error) {
	mu.RLock()
	defer mu.RUnlock()

	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown query strategy: %s (available: %v)", name, Names())
	}
	return s, nil
}

// Names returns all registered strategy names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered strategies, sorted by name.
func All() []Strategy {
	mu.RLock()
	defer mu.RUnlock()

	strategies := make([]Strategy, 0, len(registry))
	for _, s := range registry {
		strategies = append(strategies, s)
	}
	sort.Slice(strategies, func(i, j int) bool {
		return strategies[i].Name() < strategies[j].Name()
	})
	return strategies
}

// collect drains rows into the shared result shape.
func collect(rows pgx.Rows, withSpend bool) ([]Row, error) {
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if withSpend {
			var spent decimal.Decimal
			if err := rows.Scan(&r.ClientID, &r.ClientName, &r.LatestDate, &spent); err != nil {
				return nil, err
			}
			r.TotalSpent = &spent
		} else {
			if err := rows.Scan(&r.ClientID, &r.ClientName, &r.LatestDate); err != nil {
				return nil, err
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
