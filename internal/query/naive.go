//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package query

import (
	"context"

	"github.com/brewline/salespipe/internal/db"
)

// One correlated MAX lookup per candidate row: for every matching
// transaction, recompute the client's latest date at that store and
// keep the rows that equal it. Spend is not computed.
const naiveSQL = `
SELECT
    c.id,
    c.name,
    t.date
FROM clients c
JOIN transactions t ON t.client_id = c.id
JOIN stores s ON s.id = t.store_id
JOIN products p ON p.id = t.product_id AND p.store_id = s.id
WHERE s.name = $1
  AND p.name = $2
  AND t.date = (
      SELECT MAX(t2.date)
      FROM transactions t2
      WHERE t2.client_id = t.client_id
        AND t2.store_id = t.store_id
  )`

type naiveStrategy struct{}

func (naiveStrategy) Name() string { return "naive" }

func (naiveStrategy) Description() string {
	return "Correlated subquery per candidate row; no spend total"
}

func (naiveStrategy) ComputesSpend() bool { return false }

func (naiveStrategy) Run(ctx context.Context, q db.Querier, store, product string) ([]Row, error) {
	rows, err := q.Query(ctx, naiveSQL, store, product)
	if err != nil {
		return nil, err
	}
	return collect(rows, false)
}

func init() {
	Register(naiveStrategy{})
}
