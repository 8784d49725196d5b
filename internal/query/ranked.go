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

// Two precomputed passes: a per-client/per-store recency ranking and a
// per-client lifetime spend aggregate, joined back to the dimensions
// for filtering. Avoids the per-row subquery but still scans
// transactions twice.
const rankedSQL = `
WITH latest_trans AS (
    SELECT
        t.id,
        t.client_id,
        t.store_id,
        t.product_id,
        t.date,
        ROW_NUMBER() OVER (PARTITION BY t.client_id, t.store_id ORDER BY t.date DESC) AS rn
    FROM transactions t
),
total_spent AS (
    SELECT
        t.client_id,
        SUM(p.price) AS total_spent
    FROM transactions t
    JOIN products p ON p.id = t.product_id
    GROUP BY t.client_id
)
SELECT
    c.id,
    c.name,
    lt.date,
    ts.total_spent
FROM latest_trans lt
JOIN total_spent ts ON ts.client_id = lt.client_id
JOIN clients c ON c.id = lt.client_id
JOIN stores s ON s.id = lt.store_id
JOIN products p ON p.id = lt.product_id
WHERE lt.rn = 1
  AND s.name = $1
  AND p.name = $2
ORDER BY ts.total_spent DESC`

type rankedStrategy struct{}

func (rankedStrategy) Name() string { return "ranked" }

func (rankedStrategy) Description() string {
	return "Separate recency ranking and spend aggregate passes, joined on client"
}

func (rankedStrategy) ComputesSpend() bool { return true }

func (rankedStrategy) Run(ctx context.Context, q db.Querier, store, product string) ([]Row, error) {
	rows, err := q.Query(ctx, rankedSQL, store, product)
	if err != nil {
		return nil, err
	}
	return collect(rows, true)
}

func init() {
	Register(rankedStrategy{})
}
