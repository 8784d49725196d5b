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

// Single pass over transactions joined to products: the spend total
// and the recency rank are window functions over the same scan, and
// the product name rides along for filtering, so neither the separate
// aggregate subquery nor the products join-back is needed.
const windowedSQL = `
WITH latest_trans AS (
    SELECT
        t.id,
        t.client_id,
        t.store_id,
        t.date,
        p.name AS product_name,
        SUM(p.price) OVER (PARTITION BY t.client_id) AS total_spent,
        ROW_NUMBER() OVER (PARTITION BY t.client_id, t.store_id ORDER BY t.date DESC) AS rn
    FROM transactions t
    JOIN products p ON p.id = t.product_id
)
SELECT
    c.id,
    c.name,
    lt.date,
    lt.total_spent
FROM latest_trans lt
JOIN clients c ON c.id = lt.client_id
JOIN stores s ON s.id = lt.store_id
WHERE lt.rn = 1
  AND s.name = $1
  AND lt.product_name = $2
ORDER BY lt.total_spent DESC`

type windowedStrategy struct{}

func (windowedStrategy) Name() string { return "windowed" }

func (windowedStrategy) Description() string {
	return "Single pass with windowed spend aggregate and recency ranking"
}

func (windowedStrategy) ComputesSpend() bool { return true }

func (windowedStrategy) Run(ctx context.Context, q db.Querier, store, product string) ([]Row, error) {
	rows, err := q.Query(ctx, windowedSQL, store, product)
	if err != nil {
		return nil, err
	}
	return collect(rows, true)
}

func init() {
	Register(windowedStrategy{})
}
