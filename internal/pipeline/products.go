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
)

// The existence check matches the full (store_id, name) uniqueness key
// of the products table. Checking by name alone would suppress the
// same product name in a second store and collapse differently priced
// same-named products across stores.
//
// DISTINCT ON keeps one price per (store, product) should reconciled
// staging still carry more than one; the lowest wins deterministically.
const upsertProductsSQL = `
INSERT INTO products (name, price, store_id)
SELECT DISTINCT ON (s.id, t.product_name)
    t.product_name, t.price, s.id
FROM transactions_staging t
JOIN stores s ON s.name = t.store_name
WHERE NOT EXISTS (
    SELECT 1 FROM products p
    WHERE p.store_id = s.id AND p.name = t.product_name
)
ORDER BY s.id, t.product_name, t.price`

// UpsertProducts inserts staged (name, price, store) triples whose
// (store, name) key is not yet present. For keys that already exist
// the stored price is authoritative; the reconciler is the only stage
// that corrects prices.
func UpsertProducts(ctx context.Context, q db.Querier) (int64, error) {
	tag, err := q.Exec(ctx, upsertProductsSQL)
	if err != nil {
		return 0, db.ClassifyUpsertError(fmt.Errorf("upserting products: %w", err))
	}

	logging.Debug().
		Int64("inserted", tag.RowsAffected()).
		Msg("Upserted products")

	return tag.RowsAffected(), nil
}
