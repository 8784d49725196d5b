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

// Inner joins resolve every dimension name to its surrogate id; a
// staging row that fails any resolution simply falls out of the join.
// Facts are keyed by the external transaction id and never updated, so
// re-running with the same staging content inserts nothing.
const upsertFactsSQL = `
INSERT INTO transactions (id, date, product_id, store_id, client_id, sales_repr_id)
SELECT
    t.transaction_id,
    t.transaction_date,
    p.id,
    s.id,
    c.id,
    sr.id
FROM transactions_staging t
JOIN stores s ON s.name = t.store_name
JOIN products p ON p.name = t.product_name AND p.store_id = s.id
JOIN clients c ON c.name = t.client_name
JOIN sales_representatives sr ON sr.name = t.sales_representative_name
WHERE NOT EXISTS (
    SELECT 1 FROM transactions x WHERE x.id = t.transaction_id
)`

// Unresolved rows are the complement of the resolving join above:
// staged transactions not yet in the fact table whose names do not all
// resolve.
const countUnresolvedSQL = `
SELECT COUNT(*)
FROM transactions_staging t
LEFT JOIN stores s ON s.name = t.store_name
LEFT JOIN products p ON p.name = t.product_name AND p.store_id = s.id
LEFT JOIN clients c ON c.name = t.client_name
LEFT JOIN sales_representatives sr ON sr.name = t.sales_representative_name
WHERE NOT EXISTS (
    SELECT 1 FROM transactions x WHERE x.id = t.transaction_id
)
AND (s.id IS NULL OR p.id IS NULL OR c.id IS NULL OR sr.id IS NULL)`

// UpsertFacts resolves staged rows against the dimension tables and
// inserts the absent fact rows. Rows whose names fail to resolve are
// dropped from the insert; they are counted and reported, not errors,
// and stay in staging for a later run.
func UpsertFacts(ctx context.Context, q db.Querier) (inserted, unresolved int64, err error) {
	if err := q.QueryRow(ctx, countUnresolvedSQL).Scan(&unresolved); err != nil {
		return 0, 0, fmt.Errorf("counting unresolved staging rows: %w", err)
	}

	tag, err := q.Exec(ctx, upsertFactsSQL)
	if err != nil {
		return 0, unresolved, db.ClassifyUpsertError(fmt.Errorf("upserting facts: %w", err))
	}
	inserted = tag.RowsAffected()

	if unresolved > 0 {
		logging.Warn().
			Int64("rows", unresolved).
			Msg("Staging rows with unresolved dimension names were skipped")
	}

	logging.Debug().
		Int64("inserted", inserted).
		Int64("unresolved", unresolved).
		Msg("Upserted facts")

	return inserted, unresolved, nil
}
