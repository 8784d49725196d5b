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
	"fmt"
	"strings"
	"testing"

	"github.com/brewline/salespipe/internal/schema"
)

// The representative upsert once checked existence against the stores
// table, a copy-paste artifact of hand-written per-dimension SQL. The
// generated statement derives insert target, source column and
// existence target from one descriptor, so the three cannot drift.
func TestUpsertDimensionSQLUsesOneDescriptor(t *testing.T) {
	for _, dim := range schema.Dimensions {
		t.Run(dim.Table, func(t *testing.T) {
			sql := upsertDimensionSQL(dim)

			if !strings.Contains(sql, fmt.Sprintf("INSERT INTO %s (name)", dim.Table)) {
				t.Errorf("insert target missing: %s", sql)
			}
			if !strings.Contains(sql, fmt.Sprintf("SELECT 1 FROM %s d", dim.Table)) {
				t.Errorf("existence check targets a different table: %s", sql)
			}
			if strings.Count(sql, "t."+dim.StagingColumn) != 2 {
				t.Errorf("source column must feed both select and existence check: %s", sql)
			}

			// No other dimension table may appear in this statement.
			for _, other := range schema.Dimensions {
				if other.Table == dim.Table {
					continue
				}
				if strings.Contains(sql, other.Table) {
					t.Errorf("statement for %s references %s: %s", dim.Table, other.Table, sql)
				}
			}
		})
	}
}

func TestUpsertProductsSQLUsesCompositeKey(t *testing.T) {
	if !strings.Contains(upsertProductsSQL, "p.store_id = s.id AND p.name = t.product_name") {
		t.Error("products existence check must match the full (store_id, name) key")
	}
}

func TestUpsertFactsSQLScopesProductToStore(t *testing.T) {
	want := "JOIN products p ON p.name = t.product_name AND p.store_id = s.id"
	if !strings.Contains(upsertFactsSQL, want) {
		t.Error("fact resolution must resolve products within the row's store")
	}
	if !strings.Contains(countUnresolvedSQL, "p.name = t.product_name AND p.store_id = s.id") {
		t.Error("unresolved count must use the same product resolution as the insert")
	}
}
