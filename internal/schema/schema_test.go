//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package schema

import (
	"strings"
	"testing"
)

func TestDimensionsFeedFromStagingColumns(t *testing.T) {
	for _, dim := range Dimensions {
		if !IsStagingColumn(dim.StagingColumn) {
			t.Errorf("dimension %s sources unknown staging column %s",
				dim.Table, dim.StagingColumn)
		}
		if !strings.Contains(createSchemaSQL, dim.Table) {
			t.Errorf("dimension table %s missing from DDL", dim.Table)
		}
	}
}

func TestDimensionTablesDistinct(t *testing.T) {
	tables := make(map[string]bool)
	columns := make(map[string]bool)
	for _, dim := range Dimensions {
		if tables[dim.Table] {
			t.Errorf("dimension table %s listed twice", dim.Table)
		}
		if columns[dim.StagingColumn] {
			t.Errorf("staging column %s feeds two dimensions", dim.StagingColumn)
		}
		tables[dim.Table] = true
		columns[dim.StagingColumn] = true
	}
}

func TestIsStagingColumn(t *testing.T) {
	for _, col := range StagingColumns {
		if !IsStagingColumn(col) {
			t.Errorf("IsStagingColumn(%q) = false", col)
		}
	}
	for _, col := range []string{"", "name", "stores", "price; DROP TABLE clients"} {
		if IsStagingColumn(col) {
			t.Errorf("IsStagingColumn(%q) = true", col)
		}
	}
}

func TestProductUniquenessIsComposite(t *testing.T) {
	// The products existence check relies on the composite key being
	// declared; a name-only unique index would reject the same product
	// name in a second store.
	if !strings.Contains(createSchemaSQL, "UNIQUE (store_id, name)") {
		t.Error("products table must declare UNIQUE (store_id, name)")
	}
}

func TestDropOrderRespectsForeignKeys(t *testing.T) {
	facts := strings.Index(dropSchemaSQL, TransactionsTable)
	products := strings.Index(dropSchemaSQL, ProductsTable)
	stores := strings.Index(dropSchemaSQL, "stores")

	if facts == -1 || products == -1 || stores == -1 {
		t.Fatal("drop DDL missing a table")
	}
	if facts > products || products > stores {
		t.Error("drop DDL must remove facts before products before stores")
	}
}
