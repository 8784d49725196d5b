//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package schema owns the normalized sales schema and the transient
// staging table, plus the table descriptors that drive the generic
// upsert stages in the pipeline.
package schema

import (
	"context"
	"fmt"

	"github.com/brewline/salespipe/internal/db"
)

// Version is bumped whenever the DDL below changes shape.
const Version = 1

// Table names shared by the pipeline and query packages.
const (
	StagingTable      = "transactions_staging"
	TransactionsTable = "transactions"
	ProductsTable     = "products"
)

// Staging column names, in input-file order.
const (
	ColTransactionID   = "transaction_id"
	ColTransactionDate = "transaction_date"
	ColProductName     = "product_name"
	ColPrice           = "price"
	ColStoreName       = "store_name"
	ColSalesRepName    = "sales_representative_name"
	ColClientName      = "client_name"
)

// StagingColumns lists every staging column. The CSV reader validates
// file headers against it and the reconciler validates rule columns
// against it (identifiers cannot be bound as query parameters).
var StagingColumns = []string{
	ColTransactionID,
	ColTransactionDate,
	ColProductName,
	ColPrice,
	ColStoreName,
	ColSalesRepName,
	ColClientName,
}

// IsStagingColumn reports whether name is a staging column.
func IsStagingColumn(name string) bool {
	for _, c := range StagingColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Dimension describes one name-keyed dimension table and the staging
// column that feeds it. Upserts derive both the source column and the
// existence-check target from the same descriptor, so the two can
// never point at different tables.
type Dimension struct {
	// Table is the dimension table, shaped (id SERIAL, name UNIQUE).
	Table string

	// StagingColumn is the staging column holding the names.
	StagingColumn string
}

// Dimensions lists the three dimension tables in upsert order.
var Dimensions = []Dimension{
	{Table: "stores", StagingColumn: ColStoreName},
	{Table: "clients", StagingColumn: ColClientName},
	{Table: "sales_representatives", StagingColumn: ColSalesRepName},
}

const createSchemaSQL = `
-- Dimension tables
CREATE TABLE IF NOT EXISTS clients (
    id   SERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS sales_representatives (
    id   SERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS stores (
    id   SERIAL PRIMARY KEY,
    name TEXT UNIQUE NOT NULL
);

-- A product name may repeat across stores but not within one store.
CREATE TABLE IF NOT EXISTS products (
    id       SERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    price    NUMERIC(10,2) NOT NULL,
    store_id INTEGER NOT NULL REFERENCES stores(id),

    UNIQUE (store_id, name)
);

-- Fact table, keyed by the external transaction id as supplied by the
-- source system.
CREATE TABLE IF NOT EXISTS transactions (
    id            VARCHAR(128) PRIMARY KEY,
    date          DATE NOT NULL,
    product_id    INTEGER NOT NULL REFERENCES products(id),
    store_id      INTEGER NOT NULL REFERENCES stores(id),
    client_id     INTEGER NOT NULL REFERENCES clients(id),
    sales_repr_id INTEGER NOT NULL REFERENCES sales_representatives(id)
);

CREATE INDEX IF NOT EXISTS transactions_client_store_date_idx
    ON transactions (client_id, store_id, date DESC);

-- Transient staging area mirroring the input file. Rows are promoted
-- by the pipeline and cleared by the operator, not by this tool.
CREATE TABLE IF NOT EXISTS transactions_staging (
    transaction_id            VARCHAR(128) PRIMARY KEY,
    transaction_date          DATE NOT NULL,
    product_name              TEXT NOT NULL,
    price                     NUMERIC(10,2) NOT NULL,
    store_name                TEXT NOT NULL,
    sales_representative_name TEXT NOT NULL,
    client_name               TEXT NOT NULL
);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS transactions_staging;
DROP TABLE IF EXISTS transactions;
DROP TABLE IF EXISTS products;
DROP TABLE IF EXISTS stores;
DROP TABLE IF EXISTS sales_representatives;
DROP TABLE IF EXISTS clients;
`

// Create provisions the full schema. CREATE IF NOT EXISTS makes it
// safe to re-run against an already provisioned database.
func Create(ctx context.Context, q db.Querier) error {
	if _, err := q.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Drop removes every table owned by this tool, facts first so foreign
// keys never dangle mid-drop.
func Drop(ctx context.Context, q db.Querier) error {
	if _, err := q.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
