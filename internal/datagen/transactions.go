//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brewline/salespipe/internal/schema"
)

// Options controls sample file generation.
type Options struct {
	// Rows is the number of transaction rows to generate.
	Rows int

	// Seed makes generation reproducible; 0 uses a random seed.
	Seed uint64

	// Stores, Clients and Reps bound the dimension cardinalities.
	Stores  int
	Clients int
	Reps    int
}

// DefaultOptions returns generation defaults sized for a demo file.
func DefaultOptions() Options {
	return Options{
		Rows:    1000,
		Stores:  5,
		Clients: 40,
		Reps:    8,
	}
}

// The catalog every generated store sells, with list prices. The
// generator keeps one price per (store, product) so a file loads
// without relying on reconciliation.
var products = []struct {
	name  string
	price string
}{
	{"cappuccino", "4.50"},
	{"latte", "4.80"},
	{"espresso", "3.20"},
	{"flat white", "4.60"},
	{"mocha", "5.10"},
	{"cold brew", "4.20"},
	{"croissant", "3.80"},
	{"banana bread", "4.00"},
}

// WriteTransactions generates a transactions CSV to w. The first store
// is always "King St" and the catalog always includes "cappuccino", so
// generated files work with the tool's default query parameters.
func WriteTransactions(w io.Writer, opts Options) error {
	if opts.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}

	var faker *Faker
	if opts.Seed != 0 {
		faker = NewFakerWithSeed(opts.Seed)
	} else {
		faker = NewFaker()
	}
	// uuid v4 ids are effectively collision-free but not seedable;
	// seeded runs derive ids from the row counter instead.
	seeded := opts.Seed != 0

	stores := make([]string, 0, opts.Stores)
	stores = append(stores, "King St")
	for len(stores) < opts.Stores {
		stores = appendUnique(stores, faker.Street())
	}

	clients := make([]string, 0, opts.Clients)
	for len(clients) < opts.Clients {
		clients = appendUnique(clients, faker.Name())
	}

	reps := make([]string, 0, opts.Reps)
	for len(reps) < opts.Reps {
		reps = appendUnique(reps, faker.Name())
	}

	// Per-store price adjustment in cents, fixed per store so a
	// product has exactly one price within a store.
	markup := make([]decimal.Decimal, len(stores))
	for i := range stores {
		markup[i] = decimal.New(int64(faker.Int(-30, 30)), -2)
	}

	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	cw := csv.NewWriter(w)
	if err := cw.Write(schema.StagingColumns); err != nil {
		return err
	}

	// At most one visit per client per store per day, so recency
	// ranking within a (client, store) partition never ties.
	visited := make(map[string]bool)

	for i := 0; i < opts.Rows; i++ {
		storeIdx := faker.Int(0, len(stores)-1)
		client := Choose(faker, clients)

		var date time.Time
		for attempt := 0; ; attempt++ {
			date = faker.Date(start, end)
			key := fmt.Sprintf("%s|%s|%s", client, stores[storeIdx], date.Format(csvDateFormat))
			if !visited[key] {
				visited[key] = true
				break
			}
			if attempt > 1000 {
				return fmt.Errorf("date space exhausted; reduce rows or add clients")
			}
		}

		product := Choose(faker, products)
		price := decimal.RequireFromString(product.price).Add(markup[storeIdx])

		id := uuid.NewString()
		if seeded {
			id = fmt.Sprintf("TX-%06d", i+1)
		}

		row := []string{
			id,
			date.Format(csvDateFormat),
			product.name,
			price.StringFixed(2),
			stores[storeIdx],
			Choose(faker, reps),
			client,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

const csvDateFormat = "2006-01-02"

func appendUnique(list []string, candidate string) []string {
	for _, existing := range list {
		if existing == candidate {
			return list
		}
	}
	return append(list, candidate)
}
