//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package csvio reads transaction input files. A file either parses
// completely or yields nothing: the loader never sees a partial batch.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewline/salespipe/internal/schema"
)

// ErrMalformedInput is returned when a file fails to parse into the
// expected shape. The whole batch is rejected.
var ErrMalformedInput = errors.New("malformed input")

// DateFormat is the ISO calendar date layout used by input files.
const DateFormat = "2006-01-02"

// Record is one parsed input row, ready for staging.
type Record struct {
	TransactionID string
	Date          time.Time
	ProductName   string
	Price         decimal.Decimal
	StoreName     string
	SalesRepName  string
	ClientName    string
}

// ReadFile parses a transactions CSV file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read parses transactions CSV from r. The header must contain exactly
// the seven staging columns; column order is not significant.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedInput, err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, line, err)
		}

		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// headerIndex maps each staging column to its position in the file.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if !schema.IsStagingColumn(name) {
			return nil, fmt.Errorf("%w: unexpected column %q", ErrMalformedInput, name)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedInput, name)
		}
		index[name] = i
	}
	for _, name := range schema.StagingColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedInput, name)
		}
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (Record, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[index[name]])
	}

	date, err := time.Parse(DateFormat, field(schema.ColTransactionDate))
	if err != nil {
		return Record{}, fmt.Errorf("invalid transaction_date %q", field(schema.ColTransactionDate))
	}

	price, err := decimal.NewFromString(field(schema.ColPrice))
	if err != nil {
		return Record{}, fmt.Errorf("invalid price %q", field(schema.ColPrice))
	}

	return Record{
		TransactionID: field(schema.ColTransactionID),
		Date:          date,
		ProductName:   field(schema.ColProductName),
		Price:         price,
		StoreName:     field(schema.ColStoreName),
		SalesRepName:  field(schema.ColSalesRepName),
		ClientName:    field(schema.ColClientName),
	}, nil
}
