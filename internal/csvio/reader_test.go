//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package csvio

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const goodInput = `transaction_id,transaction_date,product_name,price,store_name,sales_representative_name,client_name
TX1,2023-01-10,cappuccino,4.00,King St,John Smith,Jane Doe
TX2,2023-01-15,cappuccino,4.50,King St,John Smith,Jane Doe
`

func TestReadParsesRows(t *testing.T) {
	records, err := Read(strings.NewReader(goodInput))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.TransactionID != "TX1" {
		t.Errorf("TransactionID = %q", first.TransactionID)
	}
	if first.Date.Format(DateFormat) != "2023-01-10" {
		t.Errorf("Date = %v", first.Date)
	}
	if !first.Price.Equal(decimal.RequireFromString("4.00")) {
		t.Errorf("Price = %v", first.Price)
	}
	if first.StoreName != "King St" || first.ClientName != "Jane Doe" {
		t.Errorf("unexpected names: %+v", first)
	}
}

func TestReadShuffledHeader(t *testing.T) {
	input := `client_name,store_name,price,product_name,transaction_date,transaction_id,sales_representative_name
Jane Doe,King St,4.00,cappuccino,2023-01-10,TX1,John Smith
`
	records, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if records[0].TransactionID != "TX1" || records[0].SalesRepName != "John Smith" {
		t.Errorf("column remap failed: %+v", records[0])
	}
}

func TestReadTrimsWhitespace(t *testing.T) {
	input := "transaction_id,transaction_date,product_name,price,store_name,sales_representative_name,client_name\n" +
		"TX1 ,2023-01-10, cappuccino ,4.00,King St ,John Smith, Jane Doe \n"

	records, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	rec := records[0]
	if rec.TransactionID != "TX1" || rec.ProductName != "cappuccino" ||
		rec.StoreName != "King St" || rec.ClientName != "Jane Doe" {
		t.Errorf("fields not trimmed: %+v", rec)
	}
}

func TestReadRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "empty file",
			input: "",
		},
		{
			name: "missing column",
			input: `transaction_id,transaction_date,product_name,price,store_name,sales_representative_name
TX1,2023-01-10,cappuccino,4.00,King St,John Smith
`,
		},
		{
			name: "unknown column",
			input: `transaction_id,transaction_date,product_name,price,store_name,sales_representative_name,client_name,channel
TX1,2023-01-10,cappuccino,4.00,King St,John Smith,Jane Doe,web
`,
		},
		{
			name: "duplicate column",
			input: `transaction_id,transaction_id,product_name,price,store_name,sales_representative_name,client_name
TX1,TX1,cappuccino,4.00,King St,John Smith,Jane Doe
`,
		},
		{
			name: "bad date",
			input: `transaction_id,transaction_date,product_name,price,store_name,sales_representative_name,client_name
TX1,10/01/2023,cappuccino,4.00,King St,John Smith,Jane Doe
`,
		},
		{
			name: "bad price",
			input: `transaction_id,transaction_date,product_name,price,store_name,sales_representative_name,client_name
TX1,2023-01-10,cappuccino,four,King St,John Smith,Jane Doe
`,
		},
		{
			name: "short row",
			input: `transaction_id,transaction_date,product_name,price,store_name,sales_representative_name,client_name
TX1,2023-01-10,cappuccino,4.00
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
			if records != nil {
				t.Errorf("malformed input must yield no records, got %d", len(records))
			}
		})
	}
}

func TestReadAllOrNothing(t *testing.T) {
	// A bad row anywhere rejects the whole batch, including rows that
	// parsed before it.
	input := goodInput + "TX3,2023-01-20,latte,not-a-price,King St,John Smith,Jane Doe\n"

	records, err := Read(strings.NewReader(input))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if records != nil {
		t.Error("expected no records from a partially bad batch")
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error should name the offending line: %v", err)
	}
}
