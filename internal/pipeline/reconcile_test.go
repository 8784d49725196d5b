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
	"strings"
	"testing"
)

func TestCorrectionValidate(t *testing.T) {
	tests := []struct {
		name      string
		c         Correction
		wantError bool
	}{
		{
			name: "canonical price correction",
			c: Correction{
				MatchColumn: "product_name",
				MatchValue:  "cappuccino",
				SetColumn:   "price",
				SetValue:    "4.50",
			},
			wantError: false,
		},
		{
			name: "rename a store",
			c: Correction{
				MatchColumn: "store_name",
				MatchValue:  "King Street",
				SetColumn:   "store_name",
				SetValue:    "King St",
			},
			wantError: false,
		},
		{
			name: "unknown match column",
			c: Correction{
				MatchColumn: "product",
				MatchValue:  "cappuccino",
				SetColumn:   "price",
				SetValue:    "4.50",
			},
			wantError: true,
		},
		{
			name: "unknown set column",
			c: Correction{
				MatchColumn: "product_name",
				MatchValue:  "cappuccino",
				SetColumn:   "cost",
				SetValue:    "4.50",
			},
			wantError: true,
		},
		{
			name: "injection attempt in column",
			c: Correction{
				MatchColumn: "product_name='x'; DROP TABLE clients; --",
				MatchValue:  "cappuccino",
				SetColumn:   "price",
				SetValue:    "4.50",
			},
			wantError: true,
		},
		{
			name: "rewriting the staging key",
			c: Correction{
				MatchColumn: "product_name",
				MatchValue:  "cappuccino",
				SetColumn:   "transaction_id",
				SetValue:    "TX0",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantError && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestCorrectionSQLBindsValues(t *testing.T) {
	c := Correction{
		MatchColumn: "product_name",
		MatchValue:  "cappuccino",
		SetColumn:   "price",
		SetValue:    "4.50",
	}

	sql := correctionSQL(c)

	if sql != "UPDATE transactions_staging SET price = $1 WHERE product_name = $2" {
		t.Errorf("unexpected SQL: %s", sql)
	}
	// Values travel as bind parameters, never as SQL text.
	if strings.Contains(sql, "cappuccino") || strings.Contains(sql, "4.50") {
		t.Errorf("rule values leaked into SQL text: %s", sql)
	}
}
