//-------------------------------------------------------------------------
//
// salespipe
//
// Copyright (c) 2025 - 2026, Brewline Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyLoadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
		{
			name: "unique violation becomes duplicate key",
			err:  &pgconn.PgError{Code: "23505", Detail: "Key (transaction_id)=(TX1) already exists."},
			want: ErrDuplicateKey,
		},
		{
			name: "not null violation becomes constraint violation",
			err:  &pgconn.PgError{Code: "23502"},
			want: ErrConstraintViolation,
		},
		{
			name: "foreign key violation becomes constraint violation",
			err:  &pgconn.PgError{Code: "23503"},
			want: ErrConstraintViolation,
		},
		{
			name: "non-integrity pg error passes through",
			err:  &pgconn.PgError{Code: "42P01"},
			want: nil,
		},
		{
			name: "plain error passes through",
			err:  errors.New("connection reset"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyLoadError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected non-nil error")
			}
			if tt.want != nil && !errors.Is(got, tt.want) {
				t.Errorf("expected %v in chain, got %v", tt.want, got)
			}
			if tt.want == nil {
				// Pass-through errors must not gain a taxonomy sentinel.
				for _, sentinel := range []error{ErrDuplicateKey, ErrConcurrentInsertConflict, ErrConstraintViolation} {
					if errors.Is(got, sentinel) {
						t.Errorf("unexpected %v in chain for %v", sentinel, tt.err)
					}
				}
			}
		})
	}
}

func TestClassifyUpsertError(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505", Detail: "Key (name)=(King St) already exists."}

	got := ClassifyUpsertError(uniqueErr)
	if !errors.Is(got, ErrConcurrentInsertConflict) {
		t.Errorf("expected ErrConcurrentInsertConflict, got %v", got)
	}
	if errors.Is(got, ErrDuplicateKey) {
		t.Error("upsert unique violation must not classify as duplicate key")
	}

	checkErr := ClassifyUpsertError(&pgconn.PgError{Code: "23514"})
	if !errors.Is(checkErr, ErrConstraintViolation) {
		t.Errorf("expected ErrConstraintViolation, got %v", checkErr)
	}
}

func TestClassifyPreservesChain(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	wrapped := fmt.Errorf("loading staging rows: %w", pgErr)

	got := ClassifyLoadError(wrapped)
	var out *pgconn.PgError
	if !errors.As(got, &out) {
		t.Fatal("classified error lost the pgconn.PgError in its chain")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected true for 23505")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected false for 23503")
	}
	if IsUniqueViolation(errors.New("nope")) {
		t.Error("expected false for plain error")
	}
}
