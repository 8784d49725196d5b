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
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes relevant to the upload pipeline.
const (
	codeUniqueViolation = "23505"

	// Class 23 is integrity constraint violation.
	classIntegrityViolation = "23"
)

// Sentinel errors for the upload error taxonomy. Callers match with
// errors.Is; the wrapped chain retains the underlying pgconn error.
var (
	// ErrDuplicateKey is returned when a batch reuses an external
	// transaction id already present in the staging table.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrConcurrentInsertConflict is returned when a uniqueness
	// violation surfaces during an upsert stage. The existence checks
	// make this unreachable for a single writer; two racing upload
	// runs can both observe a name as absent, and the database
	// constraint rejects the loser.
	ErrConcurrentInsertConflict = errors.New("concurrent insert conflict")

	// ErrConstraintViolation covers any other integrity violation.
	ErrConstraintViolation = errors.New("constraint violation")
)

// IsUniqueViolation reports whether err is a Postgres unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// ClassifyLoadError maps a staging-load failure onto the error
// taxonomy. A unique violation here means the batch reused an external
// transaction id that is already staged.
func ClassifyLoadError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == codeUniqueViolation:
		return fmt.Errorf("%w: %s: %v", ErrDuplicateKey, pgErr.Detail, err)
	case strings.HasPrefix(pgErr.Code, classIntegrityViolation):
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	default:
		return err
	}
}

// ClassifyUpsertError maps an upsert-stage failure onto the error
// taxonomy. A unique violation here indicates a lost-update race
// between concurrent upload runs, not a duplicate in the input.
func ClassifyUpsertError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == codeUniqueViolation:
		return fmt.Errorf("%w: %s: %v", ErrConcurrentInsertConflict, pgErr.Detail, err)
	case strings.HasPrefix(pgErr.Code, classIntegrityViolation):
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	default:
		return err
	}
}
