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
	"github.com/brewline/salespipe/internal/schema"
)

// Correction is one declarative reconciliation rule: rows whose match
// column equals the match value get the set column overwritten with
// the set value. Rules come from configuration, execute as bulk
// updates over the whole staging area, and assign constants, so
// re-applying a rule never changes state a second time.
type Correction struct {
	MatchColumn string `mapstructure:"match_column"`
	MatchValue  string `mapstructure:"match_value"`
	SetColumn   string `mapstructure:"set_column"`
	SetValue    string `mapstructure:"set_value"`
}

// Validate checks both column names against the staging schema.
// Column identifiers cannot be bound as query parameters, so anything
// outside the whitelist is rejected before it reaches SQL text.
func (c Correction) Validate() error {
	if !schema.IsStagingColumn(c.MatchColumn) {
		return fmt.Errorf("correction match column %q is not a staging column", c.MatchColumn)
	}
	if !schema.IsStagingColumn(c.SetColumn) {
		return fmt.Errorf("correction set column %q is not a staging column", c.SetColumn)
	}
	if c.SetColumn == schema.ColTransactionID {
		return fmt.Errorf("corrections may not rewrite %s", schema.ColTransactionID)
	}
	return nil
}

func (c Correction) String() string {
	return fmt.Sprintf("set %s=%q where %s=%q", c.SetColumn, c.SetValue, c.MatchColumn, c.MatchValue)
}

// correctionSQL builds the bulk update for a validated rule. Values
// stay bound as parameters; only whitelisted identifiers are inlined.
func correctionSQL(c Correction) string {
	return fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		schema.StagingTable, c.SetColumn, c.MatchColumn)
}

// ApplyCorrections runs the rules in order against the staging area
// and returns the total number of row updates performed.
func ApplyCorrections(ctx context.Context, q db.Querier, corrections []Correction) (int64, error) {
	var total int64
	for _, c := range corrections {
		if err := c.Validate(); err != nil {
			return total, err
		}

		tag, err := q.Exec(ctx, correctionSQL(c), c.SetValue, c.MatchValue)
		if err != nil {
			return total, fmt.Errorf("applying correction (%s): %w", c, err)
		}
		total += tag.RowsAffected()

		logging.Debug().
			Str("rule", c.String()).
			Int64("rows", tag.RowsAffected()).
			Msg("Applied correction")
	}

	if len(corrections) > 0 {
		logging.Info().
			Int("rules", len(corrections)).
			Int64("rows", total).
			Msg("Reconciled staging data")
	}

	return total, nil
}
