//-------------------------------------------------------------------------
//
// SalesMart Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rapiddx/salesmart/internal/etl"
	"github.com/rapiddx/salesmart/internal/logging"
	"github.com/rapiddx/salesmart/pkg/version"
)

// RecordRun stores the outcome of a completed pipeline run in etl_runs so
// re-runs can be diagnosed without replaying the batch. Re-recording the
// same batch id overwrites the previous entry.
func RecordRun(ctx context.Context, pool *pgxpool.Pool, res *etl.Result) error {
	_, err := pool.Exec(ctx, `
        INSERT INTO etl_runs (batch_id, raw_records, facts_inserted, facts_skipped, version, loaded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (batch_id) DO UPDATE SET
            raw_records    = EXCLUDED.raw_records,
            facts_inserted = EXCLUDED.facts_inserted,
            facts_skipped  = EXCLUDED.facts_skipped,
            version        = EXCLUDED.version,
            loaded_at      = EXCLUDED.loaded_at
    `, res.BatchID, res.RawRecords, res.FactsInserted, res.FactsSkipped,
		version.Short(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record run %s: %w", res.BatchID, err)
	}

	logging.Debug().
		Str("batch_id", res.BatchID).
		Int64("facts_inserted", res.FactsInserted).
		Msg("Saved run metadata")

	return nil
}

// GetRun retrieves the recorded counts for a batch id.
func GetRun(ctx context.Context, pool *pgxpool.Pool, batchID string) (rawRecords int, factsInserted, factsSkipped int64, err error) {
	err = pool.QueryRow(ctx, `
        SELECT raw_records, facts_inserted, facts_skipped
        FROM etl_runs WHERE batch_id = $1
    `, batchID).Scan(&rawRecords, &factsInserted, &factsSkipped)
	return rawRecords, factsInserted, factsSkipped, err
}
