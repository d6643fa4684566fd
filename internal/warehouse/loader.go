package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rapiddx/salesmart/internal/etl"
	"github.com/rapiddx/salesmart/internal/logging"
)

// Loader writes derived row sets into the warehouse. It implements
// etl.Sink.
//
// Loads happen in two transactional units: the three entity dimensions plus
// the calendar dimension commit together, then the facts commit as a second
// unit. Every insert is insert-if-absent, so overlapping re-runs never
// raise duplicate-key errors and never double-count facts. If the fact unit
// fails after the dimensions committed, the dimensions remain; they are
// idempotent and harmless on their own.
type Loader struct {
	pool *pgxpool.Pool
}

// NewLoader creates a loader writing through the given pool.
func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{pool: pool}
}

// MergeDimensions loads the entity dimensions and the calendar dimension as
// one transaction. The order among product, customer and salesperson is
// irrelevant; all four must precede the facts.
func (l *Loader) MergeDimensions(ctx context.Context, batchID string, dims etl.Dimensions, calendar []etl.CalendarRow) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin dimension transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	productRows := make([][]any, 0, len(dims.Products))
	for _, p := range dims.Products {
		productRows = append(productRows, []any{p.ProductID, p.ProductName, p.ProductLine})
	}
	customerRows := make([][]any, 0, len(dims.Customers))
	for _, c := range dims.Customers {
		customerRows = append(customerRows, []any{c.CustomerID, c.CustomerName, c.CustomerType, c.Region})
	}
	salespersonRows := make([][]any, 0, len(dims.Salespeople))
	for _, s := range dims.Salespeople {
		salespersonRows = append(salespersonRows, []any{s.SalespersonID, s.SalespersonName, s.Region})
	}
	calendarRows := make([][]any, 0, len(calendar))
	for _, d := range calendar {
		calendarRows = append(calendarRows, []any{
			d.DateKey, d.FullDate, d.Year, d.Quarter, d.MonthNumber,
			d.MonthName, d.WeekNumber, d.DayOfMonth, d.DayOfWeekName, d.IsWeekend,
		})
	}

	merges := []struct {
		spec TableSpec
		rows [][]any
	}{
		{productsTable, productRows},
		{customersTable, customerRows},
		{salespeopleTable, salespersonRows},
		{datesTable, calendarRows},
	}

	for _, m := range merges {
		inserted, err := mergeRows(ctx, tx, m.spec, m.rows)
		if err != nil {
			return fmt.Errorf("batch %s: merge %s: %w", batchID, m.spec.Name, err)
		}
		logging.Debug().
			Str("batch_id", batchID).
			Str("table", m.spec.Name).
			Int("rows", len(m.rows)).
			Int64("inserted", inserted).
			Msg("Dimension merged")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("batch %s: commit dimensions: %w", batchID, err)
	}
	return nil
}

// InsertFacts loads the fact rows as a single transaction, skipping sale
// identifiers already present in the warehouse. Any failure rolls the whole
// unit back; no fact row from a failed batch may become visible.
func (l *Loader) InsertFacts(ctx context.Context, batchID string, facts []etl.CleanedRecord) (int64, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin fact transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]any, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, []any{
			f.SaleID, f.DateKey, f.ProductID, f.CustomerID, f.SalespersonID,
			f.Quantity, f.UnitPrice.StringFixed(2), f.SaleAmount.StringFixed(2), f.IsReturn,
		})
	}

	inserted, err := mergeRows(ctx, tx, factsTable, rows)
	if err != nil {
		return 0, fmt.Errorf("batch %s: insert %s: %w", batchID, factsTable.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("batch %s: commit facts: %w", batchID, err)
	}
	return inserted, nil
}

// mergeRows queues one insert-if-absent statement per row and reports how
// many rows were genuinely new. Rows that hit an existing key count as
// skipped, not as errors.
func mergeRows(ctx context.Context, tx pgx.Tx, spec TableSpec, rows [][]any) (int64, error) {
	sql := spec.InsertSQL()

	batch := &pgx.Batch{}
	for _, row := range rows {
		if err := spec.CheckRow(row); err != nil {
			return 0, err
		}
		batch.Queue(sql, row...)
	}

	results := tx.SendBatch(ctx, batch)
	var inserted int64
	for range rows {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, err
		}
		inserted += tag.RowsAffected()
	}

	return inserted, results.Close()
}
