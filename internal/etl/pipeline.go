package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/rapiddx/salesmart/internal/logging"
)

// Sink is the persistent warehouse boundary the pipeline writes to. Both
// operations use insert-if-absent semantics keyed by the rows' natural or
// surrogate keys, and each wraps its writes in its own transaction: a
// failed call must leave nothing from the batch behind.
type Sink interface {
	// MergeDimensions writes the entity dimensions and the calendar
	// dimension as one transactional unit.
	MergeDimensions(ctx context.Context, batchID string, dims Dimensions, calendar []CalendarRow) error

	// InsertFacts writes the fact rows as a second transactional unit,
	// skipping sale identifiers already present. It returns the number
	// of genuinely new rows.
	InsertFacts(ctx context.Context, batchID string, facts []CleanedRecord) (int64, error)
}

// Result summarizes one pipeline run.
type Result struct {
	BatchID       string
	RawRecords    int
	Products      int
	Customers     int
	Salespeople   int
	CalendarDays  int
	FactsInserted int64
	FactsSkipped  int64
	Elapsed       time.Duration
}

// Pipeline sequences cleaning, dimension extraction, calendar synthesis and
// loading for one batch. The batch either flows through as a unit or is
// aborted; there is no partial-batch success.
type Pipeline struct {
	sink Sink
}

// NewPipeline creates a pipeline writing to the given sink.
func NewPipeline(sink Sink) *Pipeline {
	return &Pipeline{sink: sink}
}

// Run processes one batch of raw records end to end. Cleaning errors abort
// before any I/O; a load error aborts only the in-flight transactional
// unit, leaving previously committed state intact.
func (p *Pipeline) Run(ctx context.Context, batchID string, raws []RawRecord) (*Result, error) {
	start := time.Now()

	cleaned, err := CleanBatch(batchID, raws)
	if err != nil {
		return nil, err
	}

	dims := ExtractDimensions(cleaned)
	calendar := BuildCalendar(cleaned)

	if err := checkReferences(cleaned, dims, calendar); err != nil {
		return nil, fmt.Errorf("batch %s: %w", batchID, err)
	}

	logging.Info().
		Str("batch_id", batchID).
		Int("records", len(cleaned)).
		Int("products", len(dims.Products)).
		Int("customers", len(dims.Customers)).
		Int("salespeople", len(dims.Salespeople)).
		Int("calendar_days", len(calendar)).
		Msg("Batch cleaned")

	if err := p.sink.MergeDimensions(ctx, batchID, dims, calendar); err != nil {
		return nil, fmt.Errorf("batch %s: dimension load failed: %w", batchID, err)
	}

	inserted, err := p.sink.InsertFacts(ctx, batchID, cleaned)
	if err != nil {
		return nil, fmt.Errorf("batch %s: fact load failed: %w", batchID, err)
	}

	res := &Result{
		BatchID:       batchID,
		RawRecords:    len(raws),
		Products:      len(dims.Products),
		Customers:     len(dims.Customers),
		Salespeople:   len(dims.Salespeople),
		CalendarDays:  len(calendar),
		FactsInserted: inserted,
		FactsSkipped:  int64(len(cleaned)) - inserted,
		Elapsed:       time.Since(start),
	}

	logging.Info().
		Str("batch_id", batchID).
		Int64("facts_inserted", res.FactsInserted).
		Int64("facts_skipped", res.FactsSkipped).
		Dur("elapsed", res.Elapsed).
		Msg("Batch loaded")

	return res, nil
}

// checkReferences asserts that every fact key resolves against the row sets
// about to be loaded. The extractor and the calendar run over the same
// batch as the facts, so a gap here means the pipeline itself is broken.
func checkReferences(facts []CleanedRecord, dims Dimensions, calendar []CalendarRow) error {
	products := make(map[string]struct{}, len(dims.Products))
	for _, p := range dims.Products {
		products[p.ProductID] = struct{}{}
	}
	customers := make(map[string]struct{}, len(dims.Customers))
	for _, c := range dims.Customers {
		customers[c.CustomerID] = struct{}{}
	}
	salespeople := make(map[string]struct{}, len(dims.Salespeople))
	for _, s := range dims.Salespeople {
		salespeople[s.SalespersonID] = struct{}{}
	}
	dates := make(map[int]struct{}, len(calendar))
	for _, d := range calendar {
		dates[d.DateKey] = struct{}{}
	}

	for _, f := range facts {
		if _, ok := products[f.ProductID]; !ok {
			return fmt.Errorf("%w: sale %s product %s", ErrReferentialGap, f.SaleID, f.ProductID)
		}
		if _, ok := customers[f.CustomerID]; !ok {
			return fmt.Errorf("%w: sale %s customer %s", ErrReferentialGap, f.SaleID, f.CustomerID)
		}
		if _, ok := salespeople[f.SalespersonID]; !ok {
			return fmt.Errorf("%w: sale %s salesperson %s", ErrReferentialGap, f.SaleID, f.SalespersonID)
		}
		if _, ok := dates[f.DateKey]; !ok {
			return fmt.Errorf("%w: sale %s date key %d", ErrReferentialGap, f.SaleID, f.DateKey)
		}
	}

	return nil
}
