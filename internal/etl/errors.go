package etl

import (
	"errors"
	"fmt"
)

// ErrImputationImpossible indicates a product group had no known unit price
// in the batch, so missing prices for that product cannot be imputed. The
// whole batch is aborted before any I/O.
var ErrImputationImpossible = errors.New("imputation impossible: no known unit price in batch")

// ErrReferentialGap indicates a fact row references a dimension or calendar
// key missing from the row sets about to be loaded. The extractor and the
// calendar synthesizer run over the same batch as the facts, so this is an
// internal invariant violation, not a data-quality condition.
var ErrReferentialGap = errors.New("referential gap: fact references missing dimension key")

// ImputationError reports which product in which batch made imputation
// impossible.
type ImputationError struct {
	BatchID   string
	ProductID string
}

func (e *ImputationError) Error() string {
	return fmt.Sprintf("batch %s: product %s: %v", e.BatchID, e.ProductID, ErrImputationImpossible)
}

func (e *ImputationError) Unwrap() error {
	return ErrImputationImpossible
}
