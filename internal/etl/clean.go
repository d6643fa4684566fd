package etl

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanBatch cleans one batch of raw transaction records. The output has
// the same length and order as the input.
//
// Product names are canonicalized to title case. Missing unit prices are
// imputed with the mean of the prices observed for the same product within
// this batch (never a historical average), rounded to two decimal places.
// Negative quantities become a positive magnitude plus IsReturn, and
// SaleAmount is derived from the already-rounded price.
//
// If any product group has no known price at all, the batch aborts with an
// ImputationError wrapping ErrImputationImpossible.
func CleanBatch(batchID string, raws []RawRecord) ([]CleanedRecord, error) {
	means, err := productPriceMeans(batchID, raws)
	if err != nil {
		return nil, err
	}

	// Casers are stateful, so build one per batch rather than sharing
	titleCaser := cases.Title(language.English)

	cleaned := make([]CleanedRecord, 0, len(raws))
	for _, r := range raws {
		price := means[r.ProductID]
		if r.UnitPrice != nil {
			price = r.UnitPrice.Round(2)
		}

		qty := r.Quantity
		isReturn := qty < 0
		if isReturn {
			qty = -qty
		}

		cleaned = append(cleaned, CleanedRecord{
			SaleID:          r.SaleID,
			SaleDate:        r.SaleDate,
			DateKey:         DateKey(r.SaleDate),
			ProductID:       r.ProductID,
			ProductName:     titleCaser.String(r.ProductName),
			ProductLine:     r.ProductLine,
			CustomerID:      r.CustomerID,
			CustomerName:    r.CustomerName,
			CustomerType:    r.CustomerType,
			Region:          r.Region,
			SalespersonID:   r.SalespersonID,
			SalespersonName: r.SalespersonName,
			Quantity:        qty,
			UnitPrice:       price,
			SaleAmount:      price.Mul(decimal.NewFromInt(int64(qty))).Round(2),
			IsReturn:        isReturn,
		})
	}

	return cleaned, nil
}

// productPriceMeans is the first pass of the two-pass imputation: it
// aggregates the present prices per product into an explicit mean map that
// the second pass applies by lookup.
//
// The mean deliberately includes prices from return records, matching the
// established cost-basis behavior of the pipeline.
func productPriceMeans(batchID string, raws []RawRecord) (map[string]decimal.Decimal, error) {
	type agg struct {
		sum   decimal.Decimal
		count int64
	}

	groups := make(map[string]*agg)
	for _, r := range raws {
		g := groups[r.ProductID]
		if g == nil {
			g = &agg{}
			groups[r.ProductID] = g
		}
		if r.UnitPrice != nil {
			g.sum = g.sum.Add(*r.UnitPrice)
			g.count++
		}
	}

	means := make(map[string]decimal.Decimal, len(groups))
	for productID, g := range groups {
		// A group with zero known prices means every record for that
		// product needs a price this batch cannot supply.
		if g.count == 0 {
			return nil, &ImputationError{BatchID: batchID, ProductID: productID}
		}
		means[productID] = g.sum.Div(decimal.NewFromInt(g.count)).Round(2)
	}

	return means, nil
}
