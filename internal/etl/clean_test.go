package etl

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rawSale(saleID, productID string, qty int, unitPrice *decimal.Decimal) RawRecord {
	return RawRecord{
		SaleID:          saleID,
		SaleDate:        day(2021, time.March, 15),
		ProductID:       productID,
		ProductName:     "Panbio COVID-19 Ag Rapid Test",
		ProductLine:     "COVID-19",
		CustomerID:      "C101",
		CustomerName:    "City General Hospital",
		CustomerType:    "Hospital",
		Region:          "Northeast",
		SalespersonID:   "S501",
		SalespersonName: "John Smith",
		Quantity:        qty,
		UnitPrice:       unitPrice,
	}
}

func TestCleanBatchInvariants(t *testing.T) {
	raws := []RawRecord{
		rawSale("SALE-1", "P001", 3, price("19.99")),
		rawSale("SALE-2", "P001", -75, price("5.00")),
		rawSale("SALE-3", "P001", 0, price("4.50")),
		rawSale("SALE-4", "P001", 10, nil),
	}

	cleaned, err := CleanBatch("b1", raws)
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}
	if len(cleaned) != len(raws) {
		t.Fatalf("expected %d cleaned records, got %d", len(raws), len(cleaned))
	}

	for i, c := range cleaned {
		if c.SaleID != raws[i].SaleID {
			t.Errorf("record %d: order not preserved: %s != %s", i, c.SaleID, raws[i].SaleID)
		}
		if c.Quantity < 0 {
			t.Errorf("record %s: negative quantity %d", c.SaleID, c.Quantity)
		}
		if c.UnitPrice.IsNegative() {
			t.Errorf("record %s: negative unit price %s", c.SaleID, c.UnitPrice)
		}
		want := c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity))).Round(2)
		if !c.SaleAmount.Equal(want) {
			t.Errorf("record %s: sale amount %s, want %s", c.SaleID, c.SaleAmount, want)
		}
		if c.IsReturn != (raws[i].Quantity < 0) {
			t.Errorf("record %s: is_return %v for raw quantity %d", c.SaleID, c.IsReturn, raws[i].Quantity)
		}
	}
}

func TestCleanBatchSaleAmount(t *testing.T) {
	cleaned, err := CleanBatch("b1", []RawRecord{rawSale("SALE-1", "P001", 3, price("19.99"))})
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}
	if got := cleaned[0].SaleAmount; !got.Equal(decimal.RequireFromString("59.97")) {
		t.Errorf("sale amount = %s, want 59.97", got)
	}
}

func TestCleanBatchReturn(t *testing.T) {
	cleaned, err := CleanBatch("b1", []RawRecord{rawSale("SALE-1", "P001", -75, price("5.00"))})
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}
	c := cleaned[0]
	if !c.IsReturn {
		t.Error("expected is_return for negative quantity")
	}
	if c.Quantity != 75 {
		t.Errorf("quantity = %d, want 75", c.Quantity)
	}
	if !c.SaleAmount.Equal(decimal.RequireFromString("375.00")) {
		t.Errorf("sale amount = %s, want 375.00", c.SaleAmount)
	}
}

func TestCleanBatchZeroQuantityIsNotReturn(t *testing.T) {
	cleaned, err := CleanBatch("b1", []RawRecord{rawSale("SALE-1", "P001", 0, price("5.00"))})
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}
	c := cleaned[0]
	if c.IsReturn {
		t.Error("zero quantity must not be a return")
	}
	if !c.SaleAmount.IsZero() {
		t.Errorf("sale amount = %s, want 0", c.SaleAmount)
	}
}

func TestCleanBatchImputesGroupMean(t *testing.T) {
	raws := []RawRecord{
		rawSale("SALE-1", "P001", 1, price("10.00")),
		rawSale("SALE-2", "P001", 1, price("20.00")),
		rawSale("SALE-3", "P001", 1, nil),
		rawSale("SALE-4", "P002", 1, price("7.77")),
		rawSale("SALE-5", "P002", 1, nil),
	}

	cleaned, err := CleanBatch("b1", raws)
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}

	// Mean of only the present prices for the same product in this batch
	if got := cleaned[2].UnitPrice; !got.Equal(decimal.RequireFromString("15.00")) {
		t.Errorf("imputed P001 price = %s, want 15.00", got)
	}
	if got := cleaned[4].UnitPrice; !got.Equal(decimal.RequireFromString("7.77")) {
		t.Errorf("imputed P002 price = %s, want 7.77", got)
	}

	// Present prices are untouched
	if got := cleaned[0].UnitPrice; !got.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("present price changed to %s", got)
	}
}

func TestCleanBatchImputedMeanIsRounded(t *testing.T) {
	raws := []RawRecord{
		rawSale("SALE-1", "P001", 1, price("10.00")),
		rawSale("SALE-2", "P001", 1, price("10.01")),
		rawSale("SALE-3", "P001", 1, price("10.01")),
		rawSale("SALE-4", "P001", 3, nil),
	}

	cleaned, err := CleanBatch("b1", raws)
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}

	// (10.00 + 10.01 + 10.01) / 3 = 10.006..., rounded to 10.01, and the
	// amount uses the already-rounded price.
	if got := cleaned[3].UnitPrice; !got.Equal(decimal.RequireFromString("10.01")) {
		t.Errorf("imputed price = %s, want 10.01", got)
	}
	if got := cleaned[3].SaleAmount; !got.Equal(decimal.RequireFromString("30.03")) {
		t.Errorf("sale amount = %s, want 30.03", got)
	}
}

// Return records contribute their prices to the group mean. That mixes sale
// and return transactions into the cost basis; this test pins the behavior
// down so a change shows up as a failure rather than silently.
func TestImputeMeanIncludesReturnPrices(t *testing.T) {
	raws := []RawRecord{
		rawSale("SALE-1", "P001", -5, price("12.00")),
		rawSale("SALE-2", "P001", 5, nil),
	}

	cleaned, err := CleanBatch("b1", raws)
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}
	if got := cleaned[1].UnitPrice; !got.Equal(decimal.RequireFromString("12.00")) {
		t.Errorf("imputed price = %s, want 12.00", got)
	}
}

func TestCleanBatchAbortsWhenGroupHasNoPrices(t *testing.T) {
	raws := []RawRecord{
		rawSale("SALE-1", "P001", 1, price("10.00")),
		rawSale("SALE-2", "P999", 1, nil),
		rawSale("SALE-3", "P999", 2, nil),
	}

	cleaned, err := CleanBatch("b7", raws)
	if cleaned != nil {
		t.Error("expected no cleaned records on abort")
	}
	if !errors.Is(err, ErrImputationImpossible) {
		t.Fatalf("expected ErrImputationImpossible, got %v", err)
	}

	var impErr *ImputationError
	if !errors.As(err, &impErr) {
		t.Fatalf("expected *ImputationError, got %T", err)
	}
	if impErr.ProductID != "P999" {
		t.Errorf("offending product = %s, want P999", impErr.ProductID)
	}
	if impErr.BatchID != "b7" {
		t.Errorf("batch id = %s, want b7", impErr.BatchID)
	}
}

func TestCleanBatchCanonicalizesProductName(t *testing.T) {
	r1 := rawSale("SALE-1", "P001", 1, price("5.00"))
	r1.ProductName = "PANBIO COVID-19 AG RAPID TEST"
	r2 := rawSale("SALE-2", "P001", 1, price("5.00"))
	r2.ProductName = "panbio covid-19 ag rapid test"

	cleaned, err := CleanBatch("b1", []RawRecord{r1, r2})
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}
	if cleaned[0].ProductName != cleaned[1].ProductName {
		t.Errorf("casing not canonical: %q vs %q", cleaned[0].ProductName, cleaned[1].ProductName)
	}
	if cleaned[0].ProductName != "Panbio Covid-19 Ag Rapid Test" {
		t.Errorf("product name = %q, want title case", cleaned[0].ProductName)
	}
}

func TestCleanBatchDateKey(t *testing.T) {
	r := rawSale("SALE-1", "P001", 1, price("5.00"))
	r.SaleDate = day(2023, time.November, 7)

	cleaned, err := CleanBatch("b1", []RawRecord{r})
	if err != nil {
		t.Fatalf("CleanBatch failed: %v", err)
	}
	if cleaned[0].DateKey != 20231107 {
		t.Errorf("date key = %d, want 20231107", cleaned[0].DateKey)
	}
}
