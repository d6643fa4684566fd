// Package etl implements the sales transform pipeline: field cleaning and
// price imputation, calendar synthesis, dimension extraction, and
// orchestration of the warehouse load.
package etl

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is a single sales transaction as it arrives from a source
// system. Fields are taken as-is: product names may have inconsistent
// casing, a negative quantity encodes a return, and the unit price may be
// unknown (nil).
type RawRecord struct {
	SaleID          string
	SaleDate        time.Time
	ProductID       string
	ProductName     string
	ProductLine     string
	CustomerID      string
	CustomerName    string
	CustomerType    string
	Region          string
	SalespersonID   string
	SalespersonName string
	Quantity        int
	UnitPrice       *decimal.Decimal
}

// CleanedRecord is a RawRecord after cleaning. Quantity is an unsigned
// magnitude with the sign moved into IsReturn, UnitPrice is always present
// (imputed if the raw record had none), and SaleAmount is derived from the
// rounded price. A cleaned record is also the fact row loaded into
// fact_sales.
type CleanedRecord struct {
	SaleID          string
	SaleDate        time.Time
	DateKey         int
	ProductID       string
	ProductName     string
	ProductLine     string
	CustomerID      string
	CustomerName    string
	CustomerType    string
	Region          string
	SalespersonID   string
	SalespersonName string
	Quantity        int
	UnitPrice       decimal.Decimal
	SaleAmount      decimal.Decimal
	IsReturn        bool
}

// CalendarRow is one day of the synthesized date dimension.
type CalendarRow struct {
	DateKey       int
	FullDate      time.Time
	Year          int
	Quarter       int
	MonthNumber   int
	MonthName     string
	WeekNumber    int
	DayOfMonth    int
	DayOfWeekName string
	IsWeekend     bool
}

// ProductRow is a row of the product dimension.
type ProductRow struct {
	ProductID   string
	ProductName string
	ProductLine string
}

// CustomerRow is a row of the customer dimension.
type CustomerRow struct {
	CustomerID   string
	CustomerName string
	CustomerType string
	Region       string
}

// SalespersonRow is a row of the salesperson dimension.
type SalespersonRow struct {
	SalespersonID   string
	SalespersonName string
	Region          string
}

// Dimensions holds the deduplicated dimension row sets extracted from one
// cleaned batch, in first-encounter order.
type Dimensions struct {
	Products    []ProductRow
	Customers   []CustomerRow
	Salespeople []SalespersonRow
}

// DateKey encodes a date as an integer YYYYMMDD surrogate key. The encoding
// is bijective on calendar days and order-preserving: sorting by key sorts
// by date.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
