//-------------------------------------------------------------------------
//
// SalesMart Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse implements the star-schema side of the pipeline: table
// definitions, DDL, and the transactional, idempotent loader.
package warehouse

import (
	"fmt"
	"strings"
)

// TableSpec names a warehouse table together with its conflict key and
// insert column list. The loader builds its SQL from these specs and
// validates every row against them before writing, so a change in row
// composition fails loudly instead of silently misaligning columns.
type TableSpec struct {
	Name       string
	KeyColumns []string
	Columns    []string
}

// The fixed star schema: four dimensions and one fact table.
var (
	productsTable = TableSpec{
		Name:       "dim_products",
		KeyColumns: []string{"product_id"},
		Columns:    []string{"product_id", "product_name", "product_line"},
	}
	customersTable = TableSpec{
		Name:       "dim_customers",
		KeyColumns: []string{"customer_id"},
		Columns:    []string{"customer_id", "customer_name", "customer_type", "region"},
	}
	salespeopleTable = TableSpec{
		Name:       "dim_salespeople",
		KeyColumns: []string{"salesperson_id"},
		Columns:    []string{"salesperson_id", "salesperson_name", "region"},
	}
	datesTable = TableSpec{
		Name:       "dim_dates",
		KeyColumns: []string{"date_key"},
		Columns: []string{"date_key", "full_date", "year", "quarter", "month_number",
			"month_name", "week_number", "day_of_month", "day_of_week_name", "is_weekend"},
	}
	factsTable = TableSpec{
		Name:       "fact_sales",
		KeyColumns: []string{"sale_id"},
		Columns: []string{"sale_id", "date_key", "product_id", "customer_id",
			"salesperson_id", "quantity", "unit_price", "sale_amount", "is_return"},
	}
)

// InsertSQL returns the parameterized insert-if-absent statement for the
// table. Duplicate keys are absorbed by ON CONFLICT DO NOTHING; a re-run
// with overlapping data is expected steady state, not an error.
func (s TableSpec) InsertSQL() string {
	placeholders := make([]string, len(s.Columns))
	for i := range s.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		s.Name,
		strings.Join(s.Columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(s.KeyColumns, ", "))
}

// CheckRow validates a row's arity against the column list.
func (s TableSpec) CheckRow(args []any) error {
	if len(args) != len(s.Columns) {
		return fmt.Errorf("table %s: row has %d values for %d columns",
			s.Name, len(args), len(s.Columns))
	}
	return nil
}
