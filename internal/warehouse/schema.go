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

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema SQL for the sales star schema. Dimension tables carry natural
// primary keys; fact_sales references all four dimensions and keeps its own
// unique natural key on sale_id so re-runs cannot double-count.
const createSchemaSQL = `
-- Product Dimension
CREATE TABLE IF NOT EXISTS dim_products (
    product_id   VARCHAR(50) PRIMARY KEY,
    product_name VARCHAR(255) NOT NULL,
    product_line VARCHAR(100)
);

-- Customer Dimension
CREATE TABLE IF NOT EXISTS dim_customers (
    customer_id   VARCHAR(50) PRIMARY KEY,
    customer_name VARCHAR(255) NOT NULL,
    customer_type VARCHAR(100),
    region        VARCHAR(100)
);

-- Salesperson Dimension
CREATE TABLE IF NOT EXISTS dim_salespeople (
    salesperson_id   VARCHAR(50) PRIMARY KEY,
    salesperson_name VARCHAR(255) NOT NULL,
    region           VARCHAR(100)
);

-- Date Dimension
CREATE TABLE IF NOT EXISTS dim_dates (
    date_key         INTEGER PRIMARY KEY,
    full_date        DATE NOT NULL UNIQUE,
    year             INTEGER NOT NULL,
    quarter          INTEGER NOT NULL,
    month_number     INTEGER NOT NULL,
    month_name       VARCHAR(20) NOT NULL,
    week_number      INTEGER NOT NULL,
    day_of_month     INTEGER NOT NULL,
    day_of_week_name VARCHAR(20) NOT NULL,
    is_weekend       BOOLEAN NOT NULL
);

-- Sales Fact
CREATE TABLE IF NOT EXISTS fact_sales (
    sale_fact_id   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    sale_id        VARCHAR(50) NOT NULL UNIQUE,
    date_key       INTEGER NOT NULL REFERENCES dim_dates(date_key),
    product_id     VARCHAR(50) NOT NULL REFERENCES dim_products(product_id),
    customer_id    VARCHAR(50) NOT NULL REFERENCES dim_customers(customer_id),
    salesperson_id VARCHAR(50) NOT NULL REFERENCES dim_salespeople(salesperson_id),
    quantity       INTEGER NOT NULL,
    unit_price     NUMERIC(10, 2) NOT NULL,
    sale_amount    NUMERIC(12, 2) NOT NULL,
    is_return      BOOLEAN NOT NULL
);

-- Run metadata for diagnosing re-runs
CREATE TABLE IF NOT EXISTS etl_runs (
    batch_id       TEXT PRIMARY KEY,
    raw_records    INTEGER NOT NULL,
    facts_inserted BIGINT NOT NULL,
    facts_skipped  BIGINT NOT NULL,
    version        TEXT NOT NULL,
    loaded_at      TIMESTAMPTZ NOT NULL
);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS etl_runs;
DROP TABLE IF EXISTS fact_sales;
DROP TABLE IF EXISTS dim_dates;
DROP TABLE IF EXISTS dim_salespeople;
DROP TABLE IF EXISTS dim_customers;
DROP TABLE IF EXISTS dim_products;
`

// CreateSchema creates the warehouse tables if they don't already exist.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the warehouse tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}
