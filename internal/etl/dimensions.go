package etl

import "github.com/rapiddx/salesmart/internal/logging"

// ExtractDimensions derives the deduplicated product, customer and
// salesperson row sets from a cleaned batch. Rows appear in first-encounter
// order and attribute values are first-occurrence-wins: a later record with
// the same natural key but different descriptive attributes is logged at
// debug level and otherwise ignored. Attribute drift is a data-quality
// situation, never an error.
func ExtractDimensions(records []CleanedRecord) Dimensions {
	var dims Dimensions

	products := make(map[string]ProductRow)
	customers := make(map[string]CustomerRow)
	salespeople := make(map[string]SalespersonRow)

	for _, r := range records {
		p := ProductRow{ProductID: r.ProductID, ProductName: r.ProductName, ProductLine: r.ProductLine}
		if seen, ok := products[r.ProductID]; !ok {
			products[r.ProductID] = p
			dims.Products = append(dims.Products, p)
		} else if seen != p {
			logging.Debug().
				Str("product_id", r.ProductID).
				Str("sale_id", r.SaleID).
				Msg("Conflicting product attributes, keeping first occurrence")
		}

		c := CustomerRow{CustomerID: r.CustomerID, CustomerName: r.CustomerName, CustomerType: r.CustomerType, Region: r.Region}
		if seen, ok := customers[r.CustomerID]; !ok {
			customers[r.CustomerID] = c
			dims.Customers = append(dims.Customers, c)
		} else if seen != c {
			logging.Debug().
				Str("customer_id", r.CustomerID).
				Str("sale_id", r.SaleID).
				Msg("Conflicting customer attributes, keeping first occurrence")
		}

		s := SalespersonRow{SalespersonID: r.SalespersonID, SalespersonName: r.SalespersonName, Region: r.Region}
		if seen, ok := salespeople[r.SalespersonID]; !ok {
			salespeople[r.SalespersonID] = s
			dims.Salespeople = append(dims.Salespeople, s)
		} else if seen != s {
			logging.Debug().
				Str("salesperson_id", r.SalespersonID).
				Str("sale_id", r.SaleID).
				Msg("Conflicting salesperson attributes, keeping first occurrence")
		}
	}

	return dims
}
