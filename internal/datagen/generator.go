package datagen

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rapiddx/salesmart/internal/etl"
)

// Reference catalogs for the diagnostic-kit sales domain.
type product struct {
	id, name, line string
	cost           float64
}

type customer struct {
	id, name, ctype, region string
}

type salesperson struct {
	id, name, region string
}

var products = []product{
	{"P001", "Panbio COVID-19 Ag Rapid Test", "COVID-19", 4.50},
	{"P002", "BinaxNOW COVID-19 Ag Card", "COVID-19", 5.00},
	{"P003", "ID NOW COVID-19", "COVID-19", 35.00},
	{"P004", "BinaxNOW Influenza A&B Card", "Influenza", 15.20},
	{"P005", "ID NOW Influenza A&B 2", "Influenza", 40.00},
	{"P006", "BinaxNOW Strep A Test", "Strep A", 8.75},
	{"P007", "Panbio COVID-19/Flu A&B", "COVID-19", 18.00},
}

var customers = []customer{
	{"C101", "City General Hospital", "Hospital", "Northeast"},
	{"C102", "State Health Department", "Government", "South"},
	{"C103", "County Medical Clinic", "Clinic", "West"},
	{"C104", "MedSupply Distributors", "Distributor", "Midwest"},
	{"C105", "Metro Health System", "Hospital", "Northeast"},
	{"C106", "Rural Care Clinics", "Clinic", "South"},
	{"C107", "Federal Health Agency", "Government", "West"},
	{"C108", "Prime Diagnostics Inc", "Distributor", "Midwest"},
}

var salespeople = []salesperson{
	{"S501", "John Smith", "Northeast"},
	{"S502", "Maria Garcia", "South"},
	{"S503", "David Chen", "West"},
	{"S504", "Emily White", "Midwest"},
	{"S505", "Sarah Brown", "Northeast"},
	{"S506", "Carlos Rodriguez", "South"},
}

// SalesGenerator produces messy synthetic sales transactions: seasonal
// quantities, occasional missing prices, returns, and inconsistent product
// name casing. All randomness comes from the explicit seed, so a given seed
// always produces the same batch.
type SalesGenerator struct {
	faker *Faker
	start time.Time
	end   time.Time
	next  int
}

// NewSalesGenerator creates a generator over the default 2021-2023 window.
func NewSalesGenerator(seed uint64) *SalesGenerator {
	return &SalesGenerator{
		faker: NewFakerWithSeed(seed),
		start: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Generate produces n raw records. Successive calls continue the sale
// identifier sequence, so records from multiple batches never collide.
func (g *SalesGenerator) Generate(n int) []etl.RawRecord {
	records := make([]etl.RawRecord, 0, n)

	for ; n > 0; n-- {
		i := g.next
		g.next++

		saleDate := dateOnly(g.faker.DateRange(g.start, g.end))
		prod := Choose(g.faker, products)
		cust := Choose(g.faker, customers)
		rep := g.chooseRep(cust.region)

		qty := float64(g.faker.Int(50, 200))
		qty *= seasonality(prod.name, saleDate)

		// Messiness: periodic missing prices, returns and shouted names
		var unitPrice *decimal.Decimal
		if i%20 != 0 {
			p := decimal.NewFromFloat(prod.cost * g.faker.Float64(1.2, 1.5)).Round(2)
			unitPrice = &p
		}

		quantity := int(qty)
		if i%50 == 0 {
			quantity = -quantity
		}

		name := prod.name
		if i%10 == 0 {
			name = strings.ToUpper(name)
		}

		records = append(records, etl.RawRecord{
			SaleID:          fmt.Sprintf("SALE-%d", 20210000+i),
			SaleDate:        saleDate,
			ProductID:       prod.id,
			ProductName:     name,
			ProductLine:     prod.line,
			CustomerID:      cust.id,
			CustomerName:    cust.name,
			CustomerType:    cust.ctype,
			Region:          cust.region,
			SalespersonID:   rep.id,
			SalespersonName: rep.name,
			Quantity:        quantity,
			UnitPrice:       unitPrice,
		})
	}

	return records
}

// chooseRep picks a salesperson covering the customer's region.
func (g *SalesGenerator) chooseRep(region string) salesperson {
	var matching []salesperson
	for _, rep := range salespeople {
		if rep.region == region {
			matching = append(matching, rep)
		}
	}
	return Choose(g.faker, matching)
}

// seasonality scales quantities to mimic the observed demand curves: COVID
// tests peaked in 2021 and in winter months, flu tests follow flu season.
func seasonality(productName string, d time.Time) float64 {
	mult := 1.0
	month := d.Month()

	if strings.Contains(productName, "COVID-19") {
		switch d.Year() {
		case 2021:
			mult *= 3.0
		case 2022:
			mult *= 1.5
		}
		if month <= 2 || month >= 11 {
			mult *= 1.5
		}
	}

	if strings.Contains(productName, "Influenza") && (month <= 3 || month >= 10) {
		mult *= 2.0
	}

	return mult
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
