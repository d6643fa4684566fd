package etl

import (
	"testing"
	"time"
)

func TestExtractDimensionsDeduplicates(t *testing.T) {
	records := []CleanedRecord{
		{SaleID: "SALE-1", SaleDate: day(2021, time.March, 1), ProductID: "P001", ProductName: "Test Kit A", ProductLine: "COVID-19",
			CustomerID: "C101", CustomerName: "City General Hospital", CustomerType: "Hospital", Region: "Northeast",
			SalespersonID: "S501", SalespersonName: "John Smith"},
		{SaleID: "SALE-2", SaleDate: day(2021, time.March, 2), ProductID: "P001", ProductName: "Test Kit A", ProductLine: "COVID-19",
			CustomerID: "C102", CustomerName: "State Health Department", CustomerType: "Government", Region: "South",
			SalespersonID: "S502", SalespersonName: "Maria Garcia"},
		{SaleID: "SALE-3", SaleDate: day(2021, time.March, 3), ProductID: "P002", ProductName: "Test Kit B", ProductLine: "Influenza",
			CustomerID: "C101", CustomerName: "City General Hospital", CustomerType: "Hospital", Region: "Northeast",
			SalespersonID: "S501", SalespersonName: "John Smith"},
	}

	dims := ExtractDimensions(records)
	if len(dims.Products) != 2 {
		t.Errorf("products = %d, want 2", len(dims.Products))
	}
	if len(dims.Customers) != 2 {
		t.Errorf("customers = %d, want 2", len(dims.Customers))
	}
	if len(dims.Salespeople) != 2 {
		t.Errorf("salespeople = %d, want 2", len(dims.Salespeople))
	}
}

func TestExtractDimensionsFirstOccurrenceWins(t *testing.T) {
	records := []CleanedRecord{
		{SaleID: "SALE-1", ProductID: "P001", ProductName: "Test Kit A", ProductLine: "COVID-19",
			CustomerID: "C101", CustomerName: "City General Hospital", CustomerType: "Hospital", Region: "Northeast",
			SalespersonID: "S501", SalespersonName: "John Smith"},
		// Same keys, conflicting attributes: must not abort, must not win
		{SaleID: "SALE-2", ProductID: "P001", ProductName: "Renamed Kit", ProductLine: "Other",
			CustomerID: "C101", CustomerName: "City Hospital", CustomerType: "Clinic", Region: "West",
			SalespersonID: "S501", SalespersonName: "J. Smith"},
	}

	dims := ExtractDimensions(records)
	if len(dims.Products) != 1 || len(dims.Customers) != 1 || len(dims.Salespeople) != 1 {
		t.Fatalf("expected one row per dimension, got %d/%d/%d",
			len(dims.Products), len(dims.Customers), len(dims.Salespeople))
	}
	if dims.Products[0].ProductName != "Test Kit A" {
		t.Errorf("product name = %s, want first occurrence", dims.Products[0].ProductName)
	}
	if dims.Customers[0].CustomerType != "Hospital" {
		t.Errorf("customer type = %s, want first occurrence", dims.Customers[0].CustomerType)
	}
	if dims.Salespeople[0].SalespersonName != "John Smith" {
		t.Errorf("salesperson name = %s, want first occurrence", dims.Salespeople[0].SalespersonName)
	}
}

func TestExtractDimensionsPreservesEncounterOrder(t *testing.T) {
	records := []CleanedRecord{
		{SaleID: "SALE-1", ProductID: "P002", CustomerID: "C102", SalespersonID: "S502"},
		{SaleID: "SALE-2", ProductID: "P001", CustomerID: "C101", SalespersonID: "S501"},
		{SaleID: "SALE-3", ProductID: "P002", CustomerID: "C102", SalespersonID: "S502"},
	}

	dims := ExtractDimensions(records)
	if dims.Products[0].ProductID != "P002" || dims.Products[1].ProductID != "P001" {
		t.Errorf("products out of encounter order: %+v", dims.Products)
	}
}
