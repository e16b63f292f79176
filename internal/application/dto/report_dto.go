package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReport datos del reporte de stock (PDF).
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	Rows        []StockReportRow
	TotalUnits  int64
	TotalValue  decimal.Decimal // Σ precio × stock de los ítems con stock positivo
}

// StockReportRow una línea del reporte.
type StockReportRow struct {
	Name     string
	Location string
	Weight   decimal.Decimal
	Price    decimal.Decimal
	Stock    int64
}
