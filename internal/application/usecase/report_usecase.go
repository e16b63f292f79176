package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// StockReportGenerator renderiza el reporte de stock (ej. PDF).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report *dto.StockReport) ([]byte, error)
}

// ReportUseCase genera el reporte de stock por ítem.
type ReportUseCase struct {
	items     repository.ItemRepository
	ledger    *inventory.StockLedger
	generator StockReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(items repository.ItemRepository, ledger *inventory.StockLedger, generator StockReportGenerator) *ReportUseCase {
	return &ReportUseCase{items: items, ledger: ledger, generator: generator, now: time.Now}
}

// BuildStockReport reúne ítems, ubicaciones y stock actual. A diferencia del listado,
// el reporte falla completo si el stock no se puede calcular.
func (uc *ReportUseCase) BuildStockReport(ctx context.Context, generatedBy string) (*dto.StockReport, error) {
	list, err := uc.items.List(ctx, repository.ListOptions{
		Sort:   repository.SortByName,
		Expand: []string{"storage_location"},
	})
	if err != nil {
		return nil, domain.RetrievalFailure("report.items", err)
	}
	ids := make([]string, 0, len(list))
	for _, it := range list {
		ids = append(ids, it.ID)
	}
	stock, err := uc.ledger.CurrentStockBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := &dto.StockReport{
		Title:       "Reporte de stock",
		GeneratedAt: uc.now(),
		GeneratedBy: generatedBy,
		Rows:        make([]dto.StockReportRow, 0, len(list)),
		TotalValue:  decimal.Zero,
	}
	for _, it := range list {
		r := dto.StockReportRow{Name: it.Name, Weight: it.Weight, Price: it.Price, Stock: stock[it.ID]}
		if loc := it.Expand.StorageLocation; loc != nil {
			r.Location = loc.Name
		}
		report.Rows = append(report.Rows, r)
		report.TotalUnits += r.Stock
		if r.Stock > 0 {
			report.TotalValue = report.TotalValue.Add(r.Price.Mul(decimal.NewFromInt(r.Stock)))
		}
	}
	return report, nil
}

// StockReportPDF genera el PDF del reporte y su nombre de archivo.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context, generatedBy string) (pdfBytes []byte, filename string, err error) {
	report, err := uc.BuildStockReport(ctx, generatedBy)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateStockReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("report: generar pdf: %w", err)
	}
	return pdfBytes, fmt.Sprintf("stock-%s.pdf", report.GeneratedAt.Format("20060102-1504")), nil
}
