package usecase

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// StockUseCase expone el ledger de stock en términos de DTOs.
type StockUseCase struct {
	ledger *inventory.StockLedger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(ledger *inventory.StockLedger) *StockUseCase {
	return &StockUseCase{ledger: ledger}
}

// Current devuelve el stock actual de un ítem.
func (uc *StockUseCase) Current(ctx context.Context, itemID string) (*dto.StockResponse, error) {
	n, err := uc.ledger.CurrentStock(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{ItemID: itemID, CurrentStock: n}, nil
}

// Batch devuelve el stock de varios ítems en una sola consulta.
func (uc *StockUseCase) Batch(ctx context.Context, in dto.StockBatchRequest) (*dto.StockBatchResponse, error) {
	stock, err := uc.ledger.CurrentStockBatch(ctx, in.ItemIDs)
	if err != nil {
		return nil, err
	}
	return &dto.StockBatchResponse{Stock: stock}, nil
}

// History devuelve el historial del ítem, el más reciente primero.
func (uc *StockUseCase) History(ctx context.Context, itemID string) (*dto.StockHistoryResponse, error) {
	changes, err := uc.ledger.HistoryFor(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := &dto.StockHistoryResponse{ItemID: itemID, Changes: make([]dto.StockChangeResponse, 0, len(changes))}
	for _, c := range changes {
		out.Changes = append(out.Changes, *toStockChangeResponse(c))
	}
	return out, nil
}

// Record agrega un cambio de stock a nombre de userID.
func (uc *StockUseCase) Record(ctx context.Context, itemID, userID string, in dto.RecordStockChangeRequest) (*dto.StockChangeResponse, error) {
	change, err := uc.ledger.RecordChangeFromRequest(ctx, itemID, userID, in)
	if err != nil {
		return nil, err
	}
	return toStockChangeResponse(change), nil
}
