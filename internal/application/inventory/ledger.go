package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// StockLedger calcula el stock disponible de los ítems a partir del ledger de cambios.
// Una falla de lectura se devuelve como domain.Failure (KindRetrieval); nunca se confunde con stock 0.
type StockLedger struct {
	changes repository.StockChangeRepository
}

// NewStockLedger construye el ledger sobre el puerto de stock_changes.
func NewStockLedger(changes repository.StockChangeRepository) *StockLedger {
	return &StockLedger{changes: changes}
}

// CurrentStock devuelve Σ Delta de los cambios del ítem (0 si no hay registros).
func (l *StockLedger) CurrentStock(ctx context.Context, itemID string) (int64, error) {
	if itemID == "" {
		return 0, domain.ErrInvalidInput
	}
	changes, err := l.changes.ListByItem(ctx, itemID, repository.ListOptions{})
	if err != nil {
		return 0, domain.RetrievalFailure("stock.current", err)
	}
	return inventory.SumDeltas(changes), nil
}

// CurrentStockBatch calcula el stock de varios ítems con una sola consulta filtrada por el
// conjunto de ids. Equivale a llamar CurrentStock por cada id; ids repetidos se colapsan.
func (l *StockLedger) CurrentStockBatch(ctx context.Context, itemIDs []string) (map[string]int64, error) {
	ids := uniqueIDs(itemIDs)
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}
	changes, err := l.changes.ListByItems(ctx, ids)
	if err != nil {
		return nil, domain.RetrievalFailure("stock.batch", err)
	}
	return inventory.SumByItem(ids, changes), nil
}

// HistoryFor devuelve los cambios del ítem, el más reciente primero, con el usuario embebido.
// Se puede llamar repetidamente: cada llamada consulta el ledger completo.
func (l *StockLedger) HistoryFor(ctx context.Context, itemID string) ([]*entity.StockChange, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	changes, err := l.changes.ListByItem(ctx, itemID, repository.ListOptions{
		Sort:   repository.SortNewestFirst,
		Expand: []string{"user"},
	})
	if err != nil {
		return nil, domain.RetrievalFailure("stock.history", err)
	}
	// El orden lo pide el puerto; se asegura aquí por si el adaptador no lo respeta.
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Created.After(changes[j].Created.Time)
	})
	if changes == nil {
		changes = []*entity.StockChange{}
	}
	return changes, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
