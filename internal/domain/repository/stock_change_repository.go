package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// StockChangeRepository define el puerto del ledger de stock. Solo lectura y alta:
// ningún camino de código modifica ni elimina un StockChange.
type StockChangeRepository interface {
	Create(ctx context.Context, change *entity.StockChange) error
	// ListByItem devuelve todos los cambios del ítem en el orden indicado.
	ListByItem(ctx context.Context, itemID string, opts ListOptions) ([]*entity.StockChange, error)
	// ListByItems devuelve en una sola consulta los cambios de todos los ítems indicados.
	ListByItems(ctx context.Context, itemIDs []string) ([]*entity.StockChange, error)
}
