package pocketbase

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.StockChangeRepository = (*StockChangeRepo)(nil)

// filterChunk limita la cantidad de ids por filtro para no exceder el largo de URL.
const filterChunk = 100

// StockChangeRepo implementa StockChangeRepository sobre stock_changes (solo alta y lectura).
type StockChangeRepo struct {
	client *Client
}

// NewStockChangeRepo construye el repositorio.
func NewStockChangeRepo(client *Client) *StockChangeRepo {
	return &StockChangeRepo{client: client}
}

// Create agrega un cambio al ledger.
func (r *StockChangeRepo) Create(ctx context.Context, c *entity.StockChange) error {
	body := map[string]any{
		"item":         c.ItemID,
		"stock_change": c.Delta,
		"reason":       c.Reason,
		"user":         c.UserID,
	}
	return createRecord(ctx, r.client, entity.CollectionStockChanges, body, c)
}

// ListByItem devuelve los cambios de un ítem.
func (r *StockChangeRepo) ListByItem(ctx context.Context, itemID string, opts repository.ListOptions) ([]*entity.StockChange, error) {
	filter := "item = " + Quote(itemID)
	return listAll[*entity.StockChange](ctx, r.client, entity.CollectionStockChanges, listQuery(opts, filter))
}

// ListByItems devuelve los cambios de todos los ítems con un filtro por conjunto de ids.
func (r *StockChangeRepo) ListByItems(ctx context.Context, itemIDs []string) ([]*entity.StockChange, error) {
	out := []*entity.StockChange{}
	for start := 0; start < len(itemIDs); start += filterChunk {
		end := start + filterChunk
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		filter := AnyOf("item", itemIDs[start:end])
		rows, err := listAll[*entity.StockChange](ctx, r.client, entity.CollectionStockChanges,
			listQuery(repository.ListOptions{}, filter))
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}
