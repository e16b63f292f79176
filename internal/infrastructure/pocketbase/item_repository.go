package pocketbase

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementa ItemRepository sobre la colección items.
type ItemRepo struct {
	client *Client
}

// NewItemRepo construye el repositorio.
func NewItemRepo(client *Client) *ItemRepo {
	return &ItemRepo{client: client}
}

func itemBody(it *entity.Item) map[string]any {
	// Los números viajan como números JSON (decimal serializa como string).
	return map[string]any{
		"name":             it.Name,
		"weight":           json.Number(it.Weight.String()),
		"price":            json.Number(it.Price.String()),
		"storage_location": it.StorageLocationID,
	}
}

// List devuelve todos los ítems.
func (r *ItemRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.Item, error) {
	return listAll[*entity.Item](ctx, r.client, entity.CollectionItems, listQuery(opts, ""))
}

// GetByID devuelve el ítem con su ubicación embebida.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	q := url.Values{"expand": {"storage_location"}}
	return getRecord[entity.Item](ctx, r.client, entity.CollectionItems, id, q)
}

// Create da de alta el ítem y completa id y timestamps con la respuesta.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	return createRecord(ctx, r.client, entity.CollectionItems, itemBody(it), it)
}

// Update modifica el ítem.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	return updateRecord(ctx, r.client, entity.CollectionItems, it.ID, itemBody(it), it)
}

// Delete elimina el ítem.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	return deleteRecord(ctx, r.client, entity.CollectionItems, strings.TrimSpace(id))
}
