package pocketbase

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.StorageLocationRepository = (*StorageLocationRepo)(nil)

// StorageLocationRepo implementa StorageLocationRepository sobre storage_locations.
// Lee ambas variantes de esquema; escribe en la variante indicada por cada entidad.
type StorageLocationRepo struct {
	client *Client
}

// NewStorageLocationRepo construye el repositorio.
func NewStorageLocationRepo(client *Client) *StorageLocationRepo {
	return &StorageLocationRepo{client: client}
}

// List devuelve todas las ubicaciones.
func (r *StorageLocationRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.StorageLocation, error) {
	return listAll[*entity.StorageLocation](ctx, r.client, entity.CollectionStorageLocations, listQuery(opts, ""))
}

// GetByID devuelve una ubicación.
func (r *StorageLocationRepo) GetByID(ctx context.Context, id string) (*entity.StorageLocation, error) {
	return getRecord[entity.StorageLocation](ctx, r.client, entity.CollectionStorageLocations, id, nil)
}

// Create da de alta la ubicación.
func (r *StorageLocationRepo) Create(ctx context.Context, loc *entity.StorageLocation) error {
	return createRecord(ctx, r.client, entity.CollectionStorageLocations, loc.WriteFields(loc.Schema), loc)
}

// Update modifica la ubicación.
func (r *StorageLocationRepo) Update(ctx context.Context, loc *entity.StorageLocation) error {
	return updateRecord(ctx, r.client, entity.CollectionStorageLocations, loc.ID, loc.WriteFields(loc.Schema), loc)
}

// Delete elimina la ubicación.
func (r *StorageLocationRepo) Delete(ctx context.Context, id string) error {
	return deleteRecord(ctx, r.client, entity.CollectionStorageLocations, id)
}
