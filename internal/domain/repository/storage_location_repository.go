package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// StorageLocationRepository define el puerto de acceso a la colección storage_locations (DIP).
type StorageLocationRepository interface {
	List(ctx context.Context, opts ListOptions) ([]*entity.StorageLocation, error)
	GetByID(ctx context.Context, id string) (*entity.StorageLocation, error)
	Create(ctx context.Context, location *entity.StorageLocation) error
	Update(ctx context.Context, location *entity.StorageLocation) error
	Delete(ctx context.Context, id string) error
}
