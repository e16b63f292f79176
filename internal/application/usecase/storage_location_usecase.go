package usecase

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/realtime"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// StorageLocationUseCase casos de uso CRUD para ubicaciones y sus vistas en tiempo real.
type StorageLocationUseCase struct {
	repo       repository.StorageLocationRepository
	subscriber repository.RealtimeSubscriber
	schema     string
	collation  language.Tag
	sink       func(error)
}

// NewStorageLocationUseCase construye el caso de uso. schema es la variante usada al escribir.
func NewStorageLocationUseCase(
	repo repository.StorageLocationRepository,
	subscriber repository.RealtimeSubscriber,
	schema string,
	sink func(error),
) *StorageLocationUseCase {
	if schema == "" {
		schema = entity.SchemaDescribed
	}
	return &StorageLocationUseCase{
		repo:       repo,
		subscriber: subscriber,
		schema:     schema,
		collation:  language.Spanish,
		sink:       sink,
	}
}

// List lista todas las ubicaciones en el orden pedido ("name" o el más reciente primero).
func (uc *StorageLocationUseCase) List(ctx context.Context, sort string) (*dto.StorageLocationListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ListOptions{Sort: normalizeSort(sort)})
	if err != nil {
		return nil, domain.RetrievalFailure("storage_locations.list", err)
	}
	items := make([]dto.StorageLocationResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStorageLocationResponse(s))
	}
	return &dto.StorageLocationListResponse{Items: items}, nil
}

// Create crea una ubicación en la variante de esquema configurada.
func (uc *StorageLocationUseCase) Create(ctx context.Context, in dto.CreateStorageLocationRequest) (*dto.StorageLocationResponse, error) {
	loc := &entity.StorageLocation{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Position:    in.Position,
		Location:    in.Location,
		Schema:      uc.schema,
	}
	if loc.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, domain.WriteFailure("storage_locations.create", err)
	}
	return toStorageLocationResponse(loc), nil
}

// Update actualiza los campos enviados de una ubicación.
func (uc *StorageLocationUseCase) Update(ctx context.Context, id string, in dto.UpdateStorageLocationRequest) (*dto.StorageLocationResponse, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.RetrievalFailure("storage_locations.get", err)
	}
	if in.Name != nil {
		loc.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		loc.Description = *in.Description
	}
	if in.Position != nil {
		loc.Position = *in.Position
	}
	if in.Location != nil {
		loc.Location = *in.Location
	}
	if loc.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	loc.Schema = uc.schema
	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, domain.WriteFailure("storage_locations.update", err)
	}
	return toStorageLocationResponse(loc), nil
}

// Delete elimina una ubicación.
func (uc *StorageLocationUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.WriteFailure("storage_locations.delete", err)
	}
	return nil
}

// Watch crea la vista en tiempo real de las ubicaciones (sin iniciar).
// El llamador debe invocar Start y, al terminar, Stop.
func (uc *StorageLocationUseCase) Watch(sort string) *realtime.Reconciler[entity.StorageLocation] {
	sort = normalizeSort(sort)
	order := realtime.NewestFirst[entity.StorageLocation]()
	if sort == repository.SortByName {
		order = realtime.ByName(func(s entity.StorageLocation) string { return s.Name }, uc.collation)
	}
	return realtime.New(realtime.Config[entity.StorageLocation]{
		Collection: entity.CollectionStorageLocations,
		Subscriber: uc.subscriber,
		Order:      order,
		ErrorSink:  uc.sink,
		Fetch: func(ctx context.Context) ([]entity.StorageLocation, error) {
			list, err := uc.repo.List(ctx, repository.ListOptions{Sort: sort})
			if err != nil {
				return nil, err
			}
			out := make([]entity.StorageLocation, 0, len(list))
			for _, s := range list {
				out = append(out, *s)
			}
			return out, nil
		},
	})
}

func normalizeSort(sort string) string {
	if strings.EqualFold(strings.TrimSpace(sort), repository.SortByName) {
		return repository.SortByName
	}
	return repository.SortNewestFirst
}
