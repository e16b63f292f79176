package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems, con el stock derivado del ledger.
type ItemUseCase struct {
	repo   repository.ItemRepository
	ledger *inventory.StockLedger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, ledger *inventory.StockLedger) *ItemUseCase {
	return &ItemUseCase{repo: repo, ledger: ledger}
}

// List lista todos los ítems (el más reciente primero) con su ubicación y stock actual.
// Si el stock no se puede calcular, la lista se devuelve igual con CurrentStock nil y StockError.
func (uc *ItemUseCase) List(ctx context.Context) (*dto.ItemListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ListOptions{
		Sort:   repository.SortNewestFirst,
		Expand: []string{"storage_location"},
	})
	if err != nil {
		return nil, domain.RetrievalFailure("items.list", err)
	}

	ids := make([]string, 0, len(list))
	for _, it := range list {
		ids = append(ids, it.ID)
	}
	stock, stockErr := uc.ledger.CurrentStockBatch(ctx, ids)

	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		res := toItemResponse(it)
		if stockErr == nil {
			n := stock[it.ID]
			res.CurrentStock = &n
		}
		items = append(items, *res)
	}
	out := &dto.ItemListResponse{Items: items}
	if stockErr != nil {
		out.StockError = failureMessage(stockErr)
	}
	return out, nil
}

// GetByID obtiene un ítem con su stock actual. Si el stock no se puede calcular, el ítem se
// devuelve igual con CurrentStock nil y StockError.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.RetrievalFailure("items.get", err)
	}
	res := toItemResponse(item)
	n, err := uc.ledger.CurrentStock(ctx, item.ID)
	if err != nil {
		res.StockError = failureMessage(err)
		return res, nil
	}
	res.CurrentStock = &n
	return res, nil
}

// Create crea un ítem. Si vienen stock inicial y motivo, registra el primer cambio del ledger
// a nombre de userID; un stock inicial inválido rechaza la creación completa.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.CreateItemResponse, error) {
	item := &entity.Item{
		Name:              strings.TrimSpace(in.Name),
		Weight:            in.Weight,
		Price:             in.Price,
		StorageLocationID: in.StorageLocationID,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	withStock := !in.InitialStock.IsEmpty() && strings.TrimSpace(in.Reason) != ""
	if withStock {
		if _, err := inventory.ParseDelta(in.InitialStock.String()); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, domain.WriteFailure("items.create", err)
	}
	out := &dto.CreateItemResponse{Item: *toItemResponse(item)}
	if !withStock {
		return out, nil
	}

	change, err := uc.ledger.RecordChange(ctx, inventory.RecordChangeInput{
		ItemID: item.ID,
		Delta:  in.InitialStock.String(),
		Reason: in.Reason,
		UserID: userID,
	})
	if err != nil {
		out.InitialChangeError = failureMessage(err)
		return out, nil
	}
	n := change.Delta
	out.Item.CurrentStock = &n
	out.InitialChange = toStockChangeResponse(change)
	return out, nil
}

// Update actualiza los campos enviados de un ítem.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.RetrievalFailure("items.get", err)
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Weight != nil {
		item.Weight = *in.Weight
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.StorageLocationID != nil {
		item.StorageLocationID = *in.StorageLocationID
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, domain.WriteFailure("items.update", err)
	}
	return toItemResponse(item), nil
}

// Delete elimina un ítem.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.WriteFailure("items.delete", err)
	}
	return nil
}

func validateItem(item *entity.Item) error {
	if item.Name == "" || item.Weight.IsNegative() || item.Price.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// failureMessage texto para el usuario; nunca expone la causa interna.
func failureMessage(err error) string {
	var f *domain.Failure
	if errors.As(err, &f) {
		return f.Message()
	}
	return "error inesperado"
}
