package dto

import "github.com/shopspring/decimal"

// CreateItemRequest entrada para crear un ítem con stock inicial opcional.
// El stock inicial solo se registra si vienen tanto la cantidad como el motivo.
type CreateItemRequest struct {
	Name              string          `json:"name"`
	Weight            decimal.Decimal `json:"weight"`
	Price             decimal.Decimal `json:"price"`
	StorageLocationID string          `json:"storage_location"`
	InitialStock      NumberText      `json:"initial_stock"`
	Reason            string          `json:"reason"`
}

// UpdateItemRequest entrada para actualizar un ítem (campos opcionales).
type UpdateItemRequest struct {
	Name              *string          `json:"name"`
	Weight            *decimal.Decimal `json:"weight"`
	Price             *decimal.Decimal `json:"price"`
	StorageLocationID *string          `json:"storage_location"`
}

// ItemResponse salida de un ítem con su stock actual derivado del ledger.
type ItemResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Weight              decimal.Decimal `json:"weight"`
	Price               decimal.Decimal `json:"price"`
	StorageLocationID   string          `json:"storage_location"`
	StorageLocationName string          `json:"storage_location_name"`
	CurrentStock        *int64          `json:"current_stock"` // null si no se pudo determinar
	Created             string          `json:"created"`
	Updated             string          `json:"updated"`
	StockError          string          `json:"stock_error,omitempty"`
}

// ItemListResponse lista de ítems. StockError se informa si el stock no se pudo calcular;
// el listado sigue siendo utilizable.
type ItemListResponse struct {
	Items      []ItemResponse `json:"items"`
	StockError string         `json:"stock_error,omitempty"`
}

// CreateItemResponse salida de la creación; InitialChange es nil si no se pidió stock inicial.
// Si el ítem se creó pero el stock inicial no se pudo registrar, InitialChangeError lo indica.
type CreateItemResponse struct {
	Item               ItemResponse         `json:"item"`
	InitialChange      *StockChangeResponse `json:"initial_change,omitempty"`
	InitialChangeError string               `json:"initial_change_error,omitempty"`
}
