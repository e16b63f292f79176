package entity

import "github.com/shopspring/decimal"

// Colecciones del almacén externo.
const (
	CollectionItems            = "items"
	CollectionStorageLocations = "storage_locations"
	CollectionStockChanges     = "stock_changes"
	CollectionUsers            = "users"
)

// Item representa un artículo del inventario. El stock no es un campo: se deriva del ledger.
type Item struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Weight            decimal.Decimal `json:"weight"` // kg, no negativo
	Price             decimal.Decimal `json:"price"`  // no negativo
	StorageLocationID string          `json:"storage_location"`
	Created           DateTime        `json:"created"`
	Updated           DateTime        `json:"updated"`
	Expand            ItemExpand      `json:"expand"`
}

// ItemExpand registros relacionados embebidos por expand=storage_location.
type ItemExpand struct {
	StorageLocation *StorageLocation `json:"storage_location,omitempty"`
}

// RecordID implementa la identidad usada por el reconciliador.
func (i Item) RecordID() string { return i.ID }

// CreatedAt devuelve el timestamp de creación.
func (i Item) CreatedAt() DateTime { return i.Created }
