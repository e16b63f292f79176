package entity

// StockChange es un registro del ledger de stock: inmutable, solo se agrega.
// Delta positivo suma stock, negativo lo resta. Las correcciones son nuevos registros.
type StockChange struct {
	ID      string            `json:"id"`
	ItemID  string            `json:"item"`
	Delta   int64             `json:"stock_change"`
	Reason  string            `json:"reason"`
	UserID  string            `json:"user"`
	Created DateTime          `json:"created"`
	Expand  StockChangeExpand `json:"expand"`
}

// StockChangeExpand registros relacionados embebidos (expand=user,item).
type StockChangeExpand struct {
	Item *Item `json:"item,omitempty"`
	User *User `json:"user,omitempty"`
}

// RecordID implementa la identidad usada por el reconciliador.
func (s StockChange) RecordID() string { return s.ID }

// CreatedAt devuelve el timestamp de creación.
func (s StockChange) CreatedAt() DateTime { return s.Created }
